// Package presenter defines the contract between the notification core and
// the rendering layer. The core drives rendering only through the Presenter
// command set; the rendering layer reports back only through Events on a
// queue owned by the core. Both directions are non-blocking.
package presenter

import (
	"github.com/google/uuid"

	"github.com/clipglance/clipglance/internal/classify"
)

// EventKind identifies a completion or interaction event from the
// presentation layer.
type EventKind int

const (
	// EnterCompleted reports that the entry transition finished.
	EnterCompleted EventKind = iota
	// ExitCompleted reports that the exit transition finished.
	ExitCompleted
	// DismissClicked reports a click on the dismiss zone.
	DismissClicked
	// PinToggleClicked reports a click on the pin interaction zone.
	PinToggleClicked
	// CopyPerformed reports an in-place "copy selection" action on a pinned
	// notification.
	CopyPerformed
)

func (k EventKind) String() string {
	switch k {
	case EnterCompleted:
		return "enter-completed"
	case ExitCompleted:
		return "exit-completed"
	case DismissClicked:
		return "dismiss-clicked"
	case PinToggleClicked:
		return "pin-toggle-clicked"
	case CopyPerformed:
		return "copy-performed"
	default:
		return "unknown"
	}
}

// Event is delivered from the presentation layer to the coordinator.
type Event struct {
	Kind EventKind
	ID   uuid.UUID

	// Text carries the selected text for CopyPerformed when the presenter
	// wants the core to perform the clipboard write on its behalf. Empty
	// when the presenter wrote the clipboard itself.
	Text string
}

// Presenter is the command surface the core drives. Implementations must
// not block: transitions complete asynchronously and are acknowledged with
// EnterCompleted/ExitCompleted events.
type Presenter interface {
	// Create materialises a notification for the given descriptor with the
	// given background theme. The id is minted by the supervisor and keys
	// every later command and event.
	Create(id uuid.UUID, d classify.Descriptor, theme int)

	// UpdateBottomText replaces the bottom line of a live notification.
	UpdateBottomText(id uuid.UUID, text string)

	// BeginEnter starts the entry transition.
	BeginEnter(id uuid.UUID)

	// BeginExit starts the exit transition. Repeated calls for the same id
	// must be tolerated.
	BeginExit(id uuid.UUID)

	// SetSticky toggles the pinned treatment (selection, editing, animated
	// border). When turning sticky off, d is the descriptor to restore —
	// any edits made while pinned are discarded.
	SetSticky(id uuid.UUID, on bool, d classify.Descriptor)

	// Dispose releases all presentation resources for the id.
	Dispose(id uuid.UUID)
}
