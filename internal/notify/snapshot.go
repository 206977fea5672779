package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus is the diagnostic view of one live notification.
type NotificationStatus struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Phase     string    `json:"phase"`
	Sticky    bool      `json:"sticky"`
	CreatedAt time.Time `json:"created_at"`
	TopText   string    `json:"top_text"`
}

// Snapshot is a point-in-time diagnostic view of the supervisor, taken on
// the coordinator's own turn.
type Snapshot struct {
	Backend       string               `json:"backend"`
	Started       time.Time            `json:"started"`
	Accepted      uint64               `json:"accepted"`
	Suppressed    uint64               `json:"suppressed"`
	Notifications []NotificationStatus `json:"notifications"`
}

// Status requests a snapshot from the running coordinator. It is safe to
// call from any goroutine; the snapshot itself is computed on the
// coordinator's turn, never by reaching into its state.
func (s *Supervisor) Status(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case s.queries <- reply:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *Supervisor) snapshot() Snapshot {
	snap := Snapshot{
		Backend:       s.backend.Name(),
		Started:       s.started,
		Accepted:      s.accepted,
		Suppressed:    s.suppressed,
		Notifications: make([]NotificationStatus, 0, len(s.live)),
	}
	for _, n := range s.live {
		snap.Notifications = append(snap.Notifications, NotificationStatus{
			ID:        n.ID,
			Kind:      n.Desc.Kind.String(),
			Phase:     n.Phase.String(),
			Sticky:    n.Sticky,
			CreatedAt: n.CreatedAt,
			TopText:   n.Desc.TopText,
		})
	}
	return snap
}
