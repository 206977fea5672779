// Package ipc provides helpers for the local Unix-socket channel the status
// CLI uses to talk to a running clipglance monitor instead of poking at its
// process. The channel carries newline-delimited JSON (see package status).
package ipc

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux / macOS: $TMPDIR/clipglance.sock (override with $CLIPGLANCE_SOCKET)
//   - Windows:       \\.\pipe\clipglance     (named pipe — not yet implemented)
func SocketPath() string {
	if s := os.Getenv("CLIPGLANCE_SOCKET"); s != "" {
		return s
	}
	if runtime.GOOS == "windows" {
		return `\\.\pipe\clipglance`
	}
	return filepath.Join(os.TempDir(), "clipglance.sock")
}

// IsRunning reports whether a clipglance monitor appears to be listening on
// the IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path, removing
// any stale socket file first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	// Remove stale socket from a previous (crashed) run.
	_ = os.Remove(path)
	return net.Listen("unix", path)
}
