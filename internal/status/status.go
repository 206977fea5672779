// Package status defines the request/response envelope spoken over the
// local IPC socket, and serves it for a running supervisor.
//
// Every message is newline-delimited JSON: exactly one line, <json>\n.
package status

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/clipglance/clipglance/internal/ipc"
	"github.com/clipglance/clipglance/internal/notify"
)

const (
	// TypeStatus is the only request type.
	TypeStatus = "STATUS"

	readDeadline  = 5 * time.Second
	writeDeadline = 5 * time.Second
	queryTimeout  = 2 * time.Second
)

// Request is the client side of the envelope.
type Request struct {
	Type string `json:"type"`
}

// Response is the server side of the envelope.
type Response struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	notify.Snapshot
	Error string `json:"error,omitempty"`
}

// Serve answers status requests on ln until it is closed.
func Serve(ln net.Listener, version string, sup *notify.Supervisor) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handle(conn, version, sup)
	}
}

func handle(conn net.Conn, version string, sup *notify.Supervisor) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil || req.Type != TypeStatus {
		writeResponse(conn, &Response{Error: "unknown request"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	snap, err := sup.Status(ctx)
	if err != nil {
		slog.Warn("status query failed", "err", err)
		writeResponse(conn, &Response{Error: err.Error()})
		return
	}

	hostname, _ := os.Hostname()
	writeResponse(conn, &Response{
		Hostname: hostname,
		Version:  version,
		Snapshot: snap,
	})
}

func writeResponse(conn net.Conn, resp *Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, _ = conn.Write(append(raw, '\n'))
}

// Query dials the IPC socket and fetches the monitor's status.
func Query(ctx context.Context) (*Response, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", ipc.SocketPath())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", ipc.SocketPath(), err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req, _ := json.Marshal(Request{Type: TypeStatus})
	if _, err := conn.Write(append(req, '\n')); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("response decode: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("monitor: %s", resp.Error)
	}
	return &resp, nil
}
