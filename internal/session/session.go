// Package session serves one editor host over a wire connection.
//
// Requests, settings reloads and system clipboard captures all funnel into a
// single loop, so the clipboard only ever changes between commands.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"go.klb.dev/clipring/internal/app"
	"go.klb.dev/clipring/internal/command"
	"go.klb.dev/clipring/internal/editor"
	"go.klb.dev/clipring/internal/message"
	"go.klb.dev/clipring/internal/wire"
)

// Session answers requests from one host.
type Session struct {
	app  *app.Context
	conn *wire.Conn
}

// New returns a session serving a over conn.
func New(a *app.Context, conn *wire.Conn) *Session {
	return &Session{app: a, conn: conn}
}

type inbound struct {
	req *message.Request
	err error
}

// Run serves until the host closes its end, ctx is cancelled or writing a
// response fails. A closed input is not an error.
func (s *Session) Run(ctx context.Context) error {
	reqs := make(chan inbound)
	done := make(chan struct{})
	defer close(done)
	go s.read(reqs, done)

	var captures <-chan string
	if s.app.System != nil {
		captures = s.app.System.Watch()
	}

	slog.Info("session started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("session cancelled")
			return ctx.Err()

		case in, ok := <-reqs:
			if !ok {
				slog.Info("host closed the session")
				return nil
			}
			resp := s.handle(in)
			if resp == nil {
				continue
			}
			if err := s.conn.WriteResponse(resp); err != nil {
				return err
			}

		case <-s.app.Settings.Changes():
			s.app.ApplySettings()

		case text := <-captures:
			if !s.app.Settings.Values().CaptureSystem {
				continue
			}
			s.app.Dispatcher.Capture(text)
		}
	}
}

// read feeds requests to the loop. It closes reqs at end of input or on a
// read failure the stream cannot recover from.
func (s *Session) read(reqs chan<- inbound, done <-chan struct{}) {
	defer close(reqs)
	for {
		req, err := s.conn.ReadRequest()
		if errors.Is(err, io.EOF) {
			return
		}
		var syntax *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		recoverable := err == nil || errors.Is(err, wire.ErrTooLarge) ||
			errors.As(err, &syntax) || errors.As(err, &typeErr)
		if !recoverable {
			slog.Error("reading request failed", "err", err)
			return
		}
		select {
		case reqs <- inbound{req: req, err: err}:
		case <-done:
			return
		}
	}
}

func (s *Session) handle(in inbound) *message.Response {
	if in.err != nil {
		slog.Warn("bad request", "err", in.err)
		return message.ErrorResponse(0, "bad request: %v", in.err)
	}
	req := in.req

	switch req.Type {
	case message.TypePing:
		return &message.Response{ID: req.ID, Type: message.TypePong}
	case message.TypeCommand:
		return s.command(req)
	default:
		slog.Warn("unknown request type", "id", req.ID, "type", req.Type)
		return message.ErrorResponse(req.ID, "unknown request type %q", req.Type)
	}
}

func (s *Session) command(req *message.Request) *message.Response {
	var args command.Args
	if len(req.Args) > 0 {
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return message.ErrorResponse(req.ID, "bad args: %v", err)
		}
	}

	buf := req.Buffer()
	ui := &editor.Recorder{}
	s.app.Dispatcher.Run(buf, ui, req.Operation, args)

	resp := &message.Response{
		ID:          req.ID,
		Type:        message.TypeResult,
		Edits:       buf.Edits(),
		Status:      ui.Statuses,
		Errors:      ui.Errors,
		Console:     ui.ConsoleLines,
		Placeholder: ui.Placeholder,
		Choices:     ui.Choices,
	}
	if len(resp.Edits) > 0 {
		resp.Selections = buf.Selections()
	}
	return resp
}
