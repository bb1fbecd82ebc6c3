// Package message defines the clipring host protocol.
//
// The editor host writes requests to clipring's stdin and reads responses
// from its stdout. Every message is exactly one line: <json>\n
//
// A command request carries the view text and its selections, offsets
// counted in characters. Overlapping selections are merged before the command
// runs. The response carries the edits to apply in order, the selections to
// set afterwards and the messages to show. When a paste opens the choice menu
// the response carries the choices instead, and the host answers with a new
// paste request whose args hold the picked rank ({"nth": N}) or {"nth": null}
// when dismissed.
package message

import (
	"encoding/json"
	"fmt"

	"go.klb.dev/clipring/internal/editor"
)

// Type identifies the kind of message.
type Type string

const (
	TypeCommand Type = "command"
	TypePing    Type = "ping"
	TypePong    Type = "pong"
	TypeResult  Type = "result"
	TypeError   Type = "error"
)

// Request is sent by the host.
type Request struct {
	ID   uint64 `json:"id"`
	Type Type   `json:"type"`

	// command
	Operation  string          `json:"operation,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Text       string          `json:"text,omitempty"`
	Selections []editor.Region `json:"selections,omitempty"`
}

// Response is sent by clipring. ID echoes the request it answers.
type Response struct {
	ID   uint64 `json:"id"`
	Type Type   `json:"type"`

	// result
	Edits       []editor.Edit   `json:"edits,omitempty"`
	Selections  []editor.Region `json:"selections,omitempty"`
	Status      []string        `json:"status,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
	Console     []string        `json:"console,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Choices     []editor.Choice `json:"choices,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

// Encode serialises the response to JSON without a trailing newline.
func (r *Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Encode serialises the request to JSON without a trailing newline.
func (r *Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRequest deserialises a request from raw JSON bytes.
func DecodeRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("request decode: %w", err)
	}
	return &r, nil
}

// DecodeResponse deserialises a response from raw JSON bytes.
func DecodeResponse(b []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("response decode: %w", err)
	}
	return &r, nil
}

// Buffer returns an editor buffer over the request's text and selections.
// A command without selections gets a buffer without selections.
func (r *Request) Buffer() *editor.Buffer {
	if len(r.Selections) == 0 {
		b := editor.NewBuffer(r.Text)
		b.SetSelections(nil)
		return b
	}
	return editor.NewBuffer(r.Text, r.Selections...)
}

// ErrorResponse answers id with a protocol error.
func ErrorResponse(id uint64, format string, args ...any) *Response {
	return &Response{ID: id, Type: TypeError, Error: fmt.Sprintf(format, args...)}
}
