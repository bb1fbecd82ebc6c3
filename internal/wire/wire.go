// Package wire reads and writes newline-delimited JSON messages over the
// host's stdio pipes.
//
// Wire format:
//
//	<json>\n
//
// Every line is a single message. Blank lines are skipped.
package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.klb.dev/clipring/internal/message"
)

// MaxMessageSize is the largest message we will read (16 MiB).
const MaxMessageSize = 16 * 1024 * 1024

// ErrTooLarge is returned for lines longer than MaxMessageSize.
var ErrTooLarge = errors.New("message too large")

// Conn frames messages over a reader and a writer. Reads and writes may run
// on different goroutines; writes are serialized.
type Conn struct {
	br *bufio.Reader
	mu sync.Mutex
	w  io.Writer
}

// New wraps r and w.
func New(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		br: bufio.NewReaderSize(r, 64*1024),
		w:  w,
	}
}

// WriteResponse serialises resp to JSON and writes it followed by a newline.
func (c *Conn) WriteResponse(resp *message.Response) error {
	raw, err := resp.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return c.writeLine(raw)
}

// WriteRequest serialises req to JSON and writes it followed by a newline.
func (c *Conn) WriteRequest(req *message.Request) error {
	raw, err := req.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return c.writeLine(raw)
}

func (c *Conn) writeLine(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.w.Write(append(raw, '\n'))
	return err
}

// ReadRequest reads one request. It returns io.EOF once the host closes the
// pipe. A malformed line yields a decode error; the next call reads on.
func (c *Conn) ReadRequest() (*message.Request, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeRequest(line)
}

// ReadResponse reads one response.
func (c *Conn) ReadResponse() (*message.Response, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeResponse(line)
}

func (c *Conn) readLine() ([]byte, error) {
	for {
		line, err := c.readRaw()
		if err != nil {
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
	}
}

// readRaw reads one newline-terminated line. A final line without a newline
// is returned as is; an oversized line is consumed and reported.
func (c *Conn) readRaw() ([]byte, error) {
	var buf []byte
	for {
		chunk, err := c.br.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxMessageSize {
			if errors.Is(err, bufio.ErrBufferFull) {
				if derr := c.discardLine(); derr != nil && !errors.Is(derr, io.EOF) {
					return nil, derr
				}
			}
			return nil, fmt.Errorf("%w (over %d bytes)", ErrTooLarge, MaxMessageSize)
		}
		buf = append(buf, chunk...)
		switch {
		case err == nil:
			return buf, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(buf) > 0:
			return buf, nil
		default:
			return nil, err
		}
	}
}

func (c *Conn) discardLine() error {
	for {
		_, err := c.br.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}
