package pool

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// request is one task frame sent from the parent to a worker process.
type request[T any] struct {
	Index int `json:"index"`
	Task  T   `json:"task"`
}

// response is the reply frame for a single request.
type response[R any] struct {
	Index int    `json:"index"`
	Value R      `json:"value"`
	Error string `json:"error,omitempty"`
}

// frameWriter writes newline-delimited JSON frames and flushes after each one,
// the peer blocks on every frame.
type frameWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func newFrameWriter(w io.Writer) *frameWriter {
	buf := bufio.NewWriter(w)
	return &frameWriter{buf: buf, enc: json.NewEncoder(buf)}
}

func (fw *frameWriter) write(v any) error {
	if err := fw.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return fw.buf.Flush()
}

func newFrameReader(r io.Reader) *json.Decoder {
	return json.NewDecoder(bufio.NewReader(r))
}
