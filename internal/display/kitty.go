package display

import (
	"encoding/base64"
	"fmt"
	"io"
)

const (
	escapeStart = "\x1b_G"
	escapeEnd   = "\x1b\\"

	// chunkSize is the largest base64 payload the protocol allows per escape.
	chunkSize = 4096
	// rawChunk encodes to exactly chunkSize characters with no padding, so
	// chunks can be encoded independently.
	rawChunk = chunkSize / 4 * 3
)

// KittyEncoder writes PNG data using the kitty graphics protocol.
type KittyEncoder struct {
	out     io.Writer
	columns int
	buf     []byte
}

func NewKittyEncoder(out io.Writer) *KittyEncoder {
	return &KittyEncoder{out: out}
}

// WithColumns asks the terminal to scale the image to n cells wide.
func (e *KittyEncoder) WithColumns(n int) *KittyEncoder {
	e.columns = n
	return e
}

// Encode transmits png and displays it at the cursor. Large images are
// streamed in chunks without encoding the whole payload up front.
func (e *KittyEncoder) Encode(png []byte) error {
	total := chunkCount(len(png))
	for i := range total {
		start := i * rawChunk
		end := min(start+rawChunk, len(png))

		e.buf = e.buf[:0]
		e.buf = append(e.buf, escapeStart...)
		e.buf = append(e.buf, e.params(i == 0, i == total-1)...)
		e.buf = append(e.buf, ';')
		e.buf = base64.StdEncoding.AppendEncode(e.buf, png[start:end])
		e.buf = append(e.buf, escapeEnd...)

		if _, err := e.out.Write(e.buf); err != nil {
			return fmt.Errorf("failed to write image chunk %d/%d: %w", i+1, total, err)
		}
	}
	return nil
}

// params returns the control data for one chunk. Only the first chunk carries
// the transmit action; m=1 marks that more chunks follow.
func (e *KittyEncoder) params(first, last bool) string {
	switch {
	case !first && last:
		return "m=0"
	case !first:
		return "m=1"
	}

	head := "a=T,f=100,q=2"
	if e.columns > 0 {
		head += fmt.Sprintf(",c=%d", e.columns)
	}
	if !last {
		head += ",m=1"
	}
	return head
}

func chunkCount(n int) int {
	return (n + rawChunk - 1) / rawChunk
}
