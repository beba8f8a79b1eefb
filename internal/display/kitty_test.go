package display

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// escapes splits encoder output into (control data, payload) pairs.
func escapes(t *testing.T, out string) [][2]string {
	t.Helper()
	var got [][2]string
	for _, part := range strings.Split(out, escapeEnd) {
		if part == "" {
			continue
		}
		body, ok := strings.CutPrefix(part, escapeStart)
		if !ok {
			t.Fatalf("chunk %q does not start with the APC escape", part)
		}
		ctrl, payload, ok := strings.Cut(body, ";")
		if !ok {
			t.Fatalf("chunk %q has no payload separator", body)
		}
		got = append(got, [2]string{ctrl, payload})
	}
	return got
}

func TestKittyEncoder_Encode(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		columns  int
		wantCtrl []string
	}{
		{name: "empty", size: 0},
		{name: "small", size: 15, wantCtrl: []string{"a=T,f=100,q=2"}},
		{name: "exactly one chunk", size: rawChunk, wantCtrl: []string{"a=T,f=100,q=2"}},
		{name: "two chunks", size: rawChunk + 1, wantCtrl: []string{"a=T,f=100,q=2,m=1", "m=0"}},
		{name: "three chunks", size: 2*rawChunk + 10, wantCtrl: []string{"a=T,f=100,q=2,m=1", "m=1", "m=0"}},
		{name: "column hint", size: 5000, columns: 80, wantCtrl: []string{"a=T,f=100,q=2,c=80,m=1", "m=0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = byte(i % 251)
			}

			var buf bytes.Buffer
			if err := NewKittyEncoder(&buf).WithColumns(tt.columns).Encode(data); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			chunks := escapes(t, buf.String())
			if len(chunks) != len(tt.wantCtrl) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantCtrl))
			}

			var payload strings.Builder
			for i, c := range chunks {
				if c[0] != tt.wantCtrl[i] {
					t.Errorf("chunk %d control = %q, want %q", i, c[0], tt.wantCtrl[i])
				}
				if len(c[1]) > chunkSize {
					t.Errorf("chunk %d payload is %d bytes, limit %d", i, len(c[1]), chunkSize)
				}
				payload.WriteString(c[1])
			}

			decoded, err := base64.StdEncoding.DecodeString(payload.String())
			if err != nil {
				t.Fatalf("payload is not base64: %v", err)
			}
			if !bytes.Equal(decoded, data) {
				t.Error("reassembled payload differs from input")
			}
		})
	}
}

func TestKittyEncoder_ReusesBuffer(t *testing.T) {
	var buf bytes.Buffer
	enc := NewKittyEncoder(&buf)

	if err := enc.Encode(make([]byte, 3*rawChunk)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	first := buf.Len()
	buf.Reset()
	if err := enc.Encode(make([]byte, 3*rawChunk)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if buf.Len() != first {
		t.Errorf("second encode wrote %d bytes, want %d", buf.Len(), first)
	}
}

func TestChunkCount(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, rawChunk: 1, rawChunk + 1: 2, 3 * rawChunk: 3} {
		if got := chunkCount(n); got != want {
			t.Errorf("chunkCount(%d) = %d, want %d", n, got, want)
		}
	}
}

type errorWriter struct {
	err error
}

func (w *errorWriter) Write(p []byte) (int, error) {
	return 0, w.err
}

func TestKittyEncoder_WriteError(t *testing.T) {
	enc := NewKittyEncoder(&errorWriter{err: bytes.ErrTooLarge})

	err := enc.Encode([]byte("test"))
	if !errors.Is(err, bytes.ErrTooLarge) {
		t.Errorf("Encode() error = %v, want ErrTooLarge", err)
	}
}
