package display

import (
	"bytes"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeKittyPayload(t *testing.T, output string) stdimage.Config {
	t.Helper()
	var b64 strings.Builder
	for _, seq := range strings.Split(output, escapeStart)[1:] {
		body := strings.TrimSuffix(strings.TrimSpace(seq), escapeEnd)
		_, data, ok := strings.Cut(body, ";")
		if !ok {
			t.Fatalf("malformed sequence %q", body)
		}
		b64.WriteString(data)
	}
	raw, err := base64.StdEncoding.DecodeString(b64.String())
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png preview, got %s", format)
	}
	return cfg
}

func TestDisplayer_Display_PNGPassthrough(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	data := encodePNG(t, 8, 8)
	if err := d.Display(models.NewPayload(models.MIMEPNG, data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\x1b_G") {
		t.Error("output should contain Kitty escape sequence")
	}
	if !strings.Contains(output, base64.StdEncoding.EncodeToString(data)) {
		t.Error("small PNG should be sent unchanged")
	}
}

func TestDisplayer_Display_TranscodesJPEG(t *testing.T) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 16, 9))
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	var buf bytes.Buffer
	d := New(&buf)
	if err := d.Display(models.NewPayload(models.MIMEJPEG, jpg.Bytes())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := decodeKittyPayload(t, buf.String())
	if cfg.Width != 16 || cfg.Height != 9 {
		t.Errorf("expected 16x9 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDisplayer_Display_DownscalesLargeImages(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf).WithPreviewSize(32)

	if err := d.Display(models.NewPayload(models.MIMEPNG, encodePNG(t, 90, 160))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := decodeKittyPayload(t, buf.String())
	if cfg.Height != 32 || cfg.Width != 18 {
		t.Errorf("expected 18x32 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDisplayer_Display_Empty(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	if err := d.Display(models.Payload{}); err == nil {
		t.Error("expected error for empty payload")
	}
	if buf.Len() != 0 {
		t.Error("expected no output for empty payload")
	}
}

func TestDisplayer_Display_Undecodable(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	err := d.Display(models.NewPayload(models.MIMEJPEG, []byte("not really a jpeg")))
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestDisplayer_DisplayAll(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	p := models.NewPayload(models.MIMEPNG, encodePNG(t, 4, 4))
	if err := d.DisplayAll(p, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	escCount := strings.Count(buf.String(), "\x1b_G")
	if escCount != 2 {
		t.Errorf("expected 2 escape sequences, got %d", escCount)
	}
}

func TestDisplayer_DisplayAll_Empty(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	if err := d.DisplayAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("expected no output for no payloads")
	}
}

func TestSupported_NonFile(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "kitty")
	if Supported(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}

func TestIsTerminalSupported(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected bool
	}{
		{
			name:     "no env vars",
			envVars:  map[string]string{},
			expected: false,
		},
		{
			name:     "kitty terminal program",
			envVars:  map[string]string{"TERM_PROGRAM": "kitty"},
			expected: true,
		},
		{
			name:     "ghostty terminal program",
			envVars:  map[string]string{"TERM_PROGRAM": "ghostty"},
			expected: true,
		},
		{
			name:     "iterm terminal program",
			envVars:  map[string]string{"TERM_PROGRAM": "iTerm.app"},
			expected: true,
		},
		{
			name:     "wezterm terminal program",
			envVars:  map[string]string{"TERM_PROGRAM": "WezTerm"},
			expected: true,
		},
		{
			name:     "kitty window id",
			envVars:  map[string]string{"KITTY_WINDOW_ID": "123"},
			expected: true,
		},
		{
			name:     "iterm session id",
			envVars:  map[string]string{"ITERM_SESSION_ID": "abc"},
			expected: true,
		},
		{
			name:     "term contains kitty",
			envVars:  map[string]string{"TERM": "xterm-kitty"},
			expected: true,
		},
		{
			name:     "unsupported terminal",
			envVars:  map[string]string{"TERM_PROGRAM": "gnome-terminal"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"TERM_PROGRAM", "KITTY_WINDOW_ID", "ITERM_SESSION_ID", "TERM"} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			if got := IsTerminalSupported(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
