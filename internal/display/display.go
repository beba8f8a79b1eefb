package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

// DefaultPreviewSize bounds the longer edge of an inline preview. Full 8K
// results are far larger than any terminal cell grid can show.
const DefaultPreviewSize = 1024

type Displayer struct {
	out         io.Writer
	previewSize int
}

func New(out io.Writer) *Displayer {
	return &Displayer{
		out:         out,
		previewSize: DefaultPreviewSize,
	}
}

// WithPreviewSize sets the longest preview edge; zero disables downscaling.
func (d *Displayer) WithPreviewSize(size int) *Displayer {
	d.previewSize = size
	return d
}

// Display writes p inline. Non-PNG or oversized payloads are re-encoded as a
// PNG preview first because the graphics protocol only takes PNG with f=100.
func (d *Displayer) Display(p models.Payload) error {
	if p.IsEmpty() {
		return image.ErrNoImageData
	}

	data, err := d.preview(p)
	if err != nil {
		return err
	}

	enc := NewKittyEncoder(d.out)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	fmt.Fprintln(d.out)
	return nil
}

func (d *Displayer) DisplayAll(payloads ...models.Payload) error {
	for i, p := range payloads {
		if err := d.Display(p); err != nil {
			return fmt.Errorf("failed to display image %d: %w", i, err)
		}
	}
	return nil
}

func (d *Displayer) preview(p models.Payload) ([]byte, error) {
	if p.MIMEType == models.MIMEPNG && d.previewSize <= 0 {
		return p.Data, nil
	}

	img, err := image.Decode(p)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	fits := d.previewSize <= 0 || (b.Dx() <= d.previewSize && b.Dy() <= d.previewSize)
	if fits && p.MIMEType == models.MIMEPNG {
		return p.Data, nil
	}
	if !fits {
		img = imaging.Fit(img, d.previewSize, d.previewSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// Supported reports whether out is a terminal that understands inline images.
func Supported(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return IsTerminalSupported()
}

func IsTerminalSupported() bool {
	termProgram := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	supportedPrograms := []string{"kitty", "ghostty", "iterm.app", "wezterm"}

	for _, prog := range supportedPrograms {
		if termProgram == prog {
			return true
		}
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}

	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}

	name := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(name, "kitty") || strings.Contains(name, "ghostty")
}
