package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

var (
	ErrImageDecode   = errors.New("failed to decode image")
	ErrRenderSurface = errors.New("failed to acquire render surface")
)

// DefaultMaxPixels bounds the canvas area. The largest tier (10K at 16:9) is
// roughly 186 million pixels.
const DefaultMaxPixels = 1 << 28

// Placement describes where a scaled source lands on the target canvas.
type Placement struct {
	Scale      float64
	DrawWidth  float64
	DrawHeight float64
	X          float64
	Y          float64
}

// Layout fits natural inside target without cropping and centres it.
func Layout(natural, target models.Dimensions) Placement {
	scale := math.Min(
		float64(target.Width)/float64(natural.Width),
		float64(target.Height)/float64(natural.Height),
	)
	drawW := float64(natural.Width) * scale
	drawH := float64(natural.Height) * scale

	return Placement{
		Scale:      scale,
		DrawWidth:  drawW,
		DrawHeight: drawH,
		X:          (float64(target.Width) - drawW) / 2,
		Y:          (float64(target.Height) - drawH) / 2,
	}
}

// Rect rounds the placement to whole pixels, clamped to the canvas.
func (p Placement) Rect(target models.Dimensions) stdimage.Rectangle {
	w := clamp(int(math.Round(p.DrawWidth)), 1, target.Width)
	h := clamp(int(math.Round(p.DrawHeight)), 1, target.Height)
	x := clamp(int(math.Round(p.X)), 0, target.Width-w)
	y := clamp(int(math.Round(p.Y)), 0, target.Height-h)
	return stdimage.Rect(x, y, x+w, y+h)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type Compositor struct {
	MaxPixels  int
	Filter     imaging.ResampleFilter
	Background color.Color
	Logger     *slog.Logger
}

func NewCompositor(logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compositor{
		MaxPixels:  DefaultMaxPixels,
		Filter:     imaging.Lanczos,
		Background: color.Black,
		Logger:     logger,
	}
}

// Letterbox returns a PNG of exactly target size with the payload scaled to fit
// and centred on the background. It either succeeds completely or returns an error.
func (c *Compositor) Letterbox(ctx context.Context, src models.Payload, target models.Dimensions) (models.Payload, error) {
	if err := c.checkSurface(target); err != nil {
		return models.Payload{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Payload{}, err
	}

	img, err := Decode(src)
	if err != nil {
		return models.Payload{}, err
	}

	b := img.Bounds()
	natural := models.Dimensions{Width: b.Dx(), Height: b.Dy()}
	placement := Layout(natural, target)
	rect := placement.Rect(target)

	c.Logger.Debug("letterboxing image",
		"natural", natural.String(),
		"target", target.String(),
		"scale", placement.Scale,
	)

	if err := ctx.Err(); err != nil {
		return models.Payload{}, err
	}

	canvas := imaging.New(target.Width, target.Height, c.Background)
	scaled := img
	if rect.Dx() != natural.Width || rect.Dy() != natural.Height {
		scaled = imaging.Resize(img, rect.Dx(), rect.Dy(), c.Filter)
	}
	canvas = imaging.Paste(canvas, scaled, rect.Min)

	if err := ctx.Err(); err != nil {
		return models.Payload{}, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return models.Payload{}, fmt.Errorf("%w: %v", ErrRenderSurface, err)
	}

	return models.Payload{MIMEType: models.MIMEPNG, Data: buf.Bytes()}, nil
}

func (c *Compositor) checkSurface(target models.Dimensions) error {
	if target.Width <= 0 || target.Height <= 0 {
		return fmt.Errorf("%w: invalid canvas %s", ErrRenderSurface, target)
	}
	limit := c.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(target.Width)*int64(target.Height) > int64(limit) {
		return fmt.Errorf("%w: canvas %s exceeds %d pixels", ErrRenderSurface, target, limit)
	}
	return nil
}

// Dimensions returns the natural size of a payload as Decode sees it, with
// EXIF orientation applied, so fitting back to it matches the drawn image.
func (c *Compositor) Dimensions(p models.Payload) (models.Dimensions, error) {
	img, err := Decode(p)
	if err != nil {
		return models.Dimensions{}, err
	}
	b := img.Bounds()
	return models.Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
}

func Decode(p models.Payload) (stdimage.Image, error) {
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: empty payload", ErrImageDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrImageDecode)
	}
	return img, nil
}
