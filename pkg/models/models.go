package models

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	ErrEmptyPrompt          = errors.New("enter a description or upload a reference image")
	ErrInvalidAspectRatio   = errors.New("invalid aspect ratio")
	ErrInvalidFormat        = errors.New("invalid output format")
	ErrReferenceRequired    = errors.New("a reference image is required for the selected model")
	ErrReferenceUnsupported = errors.New("reference images are not supported by the selected model")
	ErrUnsupportedModel     = errors.New("unsupported model selected")
	ErrNotAnImage           = errors.New("please choose a valid image file")
)

type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
)

// Mode tells whether a model produces images from text alone or from a
// reference image plus text.
type Mode string

const (
	ModeTextToImage  Mode = "text-to-image"
	ModeImageToImage Mode = "image-to-image"
)

type AspectRatio string

const (
	Ratio1x1  AspectRatio = "1:1"
	Ratio16x9 AspectRatio = "16:9"
	Ratio9x16 AspectRatio = "9:16"
	Ratio4x3  AspectRatio = "4:3"
	Ratio3x4  AspectRatio = "3:4"
)

// AspectRatios lists the supported ratios in the order they are offered to users.
func AspectRatios() []AspectRatio {
	return []AspectRatio{Ratio9x16, Ratio1x1, Ratio3x4, Ratio4x3, Ratio16x9}
}

func (r AspectRatio) IsValid() bool {
	return slices.Contains(AspectRatios(), r)
}

func (r AspectRatio) String() string {
	return string(r)
}

type OutputFormat string

const (
	FormatPNG  OutputFormat = "PNG"
	FormatJPEG OutputFormat = "JPG"
	FormatWebP OutputFormat = "WEBP"
)

func ValidFormats() []OutputFormat {
	return []OutputFormat{FormatPNG, FormatJPEG, FormatWebP}
}

// ParseOutputFormat accepts the canonical names as well as lower-case
// spellings and "jpeg".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG", "":
		return FormatPNG, nil
	case "JPG", "JPEG":
		return FormatJPEG, nil
	case "WEBP":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w %q: must be one of %v", ErrInvalidFormat, s, ValidFormats())
}

func (f OutputFormat) IsValid() bool {
	return slices.Contains(ValidFormats(), f)
}

func (f OutputFormat) String() string {
	return string(f)
}

// MIMEType returns the MIME type requested from the API. Unknown formats map to PNG.
func (f OutputFormat) MIMEType() string {
	switch f {
	case FormatJPEG:
		return MIMEJPEG
	case FormatWebP:
		return MIMEWebP
	default:
		return MIMEPNG
	}
}

type ResolutionTier struct {
	Name   string
	Height int
}

type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Preset is a named bundle of prompt fragments and optional parameter overrides.
type Preset struct {
	ID                     string
	Name                   string
	PromptPrefix           string
	PositivePromptTemplate string
	NegativePrompt         string
	Overrides              PresetOverrides
}

type PresetOverrides struct {
	ResolutionName string
	AspectRatio    AspectRatio
}

func (p Preset) HasTemplate() bool {
	return p.PositivePromptTemplate != ""
}

// PostProcessPreset is an image-to-image instruction applied to an existing result.
type PostProcessPreset struct {
	ID     string
	Name   string
	Prompt string
}

type ShotType struct {
	Label string
	Value string
}

// Request is what gets sent to the generation collaborator.
type Request struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    AspectRatio
	Format         OutputFormat
	Reference      *Payload
	DNALock        bool
	Model          string
}

func NewRequest(prompt string) *Request {
	return &Request{
		Prompt:      prompt,
		AspectRatio: Ratio9x16,
		Format:      FormatPNG,
	}
}

func (r *Request) HasReference() bool {
	return r.Reference != nil && len(r.Reference.Data) > 0
}

type Response struct {
	Images []Payload
}

type ModelCapabilities struct {
	Name         string
	DisplayName  string
	Provider     ProviderType
	Mode         Mode
	AspectRatios []AspectRatio
	Formats      []OutputFormat
}

func (c *ModelCapabilities) RequiresReference() bool {
	return c.Mode == ModeImageToImage
}

func (c *ModelCapabilities) Validate(req *Request) error {
	if c.RequiresReference() && !req.HasReference() {
		return ErrReferenceRequired
	}

	if !c.RequiresReference() && req.HasReference() {
		return ErrReferenceUnsupported
	}

	if strings.TrimSpace(req.Prompt) == "" && !req.HasReference() {
		return ErrEmptyPrompt
	}

	if len(c.AspectRatios) > 0 && !slices.Contains(c.AspectRatios, req.AspectRatio) {
		return fmt.Errorf("%w: %q not in %v", ErrInvalidAspectRatio, req.AspectRatio, c.AspectRatios)
	}

	if len(c.Formats) > 0 && !slices.Contains(c.Formats, req.Format) {
		return fmt.Errorf("%w: %q not in %v", ErrInvalidFormat, req.Format, c.Formats)
	}

	return nil
}

func (c *ModelCapabilities) ApplyDefaults(req *Request) {
	if req.Model == "" {
		req.Model = c.Name
	}
	if req.AspectRatio == "" {
		req.AspectRatio = Ratio9x16
	}
	if req.Format == "" {
		req.Format = FormatPNG
	}
}

type ModelRegistry struct {
	models map[string]*ModelCapabilities
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		models: make(map[string]*ModelCapabilities),
	}
}

func (r *ModelRegistry) Register(cap *ModelCapabilities) {
	r.models[cap.Name] = cap
}

func (r *ModelRegistry) Get(name string) (*ModelCapabilities, bool) {
	cap, ok := r.models[name]
	return cap, ok
}

func (r *ModelRegistry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *ModelRegistry) ListByMode(mode Mode) []string {
	var names []string
	for name, cap := range r.models {
		if cap.Mode == mode {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *ModelRegistry) ListByProvider(provider ProviderType) []string {
	var names []string
	for name, cap := range r.models {
		if cap.Provider == provider {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

const (
	ModelImagenQuality  = "imagen-4.0-generate-001"
	ModelImagenStandard = "imagen-4.0-standard-generate-001"
	ModelImagenUltra    = "imagen-4.0-ultra-generate-001"
	ModelFlashImage     = "gemini-2.5-flash-image-preview"

	DefaultTextToImageModel  = ModelImagenQuality
	DefaultImageToImageModel = ModelFlashImage
)

func DefaultRegistry() *ModelRegistry {
	r := NewModelRegistry()

	for _, m := range []struct{ name, display string }{
		{ModelImagenQuality, "Imagen 4.0 Quality"},
		{ModelImagenStandard, "Imagen 4.0 Standard"},
		{ModelImagenUltra, "Imagen 4.0 Ultra"},
	} {
		r.Register(&ModelCapabilities{
			Name:         m.name,
			DisplayName:  m.display,
			Provider:     ProviderGemini,
			Mode:         ModeTextToImage,
			AspectRatios: AspectRatios(),
			Formats:      ValidFormats(),
		})
	}

	r.Register(&ModelCapabilities{
		Name:         ModelFlashImage,
		DisplayName:  "Gemini 2.5 Flash Image Preview",
		Provider:     ProviderGemini,
		Mode:         ModeImageToImage,
		AspectRatios: AspectRatios(),
		Formats:      ValidFormats(),
	})

	return r
}
