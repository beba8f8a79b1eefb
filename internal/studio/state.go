// Package studio holds the single active generation state and the actions
// that move it forward. Transitions are pure functions on State; the Studio
// runner performs the resulting effects.
package studio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/internal/prompt"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

var (
	ErrBusy           = errors.New("another action is still running")
	ErrNoSource       = errors.New("no generated image yet")
	ErrNoPortrait     = errors.New("no portrait image yet")
	ErrNothingToRetry = errors.New("nothing to retry")
	ErrUnknownShot    = errors.New("unknown shot type")
	ErrUnknownTier    = errors.New("unknown resolution tier")
	ErrUnknownPost    = errors.New("unknown post-process preset")
	ErrInvalidTarget  = errors.New("target must be source or portrait")
	ErrModelMismatch  = errors.New("model does not match the current reference mode")
	ErrInvalidRating  = errors.New("rating must be up or down")
)

type Action string

const (
	ActionGenerate     Action = "generate"
	ActionBeautify     Action = "beautify"
	ActionPortrait     Action = "portrait"
	ActionPostSource   Action = "preset-source"
	ActionPostPortrait Action = "preset-portrait"
)

// Target selects which result slot an action reads from or writes to.
type Target string

const (
	TargetSource   Target = "source"
	TargetPortrait Target = "portrait"
)

func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "source", "src":
		return TargetSource, nil
	case "portrait":
		return TargetPortrait, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}

type Rating string

const (
	RatingNone Rating = ""
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

type State struct {
	MainText       string
	ShotType       string
	PositivePrompt string
	NegativePrompt string
	AspectRatio    models.AspectRatio
	Resolution     models.ResolutionTier
	Format         models.OutputFormat
	Reference      *models.Payload
	DNALock        bool
	Model          string
	Preset         models.Preset

	Busy    bool
	Loading Action

	Source         *models.Payload
	Portrait       *models.Payload
	SourceRating   Rating
	PortraitRating Rating

	// Error is the user-facing message of the last failed action.
	Error string

	LastEffect *Effect
}

// Initial is the state of a fresh session.
func Initial() State {
	return State{
		PositivePrompt: preset.FixedPositivePrompt,
		NegativePrompt: preset.FixedNegativePrompt,
		AspectRatio:    models.Ratio9x16,
		Resolution:     preset.DefaultTier(),
		Format:         models.FormatPNG,
		Model:          models.DefaultTextToImageModel,
		Preset:         preset.Lookup(preset.DefaultID),
	}
}

// Effect is a fully resolved collaborator call plus what to do with its
// first image. Retrying an effect replays exactly the same request.
type Effect struct {
	Action  Action
	Request models.Request

	// Target is the letterbox size. The zero value keeps the image as returned.
	Target models.Dimensions
	// FitInput letterboxes the result back to the reference image's own size.
	FitInput bool
	Output   Target

	Metadata gallery.Metadata
}

// SelectPreset applies the preset patch as a single transition.
func (s State) SelectPreset(id string) State {
	patch := prompt.ApplyPreset(id)
	s.Preset = patch.Preset
	s.NegativePrompt = patch.NegativePrompt
	if patch.AspectRatio != nil {
		s.AspectRatio = *patch.AspectRatio
	}
	if patch.Resolution != nil {
		s.Resolution = *patch.Resolution
	}
	return s
}

// AttachReference switches to image-to-image mode.
func (s State) AttachReference(p models.Payload) (State, error) {
	if p.IsEmpty() || !p.IsImage() {
		s.Error = UserMessage(models.ErrNotAnImage)
		return s, models.ErrNotAnImage
	}
	ref := p
	s.Reference = &ref
	s.Model = models.DefaultImageToImageModel
	return s, nil
}

func (s State) DetachReference() State {
	s.Reference = nil
	s.Model = models.DefaultTextToImageModel
	return s
}

// Reset returns to the initial state. An outstanding action keeps its busy
// flag so it cannot be overlapped.
func (s State) Reset() State {
	next := Initial()
	next.Busy = s.Busy
	next.Loading = s.Loading
	return next
}

// Rate toggles the rating of a result: rating it the same way twice clears it.
func (s State) Rate(target Target, r Rating) (State, error) {
	if r != RatingUp && r != RatingDown {
		return s, ErrInvalidRating
	}
	toggle := func(cur Rating) Rating {
		if cur == r {
			return RatingNone
		}
		return r
	}

	switch target {
	case TargetSource:
		s.SourceRating = toggle(s.SourceRating)
	case TargetPortrait:
		s.PortraitRating = toggle(s.PortraitRating)
	default:
		return s, ErrInvalidTarget
	}
	return s, nil
}

func (s State) DeletePortrait() State {
	s.Portrait = nil
	s.PortraitRating = RatingNone
	return s
}

func (s State) SetMainText(text string) State {
	s.MainText = text
	return s
}

// SetShotType accepts a shot label or value; an empty string clears it.
func (s State) SetShotType(shot string) (State, error) {
	value, ok := preset.ShotType(shot)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownShot, shot)
	}
	s.ShotType = value
	return s, nil
}

func (s State) SetPositivePrompt(text string) State {
	s.PositivePrompt = text
	return s
}

func (s State) SetNegativePrompt(text string) State {
	s.NegativePrompt = text
	return s
}

func (s State) SetAspectRatio(r models.AspectRatio) (State, error) {
	if !r.IsValid() {
		return s, fmt.Errorf("%w: %q", models.ErrInvalidAspectRatio, r)
	}
	s.AspectRatio = r
	return s, nil
}

func (s State) SetResolution(name string) (State, error) {
	tier, ok := preset.Tier(name)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownTier, name)
	}
	s.Resolution = tier
	return s, nil
}

func (s State) SetFormat(f models.OutputFormat) (State, error) {
	if !f.IsValid() {
		return s, fmt.Errorf("%w: %q", models.ErrInvalidFormat, f)
	}
	s.Format = f
	return s, nil
}

// SetModel picks a model from the mode's list: text-to-image models without a
// reference, image-to-image models with one.
func (s State) SetModel(registry *models.ModelRegistry, name string) (State, error) {
	cap, ok := registry.Get(name)
	if !ok {
		return s, fmt.Errorf("%w: %s", models.ErrUnsupportedModel, name)
	}
	if cap.RequiresReference() != (s.Reference != nil) {
		return s, fmt.Errorf("%w: %s", ErrModelMismatch, name)
	}
	s.Model = cap.Name
	return s, nil
}

func (s State) SetDNALock(on bool) State {
	s.DNALock = on
	return s
}

func (s State) begin(a Action) State {
	s.Busy = true
	s.Loading = a
	s.Error = ""
	return s
}

// Generate resolves the prompt and builds the generation effect. An empty
// description without a reference image fails inline with no call made.
func (s State) Generate() (State, *Effect, error) {
	if s.Busy {
		return s, nil, ErrBusy
	}
	if strings.TrimSpace(s.MainText) == "" && s.Reference == nil {
		s.Error = UserMessage(models.ErrEmptyPrompt)
		return s, nil, models.ErrEmptyPrompt
	}

	resolved := prompt.Resolve(prompt.Input{
		MainText:      s.MainText,
		ShotType:      s.ShotType,
		Preset:        s.Preset,
		PositiveField: s.PositivePrompt,
		NegativeField: s.NegativePrompt,
		HasReference:  s.Reference != nil,
	})

	eff := &Effect{
		Action: ActionGenerate,
		Request: models.Request{
			Prompt:         resolved.Positive,
			NegativePrompt: resolved.Negative,
			AspectRatio:    s.AspectRatio,
			Format:         s.Format,
			Reference:      s.Reference,
			DNALock:        s.DNALock,
			Model:          s.Model,
		},
		Output: TargetSource,
		Metadata: gallery.Metadata{
			Action:         string(ActionGenerate),
			Prompt:         resolved.Positive,
			NegativePrompt: resolved.Negative,
			Preset:         s.Preset.ID,
			Model:          s.Model,
			AspectRatio:    string(s.AspectRatio),
			Resolution:     s.Resolution.Name,
		},
	}
	if s.Reference == nil {
		eff.Target = preset.TargetDimensions(s.Resolution.Name, s.AspectRatio)
	}

	return s.begin(ActionGenerate), eff, nil
}

// imageToImage builds the effect for actions that rework an existing result
// with a fixed prompt.
func imageToImage(a Action, input models.Payload, text string) *Effect {
	ref := input
	return &Effect{
		Action: a,
		Request: models.Request{
			Prompt:      text,
			AspectRatio: models.Ratio9x16,
			Format:      models.FormatPNG,
			Reference:   &ref,
			Model:       models.DefaultImageToImageModel,
		},
		Metadata: gallery.Metadata{
			Action: string(a),
			Prompt: text,
			Model:  models.DefaultImageToImageModel,
		},
	}
}

// Beautify reworks the current result and keeps its dimensions.
func (s State) Beautify() (State, *Effect, error) {
	if s.Busy {
		return s, nil, ErrBusy
	}
	if s.Source == nil {
		return s, nil, ErrNoSource
	}

	eff := imageToImage(ActionBeautify, *s.Source, preset.BeautifyPrompt)
	eff.FitInput = true
	eff.Output = TargetSource
	return s.begin(ActionBeautify), eff, nil
}

// ExtractPortrait extracts a headshot from the current result at 8K portrait size.
func (s State) ExtractPortrait() (State, *Effect, error) {
	if s.Busy {
		return s, nil, ErrBusy
	}
	if s.Source == nil {
		return s, nil, ErrNoSource
	}

	eff := imageToImage(ActionPortrait, *s.Source, preset.PortraitPrompt)
	eff.Target = preset.TargetDimensions(preset.Tier8K, models.Ratio9x16)
	eff.Output = TargetPortrait
	eff.Metadata.Resolution = preset.Tier8K
	eff.Metadata.AspectRatio = string(models.Ratio9x16)
	return s.begin(ActionPortrait), eff, nil
}

// PostProcess applies a post-process preset to the source or portrait image.
func (s State) PostProcess(id string, target Target) (State, *Effect, error) {
	if s.Busy {
		return s, nil, ErrBusy
	}
	pp, ok := preset.PostProcess(id)
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownPost, id)
	}

	var input *models.Payload
	var a Action
	switch target {
	case TargetSource:
		input, a = s.Source, ActionPostSource
		if input == nil {
			return s, nil, ErrNoSource
		}
	case TargetPortrait:
		input, a = s.Portrait, ActionPostPortrait
		if input == nil {
			return s, nil, ErrNoPortrait
		}
	default:
		return s, nil, ErrInvalidTarget
	}

	eff := imageToImage(a, *input, pp.Prompt)
	eff.FitInput = true
	eff.Output = target
	eff.Metadata.Preset = pp.ID
	return s.begin(a), eff, nil
}

// Retry replays the last effect with identical parameters.
func (s State) Retry() (State, *Effect, error) {
	if s.Busy {
		return s, nil, ErrBusy
	}
	if s.LastEffect == nil {
		return s, nil, ErrNothingToRetry
	}
	eff := s.LastEffect
	return s.begin(eff.Action), eff, nil
}

// Complete stores a successful result. A new generation replaces the source
// and drops the portrait derived from the old one.
func (s State) Complete(eff *Effect, result models.Payload) State {
	s.Busy = false
	s.Loading = ""
	s.Error = ""
	s.LastEffect = eff

	img := result
	switch eff.Output {
	case TargetPortrait:
		s.Portrait = &img
		s.PortraitRating = RatingNone
	default:
		s.Source = &img
		s.SourceRating = RatingNone
		if eff.Action == ActionGenerate {
			s.Portrait = nil
			s.PortraitRating = RatingNone
		}
	}
	return s
}

// Fail records the error message; existing results are left untouched.
func (s State) Fail(eff *Effect, msg string) State {
	s.Busy = false
	s.Loading = ""
	s.Error = msg
	s.LastEffect = eff
	return s
}
