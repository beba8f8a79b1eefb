// Package prompt decides the exact positive and negative prompt text sent for
// a generation, and the state patch produced by selecting a preset.
package prompt

import (
	"strings"

	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

type Input struct {
	MainText      string
	ShotType      string
	Preset        models.Preset
	PositiveField string
	NegativeField string
	HasReference  bool
}

type Resolved struct {
	Positive string
	Negative string
}

// Subject joins the shot type and main text with a comma. An empty shot type
// leaves the main text unchanged.
func Subject(shotType, mainText string) string {
	if shotType == "" {
		return mainText
	}
	return shotType + ", " + mainText
}

// Resolve never fails. With a reference image the subject is sent verbatim and
// every negative prompt is dropped; template presets ignore the manual fields.
func Resolve(in Input) Resolved {
	subject := Subject(in.ShotType, in.MainText)

	if in.HasReference {
		return Resolved{Positive: subject}
	}

	if in.Preset.HasTemplate() {
		negative := in.Preset.NegativePrompt
		if negative == "" {
			negative = preset.FixedNegativePrompt
		}
		return Resolved{
			Positive: strings.Replace(in.Preset.PositivePromptTemplate, preset.Placeholder, subject, 1),
			Negative: negative,
		}
	}

	var user string
	if strings.TrimSpace(subject) != "" {
		user = strings.TrimSpace(in.Preset.PromptPrefix + " " + subject)
	} else {
		user = strings.TrimSpace(in.Preset.PromptPrefix)
	}

	return Resolved{
		Positive: user + ". " + in.PositiveField,
		Negative: in.NegativeField,
	}
}

// Patch is the full set of state changes caused by selecting a preset. Nil
// pointers mean the caller keeps its current value.
type Patch struct {
	Preset         models.Preset
	AspectRatio    *models.AspectRatio
	Resolution     *models.ResolutionTier
	NegativePrompt string
}

// ApplyPreset looks up id (falling back to Default) and builds its patch. The
// negative prompt always replaces whatever the user had typed.
func ApplyPreset(id string) Patch {
	p := preset.Lookup(id)

	patch := Patch{
		Preset:         p,
		NegativePrompt: p.NegativePrompt,
	}
	if patch.NegativePrompt == "" {
		patch.NegativePrompt = preset.FixedNegativePrompt
	}

	if p.Overrides.AspectRatio != "" {
		ratio := p.Overrides.AspectRatio
		patch.AspectRatio = &ratio
	}
	if p.Overrides.ResolutionName != "" {
		if tier, ok := preset.Tier(p.Overrides.ResolutionName); ok {
			patch.Resolution = &tier
		}
	}

	return patch
}
