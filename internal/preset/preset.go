// Package preset holds the fixed catalog of generation presets, post-process
// presets, shot types and resolution tiers, plus the tier/ratio dimension table.
package preset

import (
	"strings"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

const (
	TierDCI4K = "DCI 4K"
	Tier8K    = "8K"
	Tier10K   = "10K"
)

var tiers = []models.ResolutionTier{
	{Name: TierDCI4K, Height: 4096},
	{Name: Tier8K, Height: 8192},
	{Name: Tier10K, Height: 10240},
}

var dimensions = map[string]map[models.AspectRatio]models.Dimensions{
	TierDCI4K: {
		models.Ratio9x16: {Width: 2304, Height: 4096},
		models.Ratio1x1:  {Width: 4096, Height: 4096},
		models.Ratio3x4:  {Width: 3072, Height: 4096},
		models.Ratio4x3:  {Width: 5461, Height: 4096},
		models.Ratio16x9: {Width: 7280, Height: 4096},
	},
	Tier8K: {
		models.Ratio9x16: {Width: 4608, Height: 8192},
		models.Ratio1x1:  {Width: 8192, Height: 8192},
		models.Ratio3x4:  {Width: 6144, Height: 8192},
		models.Ratio4x3:  {Width: 10923, Height: 8192},
		models.Ratio16x9: {Width: 14560, Height: 8192},
	},
	Tier10K: {
		models.Ratio9x16: {Width: 5760, Height: 10240},
		models.Ratio1x1:  {Width: 10240, Height: 10240},
		models.Ratio3x4:  {Width: 7680, Height: 10240},
		models.Ratio4x3:  {Width: 13653, Height: 10240},
		models.Ratio16x9: {Width: 18204, Height: 10240},
	},
}

// FallbackDimensions is returned for any tier/ratio pair missing from the table:
// the smallest tier at portrait ratio.
var FallbackDimensions = dimensions[TierDCI4K][models.Ratio9x16]

// TargetDimensions looks up the output size for a tier and aspect ratio.
func TargetDimensions(tierName string, ratio models.AspectRatio) models.Dimensions {
	if byRatio, ok := dimensions[tierName]; ok {
		if d, ok := byRatio[ratio]; ok {
			return d
		}
	}
	return FallbackDimensions
}

func Tiers() []models.ResolutionTier {
	out := make([]models.ResolutionTier, len(tiers))
	copy(out, tiers)
	return out
}

// DefaultTier is the first tier offered, used for fresh state.
func DefaultTier() models.ResolutionTier {
	return tiers[0]
}

// Tier finds a tier by name, ignoring case.
func Tier(name string) (models.ResolutionTier, bool) {
	for _, t := range tiers {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return models.ResolutionTier{}, false
}

func All() []models.Preset {
	out := make([]models.Preset, len(presets))
	copy(out, presets)
	return out
}

func Get(id string) (models.Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return models.Preset{}, false
}

// Lookup returns the preset with the given id, or the Default preset.
func Lookup(id string) models.Preset {
	if p, ok := Get(id); ok {
		return p
	}
	p, _ := Get(DefaultID)
	return p
}

func PostProcessPresets() []models.PostProcessPreset {
	out := make([]models.PostProcessPreset, len(postProcessPresets))
	copy(out, postProcessPresets)
	return out
}

func PostProcess(id string) (models.PostProcessPreset, bool) {
	for _, p := range postProcessPresets {
		if p.ID == id {
			return p, true
		}
	}
	return models.PostProcessPreset{}, false
}

func ShotTypes() []models.ShotType {
	out := make([]models.ShotType, len(shotTypes))
	copy(out, shotTypes)
	return out
}

// ShotType resolves either a label or a value to the English shot value.
func ShotType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, st := range shotTypes {
		if strings.EqualFold(st.Value, s) || strings.EqualFold(st.Label, s) {
			return st.Value, true
		}
	}
	return "", false
}
