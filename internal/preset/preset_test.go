package preset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

func TestTargetDimensions(t *testing.T) {
	tests := []struct {
		tier  string
		ratio models.AspectRatio
		want  models.Dimensions
	}{
		{Tier8K, models.Ratio9x16, models.Dimensions{Width: 4608, Height: 8192}},
		{TierDCI4K, models.Ratio16x9, models.Dimensions{Width: 7280, Height: 4096}},
		{TierDCI4K, models.Ratio1x1, models.Dimensions{Width: 4096, Height: 4096}},
		{Tier10K, models.Ratio4x3, models.Dimensions{Width: 13653, Height: 10240}},
		{Tier8K, models.Ratio3x4, models.Dimensions{Width: 6144, Height: 8192}},
	}

	for _, tt := range tests {
		t.Run(tt.tier+" "+string(tt.ratio), func(t *testing.T) {
			assert.Equal(t, tt.want, TargetDimensions(tt.tier, tt.ratio))
		})
	}
}

func TestTargetDimensions_EveryPairPopulated(t *testing.T) {
	for _, tier := range Tiers() {
		for _, ratio := range models.AspectRatios() {
			d, ok := dimensions[tier.Name][ratio]
			require.True(t, ok, "missing %s %s", tier.Name, ratio)
			assert.Equal(t, tier.Height, d.Height, "%s %s height", tier.Name, ratio)
		}
	}
}

func TestTargetDimensions_Fallback(t *testing.T) {
	want := models.Dimensions{Width: 2304, Height: 4096}

	assert.Equal(t, want, TargetDimensions("16K", models.Ratio9x16))
	assert.Equal(t, want, TargetDimensions(Tier8K, models.AspectRatio("2:1")))
	assert.Equal(t, want, TargetDimensions("", ""))

	// pure: repeated calls agree
	assert.Equal(t, TargetDimensions("bogus", "x"), TargetDimensions("bogus", "x"))
}

func TestPresetOverridesUseKnownTiers(t *testing.T) {
	for _, p := range All() {
		if p.Overrides.ResolutionName == "" {
			continue
		}
		_, ok := Tier(p.Overrides.ResolutionName)
		assert.True(t, ok, "preset %s overrides unknown tier %q", p.ID, p.Overrides.ResolutionName)
		assert.True(t, p.Overrides.AspectRatio.IsValid(), "preset %s overrides invalid ratio", p.ID)
	}
}

func TestTemplatesContainPlaceholderOnce(t *testing.T) {
	templated := 0
	for _, p := range All() {
		if !p.HasTemplate() {
			continue
		}
		templated++
		assert.Equal(t, 1, strings.Count(p.PositivePromptTemplate, Placeholder), p.ID)
	}
	assert.Equal(t, 6, templated)
}

func TestLookup(t *testing.T) {
	p := Lookup("DuoiMua_v1")
	assert.Equal(t, "DuoiMua_v1", p.ID)
	assert.Equal(t, Tier8K, p.Overrides.ResolutionName)

	fallback := Lookup("does-not-exist")
	assert.Equal(t, DefaultID, fallback.ID)
	assert.Empty(t, fallback.PromptPrefix)
	assert.False(t, fallback.HasTemplate())
}

func TestTier(t *testing.T) {
	tier, ok := Tier("8k")
	require.True(t, ok)
	assert.Equal(t, 8192, tier.Height)

	_, ok = Tier("4K")
	assert.False(t, ok)

	assert.Equal(t, TierDCI4K, DefaultTier().Name)
}

func TestShotType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Upper body shot", "Upper body shot", true},
		{"upper body shot", "Upper body shot", true},
		{"Toàn thân", "Full body shot", true},
		{"", "", true},
		{"drone shot", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ShotType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostProcess(t *testing.T) {
	assert.Len(t, PostProcessPresets(), 41)

	p, ok := PostProcess("cinematic")
	require.True(t, ok)
	assert.Contains(t, p.Prompt, "teal and orange")

	_, ok = PostProcess("sepia")
	assert.False(t, ok)
}

func TestCatalogCopiesAreIndependent(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	assert.Equal(t, "Default", All()[0].Name)
}
