package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

func newPresetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "presets",
		Aliases: []string{"list"},
		Short:   "List style presets, shot types, resolutions and models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(app)
		},
	}
}

func runPresets(app *App) error {
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "STYLE PRESETS")
	fmt.Fprintln(w, "ID\tNAME\tOVERRIDES")
	for _, p := range preset.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, overrides(p.Overrides))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "POST-PROCESS PRESETS")
	for _, p := range preset.PostProcessPresets() {
		fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "SHOT TYPES")
	for _, s := range preset.ShotTypes() {
		fmt.Fprintf(w, "%s\t%s\n", s.Value, s.Label)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "RESOLUTIONS (9:16)")
	def := preset.DefaultTier().Name
	for _, t := range preset.Tiers() {
		mark := ""
		if t.Name == def {
			mark = " (default)"
		}
		fmt.Fprintf(w, "%s%s\t%s\n", t.Name, mark, preset.TargetDimensions(t.Name, models.Ratio9x16))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "MODELS")
	for _, name := range app.Registry.List() {
		m, _ := app.Registry.Get(name)
		fmt.Fprintf(w, "%s\t%s\n", name, m.Mode)
	}

	return w.Flush()
}

func overrides(o models.PresetOverrides) string {
	switch {
	case o.ResolutionName != "" && o.AspectRatio != "":
		return fmt.Sprintf("%s, %s", o.ResolutionName, o.AspectRatio)
	case o.ResolutionName != "":
		return o.ResolutionName
	case o.AspectRatio != "":
		return string(o.AspectRatio)
	}
	return "-"
}
