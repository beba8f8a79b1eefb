package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DuongTienDung77/Ultra8K/internal/batch"
	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
)

var (
	flagBatchOutputDir string
	flagParallel       int
	flagStopOnError    bool
	flagDelay          int
)

func newBatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Generate one image per prompt in a .txt or .json file",
		Long: `Generate one image per prompt.

A .txt file holds one prompt per line; blank lines and lines starting with #
are skipped. Settings may follow a "|":

  rain on a window | preset=DuoiMua_v1; ratio=1:1; shot=Upper body shot

A .json file holds an array of prompt strings or objects:

  ["a cat", {"prompt": "...", "preset": "DuoiMua_v1", "shot": "Upper body shot",
    "ratio": "9:16", "resolution": "8K", "format": "png"}]

Flags set the defaults for fields an item leaves empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], app)
		},
	}

	addStudioFlags(cmd)
	cmd.Flags().StringVarP(&flagBatchOutputDir, "output-dir", "o", ".", "directory for generated images")
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "concurrent generations (default ULTRA8K_PARALLEL or 2)")
	cmd.Flags().BoolVar(&flagStopOnError, "stop-on-error", false, "stop at the first failed item")
	cmd.Flags().IntVar(&flagDelay, "delay", 0, "milliseconds between starting items")
	cmd.Flags().BoolVar(&flagSaveGallery, "save-gallery", false, "also store results in the gallery")

	return cmd
}

func runBatch(cmd *cobra.Command, path string, app *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	items, err := batch.ParseFile(path)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no prompts found in %s", path)
	}

	s, err := app.services()
	if err != nil {
		return err
	}
	if s.auth.State() == keys.AuthMissing {
		return fmt.Errorf("%w: run 'ultra8k keys set' or set GEMINI_API_KEY", keys.ErrNoKey)
	}

	var g *gallery.Store
	autosave := flagSaveGallery || s.cfg.Autosave
	if autosave {
		g, err = s.openGallery()
		if err != nil {
			return fmt.Errorf("failed to open gallery: %w", err)
		}
		defer g.Close()
	}

	if err := os.MkdirAll(flagBatchOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	parallel := flagParallel
	if !cmd.Flags().Changed("parallel") {
		parallel = s.cfg.Parallel
	}

	gen := app.NewGenerator(s.cfg, s.auth.Key, s.logger)
	factory := func() *studio.Studio {
		return app.newStudio(s, gen, g, autosave)
	}

	fmt.Fprintf(app.Out, "Processing %d prompt(s) from %s\n", len(items), path)

	proc := batch.NewProcessor(factory, s.saver, app.Out, app.Err, s.logger)
	results, err := proc.Process(ctx, items, &batch.Options{
		OutputDir:   flagBatchOutputDir,
		Preset:      flagPreset,
		Shot:        flagShot,
		Ratio:       flagRatio,
		Resolution:  flagResolution,
		Format:      flagFormat,
		Parallel:    parallel,
		StopOnError: flagStopOnError,
		DelayMs:     flagDelay,
	})
	proc.PrintSummary(results)

	if err != nil {
		return err
	}
	if n := countFailed(results); n > 0 {
		return fmt.Errorf("%d item(s) failed", n)
	}
	return nil
}

func countFailed(results []batch.Result) int {
	n := 0
	for _, r := range results {
		if r.Error != nil && !r.Skipped {
			n++
		}
	}
	return n
}
