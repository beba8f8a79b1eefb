package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/repl"
)

var flagOutputDir string

func newInteractiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i", "studio"},
		Short:   "Start an interactive studio session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(app)
		},
	}
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", ".", "directory for saved images")
	cmd.Flags().BoolVar(&flagSaveGallery, "save-gallery", false, "store every result in the gallery")
	return cmd
}

func runInteractive(app *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := app.services()
	if err != nil {
		return err
	}

	cfg := &repl.Config{
		In:        app.In,
		Out:       app.Out,
		Err:       app.Err,
		Saver:     s.saver,
		Auth:      s.auth,
		OutputDir: flagOutputDir,
	}

	g, err := s.openGallery()
	if err != nil {
		fmt.Fprintf(app.Err, "Warning: gallery unavailable: %v\n", err)
		g = nil
	} else {
		defer g.Close()
		cfg.Gallery = g
	}

	gen := app.NewGenerator(s.cfg, s.auth.Key, s.logger)
	cfg.Studio = app.newStudio(s, gen, g, flagSaveGallery || s.cfg.Autosave)

	if app.CanDisplay(app.Out) {
		cfg.Displayer = app.NewDisplayer(app.Out)
	}

	if s.auth.State() == keys.AuthMissing {
		fmt.Fprintln(app.Out, "No API key configured. Use 'key <value>' to set one.")
	}

	return repl.New(cfg).Run(ctx)
}
