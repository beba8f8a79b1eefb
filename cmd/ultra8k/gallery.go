package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
)

func newGalleryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gallery",
		Aliases: []string{"gal"},
		Short:   "Browse and export saved images",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved images, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGallery(cmd.Context(), app, func(ctx context.Context, s *services, g *gallery.Store) error {
				return runGalleryList(ctx, app, g)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export [dir]",
		Short: "Write every saved image into dir (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return withGallery(cmd.Context(), app, func(ctx context.Context, s *services, g *gallery.Store) error {
				paths, err := g.Export(ctx, s.saver, dir)
				for _, p := range paths {
					fmt.Fprintf(app.Out, "Exported: %s\n", p)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "%d image(s) exported.\n", len(paths))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove one image by ID or unique ID prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGallery(cmd.Context(), app, func(ctx context.Context, s *services, g *gallery.Store) error {
				if err := g.RemoveID(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Removed %s.\n", args[0])
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every saved image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGallery(cmd.Context(), app, func(ctx context.Context, s *services, g *gallery.Store) error {
				n, err := g.Count(ctx)
				if err != nil {
					return err
				}
				if err := g.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Removed %d image(s).\n", n)
				return nil
			})
		},
	})

	return cmd
}

func withGallery(ctx context.Context, app *App, fn func(context.Context, *services, *gallery.Store) error) error {
	s, err := app.services()
	if err != nil {
		return err
	}
	g, err := s.openGallery()
	if err != nil {
		return fmt.Errorf("failed to open gallery: %w", err)
	}
	defer g.Close()
	return fn(ctx, s, g)
}

func runGalleryList(ctx context.Context, app *App, g *gallery.Store) error {
	entries, err := g.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(app.Out, "Gallery is empty.")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tACTION\tSIZE\tPROMPT")
	for _, e := range entries {
		size := "-"
		if e.Metadata.Width > 0 {
			size = fmt.Sprintf("%dx%d", e.Metadata.Width, e.Metadata.Height)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			orDash(e.Metadata.Action),
			size,
			truncate(e.Metadata.Prompt, 50),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%d image(s) in %s\n", len(entries), displayPath(g.Path()))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// displayPath shortens paths under the home directory.
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, ok := strings.CutPrefix(path, home); ok {
		return "~" + rel
	}
	return path
}
