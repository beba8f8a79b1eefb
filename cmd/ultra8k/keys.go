package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DuongTienDung77/Ultra8K/internal/keys"
)

func newKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the stored Gemini API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key]",
		Short: "Store an API key (prompts when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysSet(args, app)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active API key, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysShow(app)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysClear(app)
		},
	})

	return cmd
}

func runKeysSet(args []string, app *App) error {
	s, err := app.services()
	if err != nil {
		return err
	}

	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		fmt.Fprint(app.Out, "Enter API key: ")
		key, err = app.ReadSecret()
		fmt.Fprintln(app.Out)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	key = strings.TrimSpace(key)
	if err := s.store.Save(key); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "API key saved: %s\n", keys.MaskKey(key))
	fmt.Fprintf(app.Out, "Stored in %s\n", s.store.Path())
	return nil
}

func runKeysShow(app *App) error {
	s, err := app.services()
	if err != nil {
		return err
	}

	key, ok := s.auth.Key()
	if !ok {
		fmt.Fprintln(app.Out, "No API key configured.")
		fmt.Fprintln(app.Out, "Run 'ultra8k keys set' or set GEMINI_API_KEY.")
		return nil
	}

	fmt.Fprintf(app.Out, "Key:    %s\n", keys.MaskKey(key))
	fmt.Fprintf(app.Out, "Source: %s\n", s.auth.Source())
	fmt.Fprintf(app.Out, "State:  %s\n", s.auth.State())
	return nil
}

func runKeysClear(app *App) error {
	s, err := app.services()
	if err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, "Stored API key removed.")
	return nil
}
