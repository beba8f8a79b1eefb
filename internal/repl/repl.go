package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DuongTienDung77/Ultra8K/internal/display"
	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

// Gallery is the part of the gallery store the shell uses.
type Gallery interface {
	Add(ctx context.Context, p models.Payload, meta gallery.Metadata) (bool, error)
	List(ctx context.Context) ([]*gallery.Entry, error)
	Get(ctx context.Context, id string) (*gallery.Entry, error)
	RemoveID(ctx context.Context, id string) error
}

type REPL struct {
	in        io.Reader
	out       io.Writer
	err       io.Writer
	studio    *studio.Studio
	gallery   Gallery
	displayer *display.Displayer
	saver     *image.Saver
	auth      *keys.Auth
	outputDir string
	commands  map[string]Command
	scanner   *bufio.Scanner
	running   bool
}

type Config struct {
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Studio    *studio.Studio
	Gallery   Gallery
	Displayer *display.Displayer // nil disables inline previews
	Saver     *image.Saver
	Auth      *keys.Auth
	OutputDir string
}

func New(cfg *Config) *REPL {
	saver := cfg.Saver
	if saver == nil {
		saver = image.NewSaver(nil)
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	r := &REPL{
		in:        cfg.In,
		out:       cfg.Out,
		err:       cfg.Err,
		studio:    cfg.Studio,
		gallery:   cfg.Gallery,
		displayer: cfg.Displayer,
		saver:     saver,
		auth:      cfg.Auth,
		outputDir: outputDir,
		commands:  make(map[string]Command),
		scanner:   bufio.NewScanner(cfg.In),
	}
	r.scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	r.registerCommands()
	return r
}

func (r *REPL) Run(ctx context.Context) error {
	r.running = true
	r.printWelcome()

	for r.running {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.printPrompt()
		line, ok := r.readLine()
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.err, "Error: %v\n", err)
		}
	}

	return r.scanner.Err()
}

func (r *REPL) readLine() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.scanner.Text()), true
}

func (r *REPL) execute(ctx context.Context, line string) error {
	parts := parseCommand(line)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmdName)
	}

	return cmd.Execute(ctx, r, args)
}

func (r *REPL) Stop() {
	r.running = false
}

// runAction runs a studio action and reports its result. Failures are shown
// as user-facing messages; an invalid key asks for a new one.
func (r *REPL) runAction(ctx context.Context, label string, a studio.Action, action func(context.Context) error) error {
	fmt.Fprintf(r.out, "%s...\n", label)

	err := action(ctx)
	if err != nil {
		msg := studio.UserMessageFor(a, err)
		if errors.Is(err, provider.ErrInvalidKey) {
			fmt.Fprintln(r.err, msg)
			return r.promptKey()
		}
		return errors.New(msg)
	}

	st := r.studio.State()
	target := studio.TargetSource
	if st.LastEffect != nil {
		target = st.LastEffect.Output
	}
	r.report(target, st)
	return nil
}

func (r *REPL) report(target studio.Target, st studio.State) {
	p := imageFor(st, target)
	if p == nil {
		return
	}
	fmt.Fprintf(r.out, "%s ready: %s, %s\n", target, p.MIMEType, humanSize(len(p.Data)))
	r.show(*p)
}

func (r *REPL) show(p models.Payload) {
	if r.displayer == nil {
		return
	}
	if err := r.displayer.Display(p); err != nil {
		fmt.Fprintf(r.err, "Warning: failed to display: %v\n", err)
	}
}

// promptKey asks for a replacement API key on the shell's own input.
func (r *REPL) promptKey() error {
	if r.auth == nil {
		return provider.ErrInvalidKey
	}

	fmt.Fprint(r.out, "Enter a new Gemini API key (empty to skip): ")
	line, ok := r.readLine()
	if !ok || line == "" {
		fmt.Fprintln(r.out)
		return errors.New("no API key set; use 'key <value>' before the next action")
	}
	if err := r.auth.Set(line); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "API key updated: %s\n", keys.MaskKey(line))
	return nil
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, "ultra8k interactive mode")
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit.")
	fmt.Fprintln(r.out)
}

func (r *REPL) printPrompt() {
	st := r.studio.State()
	if st.Reference != nil {
		fmt.Fprintf(r.out, "ultra8k [%s] (ref)> ", st.Model)
		return
	}
	fmt.Fprintf(r.out, "ultra8k [%s|%s]> ", st.Preset.ID, st.Model)
}

func imageFor(st studio.State, target studio.Target) *models.Payload {
	if target == studio.TargetPortrait {
		return st.Portrait
	}
	return st.Source
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func parseCommand(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuotes && ch == quoteChar {
				inQuotes = false
				quoteChar = 0
			} else if !inQuotes {
				inQuotes = true
				quoteChar = ch
			} else {
				current.WriteRune(ch)
			}
		case ch == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
