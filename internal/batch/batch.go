package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/internal/security"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

const slugLength = 50

type Result struct {
	Index    int
	Prompt   string
	Path     string
	Error    error
	Message  string // user-facing text of Error
	Skipped  bool
	Duration time.Duration
}

type Options struct {
	OutputDir string

	// Defaults for items that leave a field empty.
	Preset     string
	Shot       string
	Ratio      string
	Resolution string
	Format     string

	Parallel    int
	StopOnError bool
	DelayMs     int
}

// StudioFactory returns a fresh Studio. Every item gets its own so no state
// is shared between concurrent generations.
type StudioFactory func() *studio.Studio

type Processor struct {
	newStudio StudioFactory
	saver     *image.Saver
	out       io.Writer
	err       io.Writer
	outMu     sync.Mutex
	logger    *slog.Logger
}

func NewProcessor(newStudio StudioFactory, saver *image.Saver, out, errOut io.Writer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if saver == nil {
		saver = image.NewSaver(nil)
	}
	return &Processor{
		newStudio: newStudio,
		saver:     saver,
		out:       out,
		err:       errOut,
		logger:    logger,
	}
}

func (p *Processor) printf(format string, args ...any) {
	p.outMu.Lock()
	fmt.Fprintf(p.out, format, args...)
	p.outMu.Unlock()
}

func (p *Processor) errorf(format string, args ...any) {
	p.outMu.Lock()
	fmt.Fprintf(p.err, format, args...)
	p.outMu.Unlock()
}

// Process runs items with at most opts.Parallel in flight. With StopOnError
// the first failure cancels the rest; items that never started are marked
// skipped. Results keep the order of items.
func (p *Processor) Process(ctx context.Context, items []Item, opts *Options) ([]Result, error) {
	results := make([]Result, len(items))
	total := len(items)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Parallel))

	for i, item := range items {
		if i > 0 && opts.DelayMs > 0 {
			select {
			case <-gctx.Done():
			case <-time.After(time.Duration(opts.DelayMs) * time.Millisecond):
			}
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Index: item.Index, Prompt: item.Prompt, Error: err, Skipped: true}
				return nil
			}

			result := p.processItem(gctx, item, opts, i+1, total)
			results[i] = result
			if result.Error != nil && opts.StopOnError {
				return fmt.Errorf("stopped at item %d: %w", item.Index, result.Error)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (p *Processor) processItem(ctx context.Context, item Item, opts *Options, current, total int) Result {
	start := time.Now()
	result := Result{
		Index:  item.Index,
		Prompt: item.Prompt,
	}
	fail := func(err error) Result {
		result.Error = err
		result.Message = studio.UserMessage(err)
		result.Duration = time.Since(start)
		p.errorf("       [%d] Error: %s\n", item.Index, result.Message)
		p.logger.Warn("batch item failed", "index", item.Index, "error", err)
		return result
	}

	p.printf("[%d/%d] Generating: %q...\n", current, total, truncate(item.Prompt, 50))

	st := p.newStudio()
	if err := st.Apply(configure(item, opts)); err != nil {
		return fail(err)
	}

	if err := st.Generate(ctx); err != nil {
		return fail(err)
	}

	img := st.State().Source
	if img == nil {
		return fail(errors.New("generation finished without an image"))
	}

	outputPath := filepath.Join(opts.OutputDir, generateFilename(item.Index, item.Prompt, *img))
	if err := p.saver.Save(*img, outputPath); err != nil {
		return fail(fmt.Errorf("save failed: %w", err))
	}

	result.Path = outputPath
	result.Duration = time.Since(start)
	p.printf("       [%d] Saved: %s (%s)\n", item.Index, result.Path, result.Duration.Round(time.Millisecond))
	p.logger.Info("batch item complete", "index", item.Index, "path", result.Path)
	return result
}

// configure applies an item's settings on top of the run defaults. The preset
// goes first so explicit ratio and resolution values override its patch.
func configure(item Item, opts *Options) func(studio.State) (studio.State, error) {
	return func(s studio.State) (studio.State, error) {
		var err error

		if id := firstNonEmpty(item.Preset, opts.Preset); id != "" {
			if _, ok := preset.Get(id); !ok {
				return s, fmt.Errorf("unknown preset: %s", id)
			}
			s = s.SelectPreset(id)
		}
		if ratio := firstNonEmpty(item.Ratio, opts.Ratio); ratio != "" {
			if s, err = s.SetAspectRatio(models.AspectRatio(ratio)); err != nil {
				return s, err
			}
		}
		if tier := firstNonEmpty(item.Resolution, opts.Resolution); tier != "" {
			if s, err = s.SetResolution(tier); err != nil {
				return s, err
			}
		}
		if shot := firstNonEmpty(item.Shot, opts.Shot); shot != "" {
			if s, err = s.SetShotType(shot); err != nil {
				return s, err
			}
		}
		if format := firstNonEmpty(item.Format, opts.Format); format != "" {
			f, err := models.ParseOutputFormat(format)
			if err != nil {
				return s, err
			}
			if s, err = s.SetFormat(f); err != nil {
				return s, err
			}
		}
		return s.SetMainText(item.Prompt), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateFilename numbers the output and names it after the prompt, using the
// extension of the encoding actually returned.
func generateFilename(index int, prompt string, p models.Payload) string {
	return fmt.Sprintf("%03d-%s.%s", index, security.Slug(prompt, slugLength), p.Extension())
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func (p *Processor) PrintSummary(results []Result) {
	var successful, failed, skipped int
	var elapsed time.Duration
	var failures []Result

	for _, r := range results {
		elapsed += r.Duration
		switch {
		case r.Skipped:
			skipped++
		case r.Error != nil:
			failed++
			failures = append(failures, r)
		default:
			successful++
		}
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Summary:")
	fmt.Fprintf(p.out, "  Successful: %d/%d images\n", successful, len(results))
	if failed > 0 {
		fmt.Fprintf(p.out, "  Failed: %d (see errors below)\n", failed)
	}
	if skipped > 0 {
		fmt.Fprintf(p.out, "  Skipped: %d\n", skipped)
	}
	fmt.Fprintf(p.out, "  Generation time: %s\n", elapsed.Round(time.Second))

	if len(failures) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Errors:")
		for _, e := range failures {
			fmt.Fprintf(p.out, "  [%d] %q: %s\n", e.Index, truncate(e.Prompt, 40), e.Message)
		}
	}
}
