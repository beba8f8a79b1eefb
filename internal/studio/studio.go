package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

// Generator is the generation collaborator.
type Generator interface {
	Generate(ctx context.Context, req *models.Request) (*models.Response, error)
}

type Compositor interface {
	Letterbox(ctx context.Context, src models.Payload, target models.Dimensions) (models.Payload, error)
	Dimensions(p models.Payload) (models.Dimensions, error)
}

// Gallery receives new results when autosave is on.
type Gallery interface {
	Add(ctx context.Context, p models.Payload, meta gallery.Metadata) (bool, error)
}

type Options struct {
	Generator  Generator
	Compositor Compositor
	Registry   *models.ModelRegistry
	Gallery    Gallery
	Autosave   bool

	// OnSuccess runs after every successful collaborator call.
	OnSuccess func()
	// OnInvalidKey runs when the collaborator rejects the key.
	OnInvalidKey func()
	// Warn receives non-fatal user-visible warnings.
	Warn func(msg string)

	Logger *slog.Logger
}

// Studio serializes actions on one State. Only one action may be outstanding;
// the lock is never held across the collaborator call.
type Studio struct {
	mu    sync.Mutex
	state State

	gen          Generator
	comp         Compositor
	registry     *models.ModelRegistry
	gallery      Gallery
	autosave     bool
	onSuccess    func()
	onInvalidKey func()
	warn         func(string)
	logger       *slog.Logger
}

func New(opts Options) *Studio {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	registry := opts.Registry
	if registry == nil {
		registry = models.DefaultRegistry()
	}

	return &Studio{
		state:        Initial(),
		gen:          opts.Generator,
		comp:         opts.Compositor,
		registry:     registry,
		gallery:      opts.Gallery,
		autosave:     opts.Autosave && opts.Gallery != nil,
		onSuccess:    opts.OnSuccess,
		onInvalidKey: opts.OnInvalidKey,
		warn:         opts.Warn,
		logger:       logger,
	}
}

// State returns a snapshot of the current state.
func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Studio) Registry() *models.ModelRegistry {
	return s.registry
}

// Update applies a transition that cannot fail.
func (s *Studio) Update(fn func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
}

// Apply applies a fallible transition; on error the state is left as the
// transition returned it, which may carry an inline error message.
func (s *Studio) Apply(fn func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		if next.Error != "" {
			s.state.Error = next.Error
		}
		return err
	}
	s.state = next
	return nil
}

func (s *Studio) Generate(ctx context.Context) error {
	return s.run(ctx, State.Generate)
}

func (s *Studio) Beautify(ctx context.Context) error {
	return s.run(ctx, State.Beautify)
}

func (s *Studio) ExtractPortrait(ctx context.Context) error {
	return s.run(ctx, State.ExtractPortrait)
}

func (s *Studio) PostProcess(ctx context.Context, id string, target Target) error {
	return s.run(ctx, func(st State) (State, *Effect, error) {
		return st.PostProcess(id, target)
	})
}

func (s *Studio) Retry(ctx context.Context) error {
	return s.run(ctx, State.Retry)
}

func (s *Studio) run(ctx context.Context, begin func(State) (State, *Effect, error)) error {
	s.mu.Lock()
	next, eff, err := begin(s.state)
	if err != nil {
		if next.Error != "" {
			s.state.Error = next.Error
		}
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Info("action started", "action", eff.Action, "model", eff.Request.Model)
	if eff.Action == ActionGenerate && eff.Request.Reference != nil {
		s.logger.Debug("reference image set; preset and manual prompt fields ignored")
	}

	result, err := s.perform(ctx, eff)

	s.mu.Lock()
	if err != nil {
		s.state = s.state.Fail(eff, UserMessageFor(eff.Action, err))
	} else {
		s.state = s.state.Complete(eff, result)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("action failed", "action", eff.Action, "error", err)
		if errors.Is(err, provider.ErrInvalidKey) && s.onInvalidKey != nil {
			s.onInvalidKey()
		}
		return err
	}

	s.logger.Info("action complete", "action", eff.Action, "bytes", len(result.Data))
	s.save(ctx, eff, result)
	return nil
}

// perform calls the collaborator and composites its first image. Compositing
// only happens after a successful call.
func (s *Studio) perform(ctx context.Context, eff *Effect) (models.Payload, error) {
	if s.gen == nil || s.comp == nil {
		return models.Payload{}, errors.New("studio is missing a generator or compositor")
	}

	target := eff.Target
	if eff.FitInput {
		if eff.Request.Reference == nil {
			return models.Payload{}, ErrNoSource
		}
		dims, err := s.comp.Dimensions(*eff.Request.Reference)
		if err != nil {
			return models.Payload{}, err
		}
		target = dims
	}

	req := eff.Request
	resp, err := s.gen.Generate(ctx, &req)
	if err != nil {
		return models.Payload{}, err
	}
	if s.onSuccess != nil {
		s.onSuccess()
	}
	if resp == nil || len(resp.Images) == 0 {
		return models.Payload{}, provider.ErrNoImageReturned
	}

	first := resp.Images[0]
	if target.Width == 0 || target.Height == 0 {
		return first, nil
	}
	out, err := s.comp.Letterbox(ctx, first, target)
	if err != nil {
		return models.Payload{}, fmt.Errorf("failed to composite result: %w", err)
	}
	return out, nil
}

func (s *Studio) save(ctx context.Context, eff *Effect, result models.Payload) {
	if !s.autosave {
		return
	}

	meta := eff.Metadata
	if d, err := s.comp.Dimensions(result); err == nil {
		meta.Width, meta.Height = d.Width, d.Height
	}

	inserted, err := s.gallery.Add(ctx, result, meta)
	if err != nil {
		s.logger.Warn("autosave failed", "error", err)
		if s.warn != nil {
			s.warn(UserMessage(err))
		}
		return
	}
	s.logger.Debug("autosaved result", "inserted", inserted)
}
