package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrModelNotSupported = errors.New("model not supported by provider")
)

// Provider is the generation collaborator: it turns a resolved request into
// image payloads or one of the categorized errors in this package.
type Provider interface {
	Name() models.ProviderType
	Generate(ctx context.Context, req *models.Request) (*models.Response, error)
	SupportsModel(model string) bool
	ListModels() []string
}

// KeySource returns the API key to use for the next call. It is consulted on
// every call so a key saved mid-session takes effect immediately.
type KeySource func() (string, bool)

// StaticKey is a KeySource for a fixed key.
func StaticKey(key string) KeySource {
	return func() (string, bool) {
		return key, key != ""
	}
}

// Router sends each request to the provider that serves its model.
type Router struct {
	mu        sync.RWMutex
	registry  *models.ModelRegistry
	providers map[models.ProviderType]Provider
	logger    *slog.Logger
}

func NewRouter(registry *models.ModelRegistry, logger *slog.Logger) *Router {
	if registry == nil {
		registry = models.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{
		registry:  registry,
		providers: make(map[models.ProviderType]Provider),
		logger:    logger,
	}
}

// Register adds p, replacing any provider with the same name.
func (r *Router) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Route returns the provider and capabilities for model.
func (r *Router) Route(model string) (Provider, *models.ModelCapabilities, error) {
	cap, ok := r.registry.Get(model)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrUnsupportedModel, model)
	}

	r.mu.RLock()
	p, ok := r.providers[cap.Provider]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s (required by model %s)", ErrProviderNotFound, cap.Provider, model)
	}
	if !p.SupportsModel(model) {
		return nil, nil, fmt.Errorf("%w: %s does not serve %s", ErrModelNotSupported, p.Name(), model)
	}
	return p, cap, nil
}

func (r *Router) Providers() []models.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.providers))
}

// Models lists the models of mode that a registered provider can serve.
func (r *Router) Models(mode models.Mode) []string {
	var out []string
	for _, name := range r.registry.ListByMode(mode) {
		if _, _, err := r.Route(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// Generate validates req against its model, fills in defaults and calls the
// owning provider. Provider failures come back categorized; a response
// without images is ErrNoImageReturned.
func (r *Router) Generate(ctx context.Context, req *models.Request) (*models.Response, error) {
	p, cap, err := r.Route(req.Model)
	if err != nil {
		return nil, err
	}
	cap.ApplyDefaults(req)
	if err := cap.Validate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, Classify(err)
	}
	if resp == nil || len(resp.Images) == 0 {
		return nil, ErrNoImageReturned
	}

	r.logger.Debug("generation finished",
		"provider", p.Name(),
		"model", req.Model,
		"images", len(resp.Images),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return resp, nil
}
