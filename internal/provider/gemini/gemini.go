// Package gemini implements the generation provider on top of the Google Gen AI
// SDK: Imagen models for text-to-image and the Flash image model for edits.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

const defaultTimeout = 180 * time.Second

var responseModalities = []string{"IMAGE", "TEXT"}

// modelsAPI is the part of *genai.Models the provider calls.
type modelsAPI interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Options struct {
	Keys       provider.KeySource
	BaseURL    string
	HTTPClient *http.Client
	Registry   *models.ModelRegistry
	Logger     *slog.Logger
}

type Provider struct {
	keys       provider.KeySource
	baseURL    string
	httpClient *http.Client
	registry   *models.ModelRegistry
	logger     *slog.Logger

	newModels func(ctx context.Context, apiKey string) (modelsAPI, error)

	mu        sync.Mutex
	clientKey string
	client    modelsAPI
}

func New(opts Options) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	registry := opts.Registry
	if registry == nil {
		registry = models.DefaultRegistry()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	p := &Provider{
		keys:       opts.Keys,
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		httpClient: httpClient,
		registry:   registry,
		logger:     logger,
	}
	p.newModels = p.dial
	return p
}

func (p *Provider) dial(ctx context.Context, apiKey string) (modelsAPI, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client.Models, nil
}

func (p *Provider) Name() models.ProviderType {
	return models.ProviderGemini
}

func (p *Provider) SupportsModel(model string) bool {
	cap, ok := p.registry.Get(model)
	if !ok {
		return false
	}
	return cap.Provider == models.ProviderGemini
}

func (p *Provider) ListModels() []string {
	return p.registry.ListByProvider(models.ProviderGemini)
}

func (p *Provider) Generate(ctx context.Context, req *models.Request) (*models.Response, error) {
	cap, ok := p.registry.Get(req.Model)
	if !ok || cap.Provider != models.ProviderGemini {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedModel, req.Model)
	}

	api, err := p.models(ctx)
	if err != nil {
		return nil, err
	}

	if req.DNALock {
		p.logger.Debug("dna lock requested; not supported by the API, passing through", "model", req.Model)
	}

	var resp *models.Response
	switch cap.Mode {
	case models.ModeTextToImage:
		resp, err = p.generateImages(ctx, api, req)
	case models.ModeImageToImage:
		resp, err = p.generateContent(ctx, api, req)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedModel, req.Model)
	}
	if err != nil {
		return nil, classify(err)
	}

	p.logger.Info("generation complete", "model", req.Model, "images", len(resp.Images))
	return resp, nil
}

// models returns a client for the current key, reusing the previous one when
// the key has not changed.
func (p *Provider) models(ctx context.Context) (modelsAPI, error) {
	var key string
	if p.keys != nil {
		k, ok := p.keys()
		if ok {
			key = strings.TrimSpace(k)
		}
	}
	if key == "" {
		return nil, fmt.Errorf("%w: no API key configured", provider.ErrInvalidKey)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil && p.clientKey == key {
		return p.client, nil
	}

	api, err := p.newModels(ctx, key)
	if err != nil {
		return nil, err
	}
	p.client = api
	p.clientKey = key
	return api, nil
}

// ImagenPrompt folds the negative prompt into the prompt text because the
// Gemini API backend does not accept a separate negative prompt for Imagen.
func ImagenPrompt(prompt, negative string) string {
	if negative == "" {
		return prompt
	}
	return fmt.Sprintf("%s. Do not include any of the following: %s.", prompt, negative)
}

func (p *Provider) generateImages(ctx context.Context, api modelsAPI, req *models.Request) (*models.Response, error) {
	mimeType := req.Format.MIMEType()
	prompt := ImagenPrompt(req.Prompt, req.NegativePrompt)

	p.logger.Debug("imagen request",
		"model", req.Model,
		"aspect_ratio", req.AspectRatio,
		"mime_type", mimeType,
		"prompt_chars", len(prompt),
	)

	out, err := api.GenerateImages(ctx, req.Model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: mimeType,
		AspectRatio:    string(req.AspectRatio),
	})
	if err != nil {
		return nil, err
	}

	resp := &models.Response{}
	if out != nil {
		for _, img := range out.GeneratedImages {
			if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
				if img != nil && img.RAIFilteredReason != "" {
					p.logger.Warn("image filtered", "reason", img.RAIFilteredReason)
				}
				continue
			}
			mt := img.Image.MIMEType
			if mt == "" {
				mt = mimeType
			}
			resp.Images = append(resp.Images, models.Payload{MIMEType: mt, Data: img.Image.ImageBytes})
		}
	}

	if len(resp.Images) == 0 {
		return nil, provider.ErrNoImageReturned
	}
	return resp, nil
}

func (p *Provider) generateContent(ctx context.Context, api modelsAPI, req *models.Request) (*models.Response, error) {
	if !req.HasReference() {
		return nil, models.ErrReferenceRequired
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType),
		genai.NewPartFromText(req.Prompt),
	}

	p.logger.Debug("image edit request",
		"model", req.Model,
		"reference_mime", req.Reference.MIMEType,
		"reference_bytes", len(req.Reference.Data),
	)

	out, err := api.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: responseModalities},
	)
	if err != nil {
		return nil, err
	}

	resp := &models.Response{}
	if out != nil && len(out.Candidates) > 0 && out.Candidates[0].Content != nil {
		for _, part := range out.Candidates[0].Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			resp.Images = append(resp.Images, models.Payload{
				MIMEType: part.InlineData.MIMEType,
				Data:     part.InlineData.Data,
			})
		}
	}

	if len(resp.Images) == 0 {
		return nil, provider.ErrNoImageReturned
	}
	return resp, nil
}

// classify maps SDK errors to provider categories.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if c := provider.ClassifyStatus(apiErr.Code, apiErr.Status, apiErr.Message); c != nil {
			return c
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		if c := provider.ClassifyStatus(apiErrPtr.Code, apiErrPtr.Status, apiErrPtr.Message); c != nil {
			return c
		}
	}
	return provider.Classify(err)
}
