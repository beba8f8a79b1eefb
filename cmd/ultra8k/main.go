package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DuongTienDung77/Ultra8K/internal/config"
	"github.com/DuongTienDung77/Ultra8K/internal/display"
	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/httpclient"
	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/internal/provider/gemini"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagPreset      string
	flagShot        string
	flagRatio       string
	flagResolution  string
	flagFormat      string
	flagModel       string
	flagRef         string
	flagDNA         bool
	flagPositive    string
	flagNegative    string
	flagOutput      string
	flagAPIKey      string
	flagSaveGallery bool
	flagBeautify    bool
	flagPortrait    bool
	flagPost        string
	flagShow        bool
	flagVerbose     bool
)

type App struct {
	Out      io.Writer
	Err      io.Writer
	In       io.Reader
	Registry *models.ModelRegistry
	GetEnv   func(string) string

	LoadConfig    func() (config.Config, error)
	NewGenerator  func(cfg config.Config, keys provider.KeySource, logger *slog.Logger) studio.Generator
	NewCompositor func(logger *slog.Logger) studio.Compositor
	NewSaver      func(client *http.Client) *image.Saver
	NewDisplayer  func(out io.Writer) *display.Displayer
	// CanDisplay reports whether out can show inline images.
	CanDisplay func(out io.Writer) bool
	// ReadSecret reads a line from the terminal without echo.
	ReadSecret func() (string, error)
}

func DefaultApp() *App {
	registry := models.DefaultRegistry()
	return &App{
		Out:        os.Stdout,
		Err:        os.Stderr,
		In:         os.Stdin,
		Registry:   registry,
		GetEnv:     os.Getenv,
		LoadConfig: config.Load,
		NewGenerator: func(cfg config.Config, ks provider.KeySource, logger *slog.Logger) studio.Generator {
			router := provider.NewRouter(registry, logger)
			router.Register(gemini.New(gemini.Options{
				Keys:    ks,
				BaseURL: cfg.GeminiBaseURL,
				HTTPClient: httpclient.New(httpclient.Options{
					PreferIPv4: cfg.PreferIPv4,
					Timeout:    cfg.HTTPTimeout,
				}),
				Registry: registry,
				Logger:   logger,
			}))
			return router
		},
		NewCompositor: func(logger *slog.Logger) studio.Compositor {
			return image.NewCompositor(logger)
		},
		NewSaver:     image.NewSaver,
		NewDisplayer: display.New,
		CanDisplay:   display.Supported,
		ReadSecret: func() (string, error) {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return "", errors.New("no terminal to read the key from; pass it as an argument")
			}
			b, err := term.ReadPassword(fd)
			return string(b), err
		},
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	app := DefaultApp()
	rootCmd := newRootCmd(app)
	return rootCmd.Execute()
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ultra8k [prompt]",
		Short: "Generate ultra high resolution portraits with Gemini and Imagen",
		Long: `ultra8k generates photorealistic images with Google's Imagen and Gemini
image models and letterboxes them onto exact 4K to 10K canvases.

Examples:
  ultra8k "a woman reading in a rainy cafe"
  ultra8k --preset DuoiMua_v1 --shot "Upper body shot" "walking home"
  ultra8k --ref face.jpg --dna "same person, golden hour on a beach"
  ultra8k --resolution 8K --ratio 16:9 --portrait "city at dusk"`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flagRef == "" {
				return cmd.Help()
			}
			return runGenerate(cmd, args, app)
		},
	}

	cmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY, API_KEY, then the stored key)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	addStudioFlags(cmd)
	cmd.Flags().StringVar(&flagModel, "model", "", "model to use (defaults by mode)")
	cmd.Flags().StringVar(&flagRef, "ref", "", "reference image path or URL (switches to image-to-image)")
	cmd.Flags().BoolVar(&flagDNA, "dna", false, "lock the reference person's identity")
	cmd.Flags().StringVar(&flagPositive, "positive", "", "replace the positive prompt field")
	cmd.Flags().StringVar(&flagNegative, "negative", "", "replace the negative prompt field")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output filename (default: timestamped name)")
	cmd.Flags().BoolVar(&flagSaveGallery, "save-gallery", false, "also store results in the gallery")
	cmd.Flags().BoolVar(&flagBeautify, "beautify", false, "enhance the result after generating")
	cmd.Flags().BoolVar(&flagPortrait, "portrait", false, "also create an 8K portrait from the result")
	cmd.Flags().StringVar(&flagPost, "post", "", "apply a post-process preset to the result")
	cmd.Flags().BoolVar(&flagShow, "show", false, "preview results in the terminal")

	cmd.AddCommand(newKeysCmd(app))
	cmd.AddCommand(newGalleryCmd(app))
	cmd.AddCommand(newPresetsCmd(app))
	cmd.AddCommand(newInteractiveCmd(app))
	cmd.AddCommand(newBatchCmd(app))

	return cmd
}

// addStudioFlags registers the generation settings shared by the root and
// batch commands.
func addStudioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPreset, "preset", "p", "", "style preset id (see 'ultra8k presets')")
	cmd.Flags().StringVar(&flagShot, "shot", "", "shot type label or value")
	cmd.Flags().StringVarP(&flagRatio, "ratio", "r", "", "aspect ratio (9:16, 1:1, 3:4, 4:3, 16:9)")
	cmd.Flags().StringVar(&flagResolution, "resolution", "", "resolution tier (DCI 4K, 8K, 10K)")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format (png, jpeg, webp)")
}

func newLogger(level string, verbose bool, out io.Writer) *slog.Logger {
	l := slog.LevelInfo
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	if verbose {
		l = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: l,
	}))
}

// services is what every command needs once configuration is loaded.
type services struct {
	cfg    config.Config
	logger *slog.Logger
	store  *keys.Store
	auth   *keys.Auth
	saver  *image.Saver
}

func (app *App) services() (*services, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, flagVerbose, app.Err)

	store, err := keys.NewStore(cfg.HomeDir)
	if err != nil {
		return nil, err
	}
	store.Warn = func(msg string) { fmt.Fprintln(app.Err, "Warning:", msg) }

	client := httpclient.New(httpclient.Options{PreferIPv4: cfg.PreferIPv4, Timeout: cfg.HTTPTimeout})

	return &services{
		cfg:    cfg,
		logger: logger,
		store:  store,
		auth:   keys.NewAuth(store, flagAPIKey, app.GetEnv),
		saver:  app.NewSaver(client),
	}, nil
}

func (s *services) openGallery() (*gallery.Store, error) {
	return gallery.NewStore(s.cfg.HomeDir, s.logger)
}

// newStudio wires a Studio to the shared generator. Gallery may be nil.
func (app *App) newStudio(s *services, gen studio.Generator, gal *gallery.Store, autosave bool) *studio.Studio {
	opts := studio.Options{
		Generator:    gen,
		Compositor:   app.NewCompositor(s.logger),
		Registry:     app.Registry,
		Autosave:     autosave,
		OnSuccess:    s.auth.Confirm,
		OnInvalidKey: func() {
			if err := s.auth.Invalidate(); err != nil {
				s.logger.Error("failed to clear rejected API key", "error", err)
				fmt.Fprintf(app.Err, "Warning: the rejected API key could not be removed: %v\n", err)
			}
		},
		Warn:         func(msg string) { fmt.Fprintln(app.Err, "Warning:", msg) },
		Logger:       s.logger,
	}
	if gal != nil {
		opts.Gallery = gal
	}
	return studio.New(opts)
}

func runGenerate(_ *cobra.Command, args []string, app *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := app.services()
	if err != nil {
		return err
	}
	if s.auth.State() == keys.AuthMissing {
		return fmt.Errorf("%w: run 'ultra8k keys set' or set GEMINI_API_KEY", keys.ErrNoKey)
	}
	s.logger.Debug("using API key", "source", s.auth.Source())

	var gal *gallery.Store
	autosave := flagSaveGallery || s.cfg.Autosave
	if autosave {
		gal, err = s.openGallery()
		if err != nil {
			return fmt.Errorf("failed to open gallery: %w", err)
		}
		defer gal.Close()
	}

	gen := app.NewGenerator(s.cfg, s.auth.Key, s.logger)
	st := app.newStudio(s, gen, gal, autosave)

	var ref *models.Payload
	if flagRef != "" {
		p, err := s.saver.Load(ctx, flagRef)
		if err != nil {
			return fmt.Errorf("%s: %w", studio.UserMessage(models.ErrNotAnImage), err)
		}
		ref = &p
	}

	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	if err := st.Apply(configureFromFlags(app.Registry, text, ref)); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Generating with %s...\n", st.State().Model)
	if err := actionError(studio.ActionGenerate, st.Generate(ctx)); err != nil {
		return err
	}

	if flagBeautify {
		fmt.Fprintln(app.Out, "Beautifying...")
		if err := actionError(studio.ActionBeautify, st.Beautify(ctx)); err != nil {
			return err
		}
	}
	if flagPost != "" {
		fmt.Fprintf(app.Out, "Applying %s...\n", flagPost)
		if err := actionError(studio.ActionPostSource, st.PostProcess(ctx, flagPost, studio.TargetSource)); err != nil {
			return err
		}
	}
	if flagPortrait {
		fmt.Fprintln(app.Out, "Creating portrait...")
		if err := actionError(studio.ActionPortrait, st.ExtractPortrait(ctx)); err != nil {
			return err
		}
	}

	state := st.State()
	results := []*models.Payload{state.Source}
	if state.Portrait != nil {
		results = append(results, state.Portrait)
	}

	for i, p := range results {
		path, err := saveResult(s.saver, *p, flagOutput, i == 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "Saved: %s\n", path)

		if flagShow {
			if !app.CanDisplay(app.Out) {
				fmt.Fprintln(app.Err, "Warning: terminal does not support inline images")
				continue
			}
			if err := app.NewDisplayer(app.Out).Display(*p); err != nil {
				fmt.Fprintf(app.Err, "Warning: failed to display: %v\n", err)
			}
		}
	}

	fmt.Fprintln(app.Out, "Done!")
	return nil
}

// configureFromFlags applies the command-line settings in one transition. The
// preset goes first so explicit ratio and resolution flags override it.
func configureFromFlags(registry *models.ModelRegistry, text string, ref *models.Payload) func(studio.State) (studio.State, error) {
	return func(s studio.State) (studio.State, error) {
		var err error

		if flagPreset != "" {
			if _, ok := preset.Get(flagPreset); !ok {
				return s, fmt.Errorf("unknown preset %q (see 'ultra8k presets')", flagPreset)
			}
			s = s.SelectPreset(flagPreset)
		}
		if flagRatio != "" {
			if s, err = s.SetAspectRatio(models.AspectRatio(flagRatio)); err != nil {
				return s, err
			}
		}
		if flagResolution != "" {
			if s, err = s.SetResolution(flagResolution); err != nil {
				return s, err
			}
		}
		if flagShot != "" {
			if s, err = s.SetShotType(flagShot); err != nil {
				return s, err
			}
		}
		if flagFormat != "" {
			f, err := models.ParseOutputFormat(flagFormat)
			if err != nil {
				return s, err
			}
			s, _ = s.SetFormat(f)
		}
		if flagPositive != "" {
			s = s.SetPositivePrompt(flagPositive)
		}
		if flagNegative != "" {
			s = s.SetNegativePrompt(flagNegative)
		}
		if ref != nil {
			if s, err = s.AttachReference(*ref); err != nil {
				return s, err
			}
		}
		if flagModel != "" {
			if s, err = s.SetModel(registry, flagModel); err != nil {
				return s, err
			}
		}
		s = s.SetDNALock(flagDNA)
		return s.SetMainText(text), nil
	}
}

// actionError turns a failed action into the message a user should see.
func actionError(a studio.Action, err error) error {
	if err == nil {
		return nil
	}
	return errors.New(studio.UserMessageFor(a, err))
}

// saveResult writes p to output, or to a timestamped name in the working
// directory. The portrait gets a -portrait suffix, and the extension always
// follows the payload's encoding.
func saveResult(saver *image.Saver, p models.Payload, output string, portrait bool) (string, error) {
	if output == "" {
		if !portrait {
			return saver.Download(p, ".")
		}
		output = image.DownloadFilename(p, time.Now())
	}

	path := output
	if portrait {
		ext := filepath.Ext(output)
		if _, ok := models.MIMETypeForExtension(ext); !ok {
			ext = ""
		}
		path = strings.TrimSuffix(output, ext) + "-portrait" + ext
	}
	path = p.Filename(path)

	if err := saver.Save(p, path); err != nil {
		return "", err
	}
	return path, nil
}
