package repl

import (
	"bytes"
	"context"
	stdimage "image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/provider"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

type mockGenerator struct {
	mu       sync.Mutex
	requests []models.Request
	result   models.Payload
	err      error
}

func (m *mockGenerator) Generate(_ context.Context, req *models.Request) (*models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, *req)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Response{Images: []models.Payload{m.result}}, nil
}

type mockCompositor struct{}

func (mockCompositor) Letterbox(_ context.Context, src models.Payload, _ models.Dimensions) (models.Payload, error) {
	return src, nil
}

func (mockCompositor) Dimensions(models.Payload) (models.Dimensions, error) {
	return models.Dimensions{Width: 2, Height: 2}, nil
}

type mockGallery struct {
	entries []*gallery.Entry
}

func (m *mockGallery) Add(_ context.Context, p models.Payload, meta gallery.Metadata) (bool, error) {
	for _, e := range m.entries {
		if e.Image.Equal(p) {
			return false, nil
		}
	}
	m.entries = append(m.entries, &gallery.Entry{ID: "abcdef123456", Image: p, Metadata: meta})
	return true, nil
}

func (m *mockGallery) List(context.Context) ([]*gallery.Entry, error) {
	return m.entries, nil
}

func (m *mockGallery) Get(_ context.Context, id string) (*gallery.Entry, error) {
	for _, e := range m.entries {
		if strings.HasPrefix(e.ID, id) {
			return e, nil
		}
	}
	return nil, gallery.ErrNotFound
}

func (m *mockGallery) RemoveID(_ context.Context, id string) error {
	for i, e := range m.entries {
		if strings.HasPrefix(e.ID, id) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return gallery.ErrNotFound
}

type testEnv struct {
	repl    *REPL
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	studio  *studio.Studio
	gen     *mockGenerator
	gallery *mockGallery
	auth    *keys.Auth
	dir     string
}

func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := keys.NewStore(filepath.Join(dir, "config"))
	if err != nil {
		t.Fatalf("keys.NewStore() error = %v", err)
	}
	auth := keys.NewAuth(store, "initial-key-1234", func(string) string { return "" })

	gen := &mockGenerator{result: models.NewPayload(models.MIMEPNG, pngBytes(t))}
	st := studio.New(studio.Options{
		Generator:    gen,
		Compositor:   mockCompositor{},
		OnSuccess:    auth.Confirm,
		OnInvalidKey: func() { _ = auth.Invalidate() },
	})

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	gal := &mockGallery{}

	r := New(&Config{
		In:        strings.NewReader(input),
		Out:       out,
		Err:       errOut,
		Studio:    st,
		Gallery:   gal,
		Saver:     image.NewSaver(nil),
		Auth:      auth,
		OutputDir: dir,
	})

	return &testEnv{repl: r, out: out, errOut: errOut, studio: st, gen: gen, gallery: gal, auth: auth, dir: dir}
}

func (e *testEnv) run(t *testing.T) {
	t.Helper()
	if err := e.repl.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestNew(t *testing.T) {
	env := newTestEnv(t, "")

	if env.repl == nil {
		t.Fatal("New() returned nil")
	}
	if len(env.repl.commands) == 0 {
		t.Error("New() commands not registered")
	}
}

func TestREPL_CommandsRegistered(t *testing.T) {
	env := newTestEnv(t, "")

	expectedCommands := []string{
		"prompt", "shot", "preset", "ratio", "resolution", "format", "model",
		"ref", "unref", "dna", "positive", "negative",
		"generate", "gen", "g", "retry", "beautify", "portrait", "post",
		"delete-portrait", "rate", "save", "show", "gallery", "status",
		"reset", "key", "help", "?", "quit", "exit", "q",
	}

	for _, cmd := range expectedCommands {
		if _, ok := env.repl.commands[cmd]; !ok {
			t.Errorf("Command %q not registered", cmd)
		}
	}
}

func TestREPL_Run_Quit(t *testing.T) {
	env := newTestEnv(t, "quit\n")
	env.run(t)

	if !strings.Contains(env.out.String(), "Goodbye!") {
		t.Error("Run() quit command did not output 'Goodbye!'")
	}
}

func TestREPL_Run_Help(t *testing.T) {
	env := newTestEnv(t, "help\nquit\n")
	env.run(t)

	output := env.out.String()
	if !strings.Contains(output, "Available commands") {
		t.Error("Run() help did not show available commands")
	}
	if !strings.Contains(output, "delete-portrait") {
		t.Error("Run() help did not list delete-portrait command")
	}
}

func TestREPL_Run_UnknownCommand(t *testing.T) {
	env := newTestEnv(t, "unknowncommand\n\n\nquit\n")
	env.run(t)

	if !strings.Contains(env.errOut.String(), "unknown command: unknowncommand") {
		t.Errorf("unexpected error output: %q", env.errOut.String())
	}
}

func TestREPL_Run_EOF(t *testing.T) {
	env := newTestEnv(t, "status")
	env.run(t)

	if !strings.Contains(env.out.String(), "Preset:") {
		t.Error("last line without newline was not executed")
	}
}

func TestREPL_Stop(t *testing.T) {
	env := newTestEnv(t, "")

	env.repl.running = true
	env.repl.Stop()

	if env.repl.running {
		t.Error("Stop() did not stop the REPL")
	}
}

func TestGenerateCommand_SetsPromptAndRuns(t *testing.T) {
	env := newTestEnv(t, "shot 'Upper body shot'\ngenerate a cat on a roof\nquit\n")
	env.run(t)

	if len(env.gen.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(env.gen.requests))
	}
	if got := env.gen.requests[0].Prompt; !strings.HasPrefix(got, "Upper body shot, a cat on a roof") {
		t.Errorf("unexpected prompt %q", got)
	}
	if env.studio.State().Source == nil {
		t.Error("generate did not store a source image")
	}
	if !strings.Contains(env.out.String(), "source ready: image/png") {
		t.Errorf("generate did not report result: %q", env.out.String())
	}
	if env.auth.State() != keys.AuthConfirmed {
		t.Errorf("auth state = %v, want confirmed", env.auth.State())
	}
}

func TestGenerateCommand_EmptyPrompt(t *testing.T) {
	env := newTestEnv(t, "generate\nquit\n")
	env.run(t)

	if len(env.gen.requests) != 0 {
		t.Error("empty prompt should not call the generator")
	}
	if !strings.Contains(env.errOut.String(), "Vui lòng nhập mô tả") {
		t.Errorf("expected inline validation message, got %q", env.errOut.String())
	}
}

func TestGenerateCommand_FailureKeepsMessage(t *testing.T) {
	env := newTestEnv(t, "generate cat\nquit\n")
	env.gen.err = provider.ErrQuotaExceeded
	env.run(t)

	if !strings.Contains(env.errOut.String(), "API Quota Exceeded") {
		t.Errorf("expected quota message, got %q", env.errOut.String())
	}
}

func TestGenerateCommand_InvalidKeyPromptsForNewKey(t *testing.T) {
	env := newTestEnv(t, "generate cat\nreplacement-key-9876\nquit\n")
	env.gen.err = provider.ErrInvalidKey
	env.run(t)

	key, ok := env.auth.Key()
	if !ok || key != "replacement-key-9876" {
		t.Errorf("auth key = %q, %v", key, ok)
	}
	if env.auth.State() != keys.AuthPending {
		t.Errorf("auth state = %v, want pending", env.auth.State())
	}
	if !strings.Contains(env.out.String(), "API key updated") {
		t.Error("new key was not acknowledged")
	}
}

func TestGenerateCommand_InvalidKeySkipped(t *testing.T) {
	env := newTestEnv(t, "generate cat\n\nquit\n")
	env.gen.err = provider.ErrInvalidKey
	env.run(t)

	if _, ok := env.auth.Key(); ok {
		t.Error("key should stay missing after skipping re-entry")
	}
	if !strings.Contains(env.errOut.String(), "no API key set") {
		t.Errorf("unexpected error output: %q", env.errOut.String())
	}
}

func TestPresetCommand(t *testing.T) {
	env := newTestEnv(t, "preset DuoiMua_v1\npreset nope\npreset\nquit\n")
	env.run(t)

	st := env.studio.State()
	if st.Preset.ID != "DuoiMua_v1" {
		t.Errorf("preset = %s, want DuoiMua_v1", st.Preset.ID)
	}
	if !strings.Contains(env.errOut.String(), "unknown preset: nope") {
		t.Errorf("unexpected error output: %q", env.errOut.String())
	}
	if !strings.Contains(env.out.String(), "> DuoiMua_v1") {
		t.Error("preset list did not mark the current preset")
	}
}

func TestSetterCommands(t *testing.T) {
	env := newTestEnv(t, "ratio 16:9\nresolution 8K\nformat jpeg\ndna on\nnegative no blur\npositive sharp\nquit\n")
	env.run(t)

	st := env.studio.State()
	if st.AspectRatio != models.Ratio16x9 {
		t.Errorf("ratio = %s", st.AspectRatio)
	}
	if st.Resolution.Name != "8K" {
		t.Errorf("resolution = %s", st.Resolution.Name)
	}
	if st.Format != models.FormatJPEG {
		t.Errorf("format = %s", st.Format)
	}
	if !st.DNALock {
		t.Error("dna lock not set")
	}
	if st.NegativePrompt != "no blur" || st.PositivePrompt != "sharp" {
		t.Errorf("prompts = %q / %q", st.PositivePrompt, st.NegativePrompt)
	}
}

func TestSetterCommands_Invalid(t *testing.T) {
	env := newTestEnv(t, "ratio 2:1\nresolution 12K\nformat gif\nquit\n")
	env.run(t)

	errs := env.errOut.String()
	for _, want := range []string{"invalid aspect ratio", "unknown resolution tier", "invalid output format"} {
		if !strings.Contains(errs, want) {
			t.Errorf("missing %q in %q", want, errs)
		}
	}
	if env.studio.State().AspectRatio != models.Ratio9x16 {
		t.Error("invalid ratio changed the state")
	}
}

func TestRefCommand(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "face.png")
	if err := os.WriteFile(refPath, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t, "ref "+refPath+"\nstatus\nunref\nquit\n")
	env.run(t)

	if !strings.Contains(env.out.String(), "model: "+models.DefaultImageToImageModel) {
		t.Errorf("ref did not switch the model: %q", env.out.String())
	}
	st := env.studio.State()
	if st.Reference != nil {
		t.Error("unref did not remove the reference")
	}
	if st.Model != models.DefaultTextToImageModel {
		t.Errorf("model = %s after unref", st.Model)
	}
}

func TestRefCommand_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("just text"), 0644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t, "ref "+path+"\nquit\n")
	env.run(t)

	st := env.studio.State()
	if st.Reference != nil {
		t.Error("non-image was attached")
	}
	if st.Error == "" {
		t.Error("expected an inline error message")
	}
}

func TestModelCommand(t *testing.T) {
	env := newTestEnv(t, "model\nmodel "+models.ModelImagenUltra+"\nmodel "+models.ModelFlashImage+"\nquit\n")
	env.run(t)

	output := env.out.String()
	if !strings.Contains(output, "Available models") {
		t.Error("model command did not show available models")
	}
	if strings.Contains(output, "  - "+models.ModelFlashImage) {
		t.Error("image-to-image model listed without a reference")
	}
	if env.studio.State().Model != models.ModelImagenUltra {
		t.Errorf("model = %s", env.studio.State().Model)
	}
	if !strings.Contains(env.errOut.String(), "does not match") {
		t.Errorf("expected mode mismatch error, got %q", env.errOut.String())
	}
}

func TestImageActions_RequireSource(t *testing.T) {
	env := newTestEnv(t, "beautify\nportrait\npost clear\nretry\nquit\n")
	env.run(t)

	if len(env.gen.requests) != 0 {
		t.Error("actions without a source should not call the generator")
	}
	errs := env.errOut.String()
	if !strings.Contains(errs, "no generated image yet") || !strings.Contains(errs, "nothing to retry") {
		t.Errorf("unexpected error output: %q", errs)
	}
}

func TestImageActions_AfterGenerate(t *testing.T) {
	env := newTestEnv(t, "generate cat\nportrait\nrate up portrait\npost clear portrait\ndelete-portrait\nquit\n")
	env.run(t)

	if len(env.gen.requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(env.gen.requests))
	}
	if !env.gen.requests[1].HasReference() {
		t.Error("portrait request should carry the source image")
	}
	if !strings.Contains(env.out.String(), "portrait rating: up") {
		t.Error("rating was not reported")
	}
	st := env.studio.State()
	if st.Portrait != nil {
		t.Error("delete-portrait did not clear the portrait")
	}
	if st.Source == nil {
		t.Error("source should survive portrait deletion")
	}
}

func TestPostCommand_List(t *testing.T) {
	env := newTestEnv(t, "post\nquit\n")
	env.run(t)

	if !strings.Contains(env.out.String(), "clear") {
		t.Error("post list did not include presets")
	}
}

func TestSaveCommand_Default(t *testing.T) {
	env := newTestEnv(t, "generate cat\nsave\nquit\n")
	env.run(t)

	matches, err := filepath.Glob(filepath.Join(env.dir, image.FilenamePrefix+"*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 saved file, got %v", matches)
	}
}

func TestSaveCommand_ExplicitPath(t *testing.T) {
	t.Chdir(t.TempDir())
	env := newTestEnv(t, "generate cat\nsave out/cat.png\nsave out/dog\nsave /etc/cat.png\nquit\n")
	env.run(t)

	for _, name := range []string{"cat.png", "dog.png"} {
		if _, err := os.Stat(filepath.Join("out", name)); err != nil {
			t.Errorf("file not saved: %v", err)
		}
	}
	if !strings.Contains(env.errOut.String(), "invalid path") {
		t.Errorf("absolute path should be rejected, got %q", env.errOut.String())
	}
}

func TestSaveCommand_NoImage(t *testing.T) {
	env := newTestEnv(t, "save\nsave portrait\nquit\n")
	env.run(t)

	errs := env.errOut.String()
	if !strings.Contains(errs, "no source image to save") || !strings.Contains(errs, "no portrait image to save") {
		t.Errorf("unexpected error output: %q", errs)
	}
}

func TestShowCommand_NoDisplayer(t *testing.T) {
	env := newTestEnv(t, "show\ngenerate cat\nshow\nquit\n")
	env.run(t)

	errs := env.errOut.String()
	if !strings.Contains(errs, "no source image to show") {
		t.Errorf("unexpected error output: %q", errs)
	}
	if !strings.Contains(errs, "does not support inline images") {
		t.Errorf("unexpected error output: %q", errs)
	}
}

func TestGalleryCommand(t *testing.T) {
	env := newTestEnv(t, "gallery\ngenerate cat\ngallery add\ngallery add\ngallery list\ngallery show abcdef\ngallery remove abcdef\nquit\n")
	env.run(t)

	output := env.out.String()
	for _, want := range []string{"Gallery is empty", "Added to gallery", "Already in gallery", "abcdef12", "Prompt: cat", "Removed: abcdef"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	if len(env.gallery.entries) != 0 {
		t.Error("gallery remove did not delete the entry")
	}
}

func TestStatusAndReset(t *testing.T) {
	env := newTestEnv(t, "prompt hello there\npreset DuoiMua_v1\nreset\nstatus\nquit\n")
	env.run(t)

	st := env.studio.State()
	if st.MainText != "" || st.Preset.ID != "Default" {
		t.Errorf("reset left state %q / %s", st.MainText, st.Preset.ID)
	}
	if !strings.Contains(env.out.String(), "API key:     pending") {
		t.Error("status did not show the key state")
	}
}

func TestKeyCommand(t *testing.T) {
	env := newTestEnv(t, "key\nkey fresh-key-5678\nquit\n")
	env.run(t)

	output := env.out.String()
	if !strings.Contains(output, keys.MaskKey("initial-key-1234")) {
		t.Error("key did not show the masked key")
	}
	if strings.Contains(output, "initial-key-1234") {
		t.Error("key printed the raw key")
	}
	if key, _ := env.auth.Key(); key != "fresh-key-5678" {
		t.Errorf("key = %q", key)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple command",
			input: "generate hello",
			want:  []string{"generate", "hello"},
		},
		{
			name:  "double quotes",
			input: `generate "hello world"`,
			want:  []string{"generate", "hello world"},
		},
		{
			name:  "single quotes",
			input: `shot 'Upper body shot'`,
			want:  []string{"shot", "Upper body shot"},
		},
		{
			name:  "multiple arguments",
			input: "post clear portrait",
			want:  []string{"post", "clear", "portrait"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
		{
			name:  "multiple spaces",
			input: "generate    test    prompt",
			want:  []string{"generate", "test", "prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCommand(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseCommand() = %v, want %v", got, tt.want)
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseCommand()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "needs truncation", input: "hello world", maxLen: 8, want: "hello..."},
		{name: "multibyte", input: "Toàn thân đứng", maxLen: 7, want: "Toàn..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := map[int]string{
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	}
	for n, want := range tests {
		if got := humanSize(n); got != want {
			t.Errorf("humanSize(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestCommand_Interface(t *testing.T) {
	for _, cmd := range allCommands() {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Name() == "" {
				t.Error("Name() returned empty string")
			}
			if cmd.Description() == "" {
				t.Error("Description() returned empty string")
			}
			if cmd.Usage() == "" {
				t.Error("Usage() returned empty string")
			}
		})
	}
}
