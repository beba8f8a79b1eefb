package image

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DuongTienDung77/Ultra8K/internal/security"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

// testServerPolicy admits httptest servers, which listen on plain HTTP loopback.
var testServerPolicy = &security.URLPolicy{AllowHTTP: true, AllowPrivate: true}

func TestNewSaver(t *testing.T) {
	s := NewSaver(nil)
	if s == nil {
		t.Fatal("NewSaver() returned nil")
	}
	if s.httpClient == nil {
		t.Fatal("NewSaver() httpClient is nil")
	}
}

func TestSaver_Save(t *testing.T) {
	s := NewSaver(nil)
	path := filepath.Join(t.TempDir(), "test.png")

	err := s.Save(models.Payload{MIMEType: models.MIMEPNG, Data: []byte("fake image data")}, path)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("saved data mismatch: got %s", string(data))
	}
}

func TestSaver_Save_NoData(t *testing.T) {
	s := NewSaver(nil)
	path := filepath.Join(t.TempDir(), "empty.png")

	err := s.Save(models.Payload{MIMEType: models.MIMEPNG}, path)
	if !errors.Is(err, ErrNoImageData) {
		t.Fatalf("Save() error = %v, want ErrNoImageData", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Save() created a file for an empty payload")
	}
}

func TestSaver_Save_CreatesDirectory(t *testing.T) {
	s := NewSaver(nil)
	path := filepath.Join(t.TempDir(), "subdir", "nested", "test.png")

	if err := s.Save(models.Payload{Data: []byte("data")}, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Save() did not create nested directory")
	}
}

func TestSaver_Download(t *testing.T) {
	s := NewSaver(nil)
	s.now = func() time.Time { return time.UnixMilli(1736937045123) }
	dir := t.TempDir()

	tests := []struct {
		mime string
		want string
	}{
		{models.MIMEPNG, "studio-ai-image-1736937045123.png"},
		{models.MIMEJPEG, "studio-ai-image-1736937045123.jpg"},
		{models.MIMEWebP, "studio-ai-image-1736937045123.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			path, err := s.Download(models.Payload{MIMEType: tt.mime, Data: []byte("x")}, dir)
			if err != nil {
				t.Fatalf("Download() error = %v", err)
			}
			if filepath.Base(path) != tt.want {
				t.Errorf("Download() path = %s, want %s", filepath.Base(path), tt.want)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("Download() dir = %s, want %s", filepath.Dir(path), dir)
			}
		})
	}
}

func TestDownloadFilename(t *testing.T) {
	fixed := time.Date(2025, 1, 15, 10, 30, 45, 0, time.UTC)

	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "studio-ai-image-1736937045000.png"},
		{"image/jpeg", "studio-ai-image-1736937045000.jpg"},
		{"image/webp", "studio-ai-image-1736937045000.webp"},
		{"application/octet-stream", "studio-ai-image-1736937045000.png"},
	}

	for _, tt := range tests {
		got := DownloadFilename(models.Payload{MIMEType: tt.mime}, fixed)
		if got != tt.want {
			t.Errorf("DownloadFilename(%s) = %s, want %s", tt.mime, got, tt.want)
		}
	}
}

func TestSaver_Load_File(t *testing.T) {
	s := NewSaver(nil)
	src := encodePNG(t, 2, 2, color.White)
	path := filepath.Join(t.TempDir(), "ref.bin")
	if err := os.WriteFile(path, src.Data, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MIMEType != models.MIMEPNG {
		t.Errorf("Load() MIMEType = %s, want image/png", got.MIMEType)
	}
	if !got.Equal(src) {
		t.Error("Load() data mismatch")
	}
}

func TestSaver_Load_NotAnImage(t *testing.T) {
	s := NewSaver(nil)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just some text"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background(), path)
	if !errors.Is(err, models.ErrNotAnImage) {
		t.Errorf("Load() error = %v, want ErrNotAnImage", err)
	}
}

func TestSaver_Load_Missing(t *testing.T) {
	s := NewSaver(nil)
	_, err := s.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if err == nil || !strings.Contains(err.Error(), "failed to read image") {
		t.Errorf("Load() error = %v, want read failure", err)
	}
}

func TestSaver_Load_DataURL(t *testing.T) {
	s := NewSaver(nil)
	src := encodePNG(t, 3, 3, color.Black)

	got, err := s.Load(context.Background(), src.DataURL())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(src) {
		t.Error("Load() data mismatch")
	}
}

func TestSaver_Load_URL(t *testing.T) {
	src := encodePNG(t, 2, 2, color.White)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(src.Data)
	}))
	defer server.Close()

	got, err := NewSaver(server.Client()).WithURLPolicy(testServerPolicy).Load(context.Background(), server.URL+"/ref.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MIMEType != models.MIMEPNG {
		t.Errorf("Load() MIMEType = %s, want sniffed image/png", got.MIMEType)
	}
}

func TestSaver_Load_DownloadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewSaver(server.Client()).WithURLPolicy(testServerPolicy).Load(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "status: 500") {
		t.Errorf("Load() error = %v, want download failure", err)
	}
}

func TestSaver_Load_DefaultPolicyRejectsLoopback(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	_, err := NewSaver(server.Client()).Load(context.Background(), server.URL+"/ref.png")
	if !errors.Is(err, security.ErrInvalidScheme) {
		t.Errorf("Load() error = %v, want ErrInvalidScheme", err)
	}
	if hits != 0 {
		t.Errorf("server received %d requests, want 0", hits)
	}
}
