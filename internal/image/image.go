package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DuongTienDung77/Ultra8K/internal/security"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

// FilenamePrefix starts every downloaded artifact name.
const FilenamePrefix = "studio-ai-image-"

const maxReferenceBytes = 32 << 20

var ErrNoImageData = errors.New("no image data available")

type Saver struct {
	httpClient *http.Client
	urlPolicy  *security.URLPolicy
	now        func() time.Time
}

func NewSaver(client *http.Client) *Saver {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Saver{
		httpClient: client,
		urlPolicy:  &security.URLPolicy{},
		now:        time.Now,
	}
}

// WithURLPolicy replaces the policy that guards reference downloads.
func (s *Saver) WithURLPolicy(p *security.URLPolicy) *Saver {
	s.urlPolicy = p
	return s
}

// Save writes the payload to path, creating parent directories.
func (s *Saver) Save(p models.Payload, path string) error {
	if p.IsEmpty() {
		return ErrNoImageData
	}

	if err := s.ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, p.Data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Download saves the payload into dir under a timestamped name and returns the path.
func (s *Saver) Download(p models.Payload, dir string) (string, error) {
	path := filepath.Join(dir, DownloadFilename(p, s.now()))
	if err := s.Save(p, path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a reference image from a local path or an https URL. Non-image
// content is rejected with models.ErrNotAnImage.
func (s *Saver) Load(ctx context.Context, src string) (models.Payload, error) {
	var data []byte
	var mimeType string
	var err error

	if strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "http://") {
		data, mimeType, err = s.downloadFromURL(ctx, src)
		if err != nil {
			return models.Payload{}, fmt.Errorf("failed to download image: %w", err)
		}
	} else if strings.HasPrefix(src, "data:") {
		p, err := models.ParseDataURL(src)
		if err != nil {
			return models.Payload{}, err
		}
		data, mimeType = p.Data, p.MIMEType
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			return models.Payload{}, fmt.Errorf("failed to read image: %w", err)
		}
	}

	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		mimeType = sniffed
	}

	p := models.NewPayload(mimeType, data)
	if !p.IsImage() {
		return models.Payload{}, fmt.Errorf("%w: %s is %s", models.ErrNotAnImage, src, p.MIMEType)
	}
	return p, nil
}

func (s *Saver) downloadFromURL(ctx context.Context, url string) ([]byte, string, error) {
	if err := s.urlPolicy.Check(ctx, url); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (s *Saver) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// DownloadFilename names an artifact by creation time in milliseconds and the
// payload's encoding.
func DownloadFilename(p models.Payload, t time.Time) string {
	return fmt.Sprintf("%s%d.%s", FilenamePrefix, t.UnixMilli(), p.Extension())
}
