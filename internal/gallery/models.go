package gallery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

type Entry struct {
	ID        string
	Image     models.Payload
	CreatedAt time.Time
	Metadata  Metadata
}

// Metadata records how an image was produced.
type Metadata struct {
	Action         string `json:"action,omitempty"` // generate, beautify, portrait or post
	Prompt         string `json:"prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Preset         string `json:"preset,omitempty"`
	Model          string `json:"model,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

func (m *Metadata) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func ParseMetadata(data string) Metadata {
	var m Metadata
	if data != "" {
		json.Unmarshal([]byte(data), &m)
	}
	return m
}

// PayloadHash identifies a payload by MIME type and bytes, so two entries with
// the same hash are the same image.
func PayloadHash(p models.Payload) string {
	h := sha256.New()
	h.Write([]byte(p.MIMEType))
	h.Write([]byte{0})
	h.Write(p.Data)
	return hex.EncodeToString(h.Sum(nil))
}
