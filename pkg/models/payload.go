package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEWebP = "image/webp"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// Payload is a self-describing image blob.
type Payload struct {
	MIMEType string
	Data     []byte
}

func NewPayload(mimeType string, data []byte) Payload {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return Payload{MIMEType: mimeType, Data: data}
}

func (p Payload) IsEmpty() bool {
	return len(p.Data) == 0
}

func (p Payload) IsImage() bool {
	return strings.HasPrefix(p.MIMEType, "image/")
}

// Equal reports whether two payloads carry the same MIME type and bytes.
func (p Payload) Equal(o Payload) bool {
	return p.MIMEType == o.MIMEType && bytes.Equal(p.Data, o.Data)
}

// Extension derives the file extension from the MIME type.
func (p Payload) Extension() string {
	return ExtensionFor(p.MIMEType)
}

func ExtensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case MIMEJPEG, "image/jpg":
		return "jpg"
	case MIMEWebP:
		return "webp"
	default:
		return "png"
	}
}

// MIMETypeForExtension maps an image file extension, with or without the
// dot, to the MIME type it implies.
func MIMETypeForExtension(ext string) (string, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return MIMEPNG, true
	case "jpg", "jpeg":
		return MIMEJPEG, true
	case "webp":
		return MIMEWebP, true
	}
	return "", false
}

// Filename returns name with an extension that matches the payload's
// encoding. A name without an image extension gets one appended; an image
// extension for another encoding is replaced.
func (p Payload) Filename(name string) string {
	ext := filepath.Ext(name)
	mimeType, ok := MIMETypeForExtension(ext)
	if !ok {
		return name + "." + p.Extension()
	}
	if ExtensionFor(mimeType) == p.Extension() {
		return name
	}
	return strings.TrimSuffix(name, ext) + "." + p.Extension()
}

// DataURL renders the payload as data:<mime>;base64,<data>.
func (p Payload) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

func ParseDataURL(s string) (Payload, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURL)
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Payload{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	return Payload{MIMEType: mimeType, Data: data}, nil
}
