package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrAbsolutePath  = errors.New("absolute paths are not allowed")
	ErrReservedName  = errors.New("reserved filename not allowed")
	ErrLeadingHyphen = errors.New("filename cannot start with hyphen")
	ErrEmptyPath     = errors.New("path is empty")
)

// isReservedName reports Windows device names (CON, NUL, COM1, LPT9...),
// with or without an extension.
func isReservedName(name string) bool {
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	switch stem {
	case "con", "prn", "aux", "nul":
		return true
	}
	if len(stem) == 4 && (strings.HasPrefix(stem, "com") || strings.HasPrefix(stem, "lpt")) {
		return stem[3] >= '1' && stem[3] <= '9'
	}
	return false
}

// SavePath checks a destination typed in the interactive shell and returns
// it ready to write. Only relative paths below the working directory are
// accepted. The name is given the image extension ext, replacing an image
// extension for a different encoding.
func SavePath(path, ext string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "", ErrAbsolutePath
	}

	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}

	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	if isReservedName(base) {
		return "", ErrReservedName
	}
	if strings.HasPrefix(base, "-") {
		return "", ErrLeadingHyphen
	}

	if ext == "" {
		return cleaned, nil
	}
	mimeType, ok := models.MIMETypeForExtension(ext)
	if !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
	return models.Payload{MIMEType: mimeType}.Filename(cleaned), nil
}

// Slug turns free prompt text into a short lower-case file stem of at most max
// runes, e.g. "Sunset portrait, 85mm!" -> "sunset-portrait-85mm". Text with
// no letters or digits becomes "file".
func Slug(text string, max int) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(text) {
		if max > 0 && n >= max {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}

	stem := strings.TrimRight(b.String(), "-")
	switch {
	case stem == "":
		return "file"
	case isReservedName(stem):
		return stem + "_"
	}
	return stem
}
