package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoPrompts = errors.New("no prompts found in file")

// Item is one generation job. Empty fields fall back to the run defaults.
type Item struct {
	Index      int
	Prompt     string
	Preset     string
	Shot       string
	Ratio      string
	Resolution string
	Format     string
}

type jsonItem struct {
	Prompt     string `json:"prompt"`
	Preset     string `json:"preset,omitempty"`
	Shot       string `json:"shot,omitempty"`
	Ratio      string `json:"ratio,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Format     string `json:"format,omitempty"`
}

func ParseFile(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSON(file)
	case ".txt", "":
		return ParseText(file)
	default:
		return nil, fmt.Errorf("unsupported file format %q: use .txt or .json", ext)
	}
}

// ParseText reads one prompt per line. Blank lines and lines starting with #
// are skipped. A line may carry settings after a "|":
//
//	rain on a window | preset=DuoiMua_v1; ratio=1:1; shot=Upper body shot
func ParseText(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, opts, _ := strings.Cut(line, "|")
		item := Item{Index: len(items) + 1, Prompt: strings.TrimSpace(text)}
		if item.Prompt == "" {
			return nil, fmt.Errorf("line %d: empty prompt", lineNo)
		}
		if err := applyOptions(&item, opts); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoPrompts
	}
	return items, nil
}

func applyOptions(item *Item, opts string) error {
	for _, opt := range strings.Split(opts, ";") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return fmt.Errorf("setting %q is not key=value", opt)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "preset", "style":
			item.Preset = value
		case "shot":
			item.Shot = value
		case "ratio", "ar":
			item.Ratio = value
		case "resolution", "res":
			item.Resolution = value
		case "format":
			item.Format = value
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
	}
	return nil
}

// ParseJSON reads an array whose elements are either prompt strings or
// objects with a prompt and optional settings. Unknown object keys are
// rejected so a misspelt setting is not silently ignored.
func ParseJSON(r io.Reader) ([]Item, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoPrompts
	}

	items := make([]Item, len(raw))
	for i, msg := range raw {
		ji, err := decodeItem(msg)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		prompt := strings.TrimSpace(ji.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("item %d has empty prompt", i+1)
		}
		items[i] = Item{
			Index:      i + 1,
			Prompt:     prompt,
			Preset:     strings.TrimSpace(ji.Preset),
			Shot:       strings.TrimSpace(ji.Shot),
			Ratio:      strings.TrimSpace(ji.Ratio),
			Resolution: strings.TrimSpace(ji.Resolution),
			Format:     strings.TrimSpace(ji.Format),
		}
	}
	return items, nil
}

func decodeItem(msg json.RawMessage) (jsonItem, error) {
	var ji jsonItem
	if trimmed := bytes.TrimSpace(msg); len(trimmed) > 0 && trimmed[0] == '"' {
		err := json.Unmarshal(trimmed, &ji.Prompt)
		return ji, err
	}

	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	err := dec.Decode(&ji)
	return ji, err
}
