// Package fixture loads request data documents for the CLI. A document is a
// single top-level mapping written as JSON, YAML or TOML.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder
var ErrUnsupportedFormat = errors.New("unsupported fixture format")

// Format is a document encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the document at path
func Load(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format. An empty document is an empty map.
func Parse(data []byte, format Format) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var err error
	switch format {
	case JSON:
		err = sonic.ConfigStd.Unmarshal(data, &out)
	case YAML:
		err = yaml.Unmarshal(data, &out)
	case TOML:
		err = toml.Unmarshal(data, &out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s fixture: %w", format, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
