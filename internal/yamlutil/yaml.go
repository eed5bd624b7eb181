// Package yamlutil wraps goccy/go-yaml for config files and paper
// submissions. Every decode is size-bounded and rejects empty input.
package yamlutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// DefaultMaxInputSize bounds decoded input when no MaxSize option is given.
const DefaultMaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeOption adjusts a single decode call.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict  bool
	maxSize int
}

// Strict rejects keys that do not map to a destination field.
func Strict() DecodeOption {
	return func(c *decodeConfig) {
		c.strict = true
	}
}

// MaxSize overrides DefaultMaxInputSize.
func MaxSize(n int) DecodeOption {
	return func(c *decodeConfig) {
		c.maxSize = n
	}
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...DecodeOption) error {
	cfg := decodeConfig{maxSize: DefaultMaxInputSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > cfg.maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), cfg.maxSize)
	}
	if v == nil {
		return ErrNilDestination
	}

	var yopts []yaml.DecodeOption
	if cfg.strict {
		yopts = append(yopts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, yopts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeReader reads at most the size limit plus one byte from r and decodes
// it, so oversized streams fail without being read in full.
func DecodeReader(r io.Reader, v any, opts ...DecodeOption) error {
	cfg := decodeConfig{maxSize: DefaultMaxInputSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(cfg.maxSize)+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading input: %w", err)
	}
	return Decode(data, v, opts...)
}

// Unmarshal is Decode with default options.
func Unmarshal(data []byte, v any) error {
	return Decode(data, v)
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	return Decode(data, v, Strict())
}

// Marshal encodes v with block-style sequences and two-space indentation.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
