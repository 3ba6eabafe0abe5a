// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads the word-pack and relations inputs fully into memory.
// Files ending in .xz are decompressed transparently. Each input carries a
// BLAKE3 digest of its decoded content so reports can identify exactly what
// was checked.
package source

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

const xzExt = ".xz"

// Input is one fully loaded input file.
type Input struct {
	// Path is the path the input was read from.
	Path string `json:"path" yaml:"path"`

	// Text is the decoded content.
	Text string `json:"-" yaml:"-"`

	// Compressed reports whether the file was xz-compressed on disk.
	Compressed bool `json:"compressed" yaml:"compressed"`

	// Size is the decoded size in bytes.
	Size int `json:"size" yaml:"size"`

	// Digest is the hex BLAKE3-256 digest of Text.
	Digest string `json:"blake3" yaml:"blake3"`
}

// Read loads path into memory. A missing or unreadable file is an error.
func Read(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	compressed := strings.EqualFold(filepath.Ext(path), xzExt)
	var r io.Reader = f
	if compressed {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening xz stream %s: %w", path, err)
		}
		r = xr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return newInput(path, data, compressed), nil
}

// ReadAll loads every path, stopping at the first failure. Inputs are
// returned in argument order.
func ReadAll(paths ...string) ([]*Input, error) {
	inputs := make([]*Input, 0, len(paths))
	for _, p := range paths {
		in, err := Read(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// FromString wraps in-memory text as an Input. Used by callers that already
// hold the content.
func FromString(name, text string) *Input {
	return newInput(name, []byte(text), false)
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newInput(path string, data []byte, compressed bool) *Input {
	// Tolerate a UTF-8 byte order mark written by some editors.
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	return &Input{
		Path:       path,
		Text:       string(data),
		Compressed: compressed,
		Size:       len(data),
		Digest:     Digest(data),
	}
}
