// Package snapshot reads and writes rendered model files, compressing them
// with LZ4 when the file name ends in ".lz4".
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedExt marks LZ4-framed snapshot files.
const CompressedExt = ".lz4"

// IsCompressed reports whether path names an LZ4 snapshot.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// Write stores fn's output at path, LZ4-compressed when IsCompressed(path).
func Write(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	var writeErr error

	if IsCompressed(path) {
		zw := lz4.NewWriter(f)
		writeErr = errors.Join(fn(zw), zw.Close())
	} else {
		writeErr = fn(f)
	}

	if joined := errors.Join(writeErr, f.Close()); joined != nil {
		return fmt.Errorf("write %s: %w", path, joined)
	}

	return nil
}

// Read returns the contents of path, decompressed when IsCompressed(path).
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if !IsCompressed(path) {
		return data, nil
	}

	plain, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	return plain, nil
}
