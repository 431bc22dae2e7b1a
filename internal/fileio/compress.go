// Package fileio loads inventory directories and writes converted bundles as
// YAML files.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Content encodings understood by Decompress.
const (
	EncodingIdentity = "identity"
	EncodingGzip     = "gzip"
	EncodingZstd     = "zstd"
)

// ErrUnsupportedEncoding is returned for encodings Decompress cannot read.
var ErrUnsupportedEncoding = errors.New("unsupported content encoding")

// SupportedEncodings lists the encodings accepted besides identity.
var SupportedEncodings = []string{EncodingGzip, EncodingZstd}

// IsEncodingSupported reports whether Decompress can read encoding.
func IsEncodingSupported(encoding string) bool {
	switch normalizeEncoding(encoding) {
	case "", EncodingIdentity, EncodingGzip, EncodingZstd:
		return true
	}
	return false
}

// Decompress wraps r according to encoding. An empty encoding or identity
// returns r unchanged.
func Decompress(r io.Reader, encoding string) (io.ReadCloser, error) {
	switch normalizeEncoding(encoding) {
	case "", EncodingIdentity:
		return io.NopCloser(r), nil
	case EncodingGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, nil
	case EncodingZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
}

// EncodingForFile returns the encoding implied by a file name suffix.
func EncodingForFile(name string) string {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return EncodingGzip
	case strings.HasSuffix(name, ".zst"):
		return EncodingZstd
	}
	return ""
}

func normalizeEncoding(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}
