package assets

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ernie/threeds/internal/scene"
)

// Frame magics for the compressed model formats.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
	gzipMagic = []byte{0x1F, 0x8B}
)

// Compression names the container detected by Decompress.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
	CompressionGzip Compression = "gzip"
)

// DetectCompression inspects the leading magic bytes of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	}
	return CompressionNone
}

// Decompress returns data unwrapped from a zstd, lz4 or gzip frame. Data
// without a recognized magic is returned unchanged.
func Decompress(data []byte) ([]byte, error) {
	switch DetectCompression(data) {
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder init: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip header: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip decompress (read %d bytes): %w", len(out), err)
		}
		return out, nil
	}
	return data, nil
}

// LoadModel reads a model file from disk and decompresses it if needed.
func LoadModel(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Decompress(data)
}

// ParseModelFile loads and decodes a model from disk.
func ParseModelFile(path string, opts ...scene.Option) (*scene.Root, []byte, error) {
	data, err := LoadModel(path)
	if err != nil {
		return nil, nil, err
	}
	root, err := scene.Parse(data, opts...)
	if err != nil {
		return nil, data, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, data, nil
}

// ParseIndexedModel reads a model through the file index and decodes it.
func ParseIndexedModel(path string, fileIndex map[string]string, opts ...scene.Option) (*scene.Root, []byte, error) {
	raw, err := ReadIndexed(path, fileIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("read model: %w", err)
	}
	data, err := Decompress(raw)
	if err != nil {
		return nil, nil, err
	}
	root, err := scene.Parse(data, opts...)
	if err != nil {
		return nil, data, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, data, nil
}
