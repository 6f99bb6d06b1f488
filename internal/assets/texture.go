package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// textureExtensions is the texture search order. 3DS exporters often write
// DOS 8.3 names whose image was later converted to another format.
var textureExtensions = []string{".tga", ".bmp", ".png", ".jpg", ".jpeg"}

// normalizeTexture lowers a texture map name and converts Windows separators.
func normalizeTexture(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	return strings.TrimPrefix(strings.ToLower(name), "./")
}

// ResolveTexture finds the indexed path for a texture map name by trying known
// image extensions. Returns the resolved path and true if found.
func ResolveTexture(name string, fileIndex map[string]string) (string, bool) {
	lower := normalizeTexture(name)
	if lower == "" {
		return "", false
	}

	// If the name already has a recognized extension, check directly
	for _, ext := range textureExtensions {
		if strings.HasSuffix(lower, ext) {
			if _, ok := fileIndex[lower]; ok {
				return lower, true
			}
			base := lower[:len(lower)-len(ext)]
			return resolveWithExtensions(base, fileIndex)
		}
	}

	// No extension or unrecognized extension: try all
	return resolveWithExtensions(lower, fileIndex)
}

// ResolveModelTexture resolves a texture map name referenced by modelPath.
// The model's own directory is searched first, then the name as given, then
// the bare file name anywhere in the index.
func ResolveModelTexture(modelPath, name string, fileIndex map[string]string) (string, bool) {
	lower := normalizeTexture(name)
	if lower == "" {
		return "", false
	}
	dir := path.Dir(strings.ToLower(modelPath))
	if dir != "." {
		if resolved, ok := ResolveTexture(path.Join(dir, lower), fileIndex); ok {
			return resolved, true
		}
	}
	if resolved, ok := ResolveTexture(lower, fileIndex); ok {
		return resolved, true
	}
	return resolveByBase(path.Base(lower), fileIndex)
}

func resolveWithExtensions(base string, fileIndex map[string]string) (string, bool) {
	for _, ext := range textureExtensions {
		candidate := base + ext
		if _, ok := fileIndex[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// resolveByBase matches on the file name stem alone. When several indexed
// files match, the lexically smallest path wins so results are stable.
func resolveByBase(base string, fileIndex map[string]string) (string, bool) {
	stem := strings.TrimSuffix(base, path.Ext(base))
	best := ""
	for p := range fileIndex {
		b := path.Base(p)
		if strings.TrimSuffix(b, path.Ext(b)) != stem || !isTextureFile(p) {
			continue
		}
		if best == "" || p < best {
			best = p
		}
	}
	return best, best != ""
}

func isTextureFile(name string) bool {
	for _, ext := range textureExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// TextureInfo describes a decoded texture header.
type TextureInfo struct {
	Format string `json:"format" yaml:"format"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// PowerOfTwo reports whether both dimensions are powers of two.
func (t TextureInfo) PowerOfTwo() bool {
	return isPow2(t.Width) && isPow2(t.Height)
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ProbeTexture decodes just enough of an image to report its format and size.
// The decoder is chosen by the extension of name.
func ProbeTexture(name string, r io.Reader) (TextureInfo, error) {
	var (
		cfg    image.Config
		err    error
		format string
	)
	switch ext := path.Ext(strings.ToLower(name)); ext {
	case ".tga":
		format = "tga"
		cfg, err = tga.DecodeConfig(r)
	case ".bmp":
		format = "bmp"
		cfg, err = bmp.DecodeConfig(r)
	case ".png":
		format = "png"
		cfg, err = png.DecodeConfig(r)
	case ".jpg", ".jpeg":
		format = "jpeg"
		cfg, err = jpeg.DecodeConfig(r)
	default:
		return TextureInfo{}, fmt.Errorf("unsupported texture format %q", ext)
	}
	if err != nil {
		return TextureInfo{}, fmt.Errorf("decode %s header: %w", format, err)
	}
	return TextureInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// ProbeIndexedTexture reads a resolved texture through the index and probes it.
func ProbeIndexedTexture(resolved string, fileIndex map[string]string) (TextureInfo, error) {
	data, err := ReadIndexed(resolved, fileIndex)
	if err != nil {
		return TextureInfo{}, err
	}
	return ProbeTexture(resolved, bytes.NewReader(data))
}
