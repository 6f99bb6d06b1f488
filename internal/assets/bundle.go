package assets

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ernie/threeds/internal/scene"
)

// BundleResult lists what went into a model bundle.
type BundleResult struct {
	Files   []string `json:"files" yaml:"files"`
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// BuildModelBundle builds a zip holding a model and every texture its
// materials reference. Textures that cannot be resolved are reported in
// Missing and do not fail the build.
func BuildModelBundle(modelPath string, fileIndex map[string]string, outputPath string, opts ...scene.Option) (*BundleResult, error) {
	lowerModel := strings.ToLower(modelPath)
	if _, ok := fileIndex[lowerModel]; !ok {
		return nil, fmt.Errorf("model not found: %s", modelPath)
	}

	root, _, err := ParseIndexedModel(lowerModel, fileIndex, opts...)
	if err != nil {
		return nil, err
	}
	return writeBundle(lowerModel, root, fileIndex, outputPath)
}

func writeBundle(lowerModel string, root *scene.Root, fileIndex map[string]string, outputPath string) (*BundleResult, error) {
	needed := map[string]bool{lowerModel: true}
	res := &BundleResult{}

	textures := scene.Textures(root)
	for _, tex := range textures {
		resolved, ok := ResolveModelTexture(lowerModel, tex, fileIndex)
		if !ok {
			res.Missing = append(res.Missing, tex)
			continue
		}
		needed[resolved] = true
	}

	log.Debug().
		Str("model", lowerModel).
		Int("materials", len(root.Materials())).
		Int("textures", len(textures)).
		Int("missing", len(res.Missing)).
		Msg("bundle contents resolved")

	paths := make([]string, 0, len(needed))
	for p := range needed {
		paths = append(paths, p)
	}

	files, err := ExtractFiles(paths, fileIndex)
	if err != nil {
		return nil, fmt.Errorf("extract files: %w", err)
	}

	if err := WriteArchive(outputPath, files); err != nil {
		return nil, fmt.Errorf("write bundle: %w", err)
	}

	for p := range files {
		res.Files = append(res.Files, p)
	}
	sort.Strings(res.Files)

	log.Info().Str("model", lowerModel).Int("files", len(files)).Msg("bundle written")
	return res, nil
}

// BundleFileSet returns the set of files in a bundle by reading it.
func BundleFileSet(bundlePath string) (map[string]bool, error) {
	fileSet := make(map[string]bool)
	err := IterateArchive(bundlePath, func(name string, _ func() (io.ReadCloser, error)) error {
		fileSet[strings.ToLower(name)] = true
		return nil
	})
	return fileSet, err
}
