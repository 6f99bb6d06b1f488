package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ernie/threeds/internal/scene"
)

// BuildLibrary indexes every archive and loose file under srcDir, decodes
// every model, writes manifest.json and one bundle per model under
// outputDir/models. Models that fail to decode or to bundle are recorded in
// the manifest with their error; Bundle is set only for bundles written.
func BuildLibrary(srcDir, outputDir string, opts ...scene.Option) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Join(outputDir, "models"), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	sources := CollectSources(srcDir)
	fileIndex, err := BuildFileIndex(sources)
	if err != nil {
		return nil, fmt.Errorf("build file index: %w", err)
	}

	manifest := NewManifest(fileIndex)
	models := ModelPaths(fileIndex)
	log.Info().Int("sources", len(sources)).Int("files", len(fileIndex)).Int("models", len(models)).Msg("indexed library")

	for _, modelPath := range models {
		root, data, err := ParseIndexedModel(modelPath, fileIndex, opts...)
		if err != nil {
			log.Warn().Err(err).Str("model", modelPath).Msg("failed to decode model")
			manifest.Models[modelPath] = &ModelManifest{Size: int64(len(data)), Error: err.Error()}
			continue
		}
		mm := DescribeModel(modelPath, int64(len(data)), root, fileIndex)
		manifest.Models[modelPath] = mm

		name := BundleName(modelPath)
		if _, err := writeBundle(modelPath, root, fileIndex, filepath.Join(outputDir, "models", name)); err != nil {
			log.Warn().Err(err).Str("model", modelPath).Msg("failed to build bundle")
			mm.Error = err.Error()
			continue
		}
		mm.Bundle = name
	}

	manifestPath := filepath.Join(outputDir, "manifest.json")
	if err := manifest.Save(manifestPath); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	log.Info().Str("path", manifestPath).Msg("manifest saved")

	return manifest, nil
}

// BundleName flattens a model path into a bundle file name,
// e.g. "models/house/house.3ds.zst" → "models_house_house.zip".
func BundleName(modelPath string) string {
	name := strings.ToLower(modelPath)
	for _, ext := range modelExtensions {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	return strings.ReplaceAll(name, "/", "_") + ".zip"
}
