package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ernie/threeds/internal/assets"
	"github.com/ernie/threeds/internal/scene"
)

// ScanResult summarizes one Scan call.
type ScanResult struct {
	ScanID  string
	Models  int
	Failed  map[string]string // model path → error
	Missing int
	Bytes   int64
}

// Scan indexes every archive and loose file under dir, decodes each model
// and records it. Models that fail to decode are reported in the result
// and do not stop the scan. Cancelling ctx stops between models.
func Scan(ctx context.Context, c *Catalog, dir string, opts ...scene.Option) (*ScanResult, error) {
	fileIndex, err := assets.BuildFileIndex(assets.CollectSources(dir))
	if err != nil {
		return nil, fmt.Errorf("build file index: %w", err)
	}

	res := &ScanResult{ScanID: NewScanID(), Failed: make(map[string]string)}
	logger := log.With().Str("scan", res.ScanID).Logger()

	for _, modelPath := range assets.ModelPaths(fileIndex) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		root, data, err := assets.ParseIndexedModel(modelPath, fileIndex, opts...)
		if err != nil {
			logger.Warn().Err(err).Str("model", modelPath).Msg("skipping model")
			res.Failed[modelPath] = err.Error()
			continue
		}

		resolved := make(map[string]string)
		for _, tex := range scene.Textures(root) {
			if p, ok := assets.ResolveModelTexture(modelPath, tex, fileIndex); ok {
				resolved[tex] = p
			} else {
				res.Missing++
			}
		}

		hash, err := c.Record(ctx, res.ScanID, modelPath, data, root, resolved)
		if err != nil {
			return res, err
		}
		logger.Debug().Str("model", modelPath).Str("hash", hash).Msg("recorded model")
		res.Models++
		res.Bytes += int64(len(data))
	}

	logger.Info().Int("models", res.Models).Int("failed", len(res.Failed)).Int("missing_textures", res.Missing).Msg("scan complete")
	return res, nil
}
