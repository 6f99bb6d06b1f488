package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ernie/threeds/internal/scene"
)

// Manifest caches the file index and the decoded material view of every
// model so bundles can be rebuilt without re-parsing.
type Manifest struct {
	FileIndex map[string]string         `json:"fileIndex" yaml:"fileIndex"` // lowered path → source
	Models    map[string]*ModelManifest `json:"models" yaml:"models"`       // lowered model path → entry
}

// ModelManifest holds per-model data.
type ModelManifest struct {
	Size      int64                `json:"size" yaml:"size"`
	Materials []scene.MaterialInfo `json:"materials" yaml:"materials"`
	Textures  map[string]string    `json:"textures,omitempty" yaml:"textures,omitempty"` // texture map name → resolved path
	Missing   []string             `json:"missing,omitempty" yaml:"missing,omitempty"`
	Bundle    string               `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewManifest returns an empty manifest over fileIndex.
func NewManifest(fileIndex map[string]string) *Manifest {
	return &Manifest{
		FileIndex: fileIndex,
		Models:    make(map[string]*ModelManifest),
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadManifest loads a manifest from a JSON or YAML file, chosen by extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if isYAML(path) {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Models == nil {
		m.Models = make(map[string]*ModelManifest)
	}
	return &m, nil
}

// Save writes the manifest as JSON, or YAML when path ends in .yaml or .yml.
func (m *Manifest) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(m)
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// DescribeModel builds the manifest entry for a decoded model, resolving
// each texture map name against the file index.
func DescribeModel(modelPath string, size int64, root *scene.Root, fileIndex map[string]string) *ModelManifest {
	mm := &ModelManifest{
		Size:      size,
		Materials: scene.Summarize(root),
		Textures:  make(map[string]string),
	}
	for _, tex := range scene.Textures(root) {
		if resolved, ok := ResolveModelTexture(modelPath, tex, fileIndex); ok {
			mm.Textures[tex] = resolved
		} else {
			mm.Missing = append(mm.Missing, tex)
		}
	}
	return mm
}
