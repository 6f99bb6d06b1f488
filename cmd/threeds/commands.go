package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/ernie/threeds/internal/assets"
	"github.com/ernie/threeds/internal/catalog"
	"github.com/ernie/threeds/internal/scene"
)

var commands = []*command{
	{name: "dump", usage: "FILE [--paths]", run: runDump, flags: dumpFlags},
	{name: "textures", usage: "FILE [--search DIR]... [--probe]", run: runTextures, flags: texturesFlags},
	{name: "catalog", usage: "DIR [--db PATH] [--missing]", run: runCatalog, flags: catalogFlags},
	{name: "bundle", usage: "FILE -o OUT.zip [--search DIR]...", run: runBundle, flags: bundleFlags},
	{name: "library", usage: "DIR -o OUTDIR", run: runLibrary, flags: libraryFlags},
}

var (
	showPaths   bool
	searchDirs  []string
	probe       bool
	dbPath      string
	missingOnly bool
	outputPath  string
)

func dumpFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&showPaths, "paths", false, "list the path of every editor, material and texture map instead of the tree")
}

func texturesFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&searchDirs, "search", "s", nil, "extra directories to resolve textures in")
	fs.BoolVar(&probe, "probe", false, "decode texture headers and report format and size")
}

func catalogFlags(fs *pflag.FlagSet) {
	fs.StringVar(&dbPath, "db", "", "catalog database (default from config)")
	fs.BoolVar(&missingOnly, "missing", false, "list texture references that did not resolve")
}

func bundleFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&searchDirs, "search", "s", nil, "extra directories to resolve textures in")
	fs.StringVarP(&outputPath, "out", "o", "", "bundle to write")
}

func libraryFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&outputPath, "out", "o", "", "output directory for manifest and bundles")
}

func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one %s, got %d arguments", what, len(args))
	}
	return args[0], nil
}

func (e *env) sceneOptions() ([]scene.Option, error) {
	return e.cfg.SceneOptions(e.log)
}

// modelIndex indexes the search directories and then the model's own
// directory, so the model and its neighbours win over search results.
// Returns the index key of the model.
func (e *env) modelIndex(file string) (string, map[string]string, error) {
	dirs := searchDirs
	if len(dirs) == 0 {
		dirs = e.cfg.SearchPaths
	}

	var sources []string
	for _, d := range dirs {
		sources = append(sources, assets.CollectSources(d)...)
	}
	sources = append(sources, assets.CollectSources(filepath.Dir(file))...)

	index, err := assets.BuildFileIndex(sources)
	if err != nil {
		return "", nil, err
	}
	return strings.ToLower(filepath.Base(file)), index, nil
}

type dumpOutput struct {
	File      string               `json:"file" yaml:"file"`
	Size      int                  `json:"size" yaml:"size"`
	Materials []scene.MaterialInfo `json:"materials" yaml:"materials"`
	Paths     []nodePath           `json:"paths,omitempty" yaml:"paths,omitempty"`
}

type nodePath struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

func treePaths(root *scene.Root) ([]nodePath, error) {
	var paths []nodePath
	err := scene.Walk(root, func(path string, node any) error {
		switch n := node.(type) {
		case *scene.Editor:
			paths = append(paths, nodePath{Path: path, Kind: "editor"})
		case *scene.Material:
			paths = append(paths, nodePath{Path: path, Kind: "material", Name: n.Name()})
		case *scene.TextureMap:
			paths = append(paths, nodePath{Path: path, Kind: "texture_map", Name: n.Name()})
		default:
			return fmt.Errorf("unexpected node %T at %s", node, path)
		}
		return nil
	})
	return paths, err
}

func runDump(e *env, args []string) error {
	file, err := oneArg(args, "model file")
	if err != nil {
		return err
	}
	opts, err := e.sceneOptions()
	if err != nil {
		return err
	}
	root, data, err := assets.ParseModelFile(file, opts...)
	if err != nil {
		return err
	}

	out := dumpOutput{File: file, Size: len(data), Materials: scene.Summarize(root)}
	if showPaths {
		if out.Paths, err = treePaths(root); err != nil {
			return err
		}
	}
	return e.write(out, func(w io.Writer) error {
		fmt.Fprintf(w, "%s (%s decoded)\n", file, humanize.Bytes(uint64(len(data))))
		if !showPaths {
			return scene.Fprint(w, root)
		}
		for _, p := range out.Paths {
			if p.Name == "" {
				fmt.Fprintln(w, p.Path)
			} else {
				fmt.Fprintf(w, "%s %q\n", p.Path, p.Name)
			}
		}
		return nil
	})
}

type textureRow struct {
	Name     string `json:"name" yaml:"name"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
	NonPow2  bool   `json:"non_pow2,omitempty" yaml:"non_pow2,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runTextures(e *env, args []string) error {
	file, err := oneArg(args, "model file")
	if err != nil {
		return err
	}
	opts, err := e.sceneOptions()
	if err != nil {
		return err
	}
	key, index, err := e.modelIndex(file)
	if err != nil {
		return err
	}
	root, _, err := assets.ParseIndexedModel(key, index, opts...)
	if err != nil {
		return err
	}

	var rows []textureRow
	for _, name := range scene.Textures(root) {
		row := textureRow{Name: name}
		if resolved, ok := assets.ResolveModelTexture(key, name, index); ok {
			row.Resolved = resolved
			if probe {
				info, err := assets.ProbeIndexedTexture(resolved, index)
				if err != nil {
					row.Error = err.Error()
				} else {
					row.Format, row.Width, row.Height = info.Format, info.Width, info.Height
					if !info.PowerOfTwo() {
						row.NonPow2 = true
						e.log.Warn().Str("texture", resolved).Int("width", info.Width).Int("height", info.Height).
							Msg("texture size is not a power of two")
					}
				}
			}
		}
		rows = append(rows, row)
	}

	return e.write(rows, func(w io.Writer) error {
		for _, r := range rows {
			switch {
			case r.Resolved == "":
				fmt.Fprintf(w, "%-24s MISSING\n", r.Name)
			case r.Error != "":
				fmt.Fprintf(w, "%-24s %s (%s)\n", r.Name, r.Resolved, r.Error)
			case r.NonPow2:
				fmt.Fprintf(w, "%-24s %s %s %dx%d NPOT\n", r.Name, r.Resolved, r.Format, r.Width, r.Height)
			case r.Format != "":
				fmt.Fprintf(w, "%-24s %s %s %dx%d\n", r.Name, r.Resolved, r.Format, r.Width, r.Height)
			default:
				fmt.Fprintf(w, "%-24s %s\n", r.Name, r.Resolved)
			}
		}
		return nil
	})
}

type catalogOutput struct {
	ScanID  string            `json:"scan_id" yaml:"scan_id"`
	Models  int               `json:"models" yaml:"models"`
	Bytes   int64             `json:"bytes" yaml:"bytes"`
	Failed  map[string]string `json:"failed,omitempty" yaml:"failed,omitempty"`
	Missing []catalog.Texture `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func runCatalog(e *env, args []string) error {
	dir, err := oneArg(args, "directory")
	if err != nil {
		return err
	}
	opts, err := e.sceneOptions()
	if err != nil {
		return err
	}
	path := dbPath
	if path == "" {
		path = e.cfg.CatalogPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := catalog.Scan(ctx, c, dir, opts...)
	if err != nil {
		return err
	}

	out := catalogOutput{ScanID: res.ScanID, Models: res.Models, Bytes: res.Bytes, Failed: res.Failed}
	if missingOnly {
		if out.Missing, err = c.Textures(ctx, true); err != nil {
			return err
		}
	}

	return e.write(out, func(w io.Writer) error {
		fmt.Fprintf(w, "catalogued %s models (%s) into %s, %s failed, %s missing textures\n",
			humanize.Comma(int64(res.Models)), humanize.Bytes(uint64(res.Bytes)), path,
			humanize.Comma(int64(len(res.Failed))), humanize.Comma(int64(res.Missing)))
		for _, model := range slices.Sorted(maps.Keys(res.Failed)) {
			fmt.Fprintf(w, "  failed %s: %s\n", model, res.Failed[model])
		}
		for _, t := range out.Missing {
			fmt.Fprintf(w, "  missing %s: %s (%s)\n", t.Model, t.Name, t.Material)
		}
		return nil
	})
}

func runBundle(e *env, args []string) error {
	file, err := oneArg(args, "model file")
	if err != nil {
		return err
	}
	if outputPath == "" {
		return errors.New("--out is required")
	}
	opts, err := e.sceneOptions()
	if err != nil {
		return err
	}
	key, index, err := e.modelIndex(file)
	if err != nil {
		return err
	}

	res, err := assets.BuildModelBundle(key, index, outputPath, opts...)
	if err != nil {
		return err
	}
	return e.write(res, func(w io.Writer) error {
		fmt.Fprintf(w, "wrote %s with %d files\n", outputPath, len(res.Files))
		for _, m := range res.Missing {
			fmt.Fprintf(w, "  missing %s\n", m)
		}
		return nil
	})
}

func runLibrary(e *env, args []string) error {
	dir, err := oneArg(args, "directory")
	if err != nil {
		return err
	}
	if outputPath == "" {
		return errors.New("--out is required")
	}
	opts, err := e.sceneOptions()
	if err != nil {
		return err
	}

	m, err := assets.BuildLibrary(dir, outputPath, opts...)
	if err != nil {
		return err
	}

	var bundles, failed int
	for _, mm := range m.Models {
		if mm.Bundle != "" {
			bundles++
		}
		if mm.Error != "" {
			failed++
		}
	}
	summary := map[string]int{"models": len(m.Models), "bundles": bundles, "failed": failed, "files": len(m.FileIndex)}
	return e.write(summary, func(w io.Writer) error {
		fmt.Fprintf(w, "built %d bundles in %s (%d models failed, %s files indexed)\n",
			bundles, outputPath, failed, humanize.Comma(int64(len(m.FileIndex))))
		return nil
	})
}
