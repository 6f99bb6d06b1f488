package assets

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// archiveExtensions are the zip containers that are indexed as sources.
var archiveExtensions = []string{".zip", ".pk3"}

// modelExtensions are the model names picked up by the index, including
// compressed variants understood by Decompress.
var modelExtensions = []string{".3ds", ".3ds.zst", ".3ds.lz4", ".3ds.gz"}

// IsArchive reports whether name looks like a zip or pk3 archive.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsModel reports whether name looks like a 3DS model, compressed or not.
func IsModel(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range modelExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// CollectSources returns the archives found under dir in sorted order,
// followed by dir itself so that loose files override archived ones.
func CollectSources(dir string) []string {
	var archives []string

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if IsArchive(d.Name()) {
			archives = append(archives, path)
		}
		return nil
	})

	sort.Strings(archives)
	return append(archives, dir)
}

// BuildFileIndex builds a case-insensitive index over the given sources.
// A source is either an archive or a directory. Later sources override
// earlier ones. Returns lowered slash path → location, where location is the
// archive path for archived files and the OS path for loose files.
func BuildFileIndex(sources []string) (map[string]string, error) {
	index := make(map[string]string)
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("stat source %s: %w", src, err)
		}
		if info.IsDir() {
			if err := indexDir(src, index); err != nil {
				return nil, err
			}
			continue
		}
		if err := indexArchive(src, index); err != nil {
			return nil, err
		}
	}
	return index, nil
}

func indexDir(dir string, index map[string]string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() || IsArchive(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		index[strings.ToLower(filepath.ToSlash(rel))] = path
		return nil
	})
}

func indexArchive(archivePath string, index map[string]string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		index[strings.ToLower(f.Name)] = archivePath
	}
	return nil
}

// errFound stops an archive walk once the wanted member has been read.
var errFound = errors.New("member found")

// ReadFileFromArchive returns the contents of one archive member. Member
// names are compared case-insensitively; 3DS texture references rarely
// match the casing used inside the archive.
func ReadFileFromArchive(archivePath, member string) ([]byte, error) {
	want := strings.ToLower(member)

	var data []byte
	err := IterateArchive(archivePath, func(name string, open func() (io.ReadCloser, error)) error {
		if strings.ToLower(name) != want {
			return nil
		}
		rc, err := open()
		if err != nil {
			return fmt.Errorf("open member %s of %s: %w", name, archivePath, err)
		}
		defer rc.Close()
		if data, err = io.ReadAll(rc); err != nil {
			return fmt.Errorf("read member %s of %s: %w", name, archivePath, err)
		}
		return errFound
	})
	switch {
	case errors.Is(err, errFound):
		return data, nil
	case err != nil:
		return nil, err
	}
	return nil, fmt.Errorf("archive %s has no member %s", archivePath, member)
}

// ReadIndexed reads a file through the index, from an archive or from disk.
func ReadIndexed(path string, fileIndex map[string]string) ([]byte, error) {
	lower := strings.ToLower(path)
	loc, ok := fileIndex[lower]
	if !ok {
		return nil, fmt.Errorf("file not in index: %s", path)
	}
	if IsArchive(loc) {
		return ReadFileFromArchive(loc, lower)
	}
	return os.ReadFile(loc)
}

// IterateArchive calls fn for each file member of a zip archive in stored
// order, skipping directory entries. An error from fn ends the walk and is
// returned as is.
func IterateArchive(archivePath string, fn func(name string, open func() (io.ReadCloser, error)) error) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := fn(f.Name, f.Open); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchive writes files to a new zip at outputPath. Members are stored
// deflated in name order so the same inputs give byte-identical bundles.
func WriteArchive(outputPath string, files map[string][]byte) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", outputPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range slices.Sorted(maps.Keys(files)) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("add %s to %s: %w", name, outputPath, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return fmt.Errorf("write %s to %s: %w", name, outputPath, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive %s: %w", outputPath, err)
	}
	return out.Close()
}

// ExtractFiles reads the given paths through the index. Paths missing from
// the index are left out. Returns lowered path → file data.
func ExtractFiles(paths []string, fileIndex map[string]string) (map[string][]byte, error) {
	byArchive := make(map[string][]string)
	result := make(map[string][]byte)

	for _, path := range paths {
		lower := strings.ToLower(path)
		loc, ok := fileIndex[lower]
		if !ok {
			continue
		}
		if !IsArchive(loc) {
			data, err := os.ReadFile(loc)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", loc, err)
			}
			result[lower] = data
			continue
		}
		byArchive[loc] = append(byArchive[loc], lower)
	}

	for archivePath, wantedPaths := range byArchive {
		wanted := make(map[string]bool, len(wantedPaths))
		for _, p := range wantedPaths {
			wanted[p] = true
		}

		err := IterateArchive(archivePath, func(name string, open func() (io.ReadCloser, error)) error {
			lower := strings.ToLower(name)
			if !wanted[lower] {
				return nil
			}
			rc, err := open()
			if err != nil {
				return fmt.Errorf("open %s in %s: %w", name, archivePath, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("read %s in %s: %w", name, archivePath, err)
			}
			result[lower] = data
			delete(wanted, lower)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ModelPaths returns the indexed model paths in sorted order.
func ModelPaths(fileIndex map[string]string) []string {
	var models []string
	for p := range fileIndex {
		if IsModel(p) {
			models = append(models, p)
		}
	}
	sort.Strings(models)
	return models
}
