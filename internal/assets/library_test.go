package assets

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ernie/threeds/internal/scene"
)

func TestBuildModelBundle(t *testing.T) {
	dir := newLibrary(t)
	index, err := BuildFileIndex(CollectSources(dir))
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "rock.zip")
	res, err := BuildModelBundle("Models/Rock.3ds.zst", index, out)
	if err != nil {
		t.Fatalf("BuildModelBundle failed: %v", err)
	}
	if !reflect.DeepEqual(res.Files, []string{"models/rock.3ds.zst", "textures/stone.tga"}) {
		t.Errorf("Files = %v", res.Files)
	}
	if !reflect.DeepEqual(res.Missing, []string{"moss.png"}) {
		t.Errorf("Missing = %v", res.Missing)
	}

	set, err := BundleFileSet(out)
	if err != nil {
		t.Fatalf("BundleFileSet failed: %v", err)
	}
	if len(set) != 2 || !set["textures/stone.tga"] {
		t.Errorf("unexpected bundle contents %v", set)
	}
}

func TestBuildModelBundleUnknownModel(t *testing.T) {
	if _, err := BuildModelBundle("nope.3ds", map[string]string{}, filepath.Join(t.TempDir(), "x.zip")); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestBuildLibrary(t *testing.T) {
	dir := newLibrary(t)
	// A broken model must not stop the build.
	writeFile(t, filepath.Join(dir, "broken.3ds"), []byte{0x4D, 0x4D, 0xFF, 0x00, 0x00, 0x00})

	out := t.TempDir()
	m, err := BuildLibrary(dir, out)
	if err != nil {
		t.Fatalf("BuildLibrary failed: %v", err)
	}
	if len(m.Models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(m.Models))
	}

	house := m.Models["models/house/house.3ds"]
	if house == nil {
		t.Fatal("house model missing from manifest")
	}
	wantMats := []scene.MaterialInfo{
		{Name: "Wood", Textures: []string{"WOOD.BMP"}},
		{Name: "Glass"},
	}
	if !reflect.DeepEqual(house.Materials, wantMats) {
		t.Errorf("house materials = %+v", house.Materials)
	}
	if house.Textures["WOOD.BMP"] != "models/house/wood.bmp" {
		t.Errorf("house textures = %v", house.Textures)
	}
	if house.Bundle != "models_house_house.zip" {
		t.Errorf("house bundle = %q", house.Bundle)
	}

	rock := m.Models["models/rock.3ds.zst"]
	if rock == nil || !reflect.DeepEqual(rock.Missing, []string{"moss.png"}) {
		t.Errorf("unexpected rock entry %+v", rock)
	}

	if broken := m.Models["broken.3ds"]; broken == nil || broken.Error == "" || broken.Bundle != "" {
		t.Errorf("expected error recorded for broken model, got %+v", broken)
	}

	for _, name := range []string{"models_house_house.zip", "models_rock.zip"} {
		if _, err := os.Stat(filepath.Join(out, "models", name)); err != nil {
			t.Errorf("bundle %s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "models", "broken.zip")); !os.IsNotExist(err) {
		t.Error("no bundle expected for broken model")
	}

	loaded, err := LoadManifest(filepath.Join(out, "manifest.json"))
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Models["models/house/house.3ds"], house) {
		t.Errorf("reloaded house entry differs: %+v", loaded.Models["models/house/house.3ds"])
	}
}

func TestBuildLibraryBundleFailure(t *testing.T) {
	dir := newLibrary(t)
	out := t.TempDir()
	// A directory in the bundle's place makes the write fail after decoding.
	if err := os.MkdirAll(filepath.Join(out, "models", "models_rock.zip"), 0755); err != nil {
		t.Fatal(err)
	}

	m, err := BuildLibrary(dir, out)
	if err != nil {
		t.Fatalf("BuildLibrary failed: %v", err)
	}
	rock := m.Models["models/rock.3ds.zst"]
	if rock == nil || rock.Error == "" || rock.Bundle != "" {
		t.Fatalf("expected bundle error recorded for rock, got %+v", rock)
	}
	if len(rock.Materials) != 2 {
		t.Errorf("decoded materials should still be described, got %+v", rock.Materials)
	}
	if house := m.Models["models/house/house.3ds"]; house.Error != "" || house.Bundle == "" {
		t.Errorf("house should bundle normally, got %+v", house)
	}
}

func TestManifestYAML(t *testing.T) {
	m := NewManifest(map[string]string{"a.3ds": "/src/a.3ds"})
	m.Models["a.3ds"] = &ModelManifest{
		Size:      42,
		Materials: []scene.MaterialInfo{{Name: "Wood", Textures: []string{"wood.bmp"}}},
		Missing:   []string{"wood.bmp"},
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, m) {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestBundleName(t *testing.T) {
	tests := map[string]string{
		"models/house/house.3ds": "models_house_house.zip",
		"Models/Rock.3DS.zst":    "models_rock.zip",
		"box.3ds.gz":             "box.zip",
	}
	for in, want := range tests {
		if got := BundleName(in); got != want {
			t.Errorf("BundleName(%q) = %q, want %q", in, got, want)
		}
	}
}
