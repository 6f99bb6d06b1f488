package assets

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"

	"github.com/ernie/threeds/internal/chunk"
	ct "github.com/ernie/threeds/internal/chunk/chunktest"
)

// modelWith builds a 3DS buffer with one material per name → texture pair.
func modelWith(t *testing.T, mats ...[2]string) []byte {
	t.Helper()
	var nodes []ct.Node
	for _, m := range mats {
		children := []ct.Node{ct.String(chunk.MaterialName, m[0])}
		if m[1] != "" {
			children = append(children, ct.Chunk(chunk.TextureMap, ct.String(chunk.MapFileName, m[1])))
		}
		nodes = append(nodes, ct.Chunk(chunk.Material, children...))
	}
	return ct.Chunk(chunk.Main, ct.Chunk(chunk.Editor, nodes...)).Bytes()
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 0xff, A: 0xff})
	}
	return img
}

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	return buf.Bytes()
}

func encodeTGA(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tga.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encode tga: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}

// newLibrary lays out a source tree:
//
//	models/house/house.3ds   Wood → WOOD.BMP, Glass (no map)
//	models/house/wood.bmp    4x4
//	pak0.pk3                 Models/Rock.3ds.zst (Stone → textures\stone, Moss → moss.png)
//	                         textures/stone.tga 8x8
//	pak1.pk3                 textures/stone.tga 16x16 (overrides pak0)
func newLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models", "house", "house.3ds"),
		modelWith(t, [2]string{"Wood", "WOOD.BMP"}, [2]string{"Glass", ""}))
	writeFile(t, filepath.Join(dir, "models", "house", "wood.bmp"), encodeBMP(t, 4, 4))
	writeZip(t, filepath.Join(dir, "pak0.pk3"), map[string][]byte{
		"Models/Rock.3ds.zst": zstdCompress(t, modelWith(t,
			[2]string{"Stone", `textures\stone`},
			[2]string{"Moss", "moss.png"},
		)),
		"textures/stone.tga": encodeTGA(t, 8, 8),
	})
	writeZip(t, filepath.Join(dir, "pak1.pk3"), map[string][]byte{
		"textures/stone.tga": encodeTGA(t, 16, 16),
	})
	return dir
}
