package assets

import (
	"bytes"
	"testing"
)

func TestResolveTexture(t *testing.T) {
	index := map[string]string{
		"textures/wood.tga":  "pak0.pk3",
		"textures/stone.bmp": "pak0.pk3",
		"textures/sky.png":   "pak0.pk3",
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"textures/wood.tga", "textures/wood.tga", true},
		{"TEXTURES\\WOOD.TGA", "textures/wood.tga", true},
		{"textures/wood.bmp", "textures/wood.tga", true},
		{"textures/stone", "textures/stone.bmp", true},
		{"textures/sky.gif", "", false},
		{"textures/sky", "textures/sky.png", true},
		{"", "", false},
		{"textures/none.tga", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveTexture(tt.name, index)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ResolveTexture(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveModelTexture(t *testing.T) {
	index := map[string]string{
		"models/house/wood.bmp": "",
		"textures/wood.bmp":     "",
		"textures/brick.tga":    "",
		"other/brick.tga":       "",
		"maps/grass.jpg":        "",
	}

	tests := []struct {
		model  string
		name   string
		want   string
		wantOK bool
	}{
		{"models/house/house.3ds", "WOOD.BMP", "models/house/wood.bmp", true},
		{"models/barn/barn.3ds", "wood.bmp", "models/house/wood.bmp", true},
		{"barn.3ds", "textures/wood.bmp", "textures/wood.bmp", true},
		{"models/barn/barn.3ds", "BRICK.BMP", "other/brick.tga", true},
		{"models/barn/barn.3ds", "grass", "maps/grass.jpg", true},
		{"models/barn/barn.3ds", "roof.bmp", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveModelTexture(tt.model, tt.name, index)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ResolveModelTexture(%q, %q) = %q, %v; want %q, %v", tt.model, tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProbeTexture(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		w, h   int
		pow2   bool
	}{
		{"wood.bmp", encodeBMP(t, 4, 4), "bmp", 4, 4, true},
		{"stone.TGA", encodeTGA(t, 8, 6), "tga", 8, 6, false},
		{"sky.png", encodePNG(t, 16, 32), "png", 16, 32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ProbeTexture(tt.name, bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("ProbeTexture failed: %v", err)
			}
			if info.Format != tt.format || info.Width != tt.w || info.Height != tt.h {
				t.Errorf("unexpected info %+v", info)
			}
			if info.PowerOfTwo() != tt.pow2 {
				t.Errorf("PowerOfTwo = %v, want %v", info.PowerOfTwo(), tt.pow2)
			}
		})
	}
}

func TestProbeTextureErrors(t *testing.T) {
	if _, err := ProbeTexture("a.gif", bytes.NewReader(nil)); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := ProbeTexture("a.png", bytes.NewReader([]byte("not a png"))); err == nil {
		t.Error("expected error for corrupt png")
	}
}
