// Package scene decodes the editor, material and texture-map chunks of a
// 3DS file into a typed tree. Chunks outside that subset are skipped.
package scene

// Root is the decoded top-level chunk.
type Root struct {
	Editors []*Editor
}

// Editor is the 3D editor (scene) chunk.
type Editor struct {
	Materials []*Material
}

// Material holds the recognized children of a material block in file order.
type Material struct {
	Items []MaterialItem
}

// MaterialItem is one of MaterialName or *TextureMap.
type MaterialItem interface {
	isMaterialItem()
}

// MaterialName is the name subchunk of a material.
type MaterialName string

// TextureMap is the primary texture-map subchunk of a material.
type TextureMap struct {
	Entries []TextureMapEntry
}

// TextureMapEntry is one of TextureMapName.
type TextureMapEntry interface {
	isTextureMapEntry()
}

// TextureMapName is the file name referenced by a texture map.
type TextureMapName string

func (MaterialName) isMaterialItem()      {}
func (*TextureMap) isMaterialItem()       {}
func (TextureMapName) isTextureMapEntry() {}

// Name returns the first name recorded for the material, or "".
func (m *Material) Name() string {
	for _, it := range m.Items {
		if n, ok := it.(MaterialName); ok {
			return string(n)
		}
	}
	return ""
}

// TextureMaps returns the material's texture maps in file order.
func (m *Material) TextureMaps() []*TextureMap {
	var maps []*TextureMap
	for _, it := range m.Items {
		if tm, ok := it.(*TextureMap); ok {
			maps = append(maps, tm)
		}
	}
	return maps
}

// Name returns the first file name recorded for the texture map, or "".
func (t *TextureMap) Name() string {
	for _, e := range t.Entries {
		if n, ok := e.(TextureMapName); ok {
			return string(n)
		}
	}
	return ""
}

// Materials returns every material across all editor chunks.
func (r *Root) Materials() []*Material {
	var mats []*Material
	for _, ed := range r.Editors {
		mats = append(mats, ed.Materials...)
	}
	return mats
}
