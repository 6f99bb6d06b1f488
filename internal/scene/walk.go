package scene

import (
	"fmt"
	"io"
	"strings"
)

// WalkFunc is called for each group node during traversal. node is one of
// *Editor, *Material or *TextureMap. Returning an error stops the walk.
type WalkFunc func(path string, node any) error

// Walk visits every editor, material and texture map depth-first in file order.
// Paths look like "/editor[0]/material[2]/texture_map[0]".
func Walk(root *Root, fn WalkFunc) error {
	for i, ed := range root.Editors {
		edPath := fmt.Sprintf("/editor[%d]", i)
		if err := fn(edPath, ed); err != nil {
			return err
		}
		for j, m := range ed.Materials {
			mPath := fmt.Sprintf("%s/material[%d]", edPath, j)
			if err := fn(mPath, m); err != nil {
				return err
			}
			for k, tm := range m.TextureMaps() {
				if err := fn(fmt.Sprintf("%s/texture_map[%d]", mPath, k), tm); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Fprint writes an indented dump of the tree.
func Fprint(w io.Writer, root *Root) error {
	var b strings.Builder
	b.WriteString("main\n")
	for _, ed := range root.Editors {
		b.WriteString("  editor\n")
		for _, m := range ed.Materials {
			b.WriteString("    material\n")
			for _, it := range m.Items {
				switch v := it.(type) {
				case MaterialName:
					fmt.Fprintf(&b, "      name %q\n", string(v))
				case *TextureMap:
					b.WriteString("      texture_map\n")
					for _, e := range v.Entries {
						if n, ok := e.(TextureMapName); ok {
							fmt.Fprintf(&b, "        name %q\n", string(n))
						}
					}
				}
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// MaterialInfo is a flat view of one material.
type MaterialInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Textures []string `json:"textures,omitempty" yaml:"textures,omitempty"`
}

// Summarize flattens the tree into one entry per material. Additional name
// chunks after the first are listed as aliases.
func Summarize(root *Root) []MaterialInfo {
	var out []MaterialInfo
	for _, m := range root.Materials() {
		var info MaterialInfo
		seenName := false
		for _, it := range m.Items {
			switch v := it.(type) {
			case MaterialName:
				if !seenName {
					info.Name = string(v)
					seenName = true
				} else {
					info.Aliases = append(info.Aliases, string(v))
				}
			case *TextureMap:
				for _, e := range v.Entries {
					if n, ok := e.(TextureMapName); ok && n != "" {
						info.Textures = append(info.Textures, string(n))
					}
				}
			}
		}
		out = append(out, info)
	}
	return out
}

// Textures returns the distinct texture file names referenced by the tree,
// in first-seen order.
func Textures(root *Root) []string {
	var out []string
	seen := make(map[string]bool)
	for _, info := range Summarize(root) {
		for _, t := range info.Textures {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
