package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// write renders v in the configured format. text is used for the text
// format only.
func (e *env) write(v any, text func(io.Writer) error) error {
	switch e.cfg.Output {
	case "json":
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(e.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return text(e.stdout)
	}
	return fmt.Errorf("unknown output format %q", e.cfg.Output)
}
