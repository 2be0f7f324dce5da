// Package yamlsource is boxmux's own reference implementation of the
// external configuration-file parser contract (§1, §6). The core Config
// Loader depends only on config.Source; this package exists so
// cmd/boxmux has something real to read from disk, built on
// gopkg.in/yaml.v3 (grounded on the example pack's lthms-vee editor,
// which uses yaml.v3 for its own on-disk configuration).
package yamlsource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source reads a §6-shaped YAML document and flattens it into the
// "___"-joined dotted-path map the Config Loader expects.
type Source struct{}

// Load implements config.Source.
func (Source) Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlsource: read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlsource: parse %s: %w", path, err)
	}

	out := make(map[string]string)
	flatten(doc["layout"], "layout", out)
	return out, nil
}

// flatten recursively walks a decoded YAML node and writes its leaves
// into out under "___"-joined dotted paths, matching §4.5's expected
// key shape (children enumerated 1-based, event scripts enumerated
// 1-based under on_<name>).
func flatten(node any, path string, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			flatten(child, path+"___"+key, out)
		}
	case []any:
		for i, child := range v {
			flatten(child, fmt.Sprintf("%s___%d", path, i+1), out)
		}
	case nil:
		// absent field: leave unset so the Loader's defaulting applies.
	default:
		out[path] = fmt.Sprintf("%v", v)
	}
}
