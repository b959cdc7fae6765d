package matrix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Manifest holds the resolved configurations of a matrix run, keyed by
// environment name. Order preserves the resolution request order so the
// on-disk file is stable across runs.
type Manifest struct {
	Order   []string
	Entries map[string]ResolvedConfig
}

// WriteManifest persists the manifest as a JSON object with keys emitted in
// manifest order (encoding/json would sort them).
func WriteManifest(path string, manifest Manifest) error {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("{\n")

	for index, environment := range manifest.Order {
		cfg, ok := manifest.Entries[environment]
		if !ok {
			continue
		}

		key, err := json.Marshal(environment)
		if err != nil {
			return fmt.Errorf("encode manifest key: %w", err)
		}

		value, err := json.MarshalIndent(cfg, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode manifest value: %w", err)
		}

		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if index < len(manifest.Order)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// ReadManifest loads a manifest written by WriteManifest. Environment names
// are ordered lexically on load.
func ReadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	entries := make(map[string]ResolvedConfig)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest JSON: %w", err)
	}

	order := make([]string, 0, len(entries))
	for key := range entries {
		order = append(order, key)
	}
	sort.Strings(order)

	return Manifest{Order: order, Entries: entries}, nil
}
