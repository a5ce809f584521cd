package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	errs "github.com/c360studio/semstreams/errors"
	"gopkg.in/yaml.v3"
)

// Indent is the YAML indentation width of written documents.
const Indent = 4

// Encode writes doc to w as YAML. Map keys are written in sorted order.
func Encode(w io.Writer, doc any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Marshal returns doc as YAML.
func Marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteYAML writes doc to path, creating parent directories.
func WriteYAML(doc any, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return errs.WrapFatal(err, "export", "WriteYAML", "marshal "+path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.WrapFatal(err, "export", "WriteYAML", "create output directory")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.WrapFatal(err, "export", "WriteYAML", "write "+path)
	}
	return nil
}

// LoadYAML reads the YAML mapping at path. An empty file yields an empty map.
func LoadYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapFatal(err, "export", "LoadYAML", "read "+path)
	}

	doc := make(map[string]any)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"export", "LoadYAML", "parse "+path)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}
