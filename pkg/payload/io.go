package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal converts a document to indented canonical JSON.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a document as canonical JSON to w.
func Write(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc.Normalized())
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f)
}

// Read decodes a document in any known shape from r.
func Read(r io.Reader) (Document, Shape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, ShapeUnknown, err
	}
	return Parse(data)
}

// ReadFile decodes a document in any known shape from a file.
func ReadFile(path string) (Document, Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, ShapeUnknown, fmt.Errorf("read %s: %w", path, err)
	}
	doc, shape, err := Parse(data)
	if err != nil {
		return Document{}, shape, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, shape, nil
}
