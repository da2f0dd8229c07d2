package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Elements Serialization API
// =============================================================================

// MarshalElements converts elements to indented JSON bytes.
func MarshalElements(e Elements) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeElementsTo(e, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalElements deserializes a flat JSON record array.
func UnmarshalElements(data []byte) (Elements, error) {
	var e Elements
	if err := json.Unmarshal(data, &e); err != nil {
		return Elements{}, fmt.Errorf("unmarshal elements: %w", err)
	}
	return e, nil
}

// WriteElementsFile writes elements to a JSON file.
// The file is created with 0644 permissions.
func WriteElementsFile(e Elements, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeElementsTo(e, f)
}

// WriteElements writes elements as JSON to an io.Writer.
func WriteElements(e Elements, w io.Writer) error {
	return writeElementsTo(e, w)
}

// ReadElementsFile reads a record array from a JSON file.
func ReadElementsFile(path string) (Elements, error) {
	f, err := os.Open(path)
	if err != nil {
		return Elements{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadElements(f)
}

// ReadElements decodes a record array from an io.Reader.
func ReadElements(r io.Reader) (Elements, error) {
	var e Elements
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Elements{}, fmt.Errorf("decode: %w", err)
	}
	return e, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeElementsTo(e Elements, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
