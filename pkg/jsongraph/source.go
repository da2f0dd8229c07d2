package jsongraph

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/value"
)

// Format is the syntax of a source document.
type Format string

// Supported source formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml files and JSON for everything else.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat accepts "json", "yaml" or "yml". The empty string yields the
// empty Format, which callers resolve from a path or treat as JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (want json or yaml)", s)
	}
}

// Decode parses data in the given format.
// Malformed documents fail with [errors.ErrCodeParse].
func Decode(data []byte, format Format) (value.Value, error) {
	var (
		v   value.Value
		err error
	)
	switch format {
	case FormatJSON, "":
		v, err = value.DecodeJSON(data)
	case FormatYAML:
		v, err = value.DecodeYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported source format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid %s", strings.ToUpper(string(orJSON(format))))
	}
	return v, nil
}

func orJSON(f Format) Format {
	if f == "" {
		return FormatJSON
	}
	return f
}

// FromSource reads and parses the document at path, then builds its tree.
//
// An unreadable path fails with [errors.ErrCodeIO]; malformed content fails
// with [errors.ErrCodeParse].
func FromSource(path string, opts ...Option) (*Builder, error) {
	if err := errors.ValidateSourcePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return FromBytes(data, FormatForPath(path), opts...)
}

// FromReader reads r to the end and builds the tree of its document.
// FromReader does not close r.
func FromReader(r io.Reader, format Format, opts ...Option) (*Builder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read input")
	}
	return FromBytes(data, format, opts...)
}

// FromBytes parses data and builds its tree.
func FromBytes(data []byte, format Format, opts ...Option) (*Builder, error) {
	v, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return New(v, opts...)
}
