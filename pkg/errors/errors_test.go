package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"New", New(ErrCodeInvalidDepth, "depth must be >= -1, got %d", -4), "INVALID_DEPTH: depth must be >= -1, got -4"},
		{"Wrap", Wrap(ErrCodeParse, io.ErrUnexpectedEOF, "parse doc.json"), "PARSE_ERROR: parse doc.json: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeIO, io.ErrUnexpectedEOF, "read doc.json")

	if errors.Unwrap(err) != io.ErrUnexpectedEOF {
		t.Errorf("Unwrap() = %v, want io.ErrUnexpectedEOF", errors.Unwrap(err))
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is(err, io.ErrUnexpectedEOF) = false")
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  Code
		input bool
	}{
		{"parse", New(ErrCodeParse, "bad json"), ErrCodeParse, true},
		{"depth", New(ErrCodeInvalidDepth, "bad depth"), ErrCodeInvalidDepth, true},
		{"backend", New(ErrCodeInvalidBackend, "memcached"), ErrCodeInvalidBackend, true},
		{"io", New(ErrCodeIO, "read failed"), ErrCodeIO, false},
		{"not found", New(ErrCodeNotFound, "GET /doc.json: 404"), ErrCodeNotFound, false},
		{"internal", New(ErrCodeInternal, "boom"), ErrCodeInternal, false},
		{"outermost wins", Wrap(ErrCodeIO, New(ErrCodeParse, "inner"), "outer"), ErrCodeIO, false},
		{"behind fmt", fmt.Errorf("build: %w", New(ErrCodeParse, "bad")), ErrCodeParse, true},
		{"plain", errors.New("plain"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(err, UNSUPPORTED) = true")
			}
			if got := IsInputError(tt.err); got != tt.input {
				t.Errorf("IsInputError() = %v, want %v", got, tt.input)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidFormat, `unsupported format "png"`), `unsupported format "png"`},
		{"with cause", Wrap(ErrCodeParse, io.ErrUnexpectedEOF, "parse input.json"), "parse input.json: unexpected EOF"},
		{"wrapped by fmt", fmt.Errorf("render: %w", New(ErrCodeIO, "write out.svg")), "write out.svg"},
		{"plain", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
