package value

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{name: "String", input: `"hi"`, want: String("hi")},
		{name: "Number", input: `1.50`, want: Number("1.50")},
		{name: "Bool", input: `true`, want: Bool(true)},
		{name: "Null", input: `null`, want: Null{}},
		{name: "EmptyObject", input: `{}`, want: Object{}},
		{name: "EmptyArray", input: ` [ ] `, want: Array{}},
		{
			name:  "KeepsOrder",
			input: `{"z": 1, "a": [true, null], "m": {"k": "v"}}`,
			want: Object{
				{Key: "z", Value: Number("1")},
				{Key: "a", Value: Array{Bool(true), Null{}}},
				{Key: "m", Value: Object{{Key: "k", Value: String("v")}}},
			},
		},
		{
			name:  "DuplicateKey",
			input: `{"a": 1, "b": 2, "a": 3}`,
			want: Object{
				{Key: "a", Value: Number("3")},
				{Key: "b", Value: Number("2")},
			},
		},
		{
			name:  "Nested",
			input: `[[1,2]]`,
			want:  Array{Array{Number("1"), Number("2")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeJSON: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeJSON = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{name: "Empty", input: ``, check: func(err error) bool { return errors.Is(err, io.ErrUnexpectedEOF) }},
		{name: "Unclosed", input: `{"a": 1`, check: func(err error) bool { return errors.Is(err, io.ErrUnexpectedEOF) }},
		{name: "Trailing", input: `{} {}`, check: func(err error) bool { return errors.Is(err, ErrTrailingData) }},
		{name: "BadKey", input: `{1: 2}`, check: isSyntaxError},
		{name: "Garbage", input: `{invalid json}`, check: isSyntaxError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func isSyntaxError(err error) bool {
	var se *json.SyntaxError
	return errors.As(err, &se)
}

func TestDecodeJSONDeepNesting(t *testing.T) {
	const depth = 100000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	v, err := DecodeJSON([]byte(input))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	levels := 0
	for {
		arr, ok := v.(Array)
		if !ok || len(arr) == 0 {
			break
		}
		v = arr[0]
		levels++
	}
	if levels != depth-1 {
		t.Errorf("levels = %d, want %d", levels, depth-1)
	}
}

func TestDecodeYAML(t *testing.T) {
	input := `
name: demo
count: 3
ratio: 0.5
enabled: true
missing: ~
tags: [b, a]
`
	got, err := DecodeYAML([]byte(input))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	want := Object{
		{Key: "name", Value: String("demo")},
		{Key: "count", Value: Number("3")},
		{Key: "ratio", Value: Number("0.5")},
		{Key: "enabled", Value: Bool(true)},
		{Key: "missing", Value: Null{}},
		{Key: "tags", Value: Array{String("b"), String("a")}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeYAML = %#v, want %#v", got, want)
	}
}

func TestDecodeYAMLEmpty(t *testing.T) {
	got, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if _, ok := got.(Null); !ok {
		t.Errorf("DecodeYAML(nil) = %#v, want Null", got)
	}
}

func TestFromAny(t *testing.T) {
	var x any
	if err := json.Unmarshal([]byte(`{"b": [1, "two"], "a": null}`), &x); err != nil {
		t.Fatal(err)
	}
	got, err := FromAny(x)
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	want := Object{
		{Key: "a", Value: Null{}},
		{Key: "b", Value: Array{Number("1"), String("two")}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromAny = %#v, want %#v", got, want)
	}

	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{String("value"), "value"},
		{Number("1e3"), "1e3"},
		{Bool(false), "false"},
		{Null{}, "null"},
		{Object{}, "{…}"},
		{Array{}, "[…]"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
