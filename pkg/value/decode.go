package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrTrailingData is returned when a document holds more than one value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// frame is an open container during token-driven decoding.
type frame struct {
	object  bool
	members Object
	elems   Array
	key     string
	haveKey bool
	seen    map[string]int
}

func (f *frame) add(v Value) {
	if !f.object {
		f.elems = append(f.elems, v)
		return
	}
	if i, ok := f.seen[f.key]; ok {
		// a repeated key keeps its first position and takes the last value
		f.members[i].Value = v
	} else {
		f.seen[f.key] = len(f.members)
		f.members = append(f.members, Member{Key: f.key, Value: v})
	}
	f.haveKey = false
}

func (f *frame) value() Value {
	if f.object {
		if f.members == nil {
			return Object{}
		}
		return f.members
	}
	if f.elems == nil {
		return Array{}
	}
	return f.elems
}

// DecodeJSON parses exactly one JSON document from data.
//
// Object members keep document order and numbers keep their literal text.
// Decoding walks the token stream with an explicit stack, so nesting depth
// is limited by memory rather than by the goroutine stack.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var stack []*frame
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		var v Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &frame{object: true, seen: map[string]int{}})
				continue
			case '[':
				stack = append(stack, &frame{})
				continue
			default:
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				v = top.value()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && !stack[n-1].haveKey {
				stack[n-1].key = t
				stack[n-1].haveKey = true
				continue
			}
			v = String(t)
		case json.Number:
			v = Number(t)
		case bool:
			v = Bool(t)
		case nil:
			v = Null{}
		default:
			return nil, fmt.Errorf("unexpected token %T", tok)
		}

		if len(stack) == 0 {
			if _, err := dec.Token(); !errors.Is(err, io.EOF) {
				if err != nil {
					return nil, err
				}
				return nil, ErrTrailingData
			}
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}

// DecodeYAML parses a YAML document into a [Value]. Mapping order is kept.
// An empty document decodes to [Null].
func DecodeYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null{}, nil
	}
	return fromYAML(doc.Content[0])
}

func fromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		obj := make(Object, 0, len(n.Content)/2)
		seen := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			if j, ok := seen[key]; ok {
				obj[j].Value = v
				continue
			}
			seen[key] = len(obj)
			obj = append(obj, Member{Key: key, Value: v})
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return Bool(b), nil
		case "!!int", "!!float":
			return Number(n.Value), nil
		default:
			return String(n.Value), nil
		}
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}
