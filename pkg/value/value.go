package value

import (
	"fmt"
	"sort"
	"strconv"
)

// Value is a decoded JSON value. The concrete types are [Object], [Array],
// [String], [Number], [Bool] and [Null].
type Value interface {
	isValue()
}

// Object is a JSON object whose members keep document order.
type Object []Member

// Member is a single key/value pair of an [Object].
type Member struct {
	Key   string
	Value Value
}

// Array is a JSON array.
type Array []Value

// String is a JSON string.
type String string

// Number is a JSON number kept as its literal text, so 1.0 and 1e3 round-trip.
type Number string

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

func (Object) isValue() {}
func (Array) isValue()  {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}

// Get returns the value stored under key, if any.
// Duplicate keys resolve to the last occurrence.
func (o Object) Get(key string) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// IsScalar reports whether v is neither an [Object] nor an [Array].
func IsScalar(v Value) bool {
	switch v.(type) {
	case Object, Array:
		return false
	default:
		return true
	}
}

// Text returns the display form of a scalar: strings verbatim, numbers as
// written in the source, booleans and null as their JSON literals.
// Containers render as "{…}" and "[…]".
func Text(v Value) string {
	switch t := v.(type) {
	case String:
		return string(t)
	case Number:
		return string(t)
	case Bool:
		return strconv.FormatBool(bool(t))
	case Null, nil:
		return "null"
	case Object:
		return "{…}"
	case Array:
		return "[…]"
	default:
		return fmt.Sprint(t)
	}
}

// FromAny converts the output of encoding/json (or any similarly shaped Go
// value) into a [Value]. Go maps carry no order, so object keys are sorted.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case float32:
		return Number(strconv.FormatFloat(float64(t), 'f', -1, 32)), nil
	case int:
		return Number(strconv.Itoa(t)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case interface{ String() string }:
		// json.Number and friends
		return Number(t.String()), nil
	case []any:
		arr := make(Array, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(Object, 0, len(keys))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj = append(obj, Member{Key: k, Value: v})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", x)
	}
}
