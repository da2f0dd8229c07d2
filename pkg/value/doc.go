// Package value provides an order-preserving model of JSON documents.
//
// encoding/json decodes objects into Go maps, which lose member order. The
// tree built from a document must follow key order exactly, so this package
// decodes into [Object] (an ordered member list), [Array] and the scalar
// types [String], [Number], [Bool] and [Null].
//
// # Decoding
//
//	v, err := value.DecodeJSON(data)  // strict JSON, one document
//	v, err := value.DecodeYAML(data)  // YAML, mapping order preserved
//	v, err := value.FromAny(x)        // Go values; map keys are sorted
//
// Numbers keep their literal text ("1.0" stays "1.0"). Repeated object keys
// keep the position of their first occurrence and the value of the last.
package value
