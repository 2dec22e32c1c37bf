// Package kiwi encodes and decodes dynamic value trees with compact,
// self-describing binary schemas.
//
// A schema is an ordered list of definitions, each an enum, a struct or a
// message:
//
//   - enums encode a member name as its var_uint value;
//   - structs encode every field in declared order with no tags, and every
//     field is required;
//   - messages encode present fields as (tag, value) pairs in declared order
//     and end with a zero tag; every field is optional.
//
// Design policy:
//   - Keep the public surface in the root package; wire primitives live in
//     wire/, value coercion in value/, the precompiled codec in codec/ and
//     the CLI under cmd/kiwi.
//   - Encoding is deterministic: output never depends on map iteration order.
//   - Every failure is an *Issue whose Code can be matched with errors.Is.
//
// Typical usage:
//
//	s, err := kiwi.FromBinary(schemaBytes)
//	data, err := s.EncodeByName("Message", map[string]any{"id": 7})
//	v, err := s.DecodeByName("Message", data)
package kiwi
