package kiwi

// Codec encodes and decodes dynamic values against a fixed schema.
//
// *Schema is the reference implementation that walks definitions at run
// time. The codec package provides a precompiled implementation producing
// identical bytes and errors.
type Codec interface {
	Encode(t TypeRef, v any, opts ...Opt) ([]byte, error)
	Decode(t TypeRef, data []byte, opts ...Opt) (any, error)
}

var _ Codec = (*Schema)(nil)

// EncodeAs encodes v as the named type with any Codec bound to s.
func EncodeAs(s *Schema, c Codec, name string, v any, opts ...Opt) ([]byte, error) {
	t, err := s.TypeOf(name)
	if err != nil {
		return nil, err
	}
	return c.Encode(t, v, opts...)
}

// DecodeAs decodes data as the named type with any Codec bound to s.
func DecodeAs(s *Schema, c Codec, name string, data []byte, opts ...Opt) (any, error) {
	t, err := s.TypeOf(name)
	if err != nil {
		return nil, err
	}
	return c.Decode(t, data, opts...)
}
