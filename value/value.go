// Package value provides access to dynamic value trees as consumed by the
// kiwi encoders: scalar coercion to wire types, keyed access to struct and
// message values, and indexed access to sequences.
//
// Decoders always produce canonical shapes (bool, byte, int32, uint32,
// float32, string, []byte, []any, map[string]any). Encoders accept a wider
// set so that trees built from JSON, YAML, CBOR or plain Go values can be
// encoded without a conversion pass.
package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	// ErrInvalidType reports a value whose dynamic shape does not fit the
	// wire type it is encoded as.
	ErrInvalidType = errors.New("invalid type")
	// ErrOverflow reports a numeric value outside the wire type's range.
	ErrOverflow = errors.New("overflow")
)

// numberLike matches json.Number from encoding/json and go-json.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// Absent reports whether v counts as a missing value: a nil interface or a
// nil pointer. Typed nil slices and maps are present and empty.
func Absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func invalid(want string, v any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrInvalidType, want, v)
}

func overflow(want string, v any) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, v, want)
}

// Bool coerces v to a bool.
func Bool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case *bool:
		if t != nil {
			return *t, nil
		}
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), nil
	}
	return false, invalid("bool", v)
}

// String coerces v to a string.
func String(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case *string:
		if t != nil {
			return *t, nil
		}
	case numberLike:
		// json.Number is a string kind but holds a number.
		return "", invalid("string", v)
	}
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", invalid("string", v)
}

// integer normalizes any integral representation of v to either a signed
// or an unsigned 64-bit value. neg reports whether the signed form is
// authoritative.
func integer(v any, want string) (i int64, u uint64, neg bool, err error) {
	switch t := v.(type) {
	case int:
		return int64(t), 0, t < 0, nil
	case int32:
		return int64(t), 0, t < 0, nil
	case int64:
		return t, 0, t < 0, nil
	case uint32:
		return 0, uint64(t), false, nil
	case uint8:
		return 0, uint64(t), false, nil
	case float64:
		return fromFloat(t, want, v)
	case float32:
		return fromFloat(float64(t), want, v)
	case numberLike:
		if n, err := t.Int64(); err == nil {
			return n, 0, n < 0, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, 0, false, invalid(want, v)
		}
		return fromFloat(f, want, v)
	}
	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return n, 0, n < 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 0, rv.Uint(), false, nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float(), want, v)
	}
	return 0, 0, false, invalid(want, v)
}

func fromFloat(f float64, want string, v any) (int64, uint64, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, 0, false, invalid(want, v)
	}
	if f < 0 {
		if f < math.MinInt64 {
			return 0, 0, false, overflow(want, v)
		}
		return int64(f), 0, true, nil
	}
	if f >= math.MaxUint64 {
		return 0, 0, false, overflow(want, v)
	}
	return 0, uint64(f), false, nil
}

// unsigned returns the magnitude of a non-negative integer, or false.
func unsigned(i int64, u uint64, neg bool) (uint64, bool) {
	if neg {
		return 0, false
	}
	if u == 0 && i > 0 {
		return uint64(i), true
	}
	return u, true
}

// Byte coerces v to a byte. Integers outside [0, 255] overflow.
func Byte(v any) (byte, error) {
	if b, ok := v.(byte); ok {
		return b, nil
	}
	i, u, neg, err := integer(v, "byte")
	if err != nil {
		return 0, err
	}
	n, ok := unsigned(i, u, neg)
	if !ok || n > math.MaxUint8 {
		return 0, overflow("byte", v)
	}
	return byte(n), nil
}

// Int32 coerces v to an int32.
func Int32(v any) (int32, error) {
	if n, ok := v.(int32); ok {
		return n, nil
	}
	i, u, neg, err := integer(v, "int")
	if err != nil {
		return 0, err
	}
	if neg {
		if i < math.MinInt32 {
			return 0, overflow("int", v)
		}
		return int32(i), nil
	}
	n, _ := unsigned(i, u, neg)
	if n > math.MaxInt32 {
		return 0, overflow("int", v)
	}
	return int32(n), nil
}

// Uint32 coerces v to a uint32. Negative values overflow.
func Uint32(v any) (uint32, error) {
	if n, ok := v.(uint32); ok {
		return n, nil
	}
	i, u, neg, err := integer(v, "uint")
	if err != nil {
		return 0, err
	}
	n, ok := unsigned(i, u, neg)
	if !ok || n > math.MaxUint32 {
		return 0, overflow("uint", v)
	}
	return uint32(n), nil
}

// Float32 coerces v to a float32. Integers convert with rounding. Finite
// values beyond the float32 range overflow.
func Float32(v any) (float32, error) {
	switch t := v.(type) {
	case float32:
		return t, nil
	case float64:
		return narrow(t, v)
	case numberLike:
		f, err := t.Float64()
		if err != nil {
			if math.IsInf(f, 0) {
				return 0, overflow("float", v)
			}
			return 0, invalid("float", v)
		}
		return narrow(f, v)
	}
	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return narrow(rv.Float(), v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float32(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float32(rv.Uint()), nil
	}
	return 0, invalid("float", v)
}

func narrow(f float64, v any) (float32, error) {
	r := float32(f)
	if math.IsInf(float64(r), 0) && !math.IsInf(f, 0) {
		return 0, overflow("float", v)
	}
	return r, nil
}

// Bytes coerces v to a byte slice. Any sequence whose elements coerce with
// Byte is accepted. A []byte input is returned without copying.
func Bytes(v any) ([]byte, error) {
	if p, ok := v.([]byte); ok {
		return p, nil
	}
	seq, err := AsSeq(v)
	if err != nil {
		return nil, invalid("byte array", v)
	}
	out := make([]byte, seq.Len())
	for i := range out {
		b, err := Byte(seq.At(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
