package kiwi_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/reoring/kiwi"
)

func limitsSchema(t *testing.T) *kiwi.Schema {
	t.Helper()
	s, err := kiwi.NewSchema([]*kiwi.Definition{
		kiwi.NewDefinition("Empty", kiwi.KindStruct, nil),
		kiwi.NewDefinition("Point", kiwi.KindStruct, []kiwi.Field{
			{Name: "x", Type: kiwi.TypeFloat},
			{Name: "y", Type: kiwi.TypeFloat},
		}),
		kiwi.NewDefinition("Pair", kiwi.KindStruct, []kiwi.Field{
			{Name: "a", Type: 1},
			{Name: "b", Type: 1},
			{Name: "tags", Type: kiwi.TypeString, IsArray: true},
		}),
		kiwi.NewDefinition("Holder", kiwi.KindMessage, []kiwi.Field{
			{Name: "empties", Type: 0, IsArray: true, Value: 1},
			{Name: "points", Type: 1, IsArray: true, Value: 2},
			{Name: "ids", Type: kiwi.TypeUint, IsArray: true, Value: 3},
			{Name: "self", Type: 3, Value: 4},
		}),
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func TestMinWireSize(t *testing.T) {
	s := limitsSchema(t)
	tests := []struct {
		typ  kiwi.TypeRef
		want int
	}{
		{kiwi.TypeBool, 1},
		{kiwi.TypeString, 1},
		{0, 0},
		{1, 2},
		{2, 5},
		{3, 1},
		{kiwi.TypeRef(42), 0},
	}
	for _, tt := range tests {
		if got := s.MinWireSize(tt.typ); got != tt.want {
			t.Fatalf("MinWireSize(%v) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestArrayCountBeyondInput(t *testing.T) {
	s := limitsSchema(t)
	// 5,000,000 as a var_uint.
	huge := []byte{0xc0, 0x96, 0xb1, 0x02}
	tests := []struct {
		name string
		data []byte
		path string
	}{
		{"uint array", append([]byte{3}, huge...), "/ids"},
		{"struct array", append([]byte{2}, huge...), "/points"},
		{"short struct array", []byte{2, 2, 0, 0, 0}, "/points"},
		{"nested", append([]byte{4, 3}, huge...), "/self/ids"},
	}
	for _, tt := range tests {
		_, err := s.DecodeByName("Holder", tt.data)
		iss, ok := kiwi.AsIssue(err)
		if !ok || !errors.Is(err, kiwi.ErrOutOfBounds) {
			t.Fatalf("%s: expected out_of_bounds, got %v", tt.name, err)
		}
		if iss.Path != tt.path {
			t.Fatalf("%s: path = %q, want %q", tt.name, iss.Path, tt.path)
		}
	}
}

func TestZeroSizeArrayElements(t *testing.T) {
	s := limitsSchema(t)
	v, err := s.DecodeByName("Holder", []byte{1, 3, 0})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	empties := v.(map[string]any)["empties"].([]any)
	if len(empties) != 3 {
		t.Fatalf("expected 3 empty structs, got %d", len(empties))
	}
}

func TestStructCycleRejectedFromBinary(t *testing.T) {
	loop := []byte{1, 'L', 'o', 'o', 'p', 0, byte(kiwi.KindStruct), 1, 's', 'e', 'l', 'f', 0, 0, 0, 0}
	if _, err := kiwi.FromBinary(loop); !errors.Is(err, kiwi.ErrMalformedSchema) {
		t.Fatalf("expected malformed_schema, got %v", err)
	}
}

func TestStructCyclesBrokenByArrayOrMessage(t *testing.T) {
	_, err := kiwi.NewSchema([]*kiwi.Definition{
		kiwi.NewDefinition("Tree", kiwi.KindStruct, []kiwi.Field{{Name: "kids", Type: 0, IsArray: true}}),
		kiwi.NewDefinition("A", kiwi.KindStruct, []kiwi.Field{{Name: "m", Type: 2}}),
		kiwi.NewDefinition("M", kiwi.KindMessage, []kiwi.Field{{Name: "a", Type: 1, Value: 1}}),
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
}

func TestEncodeScalarMismatch(t *testing.T) {
	s := limitsSchema(t)
	tests := []struct {
		name string
		typ  kiwi.TypeRef
		in   any
		want error
	}{
		{"float beyond float32", kiwi.TypeFloat, 1e300, kiwi.ErrOverflow},
		{"number as string", kiwi.TypeString, json.Number("5"), kiwi.ErrInvalidType},
	}
	for _, tt := range tests {
		if _, err := s.Encode(tt.typ, tt.in); !errors.Is(err, tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}
