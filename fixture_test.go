package kiwi_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/reoring/kiwi"
)

const (
	typeEnum    kiwi.TypeRef = 0
	typeStruct  kiwi.TypeRef = 1
	typeMessage kiwi.TypeRef = 2
)

// fixtureDefinitions covers every primitive and compound type, both as a
// single value and as an array.
func fixtureDefinitions() []*kiwi.Definition {
	return []*kiwi.Definition{
		kiwi.NewDefinition("Enum", kiwi.KindEnum, []kiwi.Field{
			{Name: "FOO", Value: 100},
			{Name: "BAR", Value: 200},
		}),
		kiwi.NewDefinition("Struct", kiwi.KindStruct, []kiwi.Field{
			{Name: "v_enum", Type: typeEnum, IsArray: true},
			{Name: "v_message", Type: typeMessage},
		}),
		kiwi.NewDefinition("Message", kiwi.KindMessage, []kiwi.Field{
			{Name: "v_bool", Type: kiwi.TypeBool, Value: 1},
			{Name: "v_byte", Type: kiwi.TypeByte, Value: 2},
			{Name: "v_int", Type: kiwi.TypeInt, Value: 3},
			{Name: "v_uint", Type: kiwi.TypeUint, Value: 4},
			{Name: "v_float", Type: kiwi.TypeFloat, Value: 5},
			{Name: "v_string", Type: kiwi.TypeString, Value: 6},
			{Name: "v_enum", Type: typeEnum, Value: 7},
			{Name: "v_struct", Type: typeStruct, Value: 8},
			{Name: "v_message", Type: typeMessage, Value: 9},

			{Name: "a_bool", Type: kiwi.TypeBool, IsArray: true, Value: 10},
			{Name: "a_byte", Type: kiwi.TypeByte, IsArray: true, Value: 11},
			{Name: "a_int", Type: kiwi.TypeInt, IsArray: true, Value: 12},
			{Name: "a_uint", Type: kiwi.TypeUint, IsArray: true, Value: 13},
			{Name: "a_float", Type: kiwi.TypeFloat, IsArray: true, Value: 14},
			{Name: "a_string", Type: kiwi.TypeString, IsArray: true, Value: 15},
			{Name: "a_enum", Type: typeEnum, IsArray: true, Value: 16},
			{Name: "a_struct", Type: typeStruct, IsArray: true, Value: 17},
			{Name: "a_message", Type: typeMessage, IsArray: true, Value: 18},
		}),
	}
}

func fixtureSchema(t testing.TB) *kiwi.Schema {
	t.Helper()
	s, err := kiwi.NewSchema(fixtureDefinitions())
	qt.Assert(t, qt.IsNil(err))
	return s
}

// fullMessage sets every field of Message, in the canonical decoded shapes.
func fullMessage() map[string]any {
	emptyStruct := map[string]any{"v_enum": []any{}, "v_message": map[string]any{}}
	return map[string]any{
		"v_bool":    true,
		"v_byte":    byte(7),
		"v_int":     int32(-300),
		"v_uint":    uint32(300),
		"v_float":   float32(1.5),
		"v_string":  "héllo",
		"v_enum":    "BAR",
		"v_struct":  map[string]any{"v_enum": []any{"FOO"}, "v_message": map[string]any{"v_int": int32(1)}},
		"v_message": map[string]any{"v_string": "inner"},
		"a_bool":    []any{true, false},
		"a_byte":    []byte{0, 1, 255},
		"a_int":     []any{int32(-2147483648), int32(2147483647)},
		"a_uint":    []any{uint32(0), uint32(4294967295)},
		"a_float":   []any{float32(-0.25), float32(1e10)},
		"a_string":  []any{"", "🍕"},
		"a_enum":    []any{"FOO", "BAR", "FOO"},
		"a_struct":  []any{emptyStruct, emptyStruct},
		"a_message": []any{map[string]any{}, map[string]any{"v_bool": false}},
	}
}
