package value

import (
	"reflect"
	"strings"
	"sync"
)

// Record gives keyed access to a struct or message value. Get reports
// false for keys that are missing or hold an absent value.
type Record interface {
	Get(name string) (any, bool)
}

// Seq gives indexed access to an array value.
type Seq interface {
	Len() int
	At(i int) any
}

type mapRecord map[string]any

func (m mapRecord) Get(name string) (any, bool) {
	v, ok := m[name]
	if !ok || Absent(v) {
		return nil, false
	}
	return v, true
}

type reflectMapRecord struct{ rv reflect.Value }

func (r reflectMapRecord) Get(name string) (any, bool) {
	k := reflect.ValueOf(name).Convert(r.rv.Type().Key())
	v := r.rv.MapIndex(k)
	if !v.IsValid() {
		return nil, false
	}
	out := v.Interface()
	if Absent(out) {
		return nil, false
	}
	return out, true
}

type structRecord struct {
	rv     reflect.Value
	fields map[string][]int
}

func (r structRecord) Get(name string) (any, bool) {
	idx, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	f := r.rv.FieldByIndex(idx)
	switch f.Kind() {
	case reflect.Pointer, reflect.Interface:
		if f.IsNil() {
			return nil, false
		}
	}
	return f.Interface(), true
}

// AsRecord wraps v for keyed access. Accepted shapes are map[string]any,
// any map with a string key kind, and Go structs (or pointers to them).
func AsRecord(v any) (Record, error) {
	if m, ok := v.(map[string]any); ok {
		return mapRecord(m), nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, invalid("record", v)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return reflectMapRecord{rv: rv}, nil
		}
	case reflect.Struct:
		return structRecord{rv: rv, fields: structFields(rv.Type())}, nil
	}
	return nil, invalid("record", v)
}

var structFieldCache sync.Map // reflect.Type -> map[string][]int

func structFields(t reflect.Type) map[string][]int {
	if m, ok := structFieldCache.Load(t); ok {
		return m.(map[string][]int)
	}
	m := make(map[string][]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		m[key] = sf.Index
	}
	actual, _ := structFieldCache.LoadOrStore(t, m)
	return actual.(map[string][]int)
}

// ResolveStructKey returns the record key a struct field is encoded under.
// Priority: kiwi:"name" > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	for _, tag := range []string{"kiwi", "json"} {
		t := sf.Tag.Get(tag)
		if t == "" {
			continue
		}
		if i := strings.IndexByte(t, ','); i >= 0 {
			t = t[:i]
		}
		if t != "" {
			return t
		}
	}
	return sf.Name
}

type anySeq []any

func (s anySeq) Len() int     { return len(s) }
func (s anySeq) At(i int) any { return s[i] }

type reflectSeq struct{ rv reflect.Value }

func (s reflectSeq) Len() int     { return s.rv.Len() }
func (s reflectSeq) At(i int) any { return s.rv.Index(i).Interface() }

// AsSeq wraps v for indexed access. Any slice or array is accepted; strings
// are not sequences.
func AsSeq(v any) (Seq, error) {
	if s, ok := v.([]any); ok {
		return anySeq(s), nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, invalid("array", v)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return reflectSeq{rv: rv}, nil
	}
	return nil, invalid("array", v)
}
