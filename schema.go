package kiwi

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Schema owns an ordered list of definitions and encodes and decodes
// dynamic values against them.
//
// A Schema is immutable after construction and safe for concurrent use.
type Schema struct {
	defs     []*Definition
	byName   map[string]int
	minSizes []int
}

// NewSchema builds a schema from definitions. Each definition is copied,
// its Index set to its position, and its lookup tables rebuilt.
//
// Construction fails with CodeInvalidDefinitionKind for an unknown kind,
// CodeInvalidFieldType for a struct or message field referencing a missing
// definition, and CodeMalformedSchema for duplicate names, tags or values,
// or a message tag of zero. A struct that contains itself through struct
// fields alone, with no array or message in between, is also malformed:
// its values would be infinitely large.
func NewSchema(defs []*Definition) (*Schema, error) {
	s := &Schema{
		defs:   make([]*Definition, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d == nil {
			return nil, NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("definition %d is nil", i))
		}
		c := d.clone()
		c.Index = uint32(i)
		if _, dup := s.byName[c.Name]; dup {
			return nil, NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("duplicate definition name %q", c.Name))
		}
		s.byName[c.Name] = i
		s.defs[i] = c
	}
	for _, d := range s.defs {
		if err := s.check(d); err != nil {
			return nil, err
		}
	}
	if err := s.checkStructCycles(); err != nil {
		return nil, err
	}
	s.minSizes = MinWireSizes(s.defs)
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It simplifies
// initialization of package-level schemas.
func MustSchema(defs ...*Definition) *Schema {
	s, err := NewSchema(defs)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) check(d *Definition) error {
	if !d.Kind.Valid() {
		return NewIssue(CodeInvalidDefinitionKind, -1, fmt.Sprintf("definition %q has kind %d", d.Name, uint8(d.Kind)))
	}
	if len(d.byName) != len(d.Fields) {
		return NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("definition %q has duplicate field names", d.Name))
	}
	if d.Kind == KindStruct {
		for _, f := range d.Fields {
			if err := s.checkType(d, f); err != nil {
				return err
			}
		}
		return nil
	}
	if len(d.byValue) != len(d.Fields) {
		return NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("definition %q has duplicate %s values", d.Name, d.Kind))
	}
	if d.Kind == KindMessage {
		for _, f := range d.Fields {
			if f.Value == 0 {
				return NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("message %q field %q uses reserved tag 0", d.Name, f.Name))
			}
			if err := s.checkType(d, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkStructCycles rejects structs that reach themselves through
// non-array struct fields. Arrays and messages can end after zero elements
// or fields, so they break a cycle.
func (s *Schema) checkStructCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(s.defs))
	var visit func(i int) error
	visit = func(i int) error {
		state[i] = visiting
		d := s.defs[i]
		for _, f := range d.Fields {
			if f.IsArray || f.Type < 0 || s.defs[f.Type].Kind != KindStruct {
				continue
			}
			switch state[f.Type] {
			case visiting:
				return NewIssue(CodeMalformedSchema, -1, fmt.Sprintf("struct %q contains itself through field %q of %q", s.defs[f.Type].Name, f.Name, d.Name))
			case unvisited:
				if err := visit(int(f.Type)); err != nil {
					return err
				}
			}
		}
		state[i] = done
		return nil
	}
	for i, d := range s.defs {
		if d.Kind == KindStruct && state[i] == unvisited {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) checkType(d *Definition, f Field) error {
	if f.Type.IsPrimitive() || (f.Type >= 0 && int(f.Type) < len(s.defs)) {
		return nil
	}
	return NewIssue(CodeInvalidFieldType, -1, fmt.Sprintf("field %q of %q references type %d", f.Name, d.Name, int32(f.Type)))
}

// Definitions returns the definitions in schema order. The slice must not
// be modified.
func (s *Schema) Definitions() []*Definition { return s.defs }

// Definition returns the definition with the given name.
func (s *Schema) Definition(name string) (*Definition, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.defs[i], true
}

// TypeOf resolves a definition or primitive name to a TypeRef.
func (s *Schema) TypeOf(name string) (TypeRef, error) {
	if i, ok := s.byName[name]; ok {
		return TypeRef(i), nil
	}
	if t, ok := PrimitiveByName(name); ok {
		return t, nil
	}
	return 0, NewIssue(CodeUnknownDefinition, -1, fmt.Sprintf("no definition named %q", name))
}

// lookup resolves a compound TypeRef.
func (s *Schema) lookup(t TypeRef) (*Definition, error) {
	if t < 0 || int(t) >= len(s.defs) {
		return nil, NewIssue(CodeInvalidFieldType, -1, fmt.Sprintf("type %d has no definition", int32(t)))
	}
	return s.defs[t], nil
}

// Resolve returns the definition a compound TypeRef refers to.
func (s *Schema) Resolve(t TypeRef) (*Definition, error) { return s.lookup(t) }

// Fingerprint identifies a schema by the BLAKE3-256 hash of its binary form.
type Fingerprint [32]byte

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Fingerprint hashes the schema's binary encoding. Two schemas with equal
// fingerprints encode and decode identically.
func (s *Schema) Fingerprint() Fingerprint {
	return Fingerprint(blake3.Sum256(s.ToBinary()))
}
