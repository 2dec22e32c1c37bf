// Package manifest reads and writes human-editable schema listings.
//
// A manifest is a YAML (or JSON) document listing definitions in schema
// order:
//
//	definitions:
//	  - name: Color
//	    kind: enum
//	    fields:
//	      - {name: RED, value: 1}
//	  - name: Shape
//	    kind: message
//	    fields:
//	      - {name: color, type: Color, value: 1}
//	      - {name: points, type: "float[]", value: 2}
//
// Field types are primitive names or definition names, with a "[]" suffix
// for arrays. value is the enum member value or message tag and is omitted
// for struct fields.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/kiwi"
)

// Manifest is the document form of a schema.
type Manifest struct {
	Definitions []Definition `yaml:"definitions" json:"definitions"`
}

// Definition lists one enum, struct or message.
type Definition struct {
	Name   string  `yaml:"name" json:"name"`
	Kind   string  `yaml:"kind" json:"kind"`
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Field lists one member of a definition.
type Field struct {
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty"`
	Value uint32 `yaml:"value,omitempty" json:"value,omitempty"`
}

const arraySuffix = "[]"

// Parse decodes a YAML or JSON manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, &kiwi.Issue{Code: kiwi.CodeMalformedSchema, Message: err.Error(), Offset: -1, Cause: err}
	}
	return &m, nil
}

// FromSchema lists the definitions of s.
func FromSchema(s *kiwi.Schema) *Manifest {
	defs := s.Definitions()
	m := &Manifest{Definitions: make([]Definition, len(defs))}
	for i, d := range defs {
		md := Definition{Name: d.Name, Kind: d.Kind.String(), Fields: make([]Field, len(d.Fields))}
		for j, f := range d.Fields {
			mf := Field{Name: f.Name, Value: f.Value}
			if d.Kind != kiwi.KindEnum {
				mf.Type = typeName(defs, f.Type)
				if f.IsArray {
					mf.Type += arraySuffix
				}
			}
			md.Fields[j] = mf
		}
		m.Definitions[i] = md
	}
	return m
}

func typeName(defs []*kiwi.Definition, t kiwi.TypeRef) string {
	if t.IsPrimitive() || t < 0 || int(t) >= len(defs) {
		return t.String()
	}
	return defs[t].Name
}

// Resolve converts the manifest into definitions, resolving type names
// against the definition list.
func (m *Manifest) Resolve() ([]*kiwi.Definition, error) {
	index := make(map[string]int, len(m.Definitions))
	for i, d := range m.Definitions {
		if _, dup := index[d.Name]; !dup {
			index[d.Name] = i
		}
	}
	defs := make([]*kiwi.Definition, len(m.Definitions))
	for i, md := range m.Definitions {
		path := "/definitions/" + strconv.Itoa(i)
		kind, ok := parseKind(md.Kind)
		if !ok {
			return nil, &kiwi.Issue{Code: kiwi.CodeInvalidDefinitionKind, Path: path + "/kind", Message: fmt.Sprintf("unknown kind %q", md.Kind), Offset: -1}
		}
		fields := make([]kiwi.Field, len(md.Fields))
		for j, mf := range md.Fields {
			f := kiwi.Field{Name: mf.Name, Value: mf.Value}
			if kind != kiwi.KindEnum {
				t, array, err := resolveType(index, mf.Type)
				if err != nil {
					return nil, &kiwi.Issue{Code: kiwi.CodeInvalidFieldType, Path: path + "/fields/" + strconv.Itoa(j) + "/type", Message: err.Error(), Offset: -1}
				}
				f.Type, f.IsArray = t, array
			}
			fields[j] = f
		}
		defs[i] = kiwi.NewDefinition(md.Name, kind, fields)
	}
	return defs, nil
}

// Schema resolves the manifest and validates it as kiwi.NewSchema does.
func (m *Manifest) Schema() (*kiwi.Schema, error) {
	defs, err := m.Resolve()
	if err != nil {
		return nil, err
	}
	return kiwi.NewSchema(defs)
}

func parseKind(s string) (kiwi.Kind, bool) {
	for k := kiwi.KindEnum; k.Valid(); k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func resolveType(index map[string]int, name string) (kiwi.TypeRef, bool, error) {
	base, array := strings.CutSuffix(name, arraySuffix)
	if t, ok := kiwi.PrimitiveByName(base); ok {
		return t, array, nil
	}
	if i, ok := index[base]; ok {
		return kiwi.TypeRef(i), array, nil
	}
	if base == "" {
		return 0, false, errors.New("missing type")
	}
	return 0, false, fmt.Errorf("unknown type %q", base)
}

// YAML encodes the manifest as YAML.
func (m *Manifest) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON encodes the manifest as indented JSON.
func (m *Manifest) JSON() ([]byte, error) {
	return gojson.MarshalIndent(m, "", "  ")
}

// IsManifestPath reports whether a file name carries a manifest extension
// (.yaml, .yml or .json).
func IsManifestPath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadSchema builds a schema from file contents: a manifest when name has a
// manifest extension, the binary schema format otherwise.
func LoadSchema(name string, data []byte) (*kiwi.Schema, error) {
	if !IsManifestPath(name) {
		return kiwi.FromBinary(data)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return m.Schema()
}
