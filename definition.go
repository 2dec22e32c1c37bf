package kiwi

// Field is one member of a definition.
type Field struct {
	Name    string
	Type    TypeRef
	IsArray bool
	// Value is the wire tag for a message field, the numeric value for an
	// enum member, and unused (zero) for a struct field.
	Value uint32
}

// Definition is a named enum, struct or message type.
//
// Definitions are immutable once a Schema owns them.
type Definition struct {
	Name   string
	Kind   Kind
	Fields []Field
	// Index is the definition's position in its schema.
	Index uint32

	byValue map[uint32]int
	byName  map[string]int
}

// NewDefinition returns a definition with its lookup tables built. Index is
// assigned when the definition is added to a Schema.
func NewDefinition(name string, kind Kind, fields []Field) *Definition {
	d := &Definition{Name: name, Kind: kind, Fields: fields}
	d.index()
	return d
}

func (d *Definition) index() {
	d.byValue = make(map[uint32]int, len(d.Fields))
	d.byName = make(map[string]int, len(d.Fields))
	for i, f := range d.Fields {
		d.byValue[f.Value] = i
		d.byName[f.Name] = i
	}
}

// Field returns the field with the given name.
func (d *Definition) Field(name string) (*Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.Fields[i], true
}

// FieldByValue returns the message field with the given tag, or the enum
// member with the given value.
func (d *Definition) FieldByValue(v uint32) (*Field, bool) {
	i, ok := d.byValue[v]
	if !ok {
		return nil, false
	}
	return &d.Fields[i], true
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Fields = append([]Field(nil), d.Fields...)
	c.index()
	return &c
}
