package kiwi

import (
	"bytes"
	"fmt"

	"github.com/reoring/kiwi/wire"
)

// Decode decodes a value of type t from data.
func (s *Schema) Decode(t TypeRef, data []byte, opts ...Opt) (any, error) {
	return s.DecodeFrom(t, wire.NewBuffer(data), opts...)
}

// DecodeByName decodes a value of the named definition or primitive type.
func (s *Schema) DecodeByName(name string, data []byte, opts ...Opt) (any, error) {
	t, err := s.TypeOf(name)
	if err != nil {
		return nil, err
	}
	return s.Decode(t, data, opts...)
}

// DecodeFrom decodes one value of type t from bb, leaving the cursor after
// it. Trailing bytes are not an error.
func (s *Schema) DecodeFrom(t TypeRef, bb *wire.Buffer, opts ...Opt) (any, error) {
	d := decoder{schema: s, bb: bb, maxDepth: lastOpt(opts).MaxDepth}
	return d.value(t)
}

type decoder struct {
	schema   *Schema
	bb       *wire.Buffer
	depth    int
	maxDepth int
}

func (d *decoder) outOfBounds(err error) error {
	return &Issue{Code: CodeOutOfBounds, Offset: d.bb.Offset(), Cause: err}
}

func (d *decoder) value(t TypeRef) (any, error) {
	var (
		v   any
		err error
	)
	switch t {
	case TypeBool:
		v, err = d.bb.ReadBool()
	case TypeByte:
		v, err = d.bb.ReadByte()
	case TypeInt:
		v, err = d.bb.ReadVarInt()
	case TypeUint:
		v, err = d.bb.ReadVarUint()
	case TypeFloat:
		v, err = d.bb.ReadVarFloat()
	case TypeString:
		v, err = d.bb.ReadString()
	default:
		return d.compound(t)
	}
	if err != nil {
		return nil, d.outOfBounds(err)
	}
	return v, nil
}

func (d *decoder) compound(t TypeRef) (any, error) {
	def, err := d.schema.lookup(t)
	if err != nil {
		return nil, err
	}
	switch def.Kind {
	case KindEnum:
		start := d.bb.Offset()
		n, err := d.bb.ReadVarUint()
		if err != nil {
			return nil, d.outOfBounds(err)
		}
		f, ok := def.FieldByValue(n)
		if !ok {
			return nil, NewIssue(CodeUnknownEnumValue, start, fmt.Sprintf("%d is not a member of enum %s", n, def.Name))
		}
		return f.Name, nil
	case KindStruct:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		out := make(map[string]any, len(def.Fields))
		for i := range def.Fields {
			f := &def.Fields[i]
			v, err := d.field(f)
			if err != nil {
				return nil, AtField(err, f.Name)
			}
			out[f.Name] = v
		}
		return out, nil
	case KindMessage:
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		out := make(map[string]any)
		for {
			start := d.bb.Offset()
			tag, err := d.bb.ReadVarUint()
			if err != nil {
				return nil, d.outOfBounds(err)
			}
			if tag == 0 {
				return out, nil
			}
			f, ok := def.FieldByValue(tag)
			if !ok {
				return nil, NewIssue(CodeUnknownFieldTag, start, fmt.Sprintf("tag %d is not a field of message %s", tag, def.Name))
			}
			v, err := d.field(f)
			if err != nil {
				return nil, AtField(err, f.Name)
			}
			out[f.Name] = v
		}
	}
	return nil, NewIssue(CodeInvalidDefinitionKind, d.bb.Offset(), fmt.Sprintf("definition %s has kind %d", def.Name, uint8(def.Kind)))
}

func (d *decoder) field(f *Field) (any, error) {
	if !f.IsArray {
		return d.value(f.Type)
	}
	if f.Type == TypeByte {
		p, err := d.bb.ReadByteArray()
		if err != nil {
			return nil, d.outOfBounds(err)
		}
		return bytes.Clone(p), nil
	}
	n, err := d.bb.ReadVarUint()
	if err != nil {
		return nil, d.outOfBounds(err)
	}
	if err := CheckArrayLen(d.bb, n, d.schema.MinWireSize(f.Type)); err != nil {
		return nil, err
	}
	out := make([]any, 0, min(int(n), d.bb.Remaining()))
	for i := 0; i < int(n); i++ {
		v, err := d.value(f.Type)
		if err != nil {
			return nil, AtIndex(err, i)
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return NewIssue(CodeTooDeep, d.bb.Offset(), fmt.Sprintf("nesting exceeds %d", d.maxDepth))
	}
	return nil
}

func (d *decoder) leave() { d.depth-- }
