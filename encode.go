package kiwi

import (
	"errors"
	"fmt"

	"github.com/reoring/kiwi/value"
	"github.com/reoring/kiwi/wire"
)

// Encode encodes v as a value of type t.
func (s *Schema) Encode(t TypeRef, v any, opts ...Opt) ([]byte, error) {
	out, err := s.AppendEncode(make([]byte, 0, 64), t, v, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeByName encodes v as a value of the named definition or primitive
// type.
func (s *Schema) EncodeByName(name string, v any, opts ...Opt) ([]byte, error) {
	t, err := s.TypeOf(name)
	if err != nil {
		return nil, err
	}
	return s.Encode(t, v, opts...)
}

// AppendEncode appends the encoding of v to dst. On error dst is returned
// unchanged in length.
func (s *Schema) AppendEncode(dst []byte, t TypeRef, v any, opts ...Opt) ([]byte, error) {
	bb := wire.NewBuffer(dst)
	e := encoder{schema: s, bb: bb, maxDepth: lastOpt(opts).MaxDepth}
	if err := e.value(t, v); err != nil {
		return dst, err
	}
	return bb.Bytes(), nil
}

// ValueError converts an error from the value package into an Issue.
func ValueError(err error) error {
	code := CodeInvalidType
	if errors.Is(err, value.ErrOverflow) {
		code = CodeOverflow
	}
	return &Issue{Code: code, Offset: -1, Message: err.Error(), Cause: err}
}

type encoder struct {
	schema   *Schema
	bb       *wire.Buffer
	depth    int
	maxDepth int
}

func (e *encoder) value(t TypeRef, v any) error {
	switch t {
	case TypeBool:
		b, err := value.Bool(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteBool(b)
	case TypeByte:
		b, err := value.Byte(v)
		if err != nil {
			return ValueError(err)
		}
		_ = e.bb.WriteByte(b)
	case TypeInt:
		n, err := value.Int32(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteVarInt(n)
	case TypeUint:
		n, err := value.Uint32(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteVarUint(n)
	case TypeFloat:
		f, err := value.Float32(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteVarFloat(f)
	case TypeString:
		str, err := value.String(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteString(str)
	default:
		return e.compound(t, v)
	}
	return nil
}

func (e *encoder) compound(t TypeRef, v any) error {
	def, err := e.schema.lookup(t)
	if err != nil {
		return err
	}
	switch def.Kind {
	case KindEnum:
		name, err := value.String(v)
		if err != nil {
			return ValueError(err)
		}
		f, ok := def.Field(name)
		if !ok {
			return NewIssue(CodeUnknownEnumName, -1, fmt.Sprintf("%q is not a member of enum %s", name, def.Name))
		}
		e.bb.WriteVarUint(f.Value)
		return nil
	case KindStruct, KindMessage:
		rec, err := value.AsRecord(v)
		if err != nil {
			return ValueError(err)
		}
		if err := e.enter(); err != nil {
			return err
		}
		defer e.leave()
		message := def.Kind == KindMessage
		// Declared field order, never the input's iteration order.
		for i := range def.Fields {
			f := &def.Fields[i]
			fv, ok := rec.Get(f.Name)
			if !ok {
				if message {
					continue
				}
				return AtField(NewIssue(CodeRequired, -1, fmt.Sprintf("struct %s requires field %s", def.Name, f.Name)), f.Name)
			}
			if message {
				e.bb.WriteVarUint(f.Value)
			}
			if err := e.field(f, fv); err != nil {
				return AtField(err, f.Name)
			}
		}
		if message {
			e.bb.WriteVarUint(0)
		}
		return nil
	}
	return NewIssue(CodeInvalidDefinitionKind, -1, fmt.Sprintf("definition %s has kind %d", def.Name, uint8(def.Kind)))
}

func (e *encoder) field(f *Field, v any) error {
	if !f.IsArray {
		return e.value(f.Type, v)
	}
	if f.Type == TypeByte {
		p, err := value.Bytes(v)
		if err != nil {
			return ValueError(err)
		}
		e.bb.WriteByteArray(p)
		return nil
	}
	seq, err := value.AsSeq(v)
	if err != nil {
		return ValueError(err)
	}
	n := seq.Len()
	e.bb.WriteVarUint(uint32(n))
	for i := 0; i < n; i++ {
		if err := e.value(f.Type, seq.At(i)); err != nil {
			return AtIndex(err, i)
		}
	}
	return nil
}

func (e *encoder) enter() error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return NewIssue(CodeTooDeep, -1, fmt.Sprintf("nesting exceeds %d", e.maxDepth))
	}
	return nil
}

func (e *encoder) leave() { e.depth-- }
