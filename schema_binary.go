package kiwi

import (
	"fmt"

	"github.com/reoring/kiwi/wire"
)

// FromBinary parses a binary schema: a var_uint definition count, then per
// definition a name, a kind byte, a var_uint field count and the fields
// (name, var_int type, bool array flag, var_uint tag or value).
//
// Truncated input fails with CodeMalformedSchema wrapping CodeOutOfBounds.
// The parsed definitions are then validated as by NewSchema.
func FromBinary(data []byte) (*Schema, error) {
	defs, err := readDefinitions(wire.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	return NewSchema(defs)
}

func readDefinitions(bb *wire.Buffer) ([]*Definition, error) {
	malformed := func(err error) error {
		return &Issue{
			Code:    CodeMalformedSchema,
			Offset:  bb.Offset(),
			Message: "truncated schema",
			Cause:   &Issue{Code: CodeOutOfBounds, Offset: bb.Offset(), Cause: err},
		}
	}

	count, err := bb.ReadVarUint()
	if err != nil {
		return nil, malformed(err)
	}
	// Every definition takes at least three bytes; cap the preallocation
	// so a corrupt count cannot force a huge allocation.
	defs := make([]*Definition, 0, min(int(count), bb.Remaining()/3))
	for i := uint32(0); i < count; i++ {
		name, err := bb.ReadString()
		if err != nil {
			return nil, malformed(err)
		}
		kind, err := bb.ReadByte()
		if err != nil {
			return nil, malformed(err)
		}
		fieldCount, err := bb.ReadVarUint()
		if err != nil {
			return nil, malformed(err)
		}
		fields := make([]Field, 0, min(int(fieldCount), bb.Remaining()/4))
		for j := uint32(0); j < fieldCount; j++ {
			var f Field
			if f.Name, err = bb.ReadString(); err != nil {
				return nil, malformed(err)
			}
			typ, err := bb.ReadVarInt()
			if err != nil {
				return nil, malformed(err)
			}
			f.Type = TypeRef(typ)
			if f.IsArray, err = bb.ReadBool(); err != nil {
				return nil, malformed(err)
			}
			if f.Value, err = bb.ReadVarUint(); err != nil {
				return nil, malformed(err)
			}
			fields = append(fields, f)
		}
		defs = append(defs, NewDefinition(name, Kind(kind), fields))
	}
	return defs, nil
}

// ToBinary writes the schema in the format read by FromBinary.
func (s *Schema) ToBinary() []byte {
	var bb wire.Buffer
	bb.WriteVarUint(uint32(len(s.defs)))
	for _, d := range s.defs {
		bb.WriteString(d.Name)
		_ = bb.WriteByte(byte(d.Kind))
		bb.WriteVarUint(uint32(len(d.Fields)))
		for _, f := range d.Fields {
			bb.WriteString(f.Name)
			bb.WriteVarInt(int32(f.Type))
			bb.WriteBool(f.IsArray)
			bb.WriteVarUint(f.Value)
		}
	}
	return bb.Bytes()
}

// String summarizes the schema for diagnostics.
func (s *Schema) String() string {
	return fmt.Sprintf("kiwi.Schema{%d definitions}", len(s.defs))
}
