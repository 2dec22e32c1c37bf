package codec

import (
	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/value"
)

// Primitive ops are shared by every field of the same type.
var (
	primitiveEncoders = map[kiwi.TypeRef]encodeFunc{
		kiwi.TypeBool: func(e *encState, v any) error {
			b, err := value.Bool(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteBool(b)
			return nil
		},
		kiwi.TypeByte: func(e *encState, v any) error {
			b, err := value.Byte(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			_ = e.bb.WriteByte(b)
			return nil
		},
		kiwi.TypeInt: func(e *encState, v any) error {
			n, err := value.Int32(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteVarInt(n)
			return nil
		},
		kiwi.TypeUint: func(e *encState, v any) error {
			n, err := value.Uint32(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteVarUint(n)
			return nil
		},
		kiwi.TypeFloat: func(e *encState, v any) error {
			f, err := value.Float32(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteVarFloat(f)
			return nil
		},
		kiwi.TypeString: func(e *encState, v any) error {
			s, err := value.String(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteString(s)
			return nil
		},
	}

	primitiveDecoders = map[kiwi.TypeRef]decodeFunc{
		kiwi.TypeBool:   readWith((*decState).readBool),
		kiwi.TypeByte:   readWith((*decState).readByte),
		kiwi.TypeInt:    readWith((*decState).readInt),
		kiwi.TypeUint:   readWith((*decState).readUint),
		kiwi.TypeFloat:  readWith((*decState).readFloat),
		kiwi.TypeString: readWith((*decState).readString),
	}
)

func primitiveEncoder(t kiwi.TypeRef) encodeFunc { return primitiveEncoders[t] }

func primitiveDecoder(t kiwi.TypeRef) decodeFunc { return primitiveDecoders[t] }

func readWith(read func(*decState) (any, error)) decodeFunc {
	return func(d *decState) (any, error) {
		v, err := read(d)
		if err != nil {
			return nil, d.outOfBounds(err)
		}
		return v, nil
	}
}

func (d *decState) readBool() (any, error)   { return d.bb.ReadBool() }
func (d *decState) readByte() (any, error)   { return d.bb.ReadByte() }
func (d *decState) readInt() (any, error)    { return d.bb.ReadVarInt() }
func (d *decState) readUint() (any, error)   { return d.bb.ReadVarUint() }
func (d *decState) readFloat() (any, error)  { return d.bb.ReadVarFloat() }
func (d *decState) readString() (any, error) { return d.bb.ReadString() }
