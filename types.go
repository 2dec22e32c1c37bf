package kiwi

import "strconv"

// Kind is the kind of a compound definition.
type Kind uint8

const (
	KindEnum    Kind = iota // Named integer constants.
	KindStruct              // Positional, all fields required, no tags.
	KindMessage             // Tagged, all fields optional, zero-terminated.
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindMessage:
		return "message"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool { return k <= KindMessage }

// TypeRef references a field type: a negative primitive tag, or the index
// of a definition in the owning schema.
type TypeRef int32

const (
	TypeBool   TypeRef = -1
	TypeByte   TypeRef = -2
	TypeInt    TypeRef = -3
	TypeUint   TypeRef = -4
	TypeFloat  TypeRef = -5
	TypeString TypeRef = -6
)

// IsPrimitive reports whether t is one of the six primitive tags.
func (t TypeRef) IsPrimitive() bool { return t < 0 && t >= TypeString }

// primitiveNames maps primitive tags to their schema names.
var primitiveNames = map[TypeRef]string{
	TypeBool:   "bool",
	TypeByte:   "byte",
	TypeInt:    "int",
	TypeUint:   "uint",
	TypeFloat:  "float",
	TypeString: "string",
}

// PrimitiveByName returns the primitive tag for a schema type name such as
// "int" or "string".
func PrimitiveByName(name string) (TypeRef, bool) {
	for t, n := range primitiveNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

func (t TypeRef) String() string {
	if n, ok := primitiveNames[t]; ok {
		return n
	}
	if t >= 0 {
		return "#" + strconv.Itoa(int(t))
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Opt configures an encode or decode call. When several are passed the
// last one wins.
type Opt struct {
	// MaxDepth bounds the nesting of struct and message values. Zero means
	// unlimited.
	MaxDepth int
}

func lastOpt(opts []Opt) Opt {
	if len(opts) == 0 {
		return Opt{}
	}
	return opts[len(opts)-1]
}
