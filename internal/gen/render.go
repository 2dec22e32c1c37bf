// Package gen renders Go source that encodes and decodes the definitions of
// a kiwi schema without walking the schema at run time.
//
// For every struct or message Name the output declares
//
//	func DecodeName(bb *wire.Buffer) (any, error)
//	func EncodeName(v any, bb *wire.Buffer) error
//
// and for every enum the same pair plus NameValues and NameNames lookup
// tables. The generated functions produce the same bytes and errors as
// (*kiwi.Schema).Encode and Decode without a depth limit.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/reoring/kiwi"
)

// Header marks rendered files as generated.
const Header = "// Code generated by kiwi gen. DO NOT EDIT."

type file struct {
	Package string
	Defs    []def
}

type def struct {
	Name   string // schema name
	Ident  string // exported Go identifier
	Kind   kiwi.Kind
	Fields []field
}

type field struct {
	Name  string
	Value uint32
	Dec   string // decoder function expression
	Enc   string // encoder function expression
}

// Render returns gofmt'ed source for package pkg covering defs, which must
// be in schema order so that field type indices resolve.
func Render(pkg string, defs []*kiwi.Definition) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("gen: invalid package name %q", pkg)
	}
	f := file{Package: pkg, Defs: make([]def, len(defs))}
	seen := make(map[string]string, len(defs))
	for i, d := range defs {
		ident := exportName(d.Name)
		if prev, dup := seen[ident]; dup {
			return nil, fmt.Errorf("gen: definitions %q and %q both map to %s", prev, d.Name, ident)
		}
		seen[ident] = d.Name
		f.Defs[i] = def{Name: d.Name, Ident: ident, Kind: d.Kind}
	}
	sizes := kiwi.MinWireSizes(defs)
	for i, d := range defs {
		if !d.Kind.Valid() {
			return nil, fmt.Errorf("gen: definition %q has kind %d", d.Name, uint8(d.Kind))
		}
		fields := make([]field, len(d.Fields))
		for j, fd := range d.Fields {
			fl := field{Name: fd.Name, Value: fd.Value}
			if d.Kind != kiwi.KindEnum {
				dec, enc, err := funcs(f.Defs, sizes, fd)
				if err != nil {
					return nil, fmt.Errorf("gen: %s.%s: %w", d.Name, fd.Name, err)
				}
				fl.Dec, fl.Enc = dec, enc
			}
			fields[j] = fl
		}
		f.Defs[i].Fields = fields
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return out, nil
}

var primitiveFuncs = map[kiwi.TypeRef]string{
	kiwi.TypeBool:   "Bool",
	kiwi.TypeByte:   "Byte",
	kiwi.TypeInt:    "Int",
	kiwi.TypeUint:   "Uint",
	kiwi.TypeFloat:  "Float",
	kiwi.TypeString: "String",
}

// funcs returns the decoder and encoder expressions for a field. sizes
// holds the minimum wire size of each definition.
func funcs(defs []def, sizes []int, f kiwi.Field) (dec, enc string, err error) {
	size := 1
	switch {
	case f.Type.IsPrimitive():
		dec, enc = "kiwiRead"+primitiveFuncs[f.Type], "kiwiWrite"+primitiveFuncs[f.Type]
	case f.Type >= 0 && int(f.Type) < len(defs):
		ident := defs[f.Type].Ident
		dec, enc = "Decode"+ident, "Encode"+ident
		size = sizes[f.Type]
	default:
		return "", "", fmt.Errorf("type %d has no definition", int32(f.Type))
	}
	if !f.IsArray {
		return dec, enc, nil
	}
	if f.Type == kiwi.TypeByte {
		return "kiwiReadBytes", "kiwiWriteBytes", nil
	}
	return fmt.Sprintf("kiwiArrayOf(%s, %d)", dec, size), "kiwiArrayTo(" + enc + ")", nil
}

// exportName turns a schema name into an exported Go identifier.
func exportName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0 && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		case i == 0:
			b.WriteString("X")
			if unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"isEnum":    func(k kiwi.Kind) bool { return k == kiwi.KindEnum },
	"isStruct":  func(k kiwi.Kind) bool { return k == kiwi.KindStruct },
	"isMessage": func(k kiwi.Kind) bool { return k == kiwi.KindMessage },
}).Parse(Header + `

package {{.Package}}

import (
	"fmt"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/value"
	"github.com/reoring/kiwi/wire"
)
{{range .Defs}}{{if isEnum .Kind}}
// {{.Ident}}Values maps {{.Name}} member names to wire values.
var {{.Ident}}Values = map[string]uint32{
{{- range .Fields}}
	{{printf "%q" .Name}}: {{.Value}},
{{- end}}
}

// {{.Ident}}Names maps {{.Name}} wire values to member names.
var {{.Ident}}Names = map[uint32]string{
{{- range .Fields}}
	{{.Value}}: {{printf "%q" .Name}},
{{- end}}
}

// Decode{{.Ident}} reads a {{.Name}} member name.
func Decode{{.Ident}}(bb *wire.Buffer) (any, error) {
	return kiwiDecodeEnum(bb, {{.Ident}}Names, {{printf "%q" .Name}})
}

// Encode{{.Ident}} writes a {{.Name}} member name.
func Encode{{.Ident}}(v any, bb *wire.Buffer) error {
	return kiwiEncodeEnum(v, bb, {{.Ident}}Values, {{printf "%q" .Name}})
}
{{else if isStruct .Kind}}
// Decode{{.Ident}} reads a {{.Name}} struct.
func Decode{{.Ident}}(bb *wire.Buffer) (any, error) {
	out := make(map[string]any, {{len .Fields}})
{{- range .Fields}}
	if err := kiwiDecodeField(bb, out, {{printf "%q" .Name}}, {{.Dec}}); err != nil {
		return nil, err
	}
{{- end}}
	return out, nil
}

// Encode{{.Ident}} writes v as a {{.Name}} struct. Every field is required.
func Encode{{.Ident}}(v any, bb *wire.Buffer) error {
	rec, err := value.AsRecord(v)
	if err != nil {
		return kiwi.ValueError(err)
	}
{{- $def := .Name}}
{{- range .Fields}}
	if err := kiwiEncodeRequired(rec, bb, {{printf "%q" $def}}, {{printf "%q" .Name}}, {{.Enc}}); err != nil {
		return err
	}
{{- else}}
	_ = rec
{{- end}}
	return nil
}
{{else if isMessage .Kind}}
// Decode{{.Ident}} reads a {{.Name}} message.
func Decode{{.Ident}}(bb *wire.Buffer) (any, error) {
	out := make(map[string]any)
	for {
		start := bb.Offset()
		tag, err := bb.ReadVarUint()
		if err != nil {
			return nil, kiwiOutOfBounds(bb, err)
		}
		switch tag {
		case 0:
			return out, nil
{{- range .Fields}}
		case {{.Value}}:
			err = kiwiDecodeField(bb, out, {{printf "%q" .Name}}, {{.Dec}})
{{- end}}
		default:
			return nil, kiwiUnknownTag(start, tag, {{printf "%q" .Name}})
		}
		if err != nil {
			return nil, err
		}
	}
}

// Encode{{.Ident}} writes the present fields of v as a {{.Name}} message.
func Encode{{.Ident}}(v any, bb *wire.Buffer) error {
	rec, err := value.AsRecord(v)
	if err != nil {
		return kiwi.ValueError(err)
	}
{{- range .Fields}}
	if err := kiwiEncodeOptional(rec, bb, {{.Value}}, {{printf "%q" .Name}}, {{.Enc}}); err != nil {
		return err
	}
{{- else}}
	_ = rec
{{- end}}
	bb.WriteVarUint(0)
	return nil
}
{{end}}{{end}}
` + helpers))

const helpers = `
type (
	kiwiDecoder func(bb *wire.Buffer) (any, error)
	kiwiEncoder func(v any, bb *wire.Buffer) error
)

var (
	kiwiReadBool   = kiwiReader((*wire.Buffer).ReadBool)
	kiwiReadByte   = kiwiReader((*wire.Buffer).ReadByte)
	kiwiReadInt    = kiwiReader((*wire.Buffer).ReadVarInt)
	kiwiReadUint   = kiwiReader((*wire.Buffer).ReadVarUint)
	kiwiReadFloat  = kiwiReader((*wire.Buffer).ReadVarFloat)
	kiwiReadString = kiwiReader((*wire.Buffer).ReadString)

	kiwiWriteBool   = kiwiWriter(value.Bool, (*wire.Buffer).WriteBool)
	kiwiWriteByte   = kiwiWriter(value.Byte, func(bb *wire.Buffer, b byte) { _ = bb.WriteByte(b) })
	kiwiWriteInt    = kiwiWriter(value.Int32, (*wire.Buffer).WriteVarInt)
	kiwiWriteUint   = kiwiWriter(value.Uint32, (*wire.Buffer).WriteVarUint)
	kiwiWriteFloat  = kiwiWriter(value.Float32, (*wire.Buffer).WriteVarFloat)
	kiwiWriteString = kiwiWriter(value.String, (*wire.Buffer).WriteString)
)

func kiwiReader[T any](read func(*wire.Buffer) (T, error)) kiwiDecoder {
	return func(bb *wire.Buffer) (any, error) {
		v, err := read(bb)
		if err != nil {
			return nil, kiwiOutOfBounds(bb, err)
		}
		return v, nil
	}
}

func kiwiWriter[T any](conv func(any) (T, error), write func(*wire.Buffer, T)) kiwiEncoder {
	return func(v any, bb *wire.Buffer) error {
		t, err := conv(v)
		if err != nil {
			return kiwi.ValueError(err)
		}
		write(bb, t)
		return nil
	}
}

func kiwiOutOfBounds(bb *wire.Buffer, err error) error {
	return &kiwi.Issue{Code: kiwi.CodeOutOfBounds, Offset: bb.Offset(), Cause: err}
}

func kiwiUnknownTag(start int, tag uint32, message string) error {
	return kiwi.NewIssue(kiwi.CodeUnknownFieldTag, start, fmt.Sprintf("tag %d is not a field of message %s", tag, message))
}

func kiwiDecodeEnum(bb *wire.Buffer, names map[uint32]string, enum string) (any, error) {
	start := bb.Offset()
	n, err := bb.ReadVarUint()
	if err != nil {
		return nil, kiwiOutOfBounds(bb, err)
	}
	name, ok := names[n]
	if !ok {
		return nil, kiwi.NewIssue(kiwi.CodeUnknownEnumValue, start, fmt.Sprintf("%d is not a member of enum %s", n, enum))
	}
	return name, nil
}

func kiwiEncodeEnum(v any, bb *wire.Buffer, values map[string]uint32, enum string) error {
	name, err := value.String(v)
	if err != nil {
		return kiwi.ValueError(err)
	}
	n, ok := values[name]
	if !ok {
		return kiwi.NewIssue(kiwi.CodeUnknownEnumName, -1, fmt.Sprintf("%q is not a member of enum %s", name, enum))
	}
	bb.WriteVarUint(n)
	return nil
}

func kiwiDecodeField(bb *wire.Buffer, out map[string]any, name string, dec kiwiDecoder) error {
	v, err := dec(bb)
	if err != nil {
		return kiwi.AtField(err, name)
	}
	out[name] = v
	return nil
}

func kiwiEncodeRequired(rec value.Record, bb *wire.Buffer, def, name string, enc kiwiEncoder) error {
	v, ok := rec.Get(name)
	if !ok {
		return kiwi.AtField(kiwi.NewIssue(kiwi.CodeRequired, -1, fmt.Sprintf("struct %s requires field %s", def, name)), name)
	}
	if err := enc(v, bb); err != nil {
		return kiwi.AtField(err, name)
	}
	return nil
}

func kiwiEncodeOptional(rec value.Record, bb *wire.Buffer, tag uint32, name string, enc kiwiEncoder) error {
	v, ok := rec.Get(name)
	if !ok {
		return nil
	}
	bb.WriteVarUint(tag)
	if err := enc(v, bb); err != nil {
		return kiwi.AtField(err, name)
	}
	return nil
}

func kiwiReadBytes(bb *wire.Buffer) (any, error) {
	p, err := bb.ReadByteArray()
	if err != nil {
		return nil, kiwiOutOfBounds(bb, err)
	}
	return append([]byte{}, p...), nil
}

func kiwiWriteBytes(v any, bb *wire.Buffer) error {
	p, err := value.Bytes(v)
	if err != nil {
		return kiwi.ValueError(err)
	}
	bb.WriteByteArray(p)
	return nil
}

func kiwiArrayOf(dec kiwiDecoder, size int) kiwiDecoder {
	return func(bb *wire.Buffer) (any, error) {
		n, err := bb.ReadVarUint()
		if err != nil {
			return nil, kiwiOutOfBounds(bb, err)
		}
		if err := kiwi.CheckArrayLen(bb, n, size); err != nil {
			return nil, err
		}
		out := make([]any, 0, min(int(n), bb.Remaining()))
		for i := 0; i < int(n); i++ {
			v, err := dec(bb)
			if err != nil {
				return nil, kiwi.AtIndex(err, i)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func kiwiArrayTo(enc kiwiEncoder) kiwiEncoder {
	return func(v any, bb *wire.Buffer) error {
		seq, err := value.AsSeq(v)
		if err != nil {
			return kiwi.ValueError(err)
		}
		n := seq.Len()
		bb.WriteVarUint(uint32(n))
		for i := 0; i < n; i++ {
			if err := enc(seq.At(i), bb); err != nil {
				return kiwi.AtIndex(err, i)
			}
		}
		return nil
	}
}
`
