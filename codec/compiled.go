package codec

import (
	"bytes"
	"fmt"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/value"
	"github.com/reoring/kiwi/wire"
)

// Compiled is a kiwi.Codec with every definition and field resolved ahead of
// time into closures. It produces the same bytes, error codes, paths and
// offsets as (*kiwi.Schema).Encode and Decode, without the per-value kind
// switch and map lookups.
//
// A Compiled is immutable and safe for concurrent use.
type Compiled struct {
	schema *kiwi.Schema
	opt    kiwi.Opt
	progs  []program
}

var _ kiwi.Codec = (*Compiled)(nil)

type (
	encodeFunc func(e *encState, v any) error
	decodeFunc func(d *decState) (any, error)
)

type program struct {
	enc encodeFunc
	dec decodeFunc
}

type fieldOp struct {
	name     string
	tag      uint32
	required string // message for a missing struct field
	enc      encodeFunc
	dec      decodeFunc
}

type encState struct {
	bb       *wire.Buffer
	depth    int
	maxDepth int
}

type decState struct {
	bb       *wire.Buffer
	depth    int
	maxDepth int
}

// Compile resolves every definition of s. opts set the defaults for calls
// that pass no Opt of their own.
func Compile(s *kiwi.Schema, opts ...kiwi.Opt) (*Compiled, error) {
	if s == nil {
		return nil, kiwi.NewIssue(kiwi.CodeMalformedSchema, -1, "nil schema")
	}
	c := &Compiled{schema: s}
	if len(opts) > 0 {
		c.opt = opts[len(opts)-1]
	}
	defs := s.Definitions()
	c.progs = make([]program, len(defs))
	for i, def := range defs {
		p, err := c.compileDefinition(def)
		if err != nil {
			return nil, err
		}
		c.progs[i] = p
	}
	return c, nil
}

// Schema returns the schema c was compiled from.
func (c *Compiled) Schema() *kiwi.Schema { return c.schema }

func (c *Compiled) options(opts []kiwi.Opt) kiwi.Opt {
	if len(opts) == 0 {
		return c.opt
	}
	return opts[len(opts)-1]
}

// Encode encodes v as a value of type t.
func (c *Compiled) Encode(t kiwi.TypeRef, v any, opts ...kiwi.Opt) ([]byte, error) {
	out, err := c.AppendEncode(make([]byte, 0, 64), t, v, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendEncode appends the encoding of v to dst. On error dst is returned
// unchanged in length.
func (c *Compiled) AppendEncode(dst []byte, t kiwi.TypeRef, v any, opts ...kiwi.Opt) ([]byte, error) {
	enc, err := c.encoder(t)
	if err != nil {
		return dst, err
	}
	e := &encState{bb: wire.NewBuffer(dst), maxDepth: c.options(opts).MaxDepth}
	if err := enc(e, v); err != nil {
		return dst, err
	}
	return e.bb.Bytes(), nil
}

// Decode decodes a value of type t from data.
func (c *Compiled) Decode(t kiwi.TypeRef, data []byte, opts ...kiwi.Opt) (any, error) {
	return c.DecodeFrom(t, wire.NewBuffer(data), opts...)
}

// DecodeFrom decodes one value of type t from bb, leaving the cursor after
// it.
func (c *Compiled) DecodeFrom(t kiwi.TypeRef, bb *wire.Buffer, opts ...kiwi.Opt) (any, error) {
	dec, err := c.decoder(t)
	if err != nil {
		return nil, err
	}
	return dec(&decState{bb: bb, maxDepth: c.options(opts).MaxDepth})
}

func (c *Compiled) encoder(t kiwi.TypeRef) (encodeFunc, error) {
	if t.IsPrimitive() {
		return primitiveEncoder(t), nil
	}
	if _, err := c.schema.Resolve(t); err != nil {
		return nil, err
	}
	return c.progs[t].enc, nil
}

func (c *Compiled) decoder(t kiwi.TypeRef) (decodeFunc, error) {
	if t.IsPrimitive() {
		return primitiveDecoder(t), nil
	}
	if _, err := c.schema.Resolve(t); err != nil {
		return nil, err
	}
	return c.progs[t].dec, nil
}

// typeOps returns the encoder and decoder for a field type. Definitions are
// reached through c.progs at call time so recursive schemas compile.
func (c *Compiled) typeOps(t kiwi.TypeRef) (encodeFunc, decodeFunc) {
	if t.IsPrimitive() {
		return primitiveEncoder(t), primitiveDecoder(t)
	}
	i := int(t)
	return func(e *encState, v any) error { return c.progs[i].enc(e, v) },
		func(d *decState) (any, error) { return c.progs[i].dec(d) }
}

func (c *Compiled) compileDefinition(def *kiwi.Definition) (program, error) {
	switch def.Kind {
	case kiwi.KindEnum:
		return compileEnum(def), nil
	case kiwi.KindStruct:
		ops := c.compileFields(def)
		return program{enc: encodeStruct(ops), dec: decodeStruct(ops)}, nil
	case kiwi.KindMessage:
		ops := c.compileFields(def)
		return program{enc: encodeMessage(ops), dec: decodeMessage(def.Name, ops)}, nil
	}
	return program{}, kiwi.NewIssue(kiwi.CodeInvalidDefinitionKind, -1, fmt.Sprintf("definition %s has kind %d", def.Name, uint8(def.Kind)))
}

func (c *Compiled) compileFields(def *kiwi.Definition) []fieldOp {
	ops := make([]fieldOp, len(def.Fields))
	for i, f := range def.Fields {
		enc, dec := c.typeOps(f.Type)
		op := fieldOp{
			name:     f.Name,
			tag:      f.Value,
			required: fmt.Sprintf("struct %s requires field %s", def.Name, f.Name),
			enc:      enc,
			dec:      dec,
		}
		if f.IsArray {
			op.enc, op.dec = arrayOps(f.Type, c.schema.MinWireSize(f.Type), enc, dec)
		}
		ops[i] = op
	}
	return ops
}

func compileEnum(def *kiwi.Definition) program {
	values := make(map[string]uint32, len(def.Fields))
	names := make(map[uint32]string, len(def.Fields))
	for _, f := range def.Fields {
		values[f.Name] = f.Value
		names[f.Value] = f.Name
	}
	return program{
		enc: func(e *encState, v any) error {
			name, err := value.String(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			n, ok := values[name]
			if !ok {
				return kiwi.NewIssue(kiwi.CodeUnknownEnumName, -1, fmt.Sprintf("%q is not a member of enum %s", name, def.Name))
			}
			e.bb.WriteVarUint(n)
			return nil
		},
		dec: func(d *decState) (any, error) {
			start := d.bb.Offset()
			n, err := d.bb.ReadVarUint()
			if err != nil {
				return nil, d.outOfBounds(err)
			}
			name, ok := names[n]
			if !ok {
				return nil, kiwi.NewIssue(kiwi.CodeUnknownEnumValue, start, fmt.Sprintf("%d is not a member of enum %s", n, def.Name))
			}
			return name, nil
		},
	}
}

func encodeStruct(ops []fieldOp) encodeFunc {
	return func(e *encState, v any) error {
		rec, err := value.AsRecord(v)
		if err != nil {
			return kiwi.ValueError(err)
		}
		if err := e.enter(); err != nil {
			return err
		}
		defer e.leave()
		for i := range ops {
			op := &ops[i]
			fv, ok := rec.Get(op.name)
			if !ok {
				return kiwi.AtField(kiwi.NewIssue(kiwi.CodeRequired, -1, op.required), op.name)
			}
			if err := op.enc(e, fv); err != nil {
				return kiwi.AtField(err, op.name)
			}
		}
		return nil
	}
}

func decodeStruct(ops []fieldOp) decodeFunc {
	return func(d *decState) (any, error) {
		if err := d.enter(); err != nil {
			return nil, err
		}
		defer d.leave()
		out := make(map[string]any, len(ops))
		for i := range ops {
			op := &ops[i]
			v, err := op.dec(d)
			if err != nil {
				return nil, kiwi.AtField(err, op.name)
			}
			out[op.name] = v
		}
		return out, nil
	}
}

func encodeMessage(ops []fieldOp) encodeFunc {
	return func(e *encState, v any) error {
		rec, err := value.AsRecord(v)
		if err != nil {
			return kiwi.ValueError(err)
		}
		if err := e.enter(); err != nil {
			return err
		}
		defer e.leave()
		for i := range ops {
			op := &ops[i]
			fv, ok := rec.Get(op.name)
			if !ok {
				continue
			}
			e.bb.WriteVarUint(op.tag)
			if err := op.enc(e, fv); err != nil {
				return kiwi.AtField(err, op.name)
			}
		}
		e.bb.WriteVarUint(0)
		return nil
	}
}

func decodeMessage(name string, ops []fieldOp) decodeFunc {
	byTag := make(map[uint32]*fieldOp, len(ops))
	for i := range ops {
		byTag[ops[i].tag] = &ops[i]
	}
	return func(d *decState) (any, error) {
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
			op, ok := byTag[tag]
			if !ok {
				return nil, kiwi.NewIssue(kiwi.CodeUnknownFieldTag, start, fmt.Sprintf("tag %d is not a field of message %s", tag, name))
			}
			v, err := op.dec(d)
			if err != nil {
				return nil, kiwi.AtField(err, op.name)
			}
			out[op.name] = v
		}
	}
}

// arrayOps wraps element ops into array ops. size is the minimum encoded
// size of one element.
func arrayOps(t kiwi.TypeRef, size int, elemEnc encodeFunc, elemDec decodeFunc) (enc encodeFunc, dec decodeFunc) {
	if t == kiwi.TypeByte {
		enc = func(e *encState, v any) error {
			p, err := value.Bytes(v)
			if err != nil {
				return kiwi.ValueError(err)
			}
			e.bb.WriteByteArray(p)
			return nil
		}
		dec = func(d *decState) (any, error) {
			p, err := d.bb.ReadByteArray()
			if err != nil {
				return nil, d.outOfBounds(err)
			}
			return bytes.Clone(p), nil
		}
		return enc, dec
	}
	enc = func(e *encState, v any) error {
		seq, err := value.AsSeq(v)
		if err != nil {
			return kiwi.ValueError(err)
		}
		n := seq.Len()
		e.bb.WriteVarUint(uint32(n))
		for i := 0; i < n; i++ {
			if err := elemEnc(e, seq.At(i)); err != nil {
				return kiwi.AtIndex(err, i)
			}
		}
		return nil
	}
	dec = func(d *decState) (any, error) {
		n, err := d.bb.ReadVarUint()
		if err != nil {
			return nil, d.outOfBounds(err)
		}
		if err := kiwi.CheckArrayLen(d.bb, n, size); err != nil {
			return nil, err
		}
		out := make([]any, 0, min(int(n), d.bb.Remaining()))
		for i := 0; i < int(n); i++ {
			v, err := elemDec(d)
			if err != nil {
				return nil, kiwi.AtIndex(err, i)
			}
			out = append(out, v)
		}
		return out, nil
	}
	return enc, dec
}

func (e *encState) enter() error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return kiwi.NewIssue(kiwi.CodeTooDeep, -1, fmt.Sprintf("nesting exceeds %d", e.maxDepth))
	}
	return nil
}

func (e *encState) leave() { e.depth-- }

func (d *decState) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return kiwi.NewIssue(kiwi.CodeTooDeep, d.bb.Offset(), fmt.Sprintf("nesting exceeds %d", d.maxDepth))
	}
	return nil
}

func (d *decState) leave() { d.depth-- }

func (d *decState) outOfBounds(err error) error {
	return &kiwi.Issue{Code: kiwi.CodeOutOfBounds, Offset: d.bb.Offset(), Cause: err}
}
