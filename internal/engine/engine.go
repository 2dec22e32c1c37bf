package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports input left after the top-level value.
var ErrTrailingData = errors.New("engine: trailing data after top-level value")

// DecodeAny builds an "any" value from the streaming token source: objects
// become map[string]any, arrays []any, numbers json.Number. The source must
// hold exactly one top-level value.
func DecodeAny(src TokenSource, lim Limits) (any, error) {
	b := builder{src: src, lim: lim}
	tok, err := src.NextToken()
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	v, err := b.value(tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err == nil {
			return nil, ErrTrailingData
		}
		return nil, err
	}
	return v, nil
}

type builder struct {
	src   TokenSource
	lim   Limits
	depth int
}

func (b *builder) next() (Token, error) {
	tok, err := b.src.NextToken()
	if err != nil {
		return Token{}, unexpectedEOF(err)
	}
	return tok, nil
}

func (b *builder) value(tok Token, path string) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		if err := b.enter(path); err != nil {
			return nil, err
		}
		defer b.leave()
		return b.object(path)
	case KindBeginArray:
		if err := b.enter(path); err != nil {
			return nil, err
		}
		defer b.leave()
		return b.array(path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (b *builder) object(path string) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		key := joinJSONPointer(path, tok.String)
		if _, dup := m[tok.String]; dup && !b.lim.AllowDuplicateKeys {
			return nil, &IssueError{Code: CodeDuplicateKey, Path: key, Message: "key '" + tok.String + "' duplicated"}
		}
		vt, err := b.next()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt, key)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (b *builder) array(path string) (any, error) {
	arr := []any{}
	for {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok, joinJSONPointer(path, strconv.Itoa(len(arr))))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
