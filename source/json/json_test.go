package json_test

import (
	"io"
	"testing"

	"github.com/go-quicktest/qt"

	eng "github.com/reoring/kiwi/internal/engine"
	kjson "github.com/reoring/kiwi/source/json"
)

func kinds(t *testing.T, src eng.TokenSource) []eng.Kind {
	t.Helper()
	var out []eng.Kind
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		qt.Assert(t, qt.IsNil(err))
		out = append(out, tok.Kind)
	}
}

func TestTokenKinds(t *testing.T) {
	src := kjson.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":"d"},"e":2}`))
	qt.Check(t, qt.DeepEquals(kinds(t, src), []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindKey, eng.KindNumber,
		eng.KindEndObject,
	}))
}

func TestNumbersKeepText(t *testing.T) {
	src := kjson.NewBytes([]byte(`[12345678901234567890, -0.5e3]`))
	_, err := src.NextToken()
	qt.Assert(t, qt.IsNil(err))
	tok, err := src.NextToken()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(tok.Number, "12345678901234567890"))
	tok, err = src.NextToken()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(tok.Number, "-0.5e3"))
}

func TestDecodeAnyFromJSON(t *testing.T) {
	v, err := eng.DecodeAny(kjson.NewBytes([]byte(` {"k": ["v"]} `)), eng.Limits{})
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(v, any(map[string]any{"k": []any{"v"}})))

	_, err = eng.DecodeAny(kjson.NewBytes([]byte(`{"k": 1`)), eng.Limits{})
	qt.Check(t, qt.IsNotNil(err))
}
