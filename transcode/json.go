package transcode

import (
	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/kiwi/internal/engine"
	kjson "github.com/reoring/kiwi/source/json"
)

// ParseJSON decodes one JSON document. Numbers are kept as json.Number so
// integers beyond float64 precision survive until they are coerced to a
// wire type.
func ParseJSON(data []byte, opts ...Opt) (any, error) {
	o := lastOpt(opts)
	v, err := eng.DecodeAny(kjson.NewBytes(data), eng.Limits{
		MaxDepth:           o.MaxDepth,
		AllowDuplicateKeys: o.AllowDuplicateKeys,
	})
	if err != nil {
		return nil, inputError(FormatJSON, err)
	}
	return v, nil
}

// MarshalJSON encodes a value tree as JSON with sorted object keys. Byte
// arrays become arrays of numbers so the output parses back to an
// equivalent tree.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	v = bytesAsNumbers(v)
	if indent {
		return gojson.MarshalIndent(v, "", "  ")
	}
	return gojson.Marshal(v)
}

func bytesAsNumbers(v any) any {
	switch t := v.(type) {
	case []byte:
		out := make([]any, len(t))
		for i, b := range t {
			out[i] = b
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = bytesAsNumbers(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = bytesAsNumbers(vv)
		}
		return out
	}
	return v
}
