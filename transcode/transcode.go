// Package transcode bridges kiwi value trees and text or binary document
// formats: JSON via goccy/go-json, YAML via gopkg.in/yaml.v3 and CBOR via
// fxamacker/cbor.
//
// Parsed trees use map[string]any for objects and []any for arrays, which
// the kiwi encoders accept directly. Marshal accepts the canonical trees
// kiwi decoders produce.
package transcode

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/kiwi"
	eng "github.com/reoring/kiwi/internal/engine"
)

// Format names a document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// for YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("transcode: unknown format %q", name)
}

// Opt configures parsing. When several are passed the last one wins.
type Opt struct {
	// MaxDepth bounds object and array nesting. Zero means unlimited.
	MaxDepth int
	// AllowDuplicateKeys keeps the last of repeated JSON object keys
	// instead of failing. YAML and CBOR always reject duplicates.
	AllowDuplicateKeys bool
}

func lastOpt(opts []Opt) Opt {
	if len(opts) == 0 {
		return Opt{}
	}
	return opts[len(opts)-1]
}

// Parse decodes data in format f into a value tree.
func Parse(f Format, data []byte, opts ...Opt) (any, error) {
	switch f {
	case FormatJSON:
		return ParseJSON(data, opts...)
	case FormatYAML:
		return ParseYAML(data, opts...)
	case FormatCBOR:
		return ParseCBOR(data, opts...)
	}
	return nil, fmt.Errorf("transcode: unknown format %q", string(f))
}

// Marshal encodes a value tree in format f.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case FormatJSON:
		return MarshalJSON(v, true)
	case FormatYAML:
		return MarshalYAML(v)
	case FormatCBOR:
		return MarshalCBOR(v)
	}
	return nil, fmt.Errorf("transcode: unknown format %q", string(f))
}

// inputError wraps a parser failure as a kiwi Issue.
func inputError(f Format, err error) error {
	var ie *eng.IssueError
	if errors.As(err, &ie) {
		code := kiwi.CodeInvalidInput
		if ie.Code == eng.CodeTooDeep {
			code = kiwi.CodeTooDeep
		}
		return &kiwi.Issue{Code: code, Path: ie.Path, Message: ie.Message, Offset: -1, Cause: err}
	}
	var iss *kiwi.Issue
	if errors.As(err, &iss) {
		return err
	}
	return &kiwi.Issue{Code: kiwi.CodeInvalidInput, Message: string(f) + ": " + err.Error(), Offset: -1, Cause: err}
}

// checkDepth walks a parsed tree and fails with too_deep past limit levels
// of nesting. Object keys are visited in sorted order.
func checkDepth(v any, limit int) error {
	if limit <= 0 {
		return nil
	}
	return walkDepth(v, "", 0, limit)
}

func walkDepth(v any, path string, depth, limit int) error {
	switch t := v.(type) {
	case map[string]any:
		if depth++; depth > limit {
			return tooDeep(path)
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if err := walkDepth(t[k], path+"/"+escapePointer(k), depth, limit); err != nil {
				return err
			}
		}
	case []any:
		if depth++; depth > limit {
			return tooDeep(path)
		}
		for i, vv := range t {
			if err := walkDepth(vv, path+"/"+strconv.Itoa(i), depth, limit); err != nil {
				return err
			}
		}
	}
	return nil
}

func tooDeep(path string) error {
	return &kiwi.Issue{Code: kiwi.CodeTooDeep, Path: path, Message: "max depth exceeded", Offset: -1}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(s string) string { return pointerEscaper.Replace(s) }
