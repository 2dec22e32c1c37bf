package kiwi

import (
	"errors"
	"strconv"
	"strings"
)

// Code identifies an error kind. Codes are errors themselves so callers can
// match with errors.Is(err, kiwi.ErrUnknownFieldTag).
type Code string

func (c Code) Error() string { return "kiwi: " + string(c) }

// Error codes.
const (
	CodeOutOfBounds           Code = "out_of_bounds"
	CodeMalformedSchema       Code = "malformed_schema"
	CodeInvalidDefinitionKind Code = "invalid_definition_kind"
	CodeInvalidFieldType      Code = "invalid_field_type"
	CodeRequired              Code = "required"
	CodeUnknownEnumValue      Code = "unknown_enum_value"
	CodeUnknownEnumName       Code = "unknown_enum_name"
	CodeUnknownFieldTag       Code = "unknown_field_tag"
	// Value and lookup failures.
	CodeInvalidType       Code = "invalid_type"
	CodeOverflow          Code = "overflow"
	CodeUnknownDefinition Code = "unknown_definition"
	CodeTooDeep           Code = "too_deep"
	// Malformed JSON, YAML or CBOR handed to the transcode package.
	CodeInvalidInput Code = "invalid_input"
)

// Sentinels for errors.Is.
var (
	ErrOutOfBounds           error = CodeOutOfBounds
	ErrMalformedSchema       error = CodeMalformedSchema
	ErrInvalidDefinitionKind error = CodeInvalidDefinitionKind
	ErrInvalidFieldType      error = CodeInvalidFieldType
	ErrMissingRequiredField  error = CodeRequired
	ErrUnknownEnumValue      error = CodeUnknownEnumValue
	ErrUnknownEnumName       error = CodeUnknownEnumName
	ErrUnknownFieldTag       error = CodeUnknownFieldTag
	ErrInvalidType           error = CodeInvalidType
	ErrOverflow              error = CodeOverflow
	ErrUnknownDefinition     error = CodeUnknownDefinition
	ErrTooDeep               error = CodeTooDeep
	ErrInvalidInput          error = CodeInvalidInput
)

// Issue is the error returned by every fallible kiwi operation.
type Issue struct {
	Code Code
	// Path is a JSON Pointer (RFC 6901) to the failing value, for example
	// /items/2/kind. It is empty for the root value.
	Path    string
	Message string
	// Offset is the read cursor position when a decode failed, -1 otherwise.
	Offset int
	Cause  error
}

func (i *Issue) Error() string {
	b := &strings.Builder{}
	b.WriteString("kiwi: ")
	b.WriteString(string(i.Code))
	b.WriteString(" at ")
	b.WriteString(i.Pointer())
	if i.Message != "" {
		b.WriteString(": ")
		b.WriteString(i.Message)
	}
	if i.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(i.Offset))
		b.WriteString(")")
	}
	return b.String()
}

// Pointer returns Path, rendering the root value as "/".
func (i *Issue) Pointer() string {
	if i.Path == "" {
		return "/"
	}
	return i.Path
}

// Is matches the issue's code.
func (i *Issue) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == i.Code
}

func (i *Issue) Unwrap() error { return i.Cause }

// AsIssue extracts the outermost Issue from err.
func AsIssue(err error) (*Issue, bool) {
	var iss *Issue
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// NewIssue builds an issue for the root value.
func NewIssue(code Code, offset int, msg string) *Issue {
	return &Issue{Code: code, Offset: offset, Message: msg}
}

// AtField prefixes the path of an Issue with a record key. Other errors are
// returned unchanged.
func AtField(err error, name string) error {
	if iss, ok := err.(*Issue); ok {
		iss.Path = "/" + escapePointer(name) + iss.Path
	}
	return err
}

// AtIndex prefixes the path of an Issue with an array index.
func AtIndex(err error, i int) error {
	if iss, ok := err.(*Issue); ok {
		iss.Path = "/" + strconv.Itoa(i) + iss.Path
	}
	return err
}

// escapePointer escapes '~' as '~0' and '/' as '~1' per RFC 6901.
func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
