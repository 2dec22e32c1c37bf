package engine

import "strings"

// Limits bound the trees DecodeAny builds.
type Limits struct {
	// MaxDepth bounds object and array nesting. Zero means unlimited.
	MaxDepth int
	// AllowDuplicateKeys keeps the last value of a repeated object key
	// instead of failing.
	AllowDuplicateKeys bool
}

// Issue codes reported through IssueError.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeTooDeep      = "too_deep"
)

// IssueError is a lightweight error carrying the JSON Pointer of the
// offending value.
type IssueError struct {
	Code    string
	Path    string
	Message string
}

func (e *IssueError) Error() string { return e.Code + " at " + normalizeIssuePath(e.Path) + ": " + e.Message }

func (b *builder) enter(path string) error {
	b.depth++
	if b.lim.MaxDepth > 0 && b.depth > b.lim.MaxDepth {
		return &IssueError{Code: CodeTooDeep, Path: path, Message: "max depth exceeded"}
	}
	return nil
}

func (b *builder) leave() { b.depth-- }

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
