package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// SourceType is the declared language of the scanned tree.
type SourceType string

const (
	SourceJava       SourceType = "java"
	SourceCpp        SourceType = "cpp"
	SourceC          SourceType = "c"
	SourceRust       SourceType = "rust"
	SourceJavascript SourceType = "javascript"
	SourcePython     SourceType = "python"
	SourceGo         SourceType = "go"
)

// ErrUnsupportedSourceType is returned by ParseSourceType for unknown names.
var ErrUnsupportedSourceType = errors.New("unsupported source type")

var sourceExtensions = map[SourceType][]string{
	SourceJava:       {".java"},
	SourceCpp:        {".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
	SourceC:          {".c", ".h"},
	SourceRust:       {".rs"},
	SourceJavascript: {".js", ".mjs", ".cjs", ".jsx"},
	SourcePython:     {".py"},
	SourceGo:         {".go"},
}

// SourceTypes lists every supported type in a stable order.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceJava, SourceCpp, SourceC, SourceRust,
		SourceJavascript, SourcePython, SourceGo,
	}
}

// ParseSourceType resolves a case-insensitive name to a SourceType.
func ParseSourceType(name string) (SourceType, error) {
	st := SourceType(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := sourceExtensions[st]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedSourceType, name, joinSourceTypes())
	}
	return st, nil
}

// Extensions returns the file extensions belonging to the source type.
func (st SourceType) Extensions() []string {
	return slices.Clone(sourceExtensions[st])
}

// Matches reports whether path has one of the type's extensions.
func (st SourceType) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.Contains(sourceExtensions[st], ext)
}

// String implements fmt.Stringer.
func (st SourceType) String() string {
	return string(st)
}

func joinSourceTypes() string {
	names := make([]string, 0, len(sourceExtensions))
	for _, st := range SourceTypes() {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}
