// Package filtering decides which files under a root belong to a scan.
package filtering

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cpscan/cpscan/internal/config"
	"github.com/cpscan/cpscan/internal/types"
)

// Rules checked by the engine, in precedence order.
const (
	RuleIgnoreFolder   = "ignore_folders"
	RuleCommandExclude = "command_line.exclude"
	RuleProfileExclude = "profile.exclude_patterns"
	RuleSourceType     = "source_type"
)

// FilterDecision records why a path was included or excluded.
type FilterDecision struct {
	Include bool   `json:"include"`
	Reason  string `json:"reason"`
	Rule    string `json:"rule"`
}

// String returns a human-readable representation of the decision.
func (fd FilterDecision) String() string {
	action := "EXCLUDE"
	if fd.Include {
		action = "INCLUDE"
	}
	return fmt.Sprintf("%s: %s (rule: %s)", action, fd.Reason, fd.Rule)
}

// PatternError is a pattern that could not be compiled and was dropped.
type PatternError struct {
	Source  string
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("%s: malformed pattern %q: %v", e.Source, e.Pattern, e.Err)
}

func (e PatternError) Unwrap() error {
	return e.Err
}

// FileFilterEngine applies ignore folders, exclude patterns and the source
// type's extensions to paths relative to the scan root.
type FileFilterEngine struct {
	sourceType      types.SourceType
	ignoreFolders   []string
	cmdExclude      []string
	profileExcludes []string
	patternErrors   []PatternError
}

// NewFileFilterEngine creates an engine for sourceType using the profile's
// ignore folders and exclude patterns. Malformed patterns are dropped and
// reported through PatternErrors.
func NewFileFilterEngine(sourceType types.SourceType, profile config.Profile) *FileFilterEngine {
	e := &FileFilterEngine{sourceType: sourceType}
	e.ignoreFolders = e.compile(RuleIgnoreFolder, profile.IgnoreFolders)
	e.profileExcludes = e.compile(RuleProfileExclude, profile.ExcludePatterns)
	return e
}

// WithCommandLineExcludes adds command-line exclude patterns.
func (e *FileFilterEngine) WithCommandLineExcludes(patterns ...string) *FileFilterEngine {
	e.cmdExclude = append(e.cmdExclude, e.compile(RuleCommandExclude, patterns)...)
	return e
}

// PatternErrors returns the patterns dropped so far.
func (e *FileFilterEngine) PatternErrors() []PatternError {
	return e.patternErrors
}

func (e *FileFilterEngine) compile(source string, patterns []string) []string {
	valid := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			e.patternErrors = append(e.patternErrors, PatternError{Source: source, Pattern: pattern, Err: err})
			continue
		}
		valid = append(valid, pattern)
	}
	return valid
}

// ShouldDescend reports whether the directory at relPath should be walked.
// Only the directory's own name is checked; its ancestors were checked when
// they were entered.
func (e *FileFilterEngine) ShouldDescend(relPath string) FilterDecision {
	name := filepath.Base(relPath)
	if pattern, ok := matchAny(e.ignoreFolders, name); ok {
		return FilterDecision{
			Include: false,
			Reason:  fmt.Sprintf("in ignored folder %s (pattern %s)", name, pattern),
			Rule:    RuleIgnoreFolder,
		}
	}
	return FilterDecision{Include: true, Reason: "folder not ignored", Rule: RuleIgnoreFolder}
}

// ShouldInclude decides whether the file at relPath is scanned. Precedence:
//  1. ignore folders against every path element
//  2. command-line excludes
//  3. profile excludes
//  4. source type extension
func (e *FileFilterEngine) ShouldInclude(relPath string) FilterDecision {
	relPath = filepath.Clean(relPath)
	name := filepath.Base(relPath)

	for _, element := range strings.Split(filepath.ToSlash(relPath), "/") {
		if pattern, ok := matchAny(e.ignoreFolders, element); ok {
			return FilterDecision{
				Include: false,
				Reason:  fmt.Sprintf("path element %s matches ignore pattern %s", element, pattern),
				Rule:    RuleIgnoreFolder,
			}
		}
	}

	if pattern, ok := matchPath(e.cmdExclude, name, relPath); ok {
		return FilterDecision{
			Include: false,
			Reason:  fmt.Sprintf("matches command-line exclude pattern: %s", pattern),
			Rule:    RuleCommandExclude,
		}
	}

	if pattern, ok := matchPath(e.profileExcludes, name, relPath); ok {
		return FilterDecision{
			Include: false,
			Reason:  fmt.Sprintf("matches profile exclude pattern: %s", pattern),
			Rule:    RuleProfileExclude,
		}
	}

	if !e.sourceType.Matches(relPath) {
		return FilterDecision{
			Include: false,
			Reason:  fmt.Sprintf("not a %s source file", e.sourceType),
			Rule:    RuleSourceType,
		}
	}

	return FilterDecision{
		Include: true,
		Reason:  fmt.Sprintf("%s source file", e.sourceType),
		Rule:    RuleSourceType,
	}
}

func matchAny(patterns []string, target string) (string, bool) {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, target); ok {
			return pattern, true
		}
	}
	return "", false
}

// matchPath matches against the base name first, then the slash-separated
// relative path.
func matchPath(patterns []string, name, relPath string) (string, bool) {
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return pattern, true
		}
		if ok, _ := filepath.Match(filepath.ToSlash(pattern), slashed); ok {
			return pattern, true
		}
	}
	return "", false
}
