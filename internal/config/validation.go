package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpscan/cpscan/internal/core/index"
)

// ValidationLevel defines the severity of validation issues.
type ValidationLevel string

const (
	ValidationLevelError   ValidationLevel = "error"
	ValidationLevelWarning ValidationLevel = "warning"
	ValidationLevelInfo    ValidationLevel = "info"
)

// OutputFormats lists the accepted report formats.
var OutputFormats = []string{"text", "table", "json", "yaml"}

// ValidationIssue is one finding with an optional fix.
type ValidationIssue struct {
	Level      ValidationLevel `json:"level" yaml:"level"`
	Field      string          `json:"field" yaml:"field"`
	Value      any             `json:"value,omitempty" yaml:"value,omitempty"`
	Message    string          `json:"message" yaml:"message"`
	Suggestion string          `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Example    string          `json:"example,omitempty" yaml:"example,omitempty"`
}

// String returns a human-readable representation of the issue.
func (vi ValidationIssue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", strings.ToUpper(string(vi.Level)), vi.Field, vi.Message)
	if vi.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", vi.Suggestion)
	}
	if vi.Example != "" {
		fmt.Fprintf(&b, "\n  Example: %s", vi.Example)
	}
	return b.String()
}

// ConfigValidator collects issues across a configuration.
type ConfigValidator struct {
	issues []ValidationIssue
}

// NewConfigValidator creates a new configuration validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateConfig checks every profile, in name order.
func (cv *ConfigValidator) ValidateConfig(config Config) ValidationResult {
	cv.issues = nil

	if len(config.Profiles) == 0 {
		cv.add(ValidationLevelError, "profiles", nil, "no profiles defined",
			"add at least one profile",
			"profiles:\n  default:\n    min_line_count: 6")
	} else if _, ok := config.Profiles[DefaultProfileName]; !ok {
		cv.add(ValidationLevelInfo, "profiles", nil, "no default profile defined",
			"name one profile \"default\" or always pass --profile", "")
	}

	names := make([]string, 0, len(config.Profiles))
	for name := range config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cv.ValidateProfile(name, config.Profiles[name])
	}

	return cv.Result()
}

// ValidateProfile adds the issues of a single profile.
func (cv *ConfigValidator) ValidateProfile(name string, profile Profile) {
	prefix := "profiles." + name
	cv.validateThresholds(prefix, profile)
	cv.validatePatterns(prefix+"."+KeyIgnoreFolders, profile.IgnoreFolders)
	cv.validatePatterns(prefix+"."+KeyExcludePatterns, profile.ExcludePatterns)
	cv.validateOutput(prefix, profile)

	if _, err := index.New(index.Kind(profile.IndexKind)); err != nil {
		cv.add(ValidationLevelError, prefix+"."+KeyIndexKind, profile.IndexKind, err.Error(),
			"use trie or table", "index_kind: trie")
	}
}

func (cv *ConfigValidator) validateThresholds(prefix string, profile Profile) {
	if profile.MinLineCount < 0 {
		cv.add(ValidationLevelError, prefix+"."+KeyMinLineCount, profile.MinLineCount,
			"minimum line count cannot be negative", "use a positive line count", "min_line_count: 6")
	} else if profile.MinLineCount < 2 {
		cv.add(ValidationLevelWarning, prefix+"."+KeyMinLineCount, profile.MinLineCount,
			"every repeated line will be reported", "raise the line count to reduce noise", "min_line_count: 6")
	}

	if profile.MinCharCount < 0 {
		cv.add(ValidationLevelError, prefix+"."+KeyMinCharCount, profile.MinCharCount,
			"minimum character count cannot be negative", "use a positive character count", "min_char_count: 80")
	}

	if profile.ListTopResult < 0 {
		cv.add(ValidationLevelError, prefix+"."+KeyListTopResult, profile.ListTopResult,
			"result limit cannot be negative", "use a positive limit", "list_top_result: 30")
	} else if profile.ListTopResult == 0 {
		cv.add(ValidationLevelWarning, prefix+"."+KeyListTopResult, profile.ListTopResult,
			"no spans will be listed", "set a positive limit", "list_top_result: 30")
	}
}

func (cv *ConfigValidator) validatePatterns(field string, patterns []string) {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			cv.add(ValidationLevelWarning, field, pattern,
				fmt.Sprintf("malformed pattern %q will be ignored", pattern),
				"check brackets and escapes", "thirdparty")
		}
	}
}

func (cv *ConfigValidator) validateOutput(prefix string, profile Profile) {
	if profile.OutputFormat == "" {
		return
	}
	for _, format := range OutputFormats {
		if profile.OutputFormat == format {
			return
		}
	}
	cv.add(ValidationLevelError, prefix+"."+KeyOutputFormat, profile.OutputFormat,
		fmt.Sprintf("invalid output format: %s", profile.OutputFormat),
		"use one of "+strings.Join(OutputFormats, ", "), "output_format: text")
}

func (cv *ConfigValidator) add(level ValidationLevel, field string, value any, message, suggestion, example string) {
	cv.issues = append(cv.issues, ValidationIssue{
		Level:      level,
		Field:      field,
		Value:      value,
		Message:    message,
		Suggestion: suggestion,
		Example:    example,
	})
}

// Result summarizes the issues collected so far.
func (cv *ConfigValidator) Result() ValidationResult {
	var summary ValidationSummary
	for _, issue := range cv.issues {
		switch issue.Level {
		case ValidationLevelError:
			summary.Errors++
		case ValidationLevelWarning:
			summary.Warnings++
		case ValidationLevelInfo:
			summary.Infos++
		}
	}
	summary.TotalIssues = len(cv.issues)

	return ValidationResult{
		IsValid: summary.Errors == 0,
		Issues:  cv.issues,
		Summary: summary,
	}
}

// ValidationResult is the outcome of validating a configuration.
type ValidationResult struct {
	IsValid bool              `json:"is_valid" yaml:"is_valid"`
	Issues  []ValidationIssue `json:"issues" yaml:"issues"`
	Summary ValidationSummary `json:"summary" yaml:"summary"`
}

// ValidationSummary counts issues by level.
type ValidationSummary struct {
	TotalIssues int `json:"total_issues" yaml:"total_issues"`
	Errors      int `json:"errors" yaml:"errors"`
	Warnings    int `json:"warnings" yaml:"warnings"`
	Infos       int `json:"infos" yaml:"infos"`
}

// String returns a one-line summary.
func (vs ValidationSummary) String() string {
	if vs.TotalIssues == 0 {
		return "Configuration is valid with no issues"
	}

	var parts []string
	if vs.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", vs.Errors))
	}
	if vs.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", vs.Warnings))
	}
	if vs.Infos > 0 {
		parts = append(parts, fmt.Sprintf("%d suggestions", vs.Infos))
	}
	return "Configuration has " + strings.Join(parts, ", ")
}

// HasErrors reports whether any error-level issue was found.
func (vr ValidationResult) HasErrors() bool {
	return vr.Summary.Errors > 0
}

// ErrorMessages returns the messages of error-level issues.
func (vr ValidationResult) ErrorMessages() []string {
	var messages []string
	for _, issue := range vr.Issues {
		if issue.Level == ValidationLevelError {
			messages = append(messages, issue.Field+": "+issue.Message)
		}
	}
	return messages
}

// String returns the summary followed by every issue.
func (vr ValidationResult) String() string {
	if vr.IsValid && len(vr.Issues) == 0 {
		return "Configuration is valid"
	}

	var b strings.Builder
	b.WriteString(vr.Summary.String())
	b.WriteString(":\n")
	for _, issue := range vr.Issues {
		b.WriteString("  ")
		b.WriteString(issue.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ValidateConfigFile loads and validates the file at configPath.
func ValidateConfigFile(configPath string) ValidationResult {
	loaded := LoadConfig(configPath)
	if loaded.IsErr() {
		return ValidationResult{
			IsValid: false,
			Issues: []ValidationIssue{{
				Level:      ValidationLevelError,
				Field:      "file",
				Message:    fmt.Sprintf("failed to load configuration: %s", loaded.Error()),
				Suggestion: "check file syntax and permissions",
				Example:    "cpscan init " + configPath,
			}},
			Summary: ValidationSummary{TotalIssues: 1, Errors: 1},
		}
	}
	return NewConfigValidator().ValidateConfig(loaded.Unwrap())
}
