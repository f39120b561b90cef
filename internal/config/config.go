// Package config loads scan profiles through viper and provides the defaults
// that every unset key falls back to.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cpscan/cpscan/internal/types"
)

// DefaultProfileName is used when no profile is requested.
const DefaultProfileName = "default"

// EnvPrefix is the prefix of environment variables that override profile keys,
// e.g. CPSCAN_MIN_LINE_COUNT.
const EnvPrefix = "CPSCAN"

// Config represents the complete application configuration.
type Config struct {
	Profiles map[string]Profile `yaml:"profiles" json:"profiles"`
}

// Profile holds the settings of one scan.
type Profile struct {
	// Detection thresholds
	MinLineCount int `yaml:"min_line_count" json:"min_line_count"`
	MinCharCount int `yaml:"min_char_count" json:"min_char_count"`

	// Source discovery
	IgnoreFolders   []string `yaml:"ignore_folders" json:"ignore_folders"`
	ExcludePatterns []string `yaml:"exclude_patterns" json:"exclude_patterns"`
	ListSourceFiles bool     `yaml:"list_source_files" json:"list_source_files"`

	// Matching
	IndexKind string `yaml:"index_kind" json:"index_kind"`
	TwoPass   bool   `yaml:"two_pass" json:"two_pass"`

	// Output
	ListTopResult int    `yaml:"list_top_result" json:"list_top_result"`
	OutputFormat  string `yaml:"output_format" json:"output_format"`
	ColoredOutput bool   `yaml:"colored_output" json:"colored_output"`
	ShowStats     bool   `yaml:"show_stats" json:"show_stats"`
}

// Profile keys as they appear in YAML and, upper-cased, in the environment.
const (
	KeyMinLineCount    = "min_line_count"
	KeyMinCharCount    = "min_char_count"
	KeyIgnoreFolders   = "ignore_folders"
	KeyExcludePatterns = "exclude_patterns"
	KeyListSourceFiles = "list_source_files"
	KeyIndexKind       = "index_kind"
	KeyTwoPass         = "two_pass"
	KeyListTopResult   = "list_top_result"
	KeyOutputFormat    = "output_format"
	KeyColoredOutput   = "colored_output"
	KeyShowStats       = "show_stats"
)

// DefaultProfile returns the built-in scan settings.
func DefaultProfile() Profile {
	th := types.DefaultThresholds()
	return Profile{
		MinLineCount:    th.MinLines,
		MinCharCount:    th.MinChars,
		IgnoreFolders:   []string{"thirdparty", "test", "node_modules"},
		ExcludePatterns: []string{},
		ListSourceFiles: false,
		IndexKind:       "trie",
		TwoPass:         false,
		ListTopResult:   30,
		OutputFormat:    "text",
		ColoredOutput:   true,
		ShowStats:       false,
	}
}

// DefaultConfig returns a configuration holding only the default profile.
func DefaultConfig() Config {
	return Config{
		Profiles: map[string]Profile{
			DefaultProfileName: DefaultProfile(),
		},
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from a profile take
// their value from DefaultProfile.
func LoadConfig(configPath string) types.Result[Config] {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return types.Err[Config](fmt.Errorf("failed to read config %s: %w", configPath, err))
	}

	config := Config{Profiles: make(map[string]Profile)}
	for name := range v.GetStringMap("profiles") {
		config.Profiles[name] = loadProfile(v.Sub("profiles."+name), DefaultProfile())
	}
	if len(config.Profiles) == 0 {
		return types.Err[Config](fmt.Errorf("config %s defines no profiles", configPath))
	}

	return types.Ok(config)
}

// loadProfile overlays every key set in v onto base. A nil v returns base.
func loadProfile(v *viper.Viper, base Profile) Profile {
	if v == nil {
		return base
	}
	p := base
	if v.IsSet(KeyMinLineCount) {
		p.MinLineCount = v.GetInt(KeyMinLineCount)
	}
	if v.IsSet(KeyMinCharCount) {
		p.MinCharCount = v.GetInt(KeyMinCharCount)
	}
	if v.IsSet(KeyIgnoreFolders) {
		p.IgnoreFolders = SplitList(v.GetStringSlice(KeyIgnoreFolders)...)
	}
	if v.IsSet(KeyExcludePatterns) {
		p.ExcludePatterns = SplitList(v.GetStringSlice(KeyExcludePatterns)...)
	}
	if v.IsSet(KeyListSourceFiles) {
		p.ListSourceFiles = v.GetBool(KeyListSourceFiles)
	}
	if v.IsSet(KeyIndexKind) {
		p.IndexKind = v.GetString(KeyIndexKind)
	}
	if v.IsSet(KeyTwoPass) {
		p.TwoPass = v.GetBool(KeyTwoPass)
	}
	if v.IsSet(KeyListTopResult) {
		p.ListTopResult = v.GetInt(KeyListTopResult)
	}
	if v.IsSet(KeyOutputFormat) {
		p.OutputFormat = v.GetString(KeyOutputFormat)
	}
	if v.IsSet(KeyColoredOutput) {
		p.ColoredOutput = v.GetBool(KeyColoredOutput)
	}
	if v.IsSet(KeyShowStats) {
		p.ShowStats = v.GetBool(KeyShowStats)
	}
	return p
}

// ApplyEnv overrides profile keys from CPSCAN_* environment variables.
func ApplyEnv(profile Profile) Profile {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{
		KeyMinLineCount, KeyMinCharCount, KeyIgnoreFolders, KeyExcludePatterns,
		KeyListSourceFiles, KeyIndexKind, KeyTwoPass, KeyListTopResult,
		KeyOutputFormat, KeyColoredOutput, KeyShowStats,
	} {
		_ = v.BindEnv(key)
	}
	return loadProfile(v, profile)
}

// GetProfile retrieves a profile by name; an empty name selects the default.
func GetProfile(config Config, profileName string) types.Result[Profile] {
	if profileName == "" {
		profileName = DefaultProfileName
	}

	profile, exists := config.Profiles[profileName]
	if !exists {
		return types.Err[Profile](fmt.Errorf("profile not found: %s", profileName))
	}
	return types.Ok(profile)
}

// ToThresholds converts the profile's detection settings.
func ToThresholds(profile Profile) types.Thresholds {
	return types.Thresholds{
		MinLines: profile.MinLineCount,
		MinChars: profile.MinCharCount,
	}
}

// SplitList expands comma-separated entries, trimming blanks. It accepts both
// a YAML list and a single "a,b,c" string.
func SplitList(entries ...string) []string {
	out := []string{}
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Marshal renders config as YAML.
func Marshal(config Config) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteConfig writes config to path as YAML. An existing file is only replaced
// when overwrite is set.
func WriteConfig(path string, config Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	data, err := Marshal(config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
