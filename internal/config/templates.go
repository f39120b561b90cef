package config

import (
	"fmt"
	"sort"
)

// ConfigTemplate is a named starting point for a generated profile.
type ConfigTemplate struct {
	Name        string
	Description string
	Customizer  func(profile Profile) Profile
}

// TemplateRegistry holds the built-in templates.
type TemplateRegistry struct {
	templates map[string]ConfigTemplate
}

// NewTemplateRegistry creates a registry with the built-in templates.
func NewTemplateRegistry() *TemplateRegistry {
	tr := &TemplateRegistry{templates: make(map[string]ConfigTemplate)}
	tr.register(ConfigTemplate{
		Name:        "default",
		Description: "balanced thresholds for everyday use",
	})
	tr.register(ConfigTemplate{
		Name:        "strict",
		Description: "short spans, every copy reported",
		Customizer: func(p Profile) Profile {
			p.MinLineCount = 4
			p.MinCharCount = 40
			p.ListTopResult = 100
			p.TwoPass = true
			return p
		},
	})
	tr.register(ConfigTemplate{
		Name:        "relaxed",
		Description: "only large blocks, top 10",
		Customizer: func(p Profile) Profile {
			p.MinLineCount = 12
			p.MinCharCount = 300
			p.ListTopResult = 10
			return p
		},
	})
	tr.register(ConfigTemplate{
		Name:        "ci",
		Description: "machine-readable json without colors",
		Customizer: func(p Profile) Profile {
			p.OutputFormat = "json"
			p.ColoredOutput = false
			p.ShowStats = true
			return p
		},
	})
	return tr
}

func (tr *TemplateRegistry) register(t ConfigTemplate) {
	tr.templates[t.Name] = t
}

// ApplyTemplate builds a profile from DefaultProfile and the named template.
func (tr *TemplateRegistry) ApplyTemplate(name string) (Profile, error) {
	t, ok := tr.templates[name]
	if !ok {
		return Profile{}, fmt.Errorf("template not found: %s (available: %v)", name, tr.Names())
	}
	profile := DefaultProfile()
	if t.Customizer != nil {
		profile = t.Customizer(profile)
	}
	return profile, nil
}

// Names returns the template names in sorted order.
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns each template's description keyed by name.
func (tr *TemplateRegistry) Describe() map[string]string {
	out := make(map[string]string, len(tr.templates))
	for name, t := range tr.templates {
		out[name] = t.Description
	}
	return out
}

// GenerateConfig returns a configuration whose default profile comes from the
// named template.
func GenerateConfig(templateName string) (Config, error) {
	profile, err := NewTemplateRegistry().ApplyTemplate(templateName)
	if err != nil {
		return Config{}, err
	}
	return Config{Profiles: map[string]Profile{DefaultProfileName: profile}}, nil
}
