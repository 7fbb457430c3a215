// Package persona loads soul identity definitions from YAML files and
// resolves them over the built-in defaults.
package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/animakit/anima/internal/domain"
)

// file mirrors the on-disk YAML shape. Every section is optional; absent
// sections inherit the built-in defaults.
type file struct {
	Name        string             `yaml:"name"`
	Personality map[string]float64 `yaml:"personality"`
	Emotions    map[string]float64 `yaml:"emotions"`
	Responses   map[string]string  `yaml:"responses"`
}

// Persona is a resolved identity: name, traits, starting emotions and the
// response table, defaults filled in and levels clamped to [0,1].
type Persona struct {
	Name        string
	Personality map[string]float64
	Emotions    domain.EmotionalState
	Responses   map[domain.MentalProcess]string
}

// Default returns the built-in ladybug persona.
func Default() *Persona {
	return &Persona{
		Name:        domain.DefaultSoulName,
		Personality: domain.DefaultPersonality(),
		Emotions:    domain.DefaultEmotionalState(),
		Responses:   domain.DefaultResponses(),
	}
}

// Load reads a persona file. An empty path yields the default persona; a
// named file that cannot be read is an error, not a silent fallback.
func Load(path string) (*Persona, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("persona file %s: %w", path, err)
	}
	return p, nil
}

// Parse resolves YAML bytes over the defaults. Emotion channels and
// response keys outside the known sets are rejected so a typo in a persona
// file fails loudly at startup instead of silently doing nothing.
func Parse(data []byte) (*Persona, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}

	p := Default()
	if f.Name != "" {
		p.Name = f.Name
	}
	for trait, v := range f.Personality {
		p.Personality[trait] = domain.Clamp01(v)
	}
	for name, v := range f.Emotions {
		if !domain.ValidChannel(name) {
			return nil, fmt.Errorf("unknown emotion channel %q", name)
		}
		p.Emotions[domain.Channel(name)] = domain.Clamp01(v)
	}
	for name, tmpl := range f.Responses {
		if !domain.ValidMentalProcess(name) {
			return nil, fmt.Errorf("unknown response key %q", name)
		}
		p.Responses[domain.MentalProcess(name)] = tmpl
	}
	return p, nil
}

// Soul constructs an independent aggregate from this persona. The persona
// can mint multiple souls; none of them share state.
func (p *Persona) Soul() *domain.Soul {
	personality := make(map[string]float64, len(p.Personality))
	for trait, v := range p.Personality {
		personality[trait] = v
	}
	responses := make(map[domain.MentalProcess]string, len(p.Responses))
	for proc, tmpl := range p.Responses {
		responses[proc] = tmpl
	}
	return domain.NewSoul(p.Name, personality, p.Emotions.Clone(), responses)
}
