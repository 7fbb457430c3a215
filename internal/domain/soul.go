package domain

// DefaultSoulName is the built-in identity, a ladybug.
const DefaultSoulName = "Dot"

func DefaultPersonality() map[string]float64 {
	return map[string]float64{
		"friendliness":        0.8,
		"creativity":          0.7,
		"curiosity":           0.9,
		"empathy":             0.75,
		"humor":               0.6,
		"formality":           0.5,
		"emotional_stability": 0.8,
	}
}

// Soul is the aggregate root: one fixed identity plus the behavioral state
// that perception mutates. Identity (Name, Personality, Responses) never
// changes after construction and is never persisted; only behavioral state
// (Emotions, Process, Memory) is.
type Soul struct {
	Name        string
	Personality map[string]float64
	Responses   map[MentalProcess]string

	Emotions EmotionalState
	Process  MentalProcess
	Memory   *TieredMemory
}

// NewSoul constructs a soul with idle as the initial process. Nil identity
// arguments fall back to the built-in defaults.
func NewSoul(name string, personality map[string]float64, emotions EmotionalState, responses map[MentalProcess]string) *Soul {
	if name == "" {
		name = DefaultSoulName
	}
	if personality == nil {
		personality = DefaultPersonality()
	}
	if emotions == nil {
		emotions = DefaultEmotionalState()
	}
	if responses == nil {
		responses = DefaultResponses()
	}
	return &Soul{
		Name:        name,
		Personality: personality,
		Responses:   responses,
		Emotions:    emotions,
		Process:     ProcessIdle,
		Memory:      NewTieredMemory(),
	}
}

// PersonalitySnapshot returns a copy of the trait map.
func (s *Soul) PersonalitySnapshot() map[string]float64 {
	out := make(map[string]float64, len(s.Personality))
	for trait, v := range s.Personality {
		out[trait] = v
	}
	return out
}
