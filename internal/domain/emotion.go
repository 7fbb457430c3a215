package domain

import (
	"fmt"
	"strings"
)

// Channel names one dimension of the emotional state.
type Channel string

const (
	ChannelCuriosity    Channel = "curiosity"
	ChannelFriendliness Channel = "friendliness"
	ChannelEnergy       Channel = "energy"
	ChannelPlayfulness  Channel = "playfulness"
	ChannelContentment  Channel = "contentment"
)

func AllChannels() []Channel {
	return []Channel{ChannelCuriosity, ChannelFriendliness, ChannelEnergy, ChannelPlayfulness, ChannelContentment}
}

func ValidChannel(c string) bool {
	switch Channel(c) {
	case ChannelCuriosity, ChannelFriendliness, ChannelEnergy, ChannelPlayfulness, ChannelContentment:
		return true
	}
	return false
}

// EmotionalState maps each channel to a level in [0,1]. The channel set is
// fixed at construction; updates clamp, never add or remove.
type EmotionalState map[Channel]float64

func DefaultEmotionalState() EmotionalState {
	return EmotionalState{
		ChannelCuriosity:    0.9,
		ChannelFriendliness: 0.8,
		ChannelEnergy:       0.8,
		ChannelPlayfulness:  0.6,
		ChannelContentment:  0.7,
	}
}

func (e EmotionalState) Clone() EmotionalState {
	out := make(EmotionalState, len(e))
	for c, v := range e {
		out[c] = v
	}
	return out
}

// Adjust applies one step to a channel. Positive steps saturate at 1.0.
// Negative steps stop at floor; a level already below floor is raised to it.
func (e EmotionalState) Adjust(c Channel, step, floor float64) {
	v := e[c] + step
	if step < 0 && v < floor {
		v = floor
	}
	e[c] = Clamp01(v)
}

// Describe renders the state as a short fixed-order summary, e.g.
// "curiosity=0.90 friendliness=0.80 ...".
func (e EmotionalState) Describe() string {
	var sb strings.Builder
	for i, c := range AllChannels() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%.2f", c, e[c])
	}
	return sb.String()
}

// Dominant returns the highest channel, breaking ties by channel order.
func (e EmotionalState) Dominant() (Channel, float64) {
	best := AllChannels()[0]
	bestV := e[best]
	for _, c := range AllChannels()[1:] {
		if e[c] > bestV {
			best, bestV = c, e[c]
		}
	}
	return best, bestV
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EmotionEffect is one channel nudge. Negative steps stop at Floor rather
// than zero.
type EmotionEffect struct {
	Channel Channel
	Step    float64
	Floor   float64
}

// EmotionRule fires on either a keyword match in the perception text or an
// exact perception kind, never both. Keyword matching is case-insensitive
// substring containment.
type EmotionRule struct {
	Name     string
	Keywords []string
	Kind     string
	Effects  []EmotionEffect
}

// Matches expects already-lowercased text.
func (r EmotionRule) Matches(text, kind string) bool {
	if r.Kind != "" {
		return kind == r.Kind
	}
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var emotionRules = []EmotionRule{
	{
		Name:     "positive_sentiment",
		Keywords: []string{"happy", "love", "great", "wonderful", "amazing", "thank"},
		Effects: []EmotionEffect{
			{Channel: ChannelContentment, Step: 0.10},
			{Channel: ChannelFriendliness, Step: 0.05},
		},
	},
	{
		Name:     "inquiry",
		Keywords: []string{"?", "what", "how", "why", "curious", "wonder", "interesting"},
		Effects: []EmotionEffect{
			{Channel: ChannelCuriosity, Step: 0.10},
		},
	},
	{
		Name: "reflection_fatigue",
		Kind: KindSelfReflection,
		Effects: []EmotionEffect{
			{Channel: ChannelEnergy, Step: -0.05, Floor: 0.30},
		},
	},
	{
		Name: "experience_fatigue",
		Kind: KindExperience,
		Effects: []EmotionEffect{
			{Channel: ChannelEnergy, Step: -0.02, Floor: 0.20},
		},
	},
	{
		Name:     "playful_cue",
		Keywords: []string{"fun", "play", "game", "joke", "laugh"},
		Effects: []EmotionEffect{
			{Channel: ChannelPlayfulness, Step: 0.15},
		},
	},
}

// EmotionRules returns the ordered nudge table applied to every perception.
// Rules are independent additive nudges; all that match fire.
func EmotionRules() []EmotionRule {
	return emotionRules
}

// ApplyEmotionRules mutates state per the rule table and returns the names
// of the rules that fired.
func ApplyEmotionRules(state EmotionalState, text, kind string) []string {
	lowered := strings.ToLower(text)
	var fired []string
	for _, r := range emotionRules {
		if !r.Matches(lowered, kind) {
			continue
		}
		for _, eff := range r.Effects {
			state.Adjust(eff.Channel, eff.Step, eff.Floor)
		}
		fired = append(fired, r.Name)
	}
	return fired
}
