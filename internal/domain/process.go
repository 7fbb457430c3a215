package domain

import "strings"

// MentalProcess is the soul's current discrete behavioral mode.
type MentalProcess string

const (
	ProcessIdle          MentalProcess = "idle"
	ProcessContemplating MentalProcess = "contemplating"
	ProcessCurious       MentalProcess = "curious"
	ProcessPlayful       MentalProcess = "playful"
	ProcessEmpathetic    MentalProcess = "empathetic"
	ProcessResting       MentalProcess = "resting"
	ProcessEngaged       MentalProcess = "engaged"
)

func AllMentalProcesses() []MentalProcess {
	return []MentalProcess{
		ProcessIdle, ProcessContemplating, ProcessCurious, ProcessPlayful,
		ProcessEmpathetic, ProcessResting, ProcessEngaged,
	}
}

func ValidMentalProcess(p string) bool {
	switch MentalProcess(p) {
	case ProcessIdle, ProcessContemplating, ProcessCurious, ProcessPlayful,
		ProcessEmpathetic, ProcessResting, ProcessEngaged:
		return true
	}
	return false
}

// restingEnergyThreshold is the energy level below which the soul rests
// when nothing in the perception takes precedence.
const restingEnergyThreshold = 0.30

// ProcessRule is one step of the ordered decision list. Exactly one of
// Kind, Keywords, EnergyBelow is set per rule.
type ProcessRule struct {
	Process     MentalProcess
	Kind        string
	Keywords    []string
	EnergyBelow float64
}

// matches expects already-lowercased text.
func (r ProcessRule) matches(text, kind string, state EmotionalState) bool {
	switch {
	case r.Kind != "":
		return kind == r.Kind
	case len(r.Keywords) > 0:
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	case r.EnergyBelow > 0:
		return state[ChannelEnergy] < r.EnergyBelow
	}
	return false
}

// Order is significant: a low-energy question still resolves to curious
// because the inquiry rule precedes the resting rule.
var processRules = []ProcessRule{
	{Process: ProcessContemplating, Kind: KindSelfReflection},
	{Process: ProcessCurious, Keywords: []string{"?", "what", "how", "why"}},
	{Process: ProcessPlayful, Keywords: []string{"fun", "play", "game"}},
	{Process: ProcessEmpathetic, Keywords: []string{"help", "support", "feel"}},
	{Process: ProcessResting, EnergyBelow: restingEnergyThreshold},
}

// ProcessRules returns the ordered decision list used by SelectProcess.
func ProcessRules() []ProcessRule {
	return processRules
}

// SelectProcess walks the decision list in order; the first matching rule
// wins. Falls through to engaged.
func SelectProcess(text, kind string, state EmotionalState) MentalProcess {
	lowered := strings.ToLower(text)
	for _, r := range processRules {
		if r.matches(lowered, kind, state) {
			return r.Process
		}
	}
	return ProcessEngaged
}
