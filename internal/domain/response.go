package domain

import "strings"

// namePlaceholder is replaced with the soul's name when a template renders.
const namePlaceholder = "{name}"

const fallbackResponse = "*{name} is present*"

var defaultResponses = map[MentalProcess]string{
	ProcessContemplating: "*{name} reflects thoughtfully, antennae gently moving*",
	ProcessCurious:       "*{name}'s eyes light up with curiosity*",
	ProcessPlayful:       "*{name} does a little happy dance on their leaf*",
	ProcessEmpathetic:    "*{name} moves closer, radiating warmth*",
	ProcessResting:       "*{name} settles down peacefully, conserving energy*",
	ProcessEngaged:       "*{name} focuses attentively*",
	ProcessIdle:          "*{name} waits patiently, observing the world*",
}

// DefaultResponses returns a copy of the built-in template table.
func DefaultResponses() map[MentalProcess]string {
	out := make(map[MentalProcess]string, len(defaultResponses))
	for p, tmpl := range defaultResponses {
		out[p] = tmpl
	}
	return out
}

// ResponseFor renders the template for a process. A process missing from
// the table (e.g. loaded from an older snapshot) gets a generic presence
// line rather than an error.
func ResponseFor(name string, p MentalProcess, responses map[MentalProcess]string) string {
	tmpl, ok := responses[p]
	if !ok {
		tmpl = fallbackResponse
	}
	return strings.ReplaceAll(tmpl, namePlaceholder, name)
}
