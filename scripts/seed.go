// Seed script for giving a freshly started soul a first day of history.
// Run with: go run ./scripts/seed.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/config"
	"github.com/animakit/anima/internal/domain"
)

func main() {
	config.Load()

	ctx := context.Background()

	remote := client.NewRemote(config.SoulURL(), config.SoulName(), config.AdminToken())
	remote.SetTimeout(10 * time.Second)

	health, err := remote.Health(ctx)
	if err != nil {
		log.Fatalf("Failed to reach soul server at %s: %v", config.SoulURL(), err)
	}
	fmt.Printf("Connected to %s (%s, version %s)\n", health.Soul, health.Status, health.Version)

	// A first day of perceptions
	perceptions := []struct {
		text string
		kind string
	}{
		{"Hello there, welcome to the world.", "greeting"},
		{"What do you think clouds taste like?", ""},
		{"Let's play a word game together.", ""},
		{"I feel a bit lost today and could use support.", ""},
		{"The sun is setting outside the window.", domain.KindObservation},
	}

	for _, p := range perceptions {
		result, err := remote.Perceive(ctx, p.text, p.kind)
		if err != nil {
			log.Fatalf("Failed to perceive %q: %v", p.text, err)
		}
		fmt.Printf("Perceived [%s]: %s\n", result.MentalProcess, truncate(p.text, 50))
	}

	// Foundational memories, important enough to survive any eviction
	memories := []struct {
		kind       string
		content    string
		importance float64
	}{
		{domain.KindExperience, "My first conversation happened today", 0.9},
		{domain.KindObservation, "Questions make my curiosity spark", 0.8},
		{domain.KindObservation, "Games are more fun with company", 0.75},
		{domain.KindReflection, "Being small does not mean thinking small", 0.85},
		{domain.KindObservation, "Sunsets mark the end of a day worth remembering", 0.6},
	}

	for _, m := range memories {
		result, err := remote.AddMemory(ctx, m.content, m.kind, m.importance)
		if err != nil {
			log.Fatalf("Failed to store memory %q: %v", m.content, err)
		}
		fmt.Printf("Stored memory [%s] in %s: %s\n", m.kind, result.StoredIn, truncate(m.content, 50))
	}

	state, err := remote.State(ctx)
	if err != nil {
		log.Fatalf("Failed to read state: %v", err)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("\n%s is %s with %d working and %d long-term memories.\n",
		state.Name, state.MentalProcess, state.WorkingMemorySize, state.LongTermMemorySize)
	fmt.Println("\nTo inspect the soul, use:")
	fmt.Printf("curl %s/souls/%s/state\n", config.SoulURL(), config.SoulName())
	fmt.Printf("curl '%s/souls/%s/journal?limit=20'\n", config.SoulURL(), config.SoulName())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
