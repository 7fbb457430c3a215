package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/domain"
)

func TestExperience_NoHistoryUsesDefaultPrompt(t *testing.T) {
	driver := new(MockDriver)
	driver.On("Perceive", mock.Anything, defaultExperiencePrompt, domain.KindExperience).
		Return(&client.PerceiveResult{MentalProcess: domain.ProcessEngaged}, nil)
	driver.On("AddMemory", mock.Anything, defaultExperiencePrompt, domain.KindExperience, 0.5).
		Return(&client.AddMemoryResult{StoredIn: domain.TierWorking, TotalMemories: 1}, nil)

	experience := NewExperience(driver, NewRing(5), nil)
	summary, err := experience.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "internalized into working memory", summary)
	driver.AssertExpectations(t)
}

func TestExperience_SuccessfulOutcomeWeighsHigher(t *testing.T) {
	ring := NewRing(5)
	ring.Add(Record{Name: "reflection", Summary: "reflected while contemplating"})

	wantText := "I just completed an activity: reflection (reflected while contemplating)"

	driver := new(MockDriver)
	driver.On("Perceive", mock.Anything, wantText, domain.KindExperience).
		Return(&client.PerceiveResult{MentalProcess: domain.ProcessEngaged}, nil)
	driver.On("AddMemory", mock.Anything, wantText, domain.KindExperience, 0.6).
		Return(&client.AddMemoryResult{StoredIn: domain.TierWorking, TotalMemories: 2}, nil)

	experience := NewExperience(driver, ring, nil)
	_, err := experience.Run(context.Background())
	require.NoError(t, err)
	driver.AssertExpectations(t)
}

func TestExperience_FailedOutcomeWeighsLower(t *testing.T) {
	ring := NewRing(5)
	ring.Add(Record{Name: "compose", Err: errors.New("publish failed")})

	driver := new(MockDriver)
	driver.On("Perceive", mock.Anything,
		"I just completed an activity: compose (error: publish failed)",
		domain.KindExperience).
		Return(&client.PerceiveResult{MentalProcess: domain.ProcessEngaged}, nil)
	driver.On("AddMemory", mock.Anything, mock.Anything, domain.KindExperience, 0.4).
		Return(&client.AddMemoryResult{StoredIn: domain.TierWorking, TotalMemories: 1}, nil)

	experience := NewExperience(driver, ring, nil)
	_, err := experience.Run(context.Background())
	require.NoError(t, err)
	driver.AssertExpectations(t)
}

func TestExperience_PerceiveFailureSkipsMemory(t *testing.T) {
	driver := new(MockDriver)
	driver.On("Perceive", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("soul unreachable"))

	experience := NewExperience(driver, NewRing(5), nil)
	_, err := experience.Run(context.Background())
	require.Error(t, err)
	driver.AssertNotCalled(t, "AddMemory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
