package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytebuddy/companion/internal/genai"
	"github.com/bytebuddy/companion/internal/profile"
)

var (
	ErrProfileRequired = errors.New("advisor: a saved health profile is required")
	ErrEmptyMeal       = errors.New("advisor: meal description is required")
	// ErrMalformedPlan flags a generated plan that does not open with the
	// required disclaimer line. The contract is enforced here instead of
	// silently accepting whatever came back.
	ErrMalformedPlan = errors.New("advisor: plan does not start with the required disclaimer")
)

type ProfileSource interface {
	Get(ctx context.Context, userID uint64) (*profile.Profile, error)
}

type Service struct {
	profiles ProfileSource
	provider genai.Provider
}

func NewService(profiles ProfileSource, provider genai.Provider) *Service {
	return &Service{profiles: profiles, provider: provider}
}

// GeneratePlan produces the 7-day dietary plan for the account's saved
// profile and validates the disclaimer contract on the first line.
func (s *Service) GeneratePlan(ctx context.Context, userID uint64) (string, error) {
	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if prof.IsEmpty() {
		return "", ErrProfileRequired
	}

	plan, err := s.provider.SynthesizePlan(ctx, genai.ProfileSummary(prof))
	if err != nil {
		return "", fmt.Errorf("advisor: plan generation: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(plan), genai.PlanDisclaimer) {
		return "", ErrMalformedPlan
	}
	return plan, nil
}

// AnalyzeMeal returns the markdown nutritional breakdown for a meal
// description.
func (s *Service) AnalyzeMeal(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyMeal
	}
	analysis, err := s.provider.AnalyzeMeal(ctx, description)
	if err != nil {
		return "", fmt.Errorf("advisor: meal analysis: %w", err)
	}
	return analysis, nil
}
