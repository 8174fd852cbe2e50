package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytebuddy/companion/internal/genai"
	"github.com/bytebuddy/companion/internal/profile"
)

type stubProvider struct {
	genai.Provider
	plan        string
	planErr     error
	analysis    string
	analysisErr error
	lastSummary string
}

func (p *stubProvider) SynthesizePlan(_ context.Context, summary string) (string, error) {
	p.lastSummary = summary
	return p.plan, p.planErr
}

func (p *stubProvider) AnalyzeMeal(context.Context, string) (string, error) {
	return p.analysis, p.analysisErr
}

type stubProfiles struct{ prof *profile.Profile }

func (s stubProfiles) Get(context.Context, uint64) (*profile.Profile, error) {
	return s.prof, nil
}

func TestGeneratePlan(t *testing.T) {
	prov := &stubProvider{plan: genai.PlanDisclaimer + "\n\n## Day 1\nOatmeal\n\n" + genai.WaterSectionHeading + "\n**Litres:** 2.5 L\n"}
	prof := &profile.Profile{Age: "30", Weight: "70", Units: profile.UnitsMetric}
	svc := NewService(stubProfiles{prof: prof}, prov)

	plan, err := svc.GeneratePlan(context.Background(), 1)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}
	if !strings.HasPrefix(plan, genai.PlanDisclaimer) {
		t.Fatalf("plan must open with the disclaimer: %q", plan)
	}
	if !strings.Contains(prov.lastSummary, "- Weight: 70 kg") {
		t.Fatalf("profile summary not passed through: %q", prov.lastSummary)
	}
}

func TestGeneratePlan_MalformedFirstLine(t *testing.T) {
	prov := &stubProvider{plan: "## Day 1\nOatmeal\n"}
	svc := NewService(stubProfiles{prof: &profile.Profile{Age: "30"}}, prov)

	if _, err := svc.GeneratePlan(context.Background(), 1); !errors.Is(err, ErrMalformedPlan) {
		t.Fatalf("expected ErrMalformedPlan, got %v", err)
	}
}

func TestGeneratePlan_RequiresProfile(t *testing.T) {
	svc := NewService(stubProfiles{prof: nil}, &stubProvider{})

	if _, err := svc.GeneratePlan(context.Background(), 1); !errors.Is(err, ErrProfileRequired) {
		t.Fatalf("expected ErrProfileRequired, got %v", err)
	}
}

func TestGeneratePlan_ProviderFailure(t *testing.T) {
	prov := &stubProvider{planErr: errors.New("quota")}
	svc := NewService(stubProfiles{prof: &profile.Profile{Age: "30"}}, prov)

	if _, err := svc.GeneratePlan(context.Background(), 1); err == nil {
		t.Fatalf("expected error on provider failure")
	}
}

func TestAnalyzeMeal(t *testing.T) {
	prov := &stubProvider{analysis: "**Estimated calories:** 450\n"}
	svc := NewService(stubProfiles{}, prov)

	if _, err := svc.AnalyzeMeal(context.Background(), "  "); !errors.Is(err, ErrEmptyMeal) {
		t.Fatalf("expected ErrEmptyMeal, got %v", err)
	}

	out, err := svc.AnalyzeMeal(context.Background(), "chicken rice")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out != prov.analysis {
		t.Fatalf("unexpected analysis: %q", out)
	}
}
