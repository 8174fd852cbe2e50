package genai

import (
	"strings"
	"testing"

	"github.com/bytebuddy/companion/internal/profile"
)

func TestPlanPromptCarriesContractStrings(t *testing.T) {
	p := planPrompt("User Profile:\n- Age: 30\n")

	if !strings.Contains(p, PlanDisclaimer) {
		t.Fatalf("plan prompt missing disclaimer literal")
	}
	if !strings.Contains(p, WaterSectionHeading) {
		t.Fatalf("plan prompt missing water section heading")
	}
	if !strings.Contains(p, "1 cup is 240ml") {
		t.Fatalf("plan prompt missing cup conversion")
	}
}

func TestProfileSummaryDefaults(t *testing.T) {
	s := ProfileSummary(&profile.Profile{Age: "30", Units: profile.UnitsImperial, Height: "70", Weight: "160"})

	if !strings.Contains(s, "- Height: 70 in") || !strings.Contains(s, "- Weight: 160 lbs") {
		t.Fatalf("imperial units not applied: %q", s)
	}
	if !strings.Contains(s, "- Dietary Restrictions/Allergies: None") {
		t.Fatalf("empty restrictions should read None: %q", s)
	}
	if !strings.Contains(s, "- Typical Foods Eaten: Not specified") {
		t.Fatalf("empty foods should read Not specified: %q", s)
	}
}

func TestSystemInstructionSafetyPosture(t *testing.T) {
	s := SystemInstruction(nil)
	for _, want := range []string{"ByteBuddy", "consult a healthcare", "diagnosis or treatment plan"} {
		if !strings.Contains(s, want) {
			t.Fatalf("base instruction missing %q: %q", want, s)
		}
	}
}
