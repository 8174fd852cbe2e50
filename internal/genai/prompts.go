package genai

import (
	"fmt"
	"strings"

	"github.com/bytebuddy/companion/internal/profile"
)

// PlanDisclaimer must be the first line of every generated dietary plan.
// Downstream display depends on the exact text.
const PlanDisclaimer = "[Disclaimer: This is an AI-generated plan and is not a substitute for professional medical advice. Consult with a healthcare provider before making any significant dietary changes.]"

// WaterSectionHeading introduces the water-intake block of a dietary plan.
const WaterSectionHeading = "### Daily Water Intake Recommendation"

const baseSystemInstruction = "You are ByteBuddy, a helpful and friendly AI assistant focused on health and wellness. " +
	"You must provide safe, general advice. Crucially, always include a reminder for the user to consult a healthcare " +
	"professional for personal medical advice. Do not provide information that could be construed as a diagnosis or treatment plan."

// SystemInstruction builds the steering text for a chat turn. Profile fields
// are folded in only when the profile carries content, and the model is told
// to use them implicitly.
func SystemInstruction(prof *profile.Profile) string {
	if prof.IsEmpty() {
		return baseSystemInstruction
	}

	var b strings.Builder
	b.WriteString(baseSystemInstruction)
	b.WriteString("\n\nHere is some information about the user you are talking to. Use this to personalize your responses. " +
		"Do not mention that you have this data unless it's directly relevant to the user's question. Be subtle about how you use it.\n")
	b.WriteString("User Profile:\n")

	heightUnit, weightUnit := "cm", "kg"
	if prof.Units == profile.UnitsImperial {
		heightUnit, weightUnit = "in", "lbs"
	}

	if prof.Age != "" {
		fmt.Fprintf(&b, "- Age: %s\n", prof.Age)
	}
	if prof.Gender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", prof.Gender)
	}
	if prof.Height != "" {
		fmt.Fprintf(&b, "- Height: %s %s\n", prof.Height, heightUnit)
	}
	if prof.Weight != "" {
		fmt.Fprintf(&b, "- Weight: %s %s\n", prof.Weight, weightUnit)
	}
	if prof.Goal != "" {
		fmt.Fprintf(&b, "- Primary Goal: %s\n", prof.Goal)
	}
	if prof.ActivityLevel != "" {
		fmt.Fprintf(&b, "- Activity Level: %s\n", prof.ActivityLevel)
	}
	if prof.Restrictions != "" {
		fmt.Fprintf(&b, "- Dietary Restrictions: %s\n", prof.Restrictions)
	}
	return b.String()
}

// ProfileSummary renders the profile block fed into plan generation.
func ProfileSummary(prof *profile.Profile) string {
	heightUnit, weightUnit := "cm", "kg"
	if prof != nil && prof.Units == profile.UnitsImperial {
		heightUnit, weightUnit = "in", "lbs"
	}
	if prof == nil {
		prof = &profile.Profile{}
	}

	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Age: %s\n", prof.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", prof.Gender)
	fmt.Fprintf(&b, "- Height: %s %s\n", prof.Height, heightUnit)
	fmt.Fprintf(&b, "- Weight: %s %s\n", prof.Weight, weightUnit)
	fmt.Fprintf(&b, "- Daily Activity Level: %s\n", prof.ActivityLevel)
	fmt.Fprintf(&b, "- Primary Goal: %s\n", prof.Goal)
	fmt.Fprintf(&b, "- Dietary Restrictions/Allergies: %s\n", orDefault(prof.Restrictions, "None"))
	fmt.Fprintf(&b, "- Typical Foods Eaten: %s\n", orDefault(prof.TypicalFoods, "Not specified"))
	fmt.Fprintf(&b, "- Current Eating Habits: %s\n", orDefault(prof.EatingHabits, "Not specified"))
	return b.String()
}

func titlePrompt(seed string) string {
	return fmt.Sprintf("Generate a short, concise title (max 5 words) for this chat conversation. "+
		"Return only the title text, nothing else. Conversation starts with: %q", seed)
}

func planPrompt(profileSummary string) string {
	return fmt.Sprintf(`Based on the following user profile, generate a complete and personalized 7-day meal plan.

%s

**Instructions for Output:**
1.  **Disclaimer First:** The entire response MUST begin with the following disclaimer, exactly as written:
    %q
2.  **Format:** The entire response must be in Markdown format. Use headings for each day.
3.  **Meal Plan:** Provide a detailed 7-day meal plan (Day 1 to Day 7) with breakfast, lunch, and dinner suggestions.
4.  **Water Intake Section:** After the 7-day plan, you MUST include a new section titled "%s".
5.  **Water Intake Calculation:** In this section, calculate the user's recommended daily water intake based on their profile (especially weight and activity level).
6.  **Water Intake Format:** You MUST present this recommendation in three specific formats on separate lines:
    - In litres (e.g., **Litres:** 2.5 L)
    - In millilitres (e.g., **Millilitres:** 2500 ml)
    - In cups (e.g., **Cups:** ~10 cups). You must assume 1 cup is 240ml for your calculation.
`, profileSummary, PlanDisclaimer, WaterSectionHeading)
}

func analyzeMealPrompt(description string) string {
	return fmt.Sprintf(`Analyze the following meal description and provide a nutritional breakdown.
The response should be in Markdown format.
Start with an estimated calorie count. Then, provide a general overview of the macronutrients (protein, carbs, fat).
Finally, offer some healthier alternatives or suggestions for improvement if applicable.
Include a disclaimer that this is an estimation and a professional nutritionist should be consulted for accurate information.

Meal: %q`, description)
}

func estimateCaloriesPrompt(description, quantity string) string {
	return fmt.Sprintf("Estimate the total calories for the following meal. Respond with only a single number, "+
		"without any additional text, labels, or units. Meal: %q", quantity+" of "+description)
}
