package workout

import (
	"encoding/json"
	"fmt"
	"strings"
)

const planJSONSchema = `{
  "planName": "Plan name (e.g., %[1]s for %[2]s)",
  "days": [
    {
      "day": 1,
      "focus": "Focus of the day (e.g., Full Body, Upper Body)",
      "exercises": [
        { "name": "Exercise name from the list", "sets": 3, "reps": "8-12" },
        { "name": "Next exercise from the list", "sets": 3, "reps": "10-15" }
      ]
    }
  ]
}`

// BuildPrompt renders the generation prompt. The same preferences and names always yield the same prompt.
func BuildPrompt(prefs Preferences, exerciseNames []string) string {
	// marshalling a string slice can't fail
	namesJSON, _ := json.Marshal(exerciseNames)

	var sb strings.Builder
	sb.WriteString("You are a fitness expert. Create a personalized training plan as a JSON object.\n")
	fmt.Fprintf(&sb, "User is: %s, Level: %s.\n", prefs.Gender, prefs.Experience)
	fmt.Fprintf(&sb, "Goal: %s.\n", prefs.Goal)
	fmt.Fprintf(&sb, "Available equipment: %s.\n", prefs.Equipment)
	fmt.Fprintf(&sb, "Training frequency: %s days per week.\n\n", prefs.Frequency)

	sb.WriteString("You MUST choose exercises only from this list, using the names exactly as written:\n")
	sb.Write(namesJSON)
	sb.WriteString("\nDo not use any exercise that is not on the list.\n\n")

	sb.WriteString("The response MUST be a single JSON object only, without any additional text, ")
	sb.WriteString("explanations or markdown code fences. ")
	sb.WriteString("\"day\" and \"sets\" are positive integers, \"reps\" is a string. JSON format:\n")
	fmt.Fprintf(&sb, planJSONSchema, prefs.Goal, prefs.Experience)
	sb.WriteString("\n")

	return sb.String()
}
