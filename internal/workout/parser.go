package workout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var codeFenceRegex = regexp.MustCompile("(?i)```(?:json)?")

type rawPlan struct {
	PlanName string   `json:"planName"`
	Days     []rawDay `json:"days"`
}

type rawDay struct {
	Day       flexInt       `json:"day"`
	Focus     string        `json:"focus"`
	Exercises []rawExercise `json:"exercises"`
}

type rawExercise struct {
	Name string     `json:"name"`
	Sets flexInt    `json:"sets"`
	Reps flexString `json:"reps"`
}

// flexString accepts both a JSON string and a JSON number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("reps must be a string or a number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts a JSON integer or a string holding one.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("not an integer: %s", raw)
	}
	*i = flexInt(n)
	return nil
}

// StripCodeFences removes markdown code fences the model may wrap its answer in.
func StripCodeFences(text string) string {
	return strings.TrimSpace(codeFenceRegex.ReplaceAllString(strings.TrimSpace(text), ""))
}

// ParseAndValidate turns raw model output into a plan whose exercises all resolve against allowed.
// Nothing is returned partially: any malformed entry rejects the whole plan.
func ParseAndValidate(rawText string, allowed []Exercise) (*ValidatedPlan, error) {
	cleaned := StripCodeFences(rawText)
	if cleaned == "" {
		return nil, &InvalidFormatError{Reason: "empty response"}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var raw rawPlan
	if err := dec.Decode(&raw); err != nil {
		return nil, &InvalidFormatError{Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &InvalidFormatError{Reason: "trailing data after JSON object"}
	}

	byName := make(map[string]Exercise, len(allowed))
	for _, ex := range allowed {
		byName[ex.Name] = ex
	}

	planName := strings.TrimSpace(raw.PlanName)
	if planName == "" {
		return nil, &InvalidFormatError{Reason: "missing planName"}
	}
	if len(raw.Days) == 0 {
		return nil, &InvalidFormatError{Reason: "plan has no days"}
	}

	plan := &ValidatedPlan{
		PlanName: planName,
		Days:     make([]ValidatedDay, 0, len(raw.Days)),
	}
	seenDays := make(map[int]bool, len(raw.Days))
	for _, day := range raw.Days {
		dayNumber := int(day.Day)
		if dayNumber <= 0 || dayNumber > maxInt4 {
			return nil, &InvalidFormatError{Reason: fmt.Sprintf("invalid day number %d", dayNumber)}
		}
		if seenDays[dayNumber] {
			return nil, &InvalidFormatError{Reason: fmt.Sprintf("duplicate day number %d", dayNumber)}
		}
		seenDays[dayNumber] = true

		if len(day.Exercises) == 0 {
			return nil, &InvalidFormatError{Reason: fmt.Sprintf("day %d has no exercises", dayNumber)}
		}

		vDay := ValidatedDay{
			DayNumber: dayNumber,
			Focus:     strings.TrimSpace(day.Focus),
			Exercises: make([]ValidatedExercise, 0, len(day.Exercises)),
		}
		for _, ex := range day.Exercises {
			if ex.Name == "" {
				return nil, &InvalidFormatError{Reason: fmt.Sprintf("day %d has an exercise without name", dayNumber)}
			}
			catalogEx, ok := byName[ex.Name]
			if !ok {
				return nil, &UnknownExerciseError{Name: ex.Name}
			}
			if ex.Sets <= 0 || ex.Sets > maxInt4 {
				return nil, &InvalidFormatError{Reason: fmt.Sprintf("exercise %q has invalid sets", ex.Name)}
			}
			reps := strings.TrimSpace(string(ex.Reps))
			if reps == "" {
				return nil, &InvalidFormatError{Reason: fmt.Sprintf("exercise %q has no reps", ex.Name)}
			}

			vDay.Exercises = append(vDay.Exercises, ValidatedExercise{
				ExerciseID: catalogEx.ID,
				Sets:       int(ex.Sets),
				Reps:       reps,
			})
		}
		plan.Days = append(plan.Days, vDay)
	}

	return plan, nil
}
