package workout

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that all preferences are set.
func (p Preferences) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"Goal", p.Goal},
		{"Gender", p.Gender},
		{"Experience", p.Experience},
		{"Equipment", p.Equipment},
		{"Frequency", p.Frequency},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

type SaveSessionRequest struct {
	WorkoutDayID *int               `json:"workoutDayId"`
	Name         *string            `json:"name"`
	StartTime    *time.Time         `json:"startTime"`
	EndTime      *time.Time         `json:"endTime"`
	LoggedSets   []LoggedSetRequest `json:"loggedSets"`
}

type LoggedSetRequest struct {
	ExerciseID int     `json:"exerciseId"`
	SetNumber  int     `json:"setNumber"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
}

// ToParams validates the request. Custom sessions can't reference a workout day.
func (r SaveSessionRequest) ToParams(custom bool) (SaveSessionParams, error) {
	var missing []string
	if r.StartTime == nil {
		missing = append(missing, "startTime")
	}
	if r.EndTime == nil {
		missing = append(missing, "endTime")
	}
	if len(r.LoggedSets) == 0 {
		missing = append(missing, "loggedSets")
	}
	if len(missing) > 0 {
		return SaveSessionParams{}, &ValidationError{Fields: missing}
	}

	invalid := func(field, reason string) error {
		return &ValidationError{Fields: []string{field}, Reason: reason}
	}

	if custom && r.WorkoutDayID != nil {
		return SaveSessionParams{}, invalid("workoutDayId", "custom workout can't reference a workout day")
	}
	if r.WorkoutDayID != nil && (*r.WorkoutDayID <= 0 || *r.WorkoutDayID > maxInt4) {
		return SaveSessionParams{}, invalid("workoutDayId", "invalid workoutDayId")
	}
	if r.EndTime.Before(*r.StartTime) {
		return SaveSessionParams{}, invalid("endTime", "endTime must not be before startTime")
	}

	params := SaveSessionParams{
		WorkoutDayID: r.WorkoutDayID,
		StartTime:    r.StartTime.UTC(),
		EndTime:      r.EndTime.UTC(),
		LoggedSets:   make([]LoggedSetParams, 0, len(r.LoggedSets)),
	}
	if r.Name != nil {
		if name := strings.TrimSpace(*r.Name); name != "" {
			params.Name = &name
		}
	}

	for i, set := range r.LoggedSets {
		field := fmt.Sprintf("loggedSets[%d]", i)
		switch {
		case set.ExerciseID <= 0 || set.ExerciseID > maxInt4:
			return SaveSessionParams{}, invalid(field, fmt.Sprintf("%s: invalid exerciseId", field))
		case set.SetNumber <= 0 || set.SetNumber > maxInt4:
			return SaveSessionParams{}, invalid(field, fmt.Sprintf("%s: invalid setNumber", field))
		case set.Reps < 0 || set.Reps > maxInt4:
			return SaveSessionParams{}, invalid(field, fmt.Sprintf("%s: invalid reps", field))
		case set.Weight < 0 || set.Weight >= 100000:
			return SaveSessionParams{}, invalid(field, fmt.Sprintf("%s: invalid weight", field))
		}
		params.LoggedSets = append(params.LoggedSets, LoggedSetParams{
			ExerciseID: set.ExerciseID,
			SetNumber:  set.SetNumber,
			Weight:     set.Weight,
			Reps:       set.Reps,
		})
	}

	return params, nil
}
