package workout

import (
	"math"
	"time"
)

// maxInt4 is the largest value an INTEGER column holds.
const maxInt4 = math.MaxInt32

type Exercise struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	TargetMuscle string   `json:"targetMuscle"`
	Equipment    []string `json:"equipment"`
}

type WorkoutPlan struct {
	ID        int           `json:"id"`
	PlanName  string        `json:"planName"`
	UserID    int           `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
	Days      []*WorkoutDay `json:"days"`
}

type WorkoutDay struct {
	ID        int                `json:"id"`
	DayNumber int                `json:"dayNumber"`
	Focus     string             `json:"focus"`
	PlanID    int                `json:"planId"`
	Exercises []*WorkoutExercise `json:"exercises"`
}

// WorkoutExercise is a plan scoped exercise entry. Its ID is the scoped exercise id.
type WorkoutExercise struct {
	ID         int       `json:"id"`
	Sets       int       `json:"sets"`
	Reps       string    `json:"reps"`
	ExerciseID int       `json:"exerciseId"`
	DayID      int       `json:"dayId"`
	Exercise   *Exercise `json:"exercise,omitempty"`
}

type WorkoutSession struct {
	ID           int          `json:"id"`
	UserID       int          `json:"userId"`
	Name         *string      `json:"name"`
	WorkoutDayID *int         `json:"workoutDayId"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime"`
	CreatedAt    time.Time    `json:"createdAt"`
	LoggedSets   []*LoggedSet `json:"loggedSets"`
}

// LoggedSet always references a global Exercise id.
type LoggedSet struct {
	ID         int       `json:"id"`
	SetNumber  int       `json:"setNumber"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	ExerciseID int       `json:"exerciseId"`
	SessionID  int       `json:"sessionId"`
	Exercise   *Exercise `json:"exercise,omitempty"`
}

type Preferences struct {
	Goal       string `json:"Goal"`
	Gender     string `json:"Gender"`
	Experience string `json:"Experience"`
	Equipment  string `json:"Equipment"`
	Frequency  string `json:"Frequency"`
}

// ValidatedPlan is a model generated plan with every exercise resolved against the catalog.
type ValidatedPlan struct {
	PlanName string
	Days     []ValidatedDay
}

type ValidatedDay struct {
	DayNumber int
	Focus     string
	Exercises []ValidatedExercise
}

type ValidatedExercise struct {
	ExerciseID int
	Sets       int
	Reps       string
}

type SaveSessionParams struct {
	WorkoutDayID *int
	Name         *string
	StartTime    time.Time
	EndTime      time.Time
	LoggedSets   []LoggedSetParams
}

func (p SaveSessionParams) IsCustom() bool {
	return p.WorkoutDayID == nil
}

type LoggedSetParams struct {
	// scoped WorkoutExercise id for plan sessions, global Exercise id for custom ones
	ExerciseID int
	SetNumber  int
	Weight     float64
	Reps       int
}

type PlansPage struct {
	TotalWorkoutPlans int            `json:"totalWorkoutPlans"`
	Data              []*WorkoutPlan `json:"data"`
}

type SessionsPage struct {
	TotalWorkoutCount int               `json:"totalWorkoutCount"`
	Data              []*WorkoutSession `json:"data"`
}
