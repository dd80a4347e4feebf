package workout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoExercisesAvailable = errors.New("no exercises available for selected equipment")
	ErrGenerationTimeout    = errors.New("workout plan generation timed out, try again")
	ErrGenerationFailed     = errors.New("workout plan generation failed")
)

// ValidationError reports missing or invalid request fields.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("Missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidFormatError means the model output is not parseable or does not match the plan schema.
type InvalidFormatError struct {
	Reason string
	Err    error
}

func (e *InvalidFormatError) Error() string {
	if e.Reason == "" {
		return "AI returned invalid data format"
	}
	return "AI returned invalid data format: " + e.Reason
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

type UnknownExerciseError struct {
	Name string
}

func (e *UnknownExerciseError) Error() string {
	return fmt.Sprintf("AI returned unknown exercise: %q", e.Name)
}

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
