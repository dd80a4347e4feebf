package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitplanner/internal/telemetry/metrics"
	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=workout_test

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type exerciseCatalog interface {
	All(ctx context.Context) ([]Exercise, error)
}

type planStore interface {
	CreatePlan(ctx context.Context, userID int, plan *ValidatedPlan) (*WorkoutPlan, error)
}

// Generator runs the whole plan generation flow: catalog filter, prompt, model call,
// output validation and persistence. It never retries.
type Generator struct {
	textGenerator textGenerator
	catalog       exerciseCatalog
	store         planStore
	metrics       *metrics.Manager
	timeout       time.Duration
}

func NewGenerator(
	textGenerator textGenerator,
	catalog exerciseCatalog,
	store planStore,
	metricsManager *metrics.Manager,
	timeout time.Duration,
) *Generator {
	return &Generator{
		textGenerator: textGenerator,
		catalog:       catalog,
		store:         store,
		metrics:       metricsManager,
		timeout:       timeout,
	}
}

func (g *Generator) Generate(ctx context.Context, userID int, prefs Preferences) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.generator.generate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.String("goal", prefs.Goal),
		attribute.String("equipment", prefs.Equipment),
	)
	defer func() {
		if err != nil {
			g.metrics.CounterGenerationFailures.WithLabelValues(failureReason(err)).Inc()
		}
	}()

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	catalog, err := g.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}

	allowed, err := AvailableExercises(catalog, prefs.Equipment)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(allowed))
	for i, ex := range allowed {
		names[i] = ex.Name
	}
	span.SetAttributes(attribute.Int("allowed-exercises", len(allowed)))

	rawText, err := g.generateText(ctx, BuildPrompt(prefs, names))
	if err != nil {
		return nil, err
	}

	validated, err := ParseAndValidate(rawText, allowed)
	if err != nil {
		log.Debugf("generated plan for user %d rejected: %s", userID, err)
		return nil, err
	}

	plan, err := g.store.CreatePlan(ctx, userID, validated)
	if err != nil {
		return nil, err
	}

	g.metrics.CounterPlansGenerated.Inc()
	log.Tracef("workout plan %d generated for user %d: %d days", plan.ID, userID, len(plan.Days))
	return plan, nil
}

func (g *Generator) generateText(ctx context.Context, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	defer func(begin time.Time) {
		g.metrics.HistGenerationDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	text, err := g.textGenerator.GenerateText(genCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			log.Warnf("plan generation timed out after %s", g.timeout)
			return "", ErrGenerationTimeout
		}
		log.Errorf("plan generation, model call: %s", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return text, nil
}

func failureReason(err error) string {
	var (
		validationErr  *ValidationError
		formatErr      *InvalidFormatError
		unknownErr     *UnknownExerciseError
		persistenceErr *PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		return metrics.ReasonValidation
	case errors.Is(err, ErrNoExercisesAvailable):
		return metrics.ReasonNoExercises
	case errors.As(err, &formatErr):
		return metrics.ReasonInvalidFormat
	case errors.As(err, &unknownErr):
		return metrics.ReasonUnknownExercise
	case errors.Is(err, ErrGenerationTimeout):
		return metrics.ReasonTimeout
	case errors.Is(err, ErrGenerationFailed):
		return metrics.ReasonUpstream
	case errors.As(err, &persistenceErr):
		return metrics.ReasonPersistence
	default:
		return "other"
	}
}
