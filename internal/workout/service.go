package workout

import (
	"context"
	"errors"

	"github.com/2beens/fitplanner/internal/telemetry/metrics"
)

// Service is the workout facade used by the HTTP handler.
type Service struct {
	*Repo
	catalog   *Catalog
	generator *Generator
	metrics   *metrics.Manager
}

func NewService(repo *Repo, catalog *Catalog, generator *Generator, metricsManager *metrics.Manager) *Service {
	return &Service{
		Repo:      repo,
		catalog:   catalog,
		generator: generator,
		metrics:   metricsManager,
	}
}

func (s *Service) Generate(ctx context.Context, userID int, prefs Preferences) (*WorkoutPlan, error) {
	return s.generator.Generate(ctx, userID, prefs)
}

func (s *Service) SaveSession(ctx context.Context, userID int, params SaveSessionParams) (*WorkoutSession, error) {
	session, err := s.Repo.SaveSession(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	kind := "plan"
	if params.IsCustom() {
		kind = "custom"
	}
	s.metrics.CounterSessionsSaved.WithLabelValues(kind).Inc()
	return session, nil
}

// ListExercises serves the cached catalog, filtered by equipment tier when one is given.
func (s *Service) ListExercises(ctx context.Context, equipment string) ([]Exercise, error) {
	catalog, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	if equipment == "" {
		return catalog, nil
	}

	available, err := AvailableExercises(catalog, equipment)
	if errors.Is(err, ErrNoExercisesAvailable) {
		return []Exercise{}, nil
	}
	return available, err
}
