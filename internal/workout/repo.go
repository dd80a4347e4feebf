package workout

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitplanner/internal/db"
	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// inTx runs fn in a single transaction, rolled back when fn or the commit fails.
func (r *Repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) ListExercises(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exercises.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, target_muscle, equipment
		FROM exercise
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return collectExercises(rows)
}

func collectExercises(rows pgx.Rows) ([]Exercise, error) {
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var ex Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.TargetMuscle, &ex.Equipment); err != nil {
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// SeedExercises inserts the exercises missing from the catalog and returns how many were added.
func (r *Repo) SeedExercises(ctx context.Context, exercises []Exercise) (added int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exercises.seed")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	batch := &pgx.Batch{}
	for _, ex := range exercises {
		batch.Queue(`
			INSERT INTO exercise (name, target_muscle, equipment)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, ex.Name, ex.TargetMuscle, ex.Equipment)
	}

	br := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, ex := range exercises {
		tag, err := br.Exec()
		if err != nil {
			return added, fmt.Errorf("seed exercise %s: %w", ex.Name, err)
		}
		added += int(tag.RowsAffected())
	}

	return added, nil
}

// CreatePlan persists the whole plan graph atomically and returns it hydrated.
func (r *Repo) CreatePlan(ctx context.Context, userID int, plan *ValidatedPlan) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.plan.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.Int("days", len(plan.Days)),
	)

	var created *WorkoutPlan
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		created = &WorkoutPlan{
			PlanName: plan.PlanName,
			UserID:   userID,
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO workout_plan (plan_name, user_id)
			VALUES ($1, $2)
			RETURNING id, created_at
		`, plan.PlanName, userID).Scan(&created.ID, &created.CreatedAt); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}

		for _, day := range plan.Days {
			var dayID int
			if err := tx.QueryRow(ctx, `
				INSERT INTO workout_day (day_number, focus, plan_id)
				VALUES ($1, $2, $3)
				RETURNING id
			`, day.DayNumber, day.Focus, created.ID).Scan(&dayID); err != nil {
				return fmt.Errorf("insert day %d: %w", day.DayNumber, err)
			}

			for _, ex := range day.Exercises {
				if _, err := tx.Exec(ctx, `
					INSERT INTO workout_exercise (sets, reps, exercise_id, day_id)
					VALUES ($1, $2, $3, $4)
				`, ex.Sets, ex.Reps, ex.ExerciseID, dayID); err != nil {
					if db.IsForeignKeyViolationError(err) {
						return &InvalidFormatError{
							Reason: fmt.Sprintf("exercise id %d does not exist", ex.ExerciseID),
							Err:    err,
						}
					}
					return fmt.Errorf("insert exercise %d of day %d: %w", ex.ExerciseID, day.DayNumber, err)
				}
			}
		}

		days, err := loadDays(ctx, tx, "d.plan_id = $1", created.ID)
		if err != nil {
			return fmt.Errorf("load created days: %w", err)
		}
		created.Days = days
		return nil
	})
	if err != nil {
		var formatErr *InvalidFormatError
		if errors.As(err, &formatErr) {
			return nil, formatErr
		}
		return nil, &PersistenceError{Op: "workout plan", Err: err}
	}

	return created, nil
}

func (r *Repo) GetPlan(ctx context.Context, userID, planID int) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.plan.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("plan-id", planID))

	plan := &WorkoutPlan{}
	err = r.db.QueryRow(ctx, `
		SELECT id, plan_name, user_id, created_at
		FROM workout_plan
		WHERE id = $1 AND user_id = $2
	`, planID, userID).Scan(&plan.ID, &plan.PlanName, &plan.UserID, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "workout plan", ID: planID}
		}
		return nil, err
	}

	plan.Days, err = loadDays(ctx, r.db, "d.plan_id = $1", planID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns a page of the user's plans, newest first, and the total plans count.
func (r *Repo) ListPlans(ctx context.Context, userID, page, limit int) (_ *PlansPage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.plan.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("limit", limit))

	res := &PlansPage{Data: make([]*WorkoutPlan, 0)}
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_plan WHERE user_id = $1`, userID,
	).Scan(&res.TotalWorkoutPlans); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, plan_name, user_id, created_at
		FROM workout_plan
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]*WorkoutPlan)
	planIDs := make([]int, 0, limit)
	for rows.Next() {
		plan := &WorkoutPlan{Days: make([]*WorkoutDay, 0)}
		if err := rows.Scan(&plan.ID, &plan.PlanName, &plan.UserID, &plan.CreatedAt); err != nil {
			return nil, err
		}
		res.Data = append(res.Data, plan)
		byID[plan.ID] = plan
		planIDs = append(planIDs, plan.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return res, nil
	}

	days, err := loadDays(ctx, r.db, "d.plan_id = ANY($1)", planIDs)
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		plan := byID[day.PlanID]
		plan.Days = append(plan.Days, day)
	}

	return res, nil
}

// GetDay returns the day with its exercises, if it belongs to one of the user's plans.
func (r *Repo) GetDay(ctx context.Context, userID, dayID int) (_ *WorkoutDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.day.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("day-id", dayID))

	days, err := loadDays(ctx, r.db,
		"d.id = $1 AND d.plan_id IN (SELECT id FROM workout_plan WHERE user_id = $2)",
		dayID, userID,
	)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, &NotFoundError{Entity: "workout day", ID: dayID}
	}
	return days[0], nil
}

// DeletePlan removes the plan with all its days and exercises. Only the owner can delete it.
func (r *Repo) DeletePlan(ctx context.Context, userID, planID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.plan.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("plan-id", planID))

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_plan WHERE id = $1 AND user_id = $2`,
		planID, userID,
	)
	if err != nil {
		return &PersistenceError{Op: "delete workout plan", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "workout plan", ID: planID}
	}
	return nil
}

// loadDays loads days matching the where condition (on alias d), each with its exercises
// and their catalog rows. Days come ordered by plan and day number, exercises by insertion.
func loadDays(ctx context.Context, q querier, where string, args ...any) ([]*WorkoutDay, error) {
	rows, err := q.Query(ctx, `
		SELECT d.id, d.day_number, d.focus, d.plan_id,
		       we.id, we.sets, we.reps, we.exercise_id,
		       e.name, e.target_muscle, e.equipment
		FROM workout_day d
		LEFT JOIN workout_exercise we ON we.day_id = d.id
		LEFT JOIN exercise e ON e.id = we.exercise_id
		WHERE `+where+`
		ORDER BY d.plan_id, d.day_number, we.id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*WorkoutDay, 0)
	var current *WorkoutDay
	for rows.Next() {
		var (
			day          WorkoutDay
			weID         *int
			weSets       *int
			weReps       *string
			exerciseID   *int
			exerciseName *string
			targetMuscle *string
			equipment    []string
		)
		if err := rows.Scan(
			&day.ID, &day.DayNumber, &day.Focus, &day.PlanID,
			&weID, &weSets, &weReps, &exerciseID,
			&exerciseName, &targetMuscle, &equipment,
		); err != nil {
			return nil, err
		}

		if current == nil || current.ID != day.ID {
			day.Exercises = make([]*WorkoutExercise, 0)
			current = &day
			days = append(days, current)
		}
		if weID == nil {
			continue
		}

		current.Exercises = append(current.Exercises, &WorkoutExercise{
			ID:         *weID,
			Sets:       *weSets,
			Reps:       *weReps,
			ExerciseID: *exerciseID,
			DayID:      current.ID,
			Exercise: &Exercise{
				ID:           *exerciseID,
				Name:         *exerciseName,
				TargetMuscle: *targetMuscle,
				Equipment:    equipment,
			},
		})
	}
	return days, rows.Err()
}
