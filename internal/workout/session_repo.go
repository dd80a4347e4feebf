package workout

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// SaveSession writes the session and all its logged sets in one transaction.
// For plan sessions, logged set exercise ids are scoped ids of the given day and are resolved
// to catalog exercise ids. For custom sessions they already are catalog ids.
func (r *Repo) SaveSession(ctx context.Context, userID int, params SaveSessionParams) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.Int("user-id", userID),
		attribute.Bool("custom", params.IsCustom()),
		attribute.Int("sets", len(params.LoggedSets)),
	)

	var saved *WorkoutSession
	err = r.inTx(ctx, func(tx pgx.Tx) error {
		var resolve func(id int) (int, error)
		if params.IsCustom() {
			known, err := existingExerciseIDs(ctx, tx, params.LoggedSets)
			if err != nil {
				return err
			}
			resolve = func(id int) (int, error) {
				if !known[id] {
					return 0, &NotFoundError{Entity: "exercise", ID: id}
				}
				return id, nil
			}
		} else {
			scoped, err := scopedExerciseIDs(ctx, tx, userID, *params.WorkoutDayID)
			if err != nil {
				return err
			}
			resolve = func(id int) (int, error) {
				exerciseID, ok := scoped[id]
				if !ok {
					return 0, &NotFoundError{Entity: "workout exercise", ID: id}
				}
				return exerciseID, nil
			}
		}

		resolvedIDs := make([]int, len(params.LoggedSets))
		for i, set := range params.LoggedSets {
			exerciseID, err := resolve(set.ExerciseID)
			if err != nil {
				return err
			}
			resolvedIDs[i] = exerciseID
		}

		saved = &WorkoutSession{
			UserID:       userID,
			Name:         params.Name,
			WorkoutDayID: params.WorkoutDayID,
			StartTime:    params.StartTime,
			EndTime:      params.EndTime,
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO workout_session (user_id, name, workout_day_id, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, userID, params.Name, params.WorkoutDayID, params.StartTime, params.EndTime,
		).Scan(&saved.ID, &saved.CreatedAt); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i, set := range params.LoggedSets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO logged_set (set_number, weight, reps, exercise_id, session_id)
				VALUES ($1, $2, $3, $4, $5)
			`, set.SetNumber, set.Weight, set.Reps, resolvedIDs[i], saved.ID); err != nil {
				return fmt.Errorf("insert logged set %d: %w", set.SetNumber, err)
			}
		}

		setsBySession, err := loadLoggedSets(ctx, tx, []int{saved.ID})
		if err != nil {
			return fmt.Errorf("load saved sets: %w", err)
		}
		saved.LoggedSets = setsBySession[saved.ID]
		return nil
	})
	if err != nil {
		var nfErr *NotFoundError
		if errors.As(err, &nfErr) {
			return nil, nfErr
		}
		return nil, &PersistenceError{Op: "workout session", Err: err}
	}

	return saved, nil
}

// scopedExerciseIDs maps the workout exercise ids of the user's day to catalog exercise ids.
func scopedExerciseIDs(ctx context.Context, q querier, userID, dayID int) (map[int]int, error) {
	var exists bool
	if err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM workout_day d
			JOIN workout_plan p ON p.id = d.plan_id
			WHERE d.id = $1 AND p.user_id = $2
		)
	`, dayID, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check workout day: %w", err)
	}
	if !exists {
		return nil, &NotFoundError{Entity: "workout day", ID: dayID}
	}

	rows, err := q.Query(ctx,
		`SELECT id, exercise_id FROM workout_exercise WHERE day_id = $1`, dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("load day exercises: %w", err)
	}
	defer rows.Close()

	scoped := make(map[int]int)
	for rows.Next() {
		var id, exerciseID int
		if err := rows.Scan(&id, &exerciseID); err != nil {
			return nil, err
		}
		scoped[id] = exerciseID
	}
	return scoped, rows.Err()
}

func existingExerciseIDs(ctx context.Context, q querier, sets []LoggedSetParams) (map[int]bool, error) {
	ids := make([]int, 0, len(sets))
	for _, set := range sets {
		if !slices.Contains(ids, set.ExerciseID) {
			ids = append(ids, set.ExerciseID)
		}
	}

	rows, err := q.Query(ctx, `SELECT id FROM exercise WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check exercises: %w", err)
	}
	defer rows.Close()

	known := make(map[int]bool, len(ids))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = true
	}
	return known, rows.Err()
}

func (r *Repo) GetSession(ctx context.Context, userID, sessionID int) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("session-id", sessionID))

	session := &WorkoutSession{}
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, name, workout_day_id, start_time, end_time, created_at
		FROM workout_session
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.Name, &session.WorkoutDayID,
		&session.StartTime, &session.EndTime, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "workout session", ID: sessionID}
		}
		return nil, err
	}

	setsBySession, err := loadLoggedSets(ctx, r.db, []int{sessionID})
	if err != nil {
		return nil, err
	}
	session.LoggedSets = setsBySession[sessionID]
	return session, nil
}

// ListSessions returns a page of the user's finished sessions, newest first, and the total count.
func (r *Repo) ListSessions(ctx context.Context, userID, page, limit int) (_ *SessionsPage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("limit", limit))

	res := &SessionsPage{Data: make([]*WorkoutSession, 0)}
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_session WHERE user_id = $1`, userID,
	).Scan(&res.TotalWorkoutCount); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, workout_day_id, start_time, end_time, created_at
		FROM workout_session
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessionIDs := make([]int, 0, limit)
	for rows.Next() {
		session := &WorkoutSession{}
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.Name, &session.WorkoutDayID,
			&session.StartTime, &session.EndTime, &session.CreatedAt,
		); err != nil {
			return nil, err
		}
		res.Data = append(res.Data, session)
		sessionIDs = append(sessionIDs, session.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessionIDs) == 0 {
		return res, nil
	}

	setsBySession, err := loadLoggedSets(ctx, r.db, sessionIDs)
	if err != nil {
		return nil, err
	}
	for _, session := range res.Data {
		session.LoggedSets = setsBySession[session.ID]
	}

	return res, nil
}

// loadLoggedSets loads the sets of the sessions in insertion order, grouped by session id.
// Every requested session gets a non-nil slice.
func loadLoggedSets(ctx context.Context, q querier, sessionIDs []int) (map[int][]*LoggedSet, error) {
	rows, err := q.Query(ctx, `
		SELECT ls.id, ls.set_number, ls.weight, ls.reps, ls.exercise_id, ls.session_id,
		       e.name, e.target_muscle, e.equipment
		FROM logged_set ls
		JOIN exercise e ON e.id = ls.exercise_id
		WHERE ls.session_id = ANY($1)
		ORDER BY ls.session_id, ls.id
	`, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	setsBySession := make(map[int][]*LoggedSet, len(sessionIDs))
	for _, id := range sessionIDs {
		setsBySession[id] = make([]*LoggedSet, 0)
	}
	for rows.Next() {
		set := &LoggedSet{Exercise: &Exercise{}}
		if err := rows.Scan(
			&set.ID, &set.SetNumber, &set.Weight, &set.Reps, &set.ExerciseID, &set.SessionID,
			&set.Exercise.Name, &set.Exercise.TargetMuscle, &set.Exercise.Equipment,
		); err != nil {
			return nil, err
		}
		set.Exercise.ID = set.ExerciseID
		setsBySession[set.SessionID] = append(setsBySession[set.SessionID], set)
	}
	return setsBySession, rows.Err()
}
