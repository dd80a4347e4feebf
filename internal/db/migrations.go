package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "users",
		sql: `
CREATE TABLE IF NOT EXISTS users
(
    id                  SERIAL PRIMARY KEY,
    first_name          VARCHAR     NOT NULL,
    last_name           VARCHAR     NOT NULL,
    email               VARCHAR     NOT NULL UNIQUE,
    password_hash       VARCHAR     NOT NULL,
    fitness_goal        VARCHAR,
    gender              VARCHAR,
    experience_level    VARCHAR,
    available_equipment VARCHAR,
    training_frequency  VARCHAR,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	},
	{
		version: 2,
		name:    "exercise_catalog",
		sql: `
CREATE TABLE IF NOT EXISTS exercise
(
    id            SERIAL PRIMARY KEY,
    name          VARCHAR NOT NULL UNIQUE,
    target_muscle VARCHAR NOT NULL,
    equipment     TEXT[]  NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS ix_exercise_equipment ON exercise USING gin (equipment);
`,
	},
	{
		version: 3,
		name:    "workout_plans",
		sql: `
CREATE TABLE IF NOT EXISTS workout_plan
(
    id         SERIAL PRIMARY KEY,
    plan_name  VARCHAR     NOT NULL,
    user_id    INTEGER     NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_workout_plan_user_id ON workout_plan (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS workout_day
(
    id         SERIAL PRIMARY KEY,
    day_number INTEGER NOT NULL CHECK (day_number > 0),
    focus      VARCHAR NOT NULL,
    plan_id    INTEGER NOT NULL REFERENCES workout_plan (id) ON DELETE CASCADE,
    CONSTRAINT uq_workout_day_plan_day UNIQUE (plan_id, day_number)
);

CREATE TABLE IF NOT EXISTS workout_exercise
(
    id          SERIAL PRIMARY KEY,
    sets        INTEGER NOT NULL CHECK (sets > 0),
    reps        VARCHAR NOT NULL,
    exercise_id INTEGER NOT NULL REFERENCES exercise (id),
    day_id      INTEGER NOT NULL REFERENCES workout_day (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS ix_workout_exercise_day_id ON workout_exercise (day_id);
`,
	},
	{
		version: 4,
		name:    "workout_sessions",
		sql: `
CREATE TABLE IF NOT EXISTS workout_session
(
    id             SERIAL PRIMARY KEY,
    user_id        INTEGER     NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name           VARCHAR,
    workout_day_id INTEGER     REFERENCES workout_day (id) ON DELETE SET NULL,
    start_time     TIMESTAMPTZ NOT NULL,
    end_time       TIMESTAMPTZ NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_workout_session_user_id ON workout_session (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS logged_set
(
    id          SERIAL PRIMARY KEY,
    set_number  INTEGER       NOT NULL,
    weight      NUMERIC(7, 2) NOT NULL DEFAULT 0,
    reps        INTEGER       NOT NULL,
    exercise_id INTEGER       NOT NULL REFERENCES exercise (id),
    session_id  INTEGER       NOT NULL REFERENCES workout_session (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS ix_logged_set_session_id ON logged_set (session_id);
`,
	},
}

// LatestVersion is the schema version after all migrations are applied.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// ApplyMigrations applies every not yet applied migration, each in its own transaction.
// Returns the number of applied migrations.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations
		(
		    version    INTEGER PRIMARY KEY,
		    name       VARCHAR     NOT NULL,
		    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version,
		).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration version %d: %w", m.version, err)
		}
		if exists {
			continue
		}

		if err := applyMigration(ctx, pool, m); err != nil {
			return applied, err
		}
		log.Debugf("migration %d [%s] applied", m.version, m.name)
		applied++
	}

	return applied, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m migration) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration version %d: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback migration: %w: %w", rollbackErr, err)
			}
		}
	}()

	if _, err = tx.Exec(ctx, m.sql); err != nil {
		return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
	}
	if _, err = tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name,
	); err != nil {
		return fmt.Errorf("record migration version %d: %w", m.version, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration version %d: %w", m.version, err)
	}
	return nil
}
