package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitplanner/internal/db"
	"github.com/2beens/fitplanner/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
	id, first_name, last_name, email, password_hash,
	fitness_goal, gender, experience_level, available_equipment, training_frequency,
	created_at
`

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.FitnessGoal, &u.Gender, &u.ExperienceLevel, &u.AvailableEquipment, &u.TrainingFrequency,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, user *User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	created, err := scanUser(r.db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
	))
	if err != nil {
		if db.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyemail")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	))
}

func (r *UsersRepo) GetByID(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyid")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int, profile Profile) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateprofile")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET fitness_goal = $2, gender = $3, experience_level = $4,
		    available_equipment = $5, training_frequency = $6
		WHERE id = $1
		RETURNING `+userColumns,
		id,
		nullIfEmpty(profile.Goal),
		nullIfEmpty(profile.Gender),
		nullIfEmpty(profile.Experience),
		nullIfEmpty(profile.Equipment),
		nullIfEmpty(profile.Frequency),
	))
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id int, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatepassword")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user, plans and sessions go with it.
func (r *UsersRepo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
