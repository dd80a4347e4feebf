//go:build integration_test || all_tests

package test

import (
	"context"
	"time"

	"github.com/2beens/fitplanner/internal/auth"
	"github.com/2beens/fitplanner/internal/db"
	"github.com/2beens/fitplanner/internal/workout"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) createUser(ctx context.Context) *auth.User {
	user, err := auth.NewUsersRepo(s.pgPool).Create(ctx, &auth.User{
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		Email:        gofakeit.Email(),
		PasswordHash: "not-a-real-hash",
	})
	s.Require().NoError(err)
	return user
}

func (s *IntegrationTestSuite) catalogIDs(ctx context.Context) map[string]int {
	exercises, err := s.repo.ListExercises(ctx)
	s.Require().NoError(err)
	ids := make(map[string]int, len(exercises))
	for _, e := range exercises {
		ids[e.Name] = e.ID
	}
	return ids
}

func (s *IntegrationTestSuite) twoDayPlan(ctx context.Context) *workout.ValidatedPlan {
	ids := s.catalogIDs(ctx)
	return &workout.ValidatedPlan{
		PlanName: "Strength Split",
		Days: []workout.ValidatedDay{
			{DayNumber: 1, Focus: "Legs", Exercises: []workout.ValidatedExercise{
				{ExerciseID: ids["Squat"], Sets: 4, Reps: "6-8"},
				{ExerciseID: ids["Lunge"], Sets: 3, Reps: "10"},
			}},
			{DayNumber: 2, Focus: "Upper", Exercises: []workout.ValidatedExercise{
				{ExerciseID: ids["Push-up"], Sets: 3, Reps: "AMRAP"},
			}},
		},
	}
}

func (s *IntegrationTestSuite) TestMigrations_Idempotent() {
	ctx := context.Background()

	version, err := db.ApplyMigrations(ctx, s.pgPool)
	s.Require().NoError(err)
	s.Equal(db.LatestVersion(), version)

	added, err := s.repo.SeedExercises(ctx, workout.SeedExercises)
	s.Require().NoError(err)
	s.Zero(added)
	s.Equal(len(workout.SeedExercises), s.countRows("exercise"))

	s.Require().NoError(s.server.Migrate(ctx))
	s.Equal(len(workout.SeedExercises), s.countRows("exercise"))
}

func (s *IntegrationTestSuite) TestRepo_PlanRoundTrip() {
	ctx := context.Background()
	owner := s.createUser(ctx)
	other := s.createUser(ctx)
	ids := s.catalogIDs(ctx)

	created, err := s.repo.CreatePlan(ctx, owner.ID, s.twoDayPlan(ctx))
	s.Require().NoError(err)
	s.Require().NotZero(created.ID)
	s.Equal("Strength Split", created.PlanName)
	s.Equal(owner.ID, created.UserID)
	s.Require().Len(created.Days, 2)
	s.Equal(1, created.Days[0].DayNumber)
	s.Equal("Legs", created.Days[0].Focus)
	s.Require().Len(created.Days[0].Exercises, 2)
	s.Equal(ids["Squat"], created.Days[0].Exercises[0].ExerciseID)
	s.Equal("6-8", created.Days[0].Exercises[0].Reps)
	s.Require().NotNil(created.Days[0].Exercises[0].Exercise)
	s.Equal("Squat", created.Days[0].Exercises[0].Exercise.Name)
	s.Equal("AMRAP", created.Days[1].Exercises[0].Reps)

	loaded, err := s.repo.GetPlan(ctx, owner.ID, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, loaded.ID)
	s.Require().Len(loaded.Days, 2)
	s.Len(loaded.Days[0].Exercises, 2)
	s.Len(loaded.Days[1].Exercises, 1)

	day, err := s.repo.GetDay(ctx, owner.ID, created.Days[1].ID)
	s.Require().NoError(err)
	s.Equal("Upper", day.Focus)

	_, err = s.repo.GetPlan(ctx, other.ID, created.ID)
	s.True(workout.IsNotFound(err), err)
	_, err = s.repo.GetDay(ctx, other.ID, created.Days[1].ID)
	s.True(workout.IsNotFound(err), err)

	page, err := s.repo.ListPlans(ctx, owner.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, page.TotalWorkoutPlans)
	s.Require().Len(page.Data, 1)
	s.Len(page.Data[0].Days, 2)

	page, err = s.repo.ListPlans(ctx, other.ID, 1, 10)
	s.Require().NoError(err)
	s.Zero(page.TotalWorkoutPlans)
	s.Empty(page.Data)

	plansBefore := s.countRows("workout_plan")
	err = s.repo.DeletePlan(ctx, other.ID, created.ID)
	s.True(workout.IsNotFound(err), err)
	s.Equal(plansBefore, s.countRows("workout_plan"))

	daysBefore := s.countRows("workout_day")
	exercisesBefore := s.countRows("workout_exercise")
	s.Require().NoError(s.repo.DeletePlan(ctx, owner.ID, created.ID))
	s.Equal(plansBefore-1, s.countRows("workout_plan"))
	s.Equal(daysBefore-2, s.countRows("workout_day"))
	s.Equal(exercisesBefore-3, s.countRows("workout_exercise"))

	_, err = s.repo.GetPlan(ctx, owner.ID, created.ID)
	s.True(workout.IsNotFound(err), err)
}

func (s *IntegrationTestSuite) TestRepo_SaveSession_ResolvesScopedIDs() {
	ctx := context.Background()
	user := s.createUser(ctx)
	ids := s.catalogIDs(ctx)

	plan, err := s.repo.CreatePlan(ctx, user.ID, s.twoDayPlan(ctx))
	s.Require().NoError(err)
	legDay := plan.Days[0]
	squatScoped := legDay.Exercises[0]
	lungeScoped := legDay.Exercises[1]
	s.NotEqual(squatScoped.ID, squatScoped.ExerciseID)

	start := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	session, err := s.repo.SaveSession(ctx, user.ID, workout.SaveSessionParams{
		WorkoutDayID: &legDay.ID,
		StartTime:    start,
		EndTime:      start.Add(45 * time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: squatScoped.ID, SetNumber: 1, Weight: 60, Reps: 8},
			{ExerciseID: squatScoped.ID, SetNumber: 2, Weight: 62.5, Reps: 6},
			{ExerciseID: lungeScoped.ID, SetNumber: 1, Weight: 0, Reps: 10},
		},
	})
	s.Require().NoError(err)
	s.Require().NotZero(session.ID)
	s.Require().NotNil(session.WorkoutDayID)
	s.Equal(legDay.ID, *session.WorkoutDayID)
	s.Require().Len(session.LoggedSets, 3)
	s.Equal(ids["Squat"], session.LoggedSets[0].ExerciseID)
	s.Equal(62.5, session.LoggedSets[1].Weight)
	s.Equal(ids["Lunge"], session.LoggedSets[2].ExerciseID)

	loaded, err := s.repo.GetSession(ctx, user.ID, session.ID)
	s.Require().NoError(err)
	s.Len(loaded.LoggedSets, 3)
	s.True(start.Equal(loaded.StartTime))

	sessions, err := s.repo.ListSessions(ctx, user.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, sessions.TotalWorkoutCount)
}

func (s *IntegrationTestSuite) TestRepo_SaveSession_RejectedWritesNothing() {
	ctx := context.Background()
	user := s.createUser(ctx)
	other := s.createUser(ctx)
	ids := s.catalogIDs(ctx)

	plan, err := s.repo.CreatePlan(ctx, user.ID, s.twoDayPlan(ctx))
	s.Require().NoError(err)
	legDay := plan.Days[0]
	upperDayExercise := plan.Days[1].Exercises[0]

	sessionsBefore := s.countRows("workout_session")
	setsBefore := s.countRows("logged_set")
	start := time.Now().Add(-time.Hour)

	// the last set points to an exercise of another day
	_, err = s.repo.SaveSession(ctx, user.ID, workout.SaveSessionParams{
		WorkoutDayID: &legDay.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: legDay.Exercises[0].ID, SetNumber: 1, Reps: 5},
			{ExerciseID: upperDayExercise.ID, SetNumber: 1, Reps: 5},
		},
	})
	s.True(workout.IsNotFound(err), err)

	// someone else's day
	_, err = s.repo.SaveSession(ctx, other.ID, workout.SaveSessionParams{
		WorkoutDayID: &legDay.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: legDay.Exercises[0].ID, SetNumber: 1, Reps: 5},
		},
	})
	s.True(workout.IsNotFound(err), err)

	// custom session with a non existing catalog id
	_, err = s.repo.SaveSession(ctx, user.ID, workout.SaveSessionParams{
		StartTime: start,
		EndTime:   start.Add(time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: ids["Plank"], SetNumber: 1, Reps: 1},
			{ExerciseID: 999999, SetNumber: 1, Reps: 1},
		},
	})
	s.True(workout.IsNotFound(err), err)

	s.Equal(sessionsBefore, s.countRows("workout_session"))
	s.Equal(setsBefore, s.countRows("logged_set"))
}

func (s *IntegrationTestSuite) TestRepo_SaveCustomSession() {
	ctx := context.Background()
	user := s.createUser(ctx)
	ids := s.catalogIDs(ctx)

	name := "Morning core"
	start := time.Now().Add(-time.Hour)
	session, err := s.repo.SaveSession(ctx, user.ID, workout.SaveSessionParams{
		Name:      &name,
		StartTime: start,
		EndTime:   start.Add(20 * time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: ids["Plank"], SetNumber: 1, Reps: 1},
			{ExerciseID: ids["Crunch"], SetNumber: 1, Reps: 20},
		},
	})
	s.Require().NoError(err)
	s.Nil(session.WorkoutDayID)
	s.Require().NotNil(session.Name)
	s.Equal(name, *session.Name)
	s.Require().Len(session.LoggedSets, 2)
	s.Equal(ids["Crunch"], session.LoggedSets[1].ExerciseID)
}

func (s *IntegrationTestSuite) TestRepo_DeletePlan_KeepsSessions() {
	ctx := context.Background()
	user := s.createUser(ctx)

	plan, err := s.repo.CreatePlan(ctx, user.ID, s.twoDayPlan(ctx))
	s.Require().NoError(err)
	day := plan.Days[1]

	start := time.Now().Add(-time.Hour)
	session, err := s.repo.SaveSession(ctx, user.ID, workout.SaveSessionParams{
		WorkoutDayID: &day.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Minute),
		LoggedSets: []workout.LoggedSetParams{
			{ExerciseID: day.Exercises[0].ID, SetNumber: 1, Reps: 12},
		},
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.DeletePlan(ctx, user.ID, plan.ID))

	loaded, err := s.repo.GetSession(ctx, user.ID, session.ID)
	s.Require().NoError(err)
	s.Nil(loaded.WorkoutDayID)
	s.Len(loaded.LoggedSets, 1)
}
