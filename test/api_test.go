//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitplanner/internal/auth"
	"github.com/2beens/fitplanner/internal/workout"

	"github.com/brianvoe/gofakeit/v6"
)

const generatedPlan = "```json\n" + `{
	"planName": "Bodyweight Basics",
	"days": [
		{"day": 1, "focus": "Full Body", "exercises": [
			{"name": "Squat", "sets": 3, "reps": "8-12"},
			{"name": "Push-up", "sets": "3", "reps": 12}
		]},
		{"day": 2, "focus": "Core", "exercises": [
			{"name": "Plank", "sets": 3, "reps": "30s"}
		]}
	]
}` + "\n```"

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, token string, body any) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) doSignup(ctx context.Context) (auth.SignupRequest, *auth.AuthResult) {
	signup := auth.SignupRequest{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Password:  gofakeit.Password(true, true, true, false, false, 12),
	}
	status, body := s.doRequest(ctx, http.MethodPost, "/auth/signup", "", signup)
	s.Require().Equal(http.StatusCreated, status, string(body))

	var res auth.AuthResult
	s.Require().NoError(json.Unmarshal(body, &res))
	s.Require().NotEmpty(res.Token)
	return signup, &res
}

func bodyPrefs() workout.Preferences {
	return workout.Preferences{
		Goal:       "general_fitness",
		Gender:     "male",
		Experience: "beginner",
		Equipment:  "bodyweight",
		Frequency:  "2",
	}
}

func (s *IntegrationTestSuite) TestAPI_Root() {
	status, body := s.doRequest(context.Background(), http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(body), "test-version-info")
}

func (s *IntegrationTestSuite) TestAPI_AuthFlow() {
	ctx := context.Background()
	signup, signedUp := s.doSignup(ctx)

	status, body := s.doRequest(ctx, http.MethodPost, "/auth/signup", "", signup)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), auth.ErrUserExists.Error())

	status, _ = s.doRequest(ctx, http.MethodPost, "/auth/login", "", auth.Credentials{
		Email:    signup.Email,
		Password: "wrong-password",
	})
	s.Equal(http.StatusBadRequest, status)

	status, body = s.doRequest(ctx, http.MethodPost, "/auth/login", "", auth.Credentials{
		Email:    signup.Email,
		Password: signup.Password,
	})
	s.Require().Equal(http.StatusOK, status, string(body))
	var loggedIn auth.AuthResult
	s.Require().NoError(json.Unmarshal(body, &loggedIn))
	s.NotEqual(signedUp.Token, loggedIn.Token)

	status, body = s.doRequest(ctx, http.MethodGet, "/auth/check", loggedIn.Token, nil)
	s.Require().Equal(http.StatusOK, status)
	var user auth.User
	s.Require().NoError(json.Unmarshal(body, &user))
	s.Equal(signedUp.User.ID, user.ID)
	s.NotContains(string(body), "password")

	status, _ = s.doRequest(ctx, http.MethodGet, "/auth/check", "", nil)
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, http.MethodPost, "/auth/logout", loggedIn.Token, nil)
	s.Equal(http.StatusOK, status)

	// revoked session
	status, _ = s.doRequest(ctx, http.MethodGet, "/auth/check", loggedIn.Token, nil)
	s.Equal(http.StatusUnauthorized, status)

	// other sessions stay active
	status, _ = s.doRequest(ctx, http.MethodGet, "/auth/check", signedUp.Token, nil)
	s.Equal(http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestAPI_DeleteAccount() {
	ctx := context.Background()
	_, signedUp := s.doSignup(ctx)

	status, _ := s.doRequest(ctx, http.MethodDelete, "/auth/delete-account", signedUp.Token, nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.doRequest(ctx, http.MethodGet, "/auth/check", signedUp.Token, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestAPI_GenerateAndLog() {
	ctx := context.Background()
	_, signedUp := s.doSignup(ctx)
	token := signedUp.Token

	s.gemini.setReply(http.StatusOK, generatedPlan)

	status, body := s.doRequest(ctx, http.MethodPost, "/workout/generate", token, bodyPrefs())
	s.Require().Equal(http.StatusOK, status, string(body))
	s.Equal(1, s.gemini.callsCount())

	var plan workout.WorkoutPlan
	s.Require().NoError(json.Unmarshal(body, &plan))
	s.Equal("Bodyweight Basics", plan.PlanName)
	s.Equal(signedUp.User.ID, plan.UserID)
	s.Require().Len(plan.Days, 2)
	s.Require().Len(plan.Days[0].Exercises, 2)
	s.Equal("Push-up", plan.Days[0].Exercises[1].Exercise.Name)
	s.Equal(3, plan.Days[0].Exercises[1].Sets)
	s.Equal("12", plan.Days[0].Exercises[1].Reps)

	status, body = s.doRequest(ctx, http.MethodGet, "/workout/workout-plan/all?page=1&limit=5", token, nil)
	s.Require().Equal(http.StatusOK, status)
	var plans workout.PlansPage
	s.Require().NoError(json.Unmarshal(body, &plans))
	s.Equal(1, plans.TotalWorkoutPlans)

	day := plan.Days[0]
	start := time.Now().Add(-time.Hour).UTC()
	end := start.Add(40 * time.Minute)
	status, body = s.doRequest(ctx, http.MethodPost, "/workout/save", token, workout.SaveSessionRequest{
		WorkoutDayID: &day.ID,
		StartTime:    &start,
		EndTime:      &end,
		LoggedSets: []workout.LoggedSetRequest{
			{ExerciseID: day.Exercises[0].ID, SetNumber: 1, Reps: 10},
			{ExerciseID: day.Exercises[1].ID, SetNumber: 1, Reps: 12},
		},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	var session workout.WorkoutSession
	s.Require().NoError(json.Unmarshal(body, &session))
	s.Require().Len(session.LoggedSets, 2)
	s.Equal(day.Exercises[0].ExerciseID, session.LoggedSets[0].ExerciseID)
	s.Equal(day.Exercises[1].ExerciseID, session.LoggedSets[1].ExerciseID)

	status, _ = s.doRequest(ctx, http.MethodGet, "/workout/finished-workout/"+strconv.Itoa(session.ID), token, nil)
	s.Equal(http.StatusOK, status)

	// another user can't see or delete the plan
	_, intruder := s.doSignup(ctx)
	planPath := fmt.Sprintf("/workout/workout-plan/%d", plan.ID)
	status, _ = s.doRequest(ctx, http.MethodGet, planPath, intruder.Token, nil)
	s.Equal(http.StatusNotFound, status)
	status, _ = s.doRequest(ctx, http.MethodDelete, planPath, intruder.Token, nil)
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.doRequest(ctx, http.MethodDelete, planPath, token, nil)
	s.Equal(http.StatusOK, status)
	status, _ = s.doRequest(ctx, http.MethodGet, planPath, token, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestAPI_Generate_RejectedOutputNotPersisted() {
	ctx := context.Background()
	_, signedUp := s.doSignup(ctx)

	plansBefore := s.countRows("workout_plan")

	s.gemini.setReply(http.StatusOK, `{"planName": "Gym", "days": [
		{"day": 1, "focus": "Chest", "exercises": [{"name": "Bench Press", "sets": 3, "reps": "8"}]}
	]}`)
	status, body := s.doRequest(ctx, http.MethodPost, "/workout/generate", signedUp.Token, bodyPrefs())
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "Bench Press")

	s.gemini.setReply(http.StatusOK, "I can't help with that")
	status, _ = s.doRequest(ctx, http.MethodPost, "/workout/generate", signedUp.Token, bodyPrefs())
	s.Equal(http.StatusBadRequest, status)

	s.gemini.setReply(http.StatusInternalServerError, "")
	status, _ = s.doRequest(ctx, http.MethodPost, "/workout/generate", signedUp.Token, bodyPrefs())
	s.Equal(http.StatusBadRequest, status)

	missing := bodyPrefs()
	missing.Frequency = ""
	status, body = s.doRequest(ctx, http.MethodPost, "/workout/generate", signedUp.Token, missing)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "Frequency")

	s.Equal(plansBefore, s.countRows("workout_plan"))
}

func (s *IntegrationTestSuite) TestAPI_SaveCustomSession() {
	ctx := context.Background()
	_, signedUp := s.doSignup(ctx)
	ids := s.catalogIDs(ctx)

	start := time.Now().Add(-time.Hour).UTC()
	end := start.Add(15 * time.Minute)
	name := "Quick core"
	status, body := s.doRequest(ctx, http.MethodPost, "/workout/save-custom", signedUp.Token, workout.SaveSessionRequest{
		Name:      &name,
		StartTime: &start,
		EndTime:   &end,
		LoggedSets: []workout.LoggedSetRequest{
			{ExerciseID: ids["Crunch"], SetNumber: 1, Reps: 25},
		},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	dayID := 1
	status, _ = s.doRequest(ctx, http.MethodPost, "/workout/save-custom", signedUp.Token, workout.SaveSessionRequest{
		WorkoutDayID: &dayID,
		StartTime:    &start,
		EndTime:      &end,
		LoggedSets: []workout.LoggedSetRequest{
			{ExerciseID: ids["Crunch"], SetNumber: 1, Reps: 25},
		},
	})
	s.Equal(http.StatusBadRequest, status)

	status, body = s.doRequest(ctx, http.MethodGet, "/workout/finished-workout/all", signedUp.Token, nil)
	s.Require().Equal(http.StatusOK, status)
	var sessions workout.SessionsPage
	s.Require().NoError(json.Unmarshal(body, &sessions))
	s.Equal(1, sessions.TotalWorkoutCount)
	s.Require().Len(sessions.Data, 1)
	s.Equal(name, *sessions.Data[0].Name)

	status, body = s.doRequest(ctx, http.MethodGet, "/workout/exercises/all?equipment=bodyweight", signedUp.Token, nil)
	s.Require().Equal(http.StatusOK, status)
	var exercises []workout.Exercise
	s.Require().NoError(json.Unmarshal(body, &exercises))
	s.NotEmpty(exercises)
	for _, e := range exercises {
		s.Contains(e.Equipment, "bodyweight")
	}
}
