package workout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitplanner/internal/auth"
	"github.com/2beens/fitplanner/internal/telemetry/tracing"
	"github.com/2beens/fitplanner/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workout_test

const (
	maxPageSize       = 100
	retryAfterSeconds = 30
)

type service interface {
	Generate(ctx context.Context, userID int, prefs Preferences) (*WorkoutPlan, error)
	SaveSession(ctx context.Context, userID int, params SaveSessionParams) (*WorkoutSession, error)
	DeletePlan(ctx context.Context, userID, planID int) error
	ListPlans(ctx context.Context, userID, page, limit int) (*PlansPage, error)
	GetPlan(ctx context.Context, userID, planID int) (*WorkoutPlan, error)
	GetDay(ctx context.Context, userID, dayID int) (*WorkoutDay, error)
	ListSessions(ctx context.Context, userID, page, limit int) (*SessionsPage, error)
	GetSession(ctx context.Context, userID, sessionID int) (*WorkoutSession, error)
	ListExercises(ctx context.Context, equipment string) ([]Exercise, error)
}

type Handler struct {
	service         service
	defaultPageSize int
}

func NewHandler(service service, defaultPageSize int) *Handler {
	return &Handler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// SetupRoutes registers the workout routes. generateRateLimit guards the generation endpoint.
func (h *Handler) SetupRoutes(r *mux.Router, generateRateLimit mux.MiddlewareFunc) {
	s := r.PathPrefix("/workout").Subrouter()
	s.Handle("/generate", generateRateLimit(http.HandlerFunc(h.HandleGenerate))).Methods("POST", "OPTIONS").Name("workout-generate")
	s.HandleFunc("/save", h.HandleSaveSession).Methods("POST", "OPTIONS").Name("workout-save")
	s.HandleFunc("/save-custom", h.HandleSaveCustomSession).Methods("POST", "OPTIONS").Name("workout-save-custom")
	s.HandleFunc("/exercises/all", h.HandleListExercises).Methods("GET", "OPTIONS").Name("workout-exercises")
	s.HandleFunc("/workout-plan/all", h.HandleListPlans).Methods("GET", "OPTIONS").Name("workout-plans")
	s.HandleFunc("/workout-plan/{id:[0-9]+}", h.HandleGetPlan).Methods("GET", "OPTIONS").Name("workout-plan")
	s.HandleFunc("/workout-plan/{id:[0-9]+}", h.HandleDeletePlan).Methods("DELETE", "OPTIONS").Name("workout-plan-delete")
	s.HandleFunc("/day/{id:[0-9]+}", h.HandleGetDay).Methods("GET", "OPTIONS").Name("workout-day")
	s.HandleFunc("/finished-workout/all", h.HandleListSessions).Methods("GET", "OPTIONS").Name("workout-sessions")
	s.HandleFunc("/finished-workout/{id:[0-9]+}", h.HandleGetSession).Methods("GET", "OPTIONS").Name("workout-session")
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.generate")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		log.Debugf("generate workout, decode body: %s", err)
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := prefs.Validate(); err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.Generate(ctx, userID, prefs)
	if err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.Int("plan-id", plan.ID))
	pkg.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	h.saveSession(w, r, false)
}

func (h *Handler) HandleSaveCustomSession(w http.ResponseWriter, r *http.Request) {
	h.saveSession(w, r, true)
}

func (h *Handler) saveSession(w http.ResponseWriter, r *http.Request, custom bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.savesession")
	defer span.End()
	span.SetAttributes(attribute.Bool("custom", custom))

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	var req SaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("save session, decode body: %s", err)
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, err := req.ToParams(custom)
	if err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.SaveSession(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.deleteplan")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	planID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePlan(ctx, userID, planID); err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}

	log.Tracef("workout plan %d deleted by user %d", planID, userID)
	pkg.WriteJSONMessage(w, http.StatusOK, "Workout plan deleted successfully")
}

func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listplans")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	page, limit, ok := h.pagination(w, r)
	if !ok {
		return
	}

	plans, err := h.service.ListPlans(ctx, userID, page, limit)
	if err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, plans)
}

func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.getplan")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	planID, ok := pathID(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(ctx, userID, planID)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.getday")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	dayID, ok := pathID(w, r)
	if !ok {
		return
	}

	day, err := h.service.GetDay(ctx, userID, dayID)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, day)
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listsessions")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	page, limit, ok := h.pagination(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.ListSessions(ctx, userID, page, limit)
	if err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, sessions)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.getsession")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(ctx, userID, sessionID)
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listexercises")
	defer span.End()

	exercises, err := h.service.ListExercises(ctx, r.URL.Query().Get("equipment"))
	if err != nil {
		span.RecordError(err)
		writeError(w, err, http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, exercises)
}

func (h *Handler) pagination(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	query := r.URL.Query()
	page, ok = pkg.ParsePositiveInt(query.Get("page"), 1)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid page")
		return 0, 0, false
	}
	limit, ok = pkg.ParsePositiveInt(query.Get("limit"), h.defaultPageSize)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid limit")
		return 0, 0, false
	}
	limit = min(limit, maxPageSize)
	// keeps (page-1)*limit a valid offset
	if page-1 > maxInt4/limit {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid page")
		return 0, 0, false
	}
	return page, limit, true
}

func userIDOrUnauthorized(ctx context.Context, w http.ResponseWriter) (int, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 || id > maxInt4 {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Not found errors get notFoundStatus,
// as reads answer 404 while deletes and saves answer 400.
func writeError(w http.ResponseWriter, err error, notFoundStatus int) {
	var (
		validationErr  *ValidationError
		formatErr      *InvalidFormatError
		unknownErr     *UnknownExerciseError
		notFoundErr    *NotFoundError
		persistenceErr *PersistenceError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &formatErr),
		errors.As(err, &unknownErr),
		errors.Is(err, ErrNoExercisesAvailable):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		pkg.WriteJSONMessage(w, notFoundStatus, notFoundErr.Error())
	case errors.Is(err, ErrGenerationTimeout):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		pkg.WriteJSONMessage(w, http.StatusServiceUnavailable, ErrGenerationTimeout.Error())
	case errors.Is(err, ErrGenerationFailed):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, ErrGenerationFailed.Error())
	case errors.As(err, &persistenceErr):
		log.Errorf("workout persistence: %s", err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, "failed to save data")
	default:
		log.Errorf("workout handler: %s", err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, "internal error")
	}
}
