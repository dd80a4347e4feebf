package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitplanner/internal/telemetry/tracing"
	"github.com/2beens/fitplanner/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const TokenCookieName = "jwt"

type authService interface {
	Register(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Logout(ctx context.Context, claims *Claims) (bool, error)
	GetUser(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, profile Profile) (*User, error)
	UpdatePassword(ctx context.Context, userID int, req UpdatePasswordRequest) error
	DeleteAccount(ctx context.Context, userID int) error
}

type Handler struct {
	service      authService
	secureCookie bool
}

func NewHandler(service authService, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
	}
}

// SetupRoutes registers the /auth routes. rateLimit guards signup and login.
func (h *Handler) SetupRoutes(r *mux.Router, rateLimit mux.MiddlewareFunc) {
	s := r.PathPrefix("/auth").Subrouter()
	s.Handle("/signup", rateLimit(http.HandlerFunc(h.HandleSignup))).Methods("POST", "OPTIONS").Name("auth-signup")
	s.Handle("/login", rateLimit(http.HandlerFunc(h.HandleLogin))).Methods("POST", "OPTIONS").Name("auth-login")
	s.HandleFunc("/logout", h.HandleLogout).Methods("POST", "OPTIONS").Name("auth-logout")
	s.HandleFunc("/check", h.HandleCheck).Methods("GET", "OPTIONS").Name("auth-check")
	s.HandleFunc("/update-user", h.HandleUpdateUser).Methods("POST", "OPTIONS").Name("auth-update-user")
	s.HandleFunc("/update-password", h.HandleUpdatePassword).Methods("POST", "OPTIONS").Name("auth-update-password")
	s.HandleFunc("/delete-account", h.HandleDeleteAccount).Methods("DELETE", "OPTIONS").Name("auth-delete-account")
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, ErrMissingFields.Error())
		return
	}

	res, err := h.service.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		writeError(w, err)
		return
	}

	span.SetAttributes(attribute.Int("user-id", res.User.ID))
	h.setTokenCookie(w, res.Token, res.ExpiresAt)
	pkg.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, ErrEmailPasswordRequired.Error())
		return
	}

	res, err := h.service.Login(ctx, creds)
	if err != nil {
		span.RecordError(err)
		writeError(w, err)
		return
	}

	span.SetAttributes(attribute.Int("user-id", res.User.ID))
	h.setTokenCookie(w, res.Token, res.ExpiresAt)
	pkg.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	h.clearTokenCookie(w)

	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusOK, "Logged out successfully")
		return
	}

	removed, err := h.service.Logout(ctx, claims)
	if err != nil {
		span.RecordError(err)
		log.Errorf("logout user %d: %s", claims.UserID, err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !removed {
		log.Debugf("logout user %d: session %s already gone", claims.UserID, claims.ID)
	}

	pkg.WriteJSONMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.check")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUser(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.updateuser")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(ctx, userID, profile)
	if err != nil {
		span.RecordError(err)
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.updatepassword")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONMessage(w, http.StatusBadRequest, ErrPasswordsRequired.Error())
		return
	}

	if err := h.service.UpdatePassword(ctx, userID, req); err != nil {
		span.RecordError(err)
		writeError(w, err)
		return
	}

	pkg.WriteJSONMessage(w, http.StatusOK, "Password updated successfully")
}

func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.deleteaccount")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteAccount(ctx, userID); err != nil {
		span.RecordError(err)
		writeError(w, err)
		return
	}

	h.clearTokenCookie(w)
	pkg.WriteJSONMessage(w, http.StatusOK, "Account deleted successfully")
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrEmailPasswordRequired),
		errors.Is(err, ErrPasswordsRequired),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidPassword):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pkg.ErrPasswordTooLong):
		pkg.WriteJSONMessage(w, http.StatusBadRequest, "Password must be at most 72 bytes long")
	case errors.Is(err, ErrUserNotFound):
		pkg.WriteJSONMessage(w, http.StatusNotFound, err.Error())
	default:
		log.Errorf("auth handler: %s", err)
		pkg.WriteJSONMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
