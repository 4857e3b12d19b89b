package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"streamerverse/models"
	"streamerverse/services/accounts"
	"streamerverse/services/sessions"
)

// SessionCookieName is the cookie carrying the opaque session ID.
const SessionCookieName = "sv_session"

type accountsService interface {
	Register(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	Get(id int64) (*models.User, error)
}

var _ accountsService = (*accounts.Service)(nil)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Accounts accountsService
	Sessions *sessions.Service
}

func NewAuthHandler(accountsSvc accountsService, sessionsSvc *sessions.Service) *AuthHandler {
	return &AuthHandler{Accounts: accountsSvc, Sessions: sessionsSvc}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and starts a session for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Accounts.Register(payload.Username, payload.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, accounts.ErrUsernameRequired),
			errors.Is(err, accounts.ErrPasswordRequired),
			errors.Is(err, accounts.ErrPasswordTooShort):
			status = http.StatusBadRequest
		case errors.Is(err, accounts.ErrUsernameTaken):
			status = http.StatusConflict
		}
		respondError(w, status, err.Error())
		return
	}

	h.startSession(w, user)
	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Accounts.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.startSession(w, user)
	respondJSON(w, http.StatusOK, user)
}

// Logout ends the current session. Logging out without a session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.Sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.Accounts.Get(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user models.User) {
	session := h.Sessions.Create(user.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
