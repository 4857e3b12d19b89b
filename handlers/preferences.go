package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"streamerverse/models"
	"streamerverse/services/preferences"
)

type preferencesService interface {
	Get(userID int64) (models.Preferences, error)
	Set(userID int64, p models.Preferences) (models.Preferences, error)
}

var _ preferencesService = (*preferences.Service)(nil)

// PreferencesHandler serves per-user UI preferences.
type PreferencesHandler struct {
	Service preferencesService
}

func NewPreferencesHandler(service preferencesService) *PreferencesHandler {
	return &PreferencesHandler{Service: service}
}

// Get returns the user's preferences, defaults included.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	prefs, err := h.Service.Get(userID)
	if err != nil {
		respondError(w, preferencesErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// Put replaces the user's preferences.
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var prefs models.Preferences
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&prefs); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.Service.Set(userID, prefs)
	if err != nil {
		respondError(w, preferencesErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (h *PreferencesHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func preferencesErrorStatus(err error) int {
	switch {
	case errors.Is(err, preferences.ErrUserIDRequired),
		errors.Is(err, preferences.ErrThemeRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
