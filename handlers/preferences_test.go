package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"

	"streamerverse/handlers"
	"streamerverse/models"
	"streamerverse/services/preferences"
)

func newPreferencesHandler(t *testing.T) *handlers.PreferencesHandler {
	t.Helper()

	svc, err := preferences.NewService(afero.NewMemMapFs(), "data")
	if err != nil {
		t.Fatalf("failed to create preferences service: %v", err)
	}
	return handlers.NewPreferencesHandler(svc)
}

func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(handlers.WithUserID(req.Context(), userID))
}

func TestPreferencesDefaults(t *testing.T) {
	h := newPreferencesHandler(t)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/preferences", nil), 1)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var prefs models.Preferences
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("failed to decode preferences: %v", err)
	}
	if prefs.Theme != models.DefaultPreferences().Theme {
		t.Fatalf("expected default theme, got %q", prefs.Theme)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	h := newPreferencesHandler(t)

	payload, _ := json.Marshal(models.Preferences{Theme: "midnight", AccentColor: "#7c3aed"})
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/preferences", bytes.NewReader(payload)), 1)
	rec := httptest.NewRecorder()
	h.Put(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("put returned %d: %s", rec.Code, rec.Body.String())
	}

	req = withUser(httptest.NewRequest(http.MethodGet, "/api/preferences", nil), 1)
	rec = httptest.NewRecorder()
	h.Get(rec, req)

	var prefs models.Preferences
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("failed to decode preferences: %v", err)
	}
	if prefs.Theme != "midnight" || prefs.AccentColor != "#7c3aed" {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
}

func TestPreferencesRejectMissingTheme(t *testing.T) {
	h := newPreferencesHandler(t)

	payload, _ := json.Marshal(models.Preferences{Theme: ""})
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/preferences", bytes.NewReader(payload)), 1)
	rec := httptest.NewRecorder()
	h.Put(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPreferencesRequireUser(t *testing.T) {
	h := newPreferencesHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", rec.Code)
	}
}
