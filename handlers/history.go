package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"streamerverse/models"
	"streamerverse/services/history"
)

type historyService interface {
	RecordStart(userID int64, videoID string, snapshot models.Video, position, duration float64) (models.WatchHistoryItem, error)
	RecordProgress(userID int64, videoID string, update models.ProgressUpdate) (models.WatchHistoryItem, bool, error)
	History(userID int64, limit int) ([]models.WatchHistoryItem, error)
	ContinueWatching(userID int64, limit int) ([]models.WatchHistoryItem, error)
}

var _ historyService = (*history.Service)(nil)

// HistoryHandler serves watch history and the continue-watching rail.
type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

type recordStartPayload struct {
	Position  float64      `json:"position"`
	Duration  float64      `json:"duration"`
	VideoData models.Video `json:"videoData"`
}

// List returns the user's history, most recently watched first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Service.History(userID, limitParam(r))
	if err != nil {
		respondError(w, historyErrorStatus(err), err.Error())
		return
	}
	if items == nil {
		items = []models.WatchHistoryItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

// ContinueWatching returns unfinished history entries.
func (h *HistoryHandler) ContinueWatching(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Service.ContinueWatching(userID, limitParam(r))
	if err != nil {
		respondError(w, historyErrorStatus(err), err.Error())
		return
	}
	if items == nil {
		items = []models.WatchHistoryItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

// RecordStart records the first progress report of a playback session,
// creating or replacing the history entry for the video.
func (h *HistoryHandler) RecordStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	videoID := strings.TrimSpace(mux.Vars(r)["videoId"])

	var payload recordStartPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Service.RecordStart(userID, videoID, payload.VideoData, payload.Position, payload.Duration)
	if err != nil {
		respondError(w, historyErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// RecordProgress updates playhead position and completion on an existing
// entry. A heartbeat for a video with no entry is answered 204 without
// creating one; the client starts sessions through RecordStart.
func (h *HistoryHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	videoID := strings.TrimSpace(mux.Vars(r)["videoId"])

	var update models.ProgressUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, found, err := h.Service.RecordProgress(userID, videoID, update)
	if err != nil {
		respondError(w, historyErrorStatus(err), err.Error())
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *HistoryHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// limitParam parses the limit query param; 0 lets the service apply its
// default.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func historyErrorStatus(err error) int {
	switch {
	case errors.Is(err, history.ErrUserIDRequired),
		errors.Is(err, history.ErrVideoIDRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
