package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"streamerverse/models"
	"streamerverse/services/watchlist"
)

type watchlistService interface {
	Add(userID int64, videoID string, snapshot models.Video) (models.WatchlistItem, error)
	Remove(userID int64, videoID string) (bool, error)
	List(userID int64) ([]models.WatchlistItem, error)
	Contains(userID int64, videoID string) (bool, error)
}

var _ watchlistService = (*watchlist.Service)(nil)

// WatchlistHandler serves the per-user watchlist.
type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

// List returns the user's watchlist, most recently added first.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Service.List(userID)
	if err != nil {
		respondError(w, watchlistErrorStatus(err), err.Error())
		return
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

// Add stores the posted video snapshot under the path videoId. Re-adding
// an existing entry replaces the snapshot.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	videoID := strings.TrimSpace(mux.Vars(r)["videoId"])

	var snapshot models.Video
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Service.Add(userID, videoID, snapshot)
	if err != nil {
		respondError(w, watchlistErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Remove deletes the entry; removing an absent entry still returns 204.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	videoID := strings.TrimSpace(mux.Vars(r)["videoId"])

	if _, err := h.Service.Remove(userID, videoID); err != nil {
		respondError(w, watchlistErrorStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Contains reports whether the video is on the user's watchlist.
func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	videoID := strings.TrimSpace(mux.Vars(r)["videoId"])

	onList, err := h.Service.Contains(userID, videoID)
	if err != nil {
		respondError(w, watchlistErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"inWatchlist": onList})
}

func (h *WatchlistHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func watchlistErrorStatus(err error) int {
	switch {
	case errors.Is(err, watchlist.ErrUserIDRequired),
		errors.Is(err, watchlist.ErrVideoIDRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
