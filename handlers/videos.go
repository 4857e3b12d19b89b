package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"streamerverse/models"
	"streamerverse/services/metadata"
)

type metadataService interface {
	SearchYouTube(ctx context.Context, query string) ([]models.Video, error)
	SearchVidSrc(ctx context.Context, query string) ([]models.Video, error)
	Latest(ctx context.Context, kind string) ([]models.Video, error)
	Recommendations(ctx context.Context, videoID string) ([]models.Video, error)
}

var _ metadataService = (*metadata.Service)(nil)

// VideosHandler serves provider search, latest listings and recommendations.
type VideosHandler struct {
	Service metadataService
}

func NewVideosHandler(service metadataService) *VideosHandler {
	return &VideosHandler{Service: service}
}

// Search searches the provider named by the source query param. YouTube is
// the default when no source is given.
func (h *VideosHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	source := r.URL.Query().Get("source")

	var (
		videos []models.Video
		err    error
	)
	switch source {
	case "", models.SourceYouTube:
		videos, err = h.Service.SearchYouTube(r.Context(), query)
	case models.SourceVidSrc:
		videos, err = h.Service.SearchVidSrc(r.Context(), query)
	default:
		respondError(w, http.StatusBadRequest, "unknown source: "+source)
		return
	}
	if err != nil {
		respondError(w, providerErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, videos)
}

// SearchVidSrc searches the movie/TV catalogue.
func (h *VideosHandler) SearchVidSrc(w http.ResponseWriter, r *http.Request) {
	videos, err := h.Service.SearchVidSrc(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondError(w, providerErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, videos)
}

// Latest lists recently added movies, shows or episodes.
func (h *VideosHandler) Latest(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["type"]

	videos, err := h.Service.Latest(r.Context(), kind)
	if err != nil {
		respondError(w, providerErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, videos)
}

// Recommendations returns videos related to the one named by the videoId
// query param.
func (h *VideosHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	videos, err := h.Service.Recommendations(r.Context(), r.URL.Query().Get("videoId"))
	if err != nil {
		respondError(w, providerErrorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, videos)
}

func (h *VideosHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// providerErrorStatus maps metadata errors onto HTTP statuses: caller
// mistakes are 400, anything else came from an upstream provider.
func providerErrorStatus(err error) int {
	switch {
	case errors.Is(err, metadata.ErrQueryRequired),
		errors.Is(err, metadata.ErrVideoIDRequired),
		errors.Is(err, metadata.ErrUnknownListKind):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
