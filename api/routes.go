package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"streamerverse/handlers"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Deps bundles the handlers Register mounts.
type Deps struct {
	Auth        *handlers.AuthHandler
	Videos      *handlers.VideosHandler
	Watchlist   *handlers.WatchlistHandler
	History     *handlers.HistoryHandler
	Preferences *handlers.PreferencesHandler
	Images      *handlers.ImageHandler
	SessionAuth func(http.Handler) http.Handler
}

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, deps Deps) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/health", handleOptions).Methods(http.MethodOptions)

	// Auth routes (no authentication required)
	api.HandleFunc("/auth/register", deps.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", deps.Auth.Options).Methods(http.MethodOptions)
	api.HandleFunc("/auth/login", deps.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", deps.Auth.Options).Methods(http.MethodOptions)
	api.HandleFunc("/auth/logout", deps.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", deps.Auth.Options).Methods(http.MethodOptions)

	// Provider search and listings (no authentication required)
	api.HandleFunc("/videos/search", deps.Videos.Search).Methods(http.MethodGet)
	api.HandleFunc("/videos/search", deps.Videos.Options).Methods(http.MethodOptions)
	api.HandleFunc("/videos/vidsrc/search", deps.Videos.SearchVidSrc).Methods(http.MethodGet)
	api.HandleFunc("/videos/vidsrc/search", deps.Videos.Options).Methods(http.MethodOptions)
	api.HandleFunc("/videos/vidsrc/latest/{type}", deps.Videos.Latest).Methods(http.MethodGet)
	api.HandleFunc("/videos/vidsrc/latest/{type}", deps.Videos.Options).Methods(http.MethodOptions)
	api.HandleFunc("/videos/recommendations", deps.Videos.Recommendations).Methods(http.MethodGet)
	api.HandleFunc("/videos/recommendations", deps.Videos.Options).Methods(http.MethodOptions)

	// Thumbnail proxy (public - image elements can't send auth headers)
	api.HandleFunc("/images/proxy", deps.Images.Proxy).Methods(http.MethodGet)
	api.HandleFunc("/images/proxy", deps.Images.Options).Methods(http.MethodOptions)

	// Protected routes - require a live session
	protected := api.PathPrefix("").Subrouter()
	protected.Use(deps.SessionAuth)

	protected.HandleFunc("/auth/me", deps.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", deps.Auth.Options).Methods(http.MethodOptions)

	protected.HandleFunc("/watchlist", deps.Watchlist.List).Methods(http.MethodGet)
	protected.HandleFunc("/watchlist", deps.Watchlist.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/watchlist/{videoId}", deps.Watchlist.Add).Methods(http.MethodPost)
	protected.HandleFunc("/watchlist/{videoId}", deps.Watchlist.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/watchlist/{videoId}", deps.Watchlist.Contains).Methods(http.MethodGet)
	protected.HandleFunc("/watchlist/{videoId}", deps.Watchlist.Options).Methods(http.MethodOptions)

	protected.HandleFunc("/watch-history", deps.History.List).Methods(http.MethodGet)
	protected.HandleFunc("/watch-history", deps.History.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/watch-history/{videoId}", deps.History.RecordStart).Methods(http.MethodPost)
	protected.HandleFunc("/watch-history/{videoId}", deps.History.RecordProgress).Methods(http.MethodPatch)
	protected.HandleFunc("/watch-history/{videoId}", deps.History.Options).Methods(http.MethodOptions)
	protected.HandleFunc("/continue-watching", deps.History.ContinueWatching).Methods(http.MethodGet)
	protected.HandleFunc("/continue-watching", deps.History.Options).Methods(http.MethodOptions)

	protected.HandleFunc("/preferences", deps.Preferences.Get).Methods(http.MethodGet)
	protected.HandleFunc("/preferences", deps.Preferences.Put).Methods(http.MethodPut)
	protected.HandleFunc("/preferences", deps.Preferences.Options).Methods(http.MethodOptions)
}
