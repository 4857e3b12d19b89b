package api

import (
	"encoding/json"
	"net/http"

	"streamerverse/handlers"
	"streamerverse/services/sessions"
)

// SessionAuthMiddleware resolves the session cookie to a user ID and puts
// it on the request context. Requests without a live session get a 401.
func SessionAuthMiddleware(sessionsSvc *sessions.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Preflight requests carry no cookies.
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(handlers.SessionCookieName)
			if err != nil {
				unauthorized(w, "authentication required")
				return
			}

			session, err := sessionsSvc.Get(cookie.Value)
			if err != nil {
				unauthorized(w, "session expired or invalid")
				return
			}

			ctx := handlers.WithUserID(r.Context(), session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
