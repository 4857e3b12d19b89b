package utils

import (
	"github.com/gorilla/mux"
	"github.com/sethvargo/go-password/password"
)

// NewRouter constructs the application router with shared defaults.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(true)
	return r
}

// GeneratePassword produces a random password for bootstrap accounts.
func GeneratePassword() (string, error) {
	return password.Generate(16, 4, 0, false, false)
}
