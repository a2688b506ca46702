package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nocodejam/badge-engine/badges"
)

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "NoCodeJam Badge Engine")
}

// GET /healthz
func (app *Application) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.DB.PingContext(ctx); err != nil {
		app.serviceUnavailable(w, r, fmt.Errorf("database ping failed: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GET /v1/badges
func (app *Application) listBadges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.requireGetMethod(w, r, ErrGET)
		return
	}

	catalog, err := app.Badges.ListBadges(r.Context())
	if err != nil {
		if errors.Is(err, badges.ErrDataUnavailable) {
			app.serviceUnavailable(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(catalog); err != nil {
		app.Log.Error("failed to encode badge catalog", "error", err)
	}
}
