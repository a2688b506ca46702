package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nocodejam/badge-engine/models"
)

const maxBadgeBody = 1 << 20

// POST, PUT, DELETE /v1/admin/badges
func (app *Application) adminBadges(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		app.createBadge(w, r)
	case http.MethodPut:
		app.updateBadge(w, r)
	case http.MethodDelete:
		app.deleteBadge(w, r)
	default:
		app.methodNotAllowed(w, r, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

func (app *Application) decodeBadge(w http.ResponseWriter, r *http.Request) (models.BadgeDefinition, bool) {
	var def models.BadgeDefinition
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBadgeBody)).Decode(&def); err != nil {
		app.badJSONRequest(w, r, err)
		return models.BadgeDefinition{}, false
	}
	return def, true
}

func (app *Application) createBadge(w http.ResponseWriter, r *http.Request) {
	def, ok := app.decodeBadge(w, r)
	if !ok {
		return
	}

	created, err := app.Badges.CreateBadge(r.Context(), def)
	if err != nil {
		app.badgeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (app *Application) updateBadge(w http.ResponseWriter, r *http.Request) {
	def, ok := app.decodeBadge(w, r)
	if !ok {
		return
	}
	if def.ID == "" {
		app.badRequest(w, r, errors.New("badge id is required"))
		return
	}

	updated, err := app.Badges.UpdateBadge(r.Context(), def)
	if err != nil {
		app.badgeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (app *Application) deleteBadge(w http.ResponseWriter, r *http.Request) {
	badgeID := r.URL.Query().Get("id")
	if badgeID == "" {
		app.badRequest(w, r, errors.New("id query parameter is required"))
		return
	}

	if err := app.Badges.DeleteBadge(r.Context(), badgeID); err != nil {
		app.badgeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /v1/admin/badges/process
func (app *Application) processBadges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	if err := app.Batch.RunOnce(r.Context()); err != nil {
		app.badgeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
}
