package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nocodejam/badge-engine/models"
)

var errNoToken = errors.New("no access token found")

// accessToken reads a bearer token from the Authorization header, falling
// back to the access token cookie.
func accessToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", errors.New("malformed authorization header")
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(models.JWT.ACCESS_COOKIE_NAME)
	if err != nil {
		return "", errNoToken
	}
	return cookie.Value, nil
}

// getUserFromJWT verifies the access token and loads the user it names.
func (app *Application) getUserFromJWT(r *http.Request) (models.User, error) {
	token, err := accessToken(r)
	if err != nil {
		return models.User{}, err
	}

	claims, err := models.ValidateJWTToken(token, app.Config.JwtSecret)
	if err != nil {
		return models.User{}, err
	}

	user, err := app.Users.Get(r.Context(), claims.Subject)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Verify user has Admin permissions
func (app *Application) verifyPermissions(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.Config.JwtSecret == "" {
			app.invalidAuthorization(w, r, errors.New("admin access is not configured"))
			return
		}

		user, err := app.getUserFromJWT(r)
		if err != nil {
			app.invalidAuthorization(w, r, err)
			return
		}

		if user.Kind != models.Admin {
			app.forbidden(w, r, ErrInvalidPrivelege)
			return
		}

		h.ServeHTTP(w, r)
	}
}
