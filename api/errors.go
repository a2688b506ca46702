package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nocodejam/badge-engine/badges"
)

// Helper function to get caller information
func getCallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "[unknown]"
	}
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	CallerInfo       string `json:"callerInfo"`
}

var ErrGET = fmt.Errorf("GET method required for this endpoint")
var ErrPOST = fmt.Errorf("POST method required for this endpoint")
var ErrInvalidPrivelege = fmt.Errorf("invalid authentication privileges")

func writeError(w http.ResponseWriter, status int, handlerErr HandlerError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(handlerErr)
}

func (app *Application) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "Method Not Allowed",
		Description:      "method " + r.Method + " is not supported for this endpoint",
		PossibleSolution: "Use one of: " + strings.Join(allowed, ", "),
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) requireGetMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "GET Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use GET method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) requirePostMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "Post Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use POST method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) invalidAuthorization(w http.ResponseWriter, r *http.Request, err error) {
	app.Log.Debug("admin request rejected", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusUnauthorized, HandlerError{
		ErrorName:        "Error Authenticating for Endpoint",
		Description:      "Invalid Authentication",
		PossibleSolution: "Check your headers and ensure you're submitting a valid token",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) forbidden(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusForbidden, HandlerError{
		ErrorName:        "Insufficient Privileges",
		Description:      err.Error(),
		PossibleSolution: "Sign in with an admin account",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badJSONRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Error Parsing JSON",
		Description:      err.Error(),
		PossibleSolution: "Double check your JSON formatting",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Bad Request",
		Description:      err.Error(),
		PossibleSolution: "Check your request parameters",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.Log.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, HandlerError{
		ErrorName:        "Internal Server Error",
		Description:      err.Error(),
		PossibleSolution: "Internal Server Error requiring support",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) serviceUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	app.Log.Warn("dependency unavailable", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusServiceUnavailable, HandlerError{
		ErrorName:        "Service Unavailable",
		Description:      err.Error(),
		PossibleSolution: "Check database connectivity and retry",
		CallerInfo:       getCallerInfo(),
	})
}

// badgeError maps badge service errors to responses.
func (app *Application) badgeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *badges.InvalidBadgeDefinitionError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, HandlerError{
			ErrorName:        "Invalid Badge Definition",
			Description:      invalid.Error(),
			PossibleSolution: "Fix the badge name, id or criteria",
			CallerInfo:       getCallerInfo(),
		})
	case errors.Is(err, badges.ErrBadgeNotFound):
		writeError(w, http.StatusNotFound, HandlerError{
			ErrorName:        "Badge Not Found",
			Description:      err.Error(),
			PossibleSolution: "Check the badge id",
			CallerInfo:       getCallerInfo(),
		})
	case errors.Is(err, badges.ErrBadgeInUse):
		writeError(w, http.StatusConflict, HandlerError{
			ErrorName:        "Badge In Use",
			Description:      err.Error(),
			PossibleSolution: "Badges already awarded to users cannot be deleted",
			CallerInfo:       getCallerInfo(),
		})
	case errors.Is(err, badges.ErrDataUnavailable):
		app.serviceUnavailable(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
