package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocodejam/badge-engine/badges"
	"github.com/nocodejam/badge-engine/logger"
	"github.com/nocodejam/badge-engine/metrics"
	"github.com/nocodejam/badge-engine/models"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

// emptyBadges is a badge store with no rows.
type emptyBadges struct{ err error }

func (b emptyBadges) GetAll(ctx context.Context) ([]models.BadgeRecord, error) { return nil, b.err }
func (b emptyBadges) Get(ctx context.Context, id string) (models.BadgeRecord, error) {
	return models.BadgeRecord{}, b.err
}
func (b emptyBadges) Create(ctx context.Context, r models.BadgeRecord) (models.BadgeRecord, error) {
	return r, b.err
}
func (b emptyBadges) Update(ctx context.Context, r models.BadgeRecord) (models.BadgeRecord, error) {
	return r, b.err
}
func (b emptyBadges) Upsert(ctx context.Context, r models.BadgeRecord) error { return b.err }
func (b emptyBadges) Delete(ctx context.Context, id string) error            { return b.err }

func newTestApp(db Pinger) *Application {
	return &Application{
		Config: Config{AllowedOrigins: []string{"https://nocodejam.dev"}},
		DB:     db,
		Badges: &badges.Service{
			Badges: emptyBadges{},
			Seeds:  badges.DefaultSeeds(),
		},
		Log:     logger.NewNop(),
		Metrics: metrics.New(),
	}
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.BuildRoutes(http.NewServeMux()).ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	app := newTestApp(stubPinger{})

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Badge Engine")

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newTestApp(db)

	mock.ExpectPing()
	rec := serve(app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = serve(app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HandlerError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Service Unavailable", body.ErrorName)
	assert.Contains(t, body.Description, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthz_RequiresGet(t *testing.T) {
	rec := serve(newTestApp(stubPinger{}), httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestListBadges(t *testing.T) {
	rec := serve(newTestApp(stubPinger{}), httptest.NewRequest(http.MethodGet, "/v1/badges", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog []models.BadgeDefinition
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&catalog))
	assert.Len(t, catalog, len(badges.DefaultSeeds()))
	assert.Equal(t, "First Steps", catalog[0].Name)
}

func TestListBadges_StorageDownStillServesSeeds(t *testing.T) {
	app := newTestApp(stubPinger{})
	app.Badges.Badges = emptyBadges{err: errors.New("timeout")}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/badges", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(stubPinger{})
	app.Metrics.ObserveAward("b1")

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nocodejam_badges_awarded_total{badge_id="b1"} 1`)
}

func TestOrigins(t *testing.T) {
	app := newTestApp(stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://nocodejam.dev")
	rec := serve(app, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://nocodejam.dev", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	assert.Equal(t, http.StatusOK, serve(app, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = serve(app, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "origin not allowed"))
}
