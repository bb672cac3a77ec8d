package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/notehub-gamification/internal/config"
	"github.com/notehub-gamification/internal/service"
)

// newValidationHandler builds a handler whose engine only ever reaches the
// request-validation paths, so no store is needed behind it.
func newValidationHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(discard{}, nil))
	lb := service.NewLeaderboardService(nil, nil, &config.LeaderboardConfig{
		DefaultLimit: 50,
		MaxLimit:     500,
	}, logger)
	engine := service.NewEngine(nil, nil, nil, nil, lb, nil, logger)
	return NewHandler(engine, logger)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSubmitActivityRejectsMalformedBody(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitActivityRequiresFields(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activity", strings.NewReader(`{"user_id":"u1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when action is missing", rec.Code)
	}
}

func TestApplyReferralRequiresCode(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals/apply", strings.NewReader(`{"user_id":"u2","code":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty code", rec.Code)
	}
}

func TestGetLeaderboardRejectsUnknownScope(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?scope=galaxy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown scope", rec.Code)
	}
}

func TestGetLeaderboardRejectsMissingFilter(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?scope=college", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for scoped query without filter", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newValidationHandler()
	router := h.Router()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
