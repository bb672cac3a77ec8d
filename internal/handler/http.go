package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/notehub-gamification/internal/domain"
	"github.com/notehub-gamification/internal/service"
)

// Handler provides HTTP handlers for the gamification API
type Handler struct {
	engine   *service.Engine
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(engine *service.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		logger:   logger,
		validate: validator.New(),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Activity ingestion
		r.Post("/activity", h.SubmitActivity)

		// Points
		r.Post("/points/award", h.AwardPoints)

		// Per-user reads and actions
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/init", h.InitUser)
			r.Get("/points", h.GetPoints)
			r.Get("/points/history", h.GetPointsHistory)
			r.Get("/streak", h.GetStreak)
			r.Get("/achievements", h.ListAchievements)
			r.Post("/achievements/check", h.CheckAchievements)
			r.Get("/referral", h.GetReferral)
			r.Get("/referral/milestones", h.GetReferralMilestones)
		})

		// Referrals
		r.Post("/referrals/apply", h.ApplyReferral)
		r.Post("/referrals/first-upload", h.FirstUploadReward)

		// Leaderboard
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Post("/leaderboard/refresh", h.RefreshLeaderboard)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// writeServiceError maps domain errors onto HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// decodeValid decodes a JSON body and runs struct validation on it
func (h *Handler) decodeValid(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidRequest
	}
	if err := h.validate.Struct(dst); err != nil {
		return domain.ErrInvalidRequest
	}
	return nil
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

// ActivityRequest is one qualifying user action submitted over HTTP
type ActivityRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required"`
}

// SubmitActivity runs one activity event through the full pipeline
func (h *Handler) SubmitActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	event := domain.ActivityEvent{
		UserID:     req.UserID,
		Action:     domain.Action(req.Action),
		OccurredAt: time.Now().UTC(),
	}
	if err := h.engine.HandleActivity(r.Context(), event); err != nil {
		h.writeServiceError(w, "submit activity", err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "processed"})
}

// AwardPointsRequest awards points for an action, optionally overriding the
// static value
type AwardPointsRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Action   string `json:"action" validate:"required"`
	Override *int   `json:"override,omitempty"`
}

// AwardPoints applies a single point award outside the event pipeline
func (h *Handler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	var req AwardPointsRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.engine.Points.Award(r.Context(), req.UserID, domain.Action(req.Action), req.Override)
	if err != nil {
		h.writeServiceError(w, "award points", err)
		return
	}

	h.writeSuccess(w, rec)
}

// InitUser lazily provisions the user's gamification records
func (h *Handler) InitUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	h.engine.InitUserRecords(r.Context(), userID)
	h.writeSuccess(w, map[string]string{"status": "initialized"})
}

// GetPoints returns the user's points record and level breakdown
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, info, err := h.engine.Points.Get(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "get points", err)
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"points": rec,
		"level":  info,
	})
}

// GetPointsHistory returns a page of the user's point history
func (h *Handler) GetPointsHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	events, err := h.engine.Points.History(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeServiceError(w, "get points history", err)
		return
	}

	h.writeSuccess(w, events)
}

// GetStreak returns the user's streak record
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := h.engine.Streaks.Get(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "get streak", err)
		return
	}

	h.writeSuccess(w, rec)
}

// ListAchievements returns the full catalog with the user's unlock state
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	statuses, err := h.engine.Achievements.List(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "list achievements", err)
		return
	}

	h.writeSuccess(w, statuses)
}

// CheckAchievements re-evaluates the catalog against fresh stats
func (h *Handler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	unlocked, err := h.engine.Achievements.CheckAndUnlock(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "check achievements", err)
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"newly_unlocked": unlocked,
		"count":          len(unlocked),
	})
}

// GetReferral returns the user's referral record, minting a code on first use
func (h *Handler) GetReferral(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := h.engine.Referrals.EnsureRecord(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "get referral", err)
		return
	}

	h.writeSuccess(w, rec)
}

// GetReferralMilestones reports earned and upcoming referral milestones
func (h *Handler) GetReferralMilestones(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	status, err := h.engine.Referrals.Milestones(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, "get referral milestones", err)
		return
	}

	h.writeSuccess(w, status)
}

// ApplyReferralRequest redeems a referral code for the applicant
type ApplyReferralRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Code   string `json:"code" validate:"required,min=4,max=16"`
}

// ApplyReferral redeems a referral code on behalf of the applicant
func (h *Handler) ApplyReferral(w http.ResponseWriter, r *http.Request) {
	var req ApplyReferralRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := h.engine.Referrals.Apply(r.Context(), req.UserID, req.Code)
	if err != nil {
		h.writeServiceError(w, "apply referral", err)
		return
	}

	h.writeSuccess(w, summary)
}

// FirstUploadRewardRequest pays the referrer's first-upload bonus for a
// referred user. Safe to replay; the claim is idempotent.
type FirstUploadRewardRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// FirstUploadReward triggers the referrer's first-upload bonus directly,
// for callers that do not go through the activity pipeline
func (h *Handler) FirstUploadReward(w http.ResponseWriter, r *http.Request) {
	var req FirstUploadRewardRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.engine.Referrals.FirstUploadReward(r.Context(), req.UserID); err != nil {
		h.writeServiceError(w, "first upload reward", err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "processed"})
}

// GetLeaderboard serves a ranked leaderboard for a scope
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := domain.Scope(q.Get("scope"))
	if scope == "" {
		scope = domain.ScopeAllIndia
	}
	filter := q.Get("filter")
	limit, _ := strconv.Atoi(q.Get("limit"))
	requesterID := q.Get("user_id")

	view, err := h.engine.Leaderboard.Get(r.Context(), scope, filter, limit, requesterID)
	if err != nil {
		h.writeServiceError(w, "get leaderboard", err)
		return
	}

	h.writeSuccess(w, view)
}

// RefreshLeaderboard drops every cached leaderboard snapshot
func (h *Handler) RefreshLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Leaderboard.Refresh(r.Context()); err != nil {
		h.writeServiceError(w, "refresh leaderboard", err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "refreshed"})
}
