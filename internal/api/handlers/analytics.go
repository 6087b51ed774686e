package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// AnalyticsHandler serves computed segmentation, cohort and journey results
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  log,
	}
}

// GetSegments returns the full segmentation result
// GET /api/segments
func (h *AnalyticsHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Segments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute segments")
		respondError(w, http.StatusInternalServerError, "Failed to compute segments")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SegmentSummaryResponse aggregates a segmentation run for dashboards
type SegmentSummaryResponse struct {
	Status        contracts.ResultStatus    `json:"status"`
	Reason        string                    `json:"reason,omitempty"`
	RunAt         string                    `json:"run_at"`
	TotalCount    int                       `json:"total_count"`
	SegmentCounts map[contracts.Segment]int `json:"segment_counts"`
	ChurnRatePct  float64                   `json:"churn_rate_pct"`
}

// GetSegmentSummary returns aggregate counts per segment
// GET /api/segments/summary
func (h *AnalyticsHandler) GetSegmentSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Segments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute segment summary")
		respondError(w, http.StatusInternalServerError, "Failed to compute segment summary")
		return
	}

	respondJSON(w, http.StatusOK, SegmentSummaryResponse{
		Status:        result.Status,
		Reason:        result.Reason,
		RunAt:         result.RunAt.Format("2006-01-02T15:04:05Z07:00"),
		TotalCount:    result.Count(),
		SegmentCounts: result.SegmentCounts(),
		ChurnRatePct:  result.ChurnRate(),
	})
}

// GetLatestRun returns the most recent persisted segmentation run
// GET /api/segments/latest
func (h *AnalyticsHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.LatestRun(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest run")
		respondError(w, http.StatusInternalServerError, "Failed to load latest run")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "No persisted segmentation run")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetCustomerSegment returns a single customer's assignment
// GET /api/segments/{customerID}
func (h *AnalyticsHandler) GetCustomerSegment(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerID"]

	result, err := h.service.Segments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute segments")
		respondError(w, http.StatusInternalServerError, "Failed to compute segments")
		return
	}

	assignment, ok := result.Get(customerID)
	if !ok {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

// GetRetention returns the cohort retention matrix
// GET /api/cohorts/retention
func (h *AnalyticsHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Retention(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build retention matrix")
		respondError(w, http.StatusInternalServerError, "Failed to build retention matrix")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetSequences returns the purchase sequence breakdown
// GET /api/journey/sequences
func (h *AnalyticsHandler) GetSequences(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Journey(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build journey sequences")
		respondError(w, http.StatusInternalServerError, "Failed to build journey sequences")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
