package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/internal/contracts"
	"github.com/lumehq/customeriq/backend/internal/segmentconfig"
	"github.com/lumehq/customeriq/backend/pkg/config"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

type stubSegmentRepo struct {
	latest *contracts.SegmentationResult
}

func (s *stubSegmentRepo) SaveBatch(ctx context.Context, runDate time.Time, assignments []contracts.SegmentAssignment) error {
	return nil
}

func (s *stubSegmentRepo) GetLatestRun(ctx context.Context) (*contracts.SegmentationResult, error) {
	return s.latest, nil
}

func newLatestRunHandler(segments contracts.SegmentRepository) *AnalyticsHandler {
	cfg := &config.Config{LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)
	svc := analytics.New(cfg, segmentconfig.Default(), nil, nil, segments, nil, log)
	return NewAnalyticsHandler(svc, log)
}

func TestGetLatestRun(t *testing.T) {
	runAt := time.Date(2026, 8, 1, 2, 0, 0, 0, time.UTC)
	handler := newLatestRunHandler(&stubSegmentRepo{
		latest: &contracts.SegmentationResult{
			Status: contracts.StatusOK,
			RunAt:  runAt,
			Assignments: []contracts.SegmentAssignment{
				{CustomerID: "C001", Segment: contracts.SegmentChampions},
			},
		},
	})

	rec := httptest.NewRecorder()
	handler.GetLatestRun(rec, httptest.NewRequest("GET", "/api/segments/latest", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.SegmentationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, runAt, result.RunAt)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, contracts.SegmentChampions, result.Assignments[0].Segment)
}

func TestGetLatestRun_NoRuns(t *testing.T) {
	// Nil result from the repository means nothing was persisted yet.
	handler := newLatestRunHandler(&stubSegmentRepo{})

	rec := httptest.NewRecorder()
	handler.GetLatestRun(rec, httptest.NewRequest("GET", "/api/segments/latest", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLatestRun_WithoutPersistence(t *testing.T) {
	// Offline sources run with no segment repository at all.
	handler := newLatestRunHandler(nil)

	rec := httptest.NewRecorder()
	handler.GetLatestRun(rec, httptest.NewRequest("GET", "/api/segments/latest", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
