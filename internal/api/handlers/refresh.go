package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lumehq/customeriq/backend/internal/analytics"
	"github.com/lumehq/customeriq/backend/pkg/logger"
)

// RefreshHandler triggers analytics recomputes and streams their progress
type RefreshHandler struct {
	service  *analytics.Service
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(service *analytics.Service, log *logger.Logger) *RefreshHandler {
	return &RefreshHandler{
		service: service,
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API serves internal dashboards; no origin restriction.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Refresh recomputes all analytics synchronously
// POST /api/refresh
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Refresh(r.Context(), nil)
	if err != nil {
		h.logger.WithError(err).Error("Refresh failed")
		respondError(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// refreshEvent is one websocket frame during a streamed refresh.
type refreshEvent struct {
	Type     string                    `json:"type"` // "progress", "done", "error"
	Progress *analytics.Progress       `json:"progress,omitempty"`
	Summary  *analytics.RefreshSummary `json:"summary,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// RefreshWS recomputes all analytics, streaming progress events over a
// websocket until the run finishes
// GET /api/refresh/ws
func (h *RefreshHandler) RefreshWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Progress callbacks arrive from the refresh goroutine; writes stay on
	// this goroutine because gorilla connections allow one writer only.
	events := make(chan analytics.Progress, 16)
	type outcome struct {
		summary *analytics.RefreshSummary
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		summary, err := h.service.Refresh(r.Context(), func(p analytics.Progress) {
			events <- p
		})
		close(events)
		done <- outcome{summary: summary, err: err}
	}()

	for p := range events {
		progress := p
		if err := conn.WriteJSON(refreshEvent{Type: "progress", Progress: &progress}); err != nil {
			h.logger.WithError(err).Warn("Websocket write failed")
			// Drain remaining events so the refresh goroutine can finish.
			for range events {
			}
			<-done
			return
		}
	}

	result := <-done
	if result.err != nil {
		h.logger.WithError(result.err).Error("Streamed refresh failed")
		_ = conn.WriteJSON(refreshEvent{Type: "error", Error: result.err.Error()})
		return
	}

	if err := conn.WriteJSON(refreshEvent{Type: "done", Summary: result.summary}); err != nil {
		h.logger.WithError(err).Warn("Websocket write failed")
	}
}
