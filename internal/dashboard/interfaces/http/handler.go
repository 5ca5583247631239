package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"condmon-cloud/internal/audit"
	"condmon-cloud/internal/auth"
	dashboard "condmon-cloud/internal/dashboard/domain"
	"condmon-cloud/internal/observability/metrics"
	readings "condmon-cloud/internal/readings/domain"
)

// SnapshotSource hands out the cached working set.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*readings.Snapshot, error)
	Refresh(ctx context.Context) (*readings.Snapshot, error)
}

// Handler serves the dashboard view and the cascade candidate lists.
type Handler struct {
	source SnapshotSource
}

// NewHandler constructs a Handler.
func NewHandler(source SnapshotSource) (*Handler, error) {
	if source == nil {
		return nil, errors.New("dashboard handler: nil snapshot source")
	}
	return &Handler{source: source}, nil
}

// ServeHTTP routes dashboard requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/v1/dashboard":
		h.handleView(w, r)
	case "/api/v1/dashboard/options":
		h.handleOptions(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type viewResponse struct {
	dashboard.View
	LoadedAt time.Time `json:"loaded_at"`
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "working set unavailable", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	view := dashboard.BuildView(snapshot, selectionFromRequest(r))
	metrics.ObserveDashboardRender(string(view.State), time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(viewResponse{View: view, LoadedAt: snapshot.LoadedAt})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "working set unavailable", http.StatusServiceUnavailable)
		return
	}

	options := dashboard.CascadeOptions(snapshot.Readings, selectionFromRequest(r))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(options)
}

// RefreshHandler forces a cache invalidation and reload.
type RefreshHandler struct {
	source      SnapshotSource
	auditLogger audit.Logger
}

// NewRefreshHandler constructs a RefreshHandler.
func NewRefreshHandler(source SnapshotSource, auditLogger audit.Logger) (*RefreshHandler, error) {
	if source == nil {
		return nil, errors.New("refresh handler: nil snapshot source")
	}
	return &RefreshHandler{source: source, auditLogger: auditLogger}, nil
}

// ServeHTTP handles POST /api/v1/snapshot/refresh.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snapshot, err := h.source.Refresh(r.Context())
	if err != nil {
		http.Error(w, "refresh failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		LoadedAt time.Time `json:"loaded_at"`
		Readings int       `json:"readings"`
	}{LoadedAt: snapshot.LoadedAt, Readings: len(snapshot.Readings)})
	logAudit(r, h.auditLogger, "snapshot.refresh", "snapshot", "", nil)
}

func selectionFromRequest(r *http.Request) dashboard.Selection {
	query := r.URL.Query()
	return dashboard.Selection{
		Equipment: query.Get("equipment"),
		Component: query.Get("component"),
		Points:    query["point"],
	}
}

func logAudit(r *http.Request, logger audit.Logger, action, resourceType, resourceID string, metadata map[string]any) {
	if logger == nil {
		return
	}
	var payload json.RawMessage
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			payload = data
		}
	}
	_ = logger.Log(r.Context(), audit.Entry{
		TenantID:     auth.TenantIDFromContext(r.Context()),
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Equipment:    r.URL.Query().Get("equipment"),
		Metadata:     payload,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}
