package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	readings "condmon-cloud/internal/readings/domain"
)

type stubSource struct {
	snapshot *readings.Snapshot
	err      error
	refreshn int
}

func (s *stubSource) Snapshot(_ context.Context) (*readings.Snapshot, error) {
	return s.snapshot, s.err
}

func (s *stubSource) Refresh(_ context.Context) (*readings.Snapshot, error) {
	s.refreshn++
	return s.snapshot, s.err
}

func testSnapshot(t *testing.T) *readings.Snapshot {
	t.Helper()
	index, err := readings.NewBandIndex([]readings.AlarmBand{
		{AlarmStandard: "ISO-10816", Parameter: "Velocity", Acceptable: "2.8 - 7.1"},
	}, []readings.JoinKey{readings.JoinAlarmStandard})
	if err != nil {
		t.Fatalf("new band index: %v", err)
	}
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &readings.Snapshot{
		Readings: []readings.Reading{
			{EquipmentName: "Pump-1", Component: "Bearing", PointMeasurement: "Vibration-X", Timestamp: base, Value: 2.1, Unit: "mm/s", Status: "Excellent", AlarmStandard: "ISO-10816"},
			{EquipmentName: "Pump-1", Component: "Bearing", PointMeasurement: "Vibration-X", Timestamp: base.AddDate(0, 0, 1), Value: 5.9, Unit: "mm/s", Status: "Unacceptable", AlarmStandard: "ISO-10816"},
		},
		Bands:    index,
		LoadedAt: base,
	}
}

func TestDashboardViewPopulated(t *testing.T) {
	handler, err := NewHandler(&stubSource{snapshot: testSnapshot(t)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?equipment=Pump-1&component=Bearing&point=Vibration-X", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		State   string `json:"state"`
		Series  []any  `json:"series"`
		History []struct {
			Tier string `json:"tier"`
		} `json:"history"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.State != "populated" {
		t.Fatalf("expected populated state, got %q", body.State)
	}
	if len(body.Series) != 1 || len(body.History) != 2 {
		t.Fatalf("expected 1 series and 2 history rows, got %d/%d", len(body.Series), len(body.History))
	}
	if body.History[0].Tier != "unacceptable" {
		t.Fatalf("expected unacceptable tier on newest row, got %q", body.History[0].Tier)
	}
}

func TestDashboardViewNoPointSelection(t *testing.T) {
	handler, err := NewHandler(&stubSource{snapshot: testSnapshot(t)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?equipment=Pump-1&component=Bearing", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for informational outcome, got %d", resp.Code)
	}
	var body struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.State != "no_point_selection" {
		t.Fatalf("expected no_point_selection, got %q", body.State)
	}
}

func TestDashboardViewSourceError(t *testing.T) {
	handler, err := NewHandler(&stubSource{err: errors.New("load failed")})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestDashboardOptionsCascade(t *testing.T) {
	handler, err := NewHandler(&stubSource{snapshot: testSnapshot(t)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/options?equipment=Pump-1", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Equipment  []string `json:"equipment"`
		Components []string `json:"components"`
		Points     []string `json:"points"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Equipment) != 1 || body.Equipment[0] != "Pump-1" {
		t.Fatalf("expected equipment candidates, got %v", body.Equipment)
	}
	if len(body.Components) != 1 || body.Components[0] != "Bearing" {
		t.Fatalf("expected component candidates, got %v", body.Components)
	}
	if body.Points != nil {
		t.Fatalf("expected no point candidates without component, got %v", body.Points)
	}
}

func TestRefreshHandlerPostOnly(t *testing.T) {
	source := &stubSource{snapshot: testSnapshot(t)}
	handler, err := NewRefreshHandler(source, nil)
	if err != nil {
		t.Fatalf("new refresh handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshot/refresh", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/snapshot/refresh", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if source.refreshn != 1 {
		t.Fatalf("expected one forced refresh, got %d", source.refreshn)
	}
}
