package dashboard

import (
	"testing"

	readings "condmon-cloud/internal/readings/domain"
)

func scenarioSnapshot(t *testing.T) *readings.Snapshot {
	t.Helper()
	index, err := readings.NewBandIndex([]readings.AlarmBand{
		{AlarmStandard: "ISO-10816", Parameter: "Velocity", Excellent: "< 2.8", Acceptable: "2.8 - 7.1", RequiresEvaluation: "7.1 - 11", Unacceptable: "> 11"},
	}, []readings.JoinKey{readings.JoinAlarmStandard})
	if err != nil {
		t.Fatalf("new band index: %v", err)
	}
	return &readings.Snapshot{
		Readings: []readings.Reading{
			{EquipmentName: "Pump-1", Component: "Bearing", PointMeasurement: "Vibration-X", Timestamp: day(1), Value: 2.1, Unit: "mm/s", Status: "Excellent", AlarmStandard: "ISO-10816"},
			{EquipmentName: "Pump-1", Component: "Bearing", PointMeasurement: "Vibration-X", Timestamp: day(2), Value: 5.9, Unit: "mm/s", Status: "Unacceptable", AlarmStandard: "ISO-10816"},
		},
		Bands: index,
	}
}

func TestBuildViewScenario(t *testing.T) {
	view := BuildView(scenarioSnapshot(t), Selection{
		Equipment: "Pump-1",
		Component: "Bearing",
		Points:    []string{"Vibration-X"},
	})

	if view.State != ViewPopulated {
		t.Fatalf("expected populated view, got %q", view.State)
	}
	if len(view.Series) != 1 || view.Series[0].Label != "Vibration-X (mm/s)" {
		t.Fatalf("expected one series labeled Vibration-X (mm/s), got %+v", view.Series)
	}
	points := view.Series[0].Points
	if len(points) != 2 || points[0].Value != 2.1 || points[1].Value != 5.9 {
		t.Fatalf("expected ascending points 2.1, 5.9, got %+v", points)
	}
	if len(view.History) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(view.History))
	}
	if view.History[0].Timestamp != "2024-01-02" {
		t.Fatalf("expected newest row first, got %s", view.History[0].Timestamp)
	}
	if view.History[0].Tier != TierUnacceptable {
		t.Fatalf("expected unacceptable tier on the 5.9 row, got %q", view.History[0].Tier)
	}
	if len(view.AlarmBands) != 1 || view.AlarmBands[0].Acceptable != "2.8 - 7.1" {
		t.Fatalf("expected one band row, got %+v", view.AlarmBands)
	}
}

func TestBuildViewNoPointSelection(t *testing.T) {
	view := BuildView(scenarioSnapshot(t), Selection{Equipment: "Pump-1", Component: "Bearing"})
	if view.State != ViewNoPointSelection {
		t.Fatalf("expected no_point_selection, got %q", view.State)
	}
	if len(view.Series) != 0 || len(view.History) != 0 || len(view.AlarmBands) != 0 {
		t.Fatalf("expected empty collections, got %+v", view)
	}
}

func TestBuildViewEmptySnapshot(t *testing.T) {
	view := BuildView(&readings.Snapshot{}, Selection{Points: []string{"Vibration-X"}})
	if view.State != ViewEmpty {
		t.Fatalf("expected empty view, got %q", view.State)
	}
	view = BuildView(nil, Selection{Points: []string{"Vibration-X"}})
	if view.State != ViewEmpty {
		t.Fatalf("expected empty view on nil snapshot, got %q", view.State)
	}
}

func TestBuildViewUnsatisfiableSelection(t *testing.T) {
	view := BuildView(scenarioSnapshot(t), Selection{
		Equipment: "Pump-1",
		Component: "Gearbox",
		Points:    []string{"Vibration-X"},
	})
	if view.State != ViewEmpty {
		t.Fatalf("expected empty view for stale component, got %q", view.State)
	}
}
