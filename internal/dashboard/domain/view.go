package dashboard

import (
	readings "condmon-cloud/internal/readings/domain"
)

// ViewState distinguishes the recoverable empty outcomes from a populated
// render. None of them is a fault.
type ViewState string

const (
	// ViewPopulated means the selection matched rows.
	ViewPopulated ViewState = "populated"
	// ViewNoPointSelection means no point measurement was chosen yet.
	ViewNoPointSelection ViewState = "no_point_selection"
	// ViewEmpty means the dataset is empty or the selection is unsatisfiable.
	ViewEmpty ViewState = "empty"
)

// View is one fully assembled render pass: chart series, the styled
// historical table and the deduplicated alarm-band table.
type View struct {
	State      ViewState       `json:"state"`
	Series     []Series        `json:"series"`
	History    []HistoricalRow `json:"history"`
	AlarmBands []BandRow       `json:"alarm_bands"`
}

// BuildView runs the full pipeline over one snapshot: cascade narrowing, then
// reshaping and band resolution over the final subset. It is a pure function
// of its inputs and never mutates the snapshot.
func BuildView(snapshot *readings.Snapshot, sel Selection) View {
	if snapshot.Empty() {
		return View{State: ViewEmpty}
	}
	if !sel.HasPoints() {
		return View{State: ViewNoPointSelection}
	}
	subset := Narrow(snapshot.Readings, sel)
	if len(subset) == 0 {
		return View{State: ViewEmpty}
	}
	return View{
		State:      ViewPopulated,
		Series:     ChartSeries(subset),
		History:    HistoricalTable(subset),
		AlarmBands: AlarmBandTable(subset, snapshot.Bands),
	}
}
