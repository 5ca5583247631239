package dashboard

import (
	readings "condmon-cloud/internal/readings/domain"
)

// BandRow is one row of the alarm-band display table. A reading without a
// matching band still produces a row; the band descriptors stay blank.
type BandRow struct {
	PointMeasurement   string `json:"point_measurement"`
	AlarmStandard      string `json:"alarm_standard"`
	Parameter          string `json:"parameter"`
	Excellent          string `json:"excellent"`
	Acceptable         string `json:"acceptable"`
	RequiresEvaluation string `json:"requires_evaluation"`
	Unacceptable       string `json:"unacceptable"`
	AlarmSetPoint      string `json:"alarm_set_point"`
	RatedLoad          string `json:"rated_load"`
	Unit               string `json:"unit"`
}

// AlarmBandTable surfaces the distinct band configurations referenced by the
// filtered subset. Duplicates collapse by full-tuple equality and rows keep
// the insertion order of their first occurrence; the ordering is a display
// convenience, not a sort guarantee.
func AlarmBandTable(subset []readings.Reading, index *readings.BandIndex) []BandRow {
	seen := make(map[BandRow]struct{})
	var rows []BandRow
	for _, r := range subset {
		row := BandRow{
			PointMeasurement: r.PointMeasurement,
			AlarmStandard:    r.AlarmStandard,
			Unit:             r.Unit,
		}
		if band, ok := index.Resolve(r); ok {
			row.Parameter = band.Parameter
			row.Excellent = band.Excellent
			row.Acceptable = band.Acceptable
			row.RequiresEvaluation = band.RequiresEvaluation
			row.Unacceptable = band.Unacceptable
			row.AlarmSetPoint = band.AlarmSetPoint
			row.RatedLoad = band.RatedLoad
		}
		if _, ok := seen[row]; ok {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}
