package dashboard

import (
	"sort"
	"strconv"
	"time"

	readings "condmon-cloud/internal/readings/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// SeriesPoint is one (timestamp, value) pair on a chart line.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is one plot-ready line: a distinct point measurement labeled with
// its unit.
type Series struct {
	Label  string        `json:"label"`
	Points []SeriesPoint `json:"points"`
}

// HistoricalRow is one display row of the historical table. Tier is advisory
// styling only; it never filters rows.
type HistoricalRow struct {
	PointMeasurement string `json:"point_measurement"`
	Timestamp        string `json:"timestamp"`
	Value            string `json:"value"`
	Unit             string `json:"unit"`
	Status           string `json:"status"`
	Note             string `json:"note"`
	Tier             Tier   `json:"tier"`
}

// ChartSeries groups the filtered subset into one series per distinct point
// measurement, each sorted ascending by timestamp with original order kept on
// ties. Series are ordered by point name, matching the candidate lists.
func ChartSeries(subset []readings.Reading) []Series {
	byPoint := make(map[string][]readings.Reading)
	for _, r := range subset {
		byPoint[r.PointMeasurement] = append(byPoint[r.PointMeasurement], r)
	}

	names := make([]string, 0, len(byPoint))
	for name := range byPoint {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]Series, 0, len(names))
	for _, name := range names {
		group := byPoint[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		points := make([]SeriesPoint, 0, len(group))
		for _, r := range group {
			points = append(points, SeriesPoint{Timestamp: r.Timestamp, Value: r.Value})
		}
		series = append(series, Series{
			Label:  name + " (" + group[0].Unit + ")",
			Points: points,
		})
	}
	return series
}

// HistoricalTable projects the filtered subset to display rows, sorted
// descending by timestamp with a stable tie-break, each row classified for
// styling.
func HistoricalTable(subset []readings.Reading) []HistoricalRow {
	ordered := append([]readings.Reading(nil), subset...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})

	rows := make([]HistoricalRow, 0, len(ordered))
	for _, r := range ordered {
		rows = append(rows, HistoricalRow{
			PointMeasurement: r.PointMeasurement,
			Timestamp:        FormatTimestamp(r.Timestamp),
			Value:            FormatValue(r.Value),
			Unit:             r.Unit,
			Status:           r.Status,
			Note:             r.Note,
			Tier:             Classify(r.Status),
		})
	}
	return rows
}

// FormatTimestamp renders a timestamp as YYYY-MM-DD, with the clock appended
// only when the instant is not midnight.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// FormatValue renders a value with general precision: no fixed decimal
// padding, integers without trailing zeros.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
