package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	readings "condmon-cloud/internal/readings/domain"
)

const (
	defaultReadingsTable = "data"
	defaultBandsTable    = "alarm"
)

// Loader bulk-loads the working set from Postgres: one readings query and
// one alarm-band query. Band association happens in memory so the join-key
// list stays configuration, not SQL.
type Loader struct {
	db            *sql.DB
	readingsTable string
	bandsTable    string
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithReadingsTable overrides the readings table name.
func WithReadingsTable(table string) LoaderOption {
	return func(l *Loader) {
		if l != nil && table != "" {
			l.readingsTable = table
		}
	}
}

// WithBandsTable overrides the alarm-band table name.
func WithBandsTable(table string) LoaderOption {
	return func(l *Loader) {
		if l != nil && table != "" {
			l.bandsTable = table
		}
	}
}

// NewLoader constructs a loader with default table names.
func NewLoader(db *sql.DB, opts ...LoaderOption) *Loader {
	loader := &Loader{db: db, readingsTable: defaultReadingsTable, bandsTable: defaultBandsTable}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load returns all readings with a non-null value plus the full alarm-band
// reference set. Rows whose timestamp does not resolve to an instant come
// back with a zero timestamp and are dropped upstream.
func (l *Loader) Load(ctx context.Context) ([]readings.Reading, []readings.AlarmBand, error) {
	if l == nil || l.db == nil {
		return nil, nil, errors.New("readings loader: nil db")
	}

	loaded, err := l.loadReadings(ctx)
	if err != nil {
		return nil, nil, err
	}
	bands, err := l.loadBands(ctx)
	if err != nil {
		return nil, nil, err
	}
	return loaded, bands, nil
}

func (l *Loader) loadReadings(ctx context.Context) ([]readings.Reading, error) {
	query := fmt.Sprintf(`
SELECT date, equipment_tag_id, equipment_name, component, point_measurement,
	value, unit, status, note, alarm_standard, key, technology
FROM %s
WHERE value IS NOT NULL`, l.readingsTable)

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []readings.Reading
	for rows.Next() {
		var (
			date          any
			tagID         sql.NullString
			equipment     sql.NullString
			component     sql.NullString
			point         sql.NullString
			value         sql.NullFloat64
			unit          sql.NullString
			status        sql.NullString
			note          sql.NullString
			alarmStandard sql.NullString
			key           sql.NullString
			technology    sql.NullString
		)
		if err := rows.Scan(&date, &tagID, &equipment, &component, &point,
			&value, &unit, &status, &note, &alarmStandard, &key, &technology); err != nil {
			return nil, err
		}
		if !value.Valid {
			continue
		}
		result = append(result, readings.Reading{
			EquipmentTagID:   tagID.String,
			EquipmentName:    equipment.String,
			Component:        component.String,
			PointMeasurement: point.String,
			Timestamp:        coerceTimestamp(date),
			Value:            value.Float64,
			Unit:             unit.String,
			Status:           status.String,
			Note:             note.String,
			AlarmStandard:    alarmStandard.String,
			Key:              key.String,
			Technology:       technology.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Loader) loadBands(ctx context.Context) ([]readings.AlarmBand, error) {
	query := fmt.Sprintf(`
SELECT alarm_standard, key, parameter, excellent, acceptable,
	requires_evaluation, unacceptable, al_set, load_kw
FROM %s`, l.bandsTable)

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []readings.AlarmBand
	for rows.Next() {
		var (
			alarmStandard sql.NullString
			key           sql.NullString
			parameter     sql.NullString
			excellent     sql.NullString
			acceptable    sql.NullString
			requiresEval  sql.NullString
			unacceptable  sql.NullString
			alarmSetPoint sql.NullString
			ratedLoad     sql.NullString
		)
		if err := rows.Scan(&alarmStandard, &key, &parameter, &excellent, &acceptable,
			&requiresEval, &unacceptable, &alarmSetPoint, &ratedLoad); err != nil {
			return nil, err
		}
		result = append(result, readings.AlarmBand{
			AlarmStandard:      alarmStandard.String,
			Key:                key.String,
			Parameter:          parameter.String,
			Excellent:          excellent.String,
			Acceptable:         acceptable.String,
			RequiresEvaluation: requiresEval.String,
			Unacceptable:       unacceptable.String,
			AlarmSetPoint:      alarmSetPoint.String,
			RatedLoad:          ratedLoad.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// coerceTimestamp accepts the timestamp column as either a native timestamp
// or text. Anything else resolves to the zero time and the row is dropped.
func coerceTimestamp(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v.UTC()
	case []byte:
		parsed, err := readings.ParseTimestamp(string(v))
		if err != nil {
			return time.Time{}
		}
		return parsed
	case string:
		parsed, err := readings.ParseTimestamp(v)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}
