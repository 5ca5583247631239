package readings

import "time"

// Reading is one equipment sensor observation from the condition-monitoring store.
type Reading struct {
	EquipmentTagID   string
	EquipmentName    string
	Component        string
	PointMeasurement string
	Timestamp        time.Time
	Value            float64
	Unit             string
	Status           string
	Note             string
	AlarmStandard    string
	Key              string
	Technology       string
}

// Valid reports whether a reading belongs in the working set. Rows with
// unparseable timestamps are dropped at load, never surfaced as errors.
func (r Reading) Valid() bool {
	return !r.Timestamp.IsZero()
}
