package readings

import (
	"errors"
	"strings"
)

// AlarmBand is a named threshold configuration from the alarm reference table.
// The four band descriptors are textual on purpose: the reference data mixes
// numeric limits with ranges like "2.8 - 7.1".
type AlarmBand struct {
	AlarmStandard      string
	Key                string
	Parameter          string
	Excellent          string
	Acceptable         string
	RequiresEvaluation string
	Unacceptable       string
	AlarmSetPoint      string
	RatedLoad          string
}

// JoinKey names one reading/band column pair used for band association.
type JoinKey string

const (
	JoinAlarmStandard    JoinKey = "alarm_standard"
	JoinKeyColumn        JoinKey = "key"
	JoinPointMeasurement JoinKey = "point_measurement"
)

// Valid returns true when the join key is supported.
func (k JoinKey) Valid() bool {
	switch k {
	case JoinAlarmStandard, JoinKeyColumn, JoinPointMeasurement:
		return true
	default:
		return false
	}
}

// ValidateJoinKeys checks a configured join-key list.
func ValidateJoinKeys(keys []JoinKey) error {
	if len(keys) == 0 {
		return errors.New("readings: empty band join key list")
	}
	seen := make(map[JoinKey]struct{}, len(keys))
	for _, key := range keys {
		if !key.Valid() {
			return errors.New("readings: unsupported band join key " + string(key))
		}
		if _, ok := seen[key]; ok {
			return errors.New("readings: duplicate band join key " + string(key))
		}
		seen[key] = struct{}{}
	}
	return nil
}

// BandIndex resolves the zero-or-one alarm band associated with a reading.
// The join-key list is configuration: variants of the source schema join on
// alarm_standard alone or jointly with key or point measurement.
type BandIndex struct {
	keys  []JoinKey
	bands map[string]AlarmBand
}

// NewBandIndex builds an index over bands keyed by the configured join keys.
// When two bands share a composite key the first one wins.
func NewBandIndex(bands []AlarmBand, keys []JoinKey) (*BandIndex, error) {
	if err := ValidateJoinKeys(keys); err != nil {
		return nil, err
	}
	index := &BandIndex{
		keys:  append([]JoinKey(nil), keys...),
		bands: make(map[string]AlarmBand, len(bands)),
	}
	for _, band := range bands {
		composite := index.bandComposite(band)
		if _, ok := index.bands[composite]; !ok {
			index.bands[composite] = band
		}
	}
	return index, nil
}

// Resolve returns the band for a reading, left-join semantics: a miss is a
// normal outcome, the reading still renders with blank band fields.
func (ix *BandIndex) Resolve(r Reading) (AlarmBand, bool) {
	if ix == nil {
		return AlarmBand{}, false
	}
	band, ok := ix.bands[ix.readingComposite(r)]
	return band, ok
}

// Len reports the number of indexed bands.
func (ix *BandIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.bands)
}

func (ix *BandIndex) bandComposite(band AlarmBand) string {
	parts := make([]string, 0, len(ix.keys))
	for _, key := range ix.keys {
		switch key {
		case JoinAlarmStandard:
			parts = append(parts, band.AlarmStandard)
		case JoinKeyColumn:
			parts = append(parts, band.Key)
		case JoinPointMeasurement:
			parts = append(parts, band.Parameter)
		}
	}
	return strings.Join(parts, "\x1f")
}

func (ix *BandIndex) readingComposite(r Reading) string {
	parts := make([]string, 0, len(ix.keys))
	for _, key := range ix.keys {
		switch key {
		case JoinAlarmStandard:
			parts = append(parts, r.AlarmStandard)
		case JoinKeyColumn:
			parts = append(parts, r.Key)
		case JoinPointMeasurement:
			parts = append(parts, r.PointMeasurement)
		}
	}
	return strings.Join(parts, "\x1f")
}
