package readings

import "time"

// Snapshot is an immutable view of the loaded working set. One render pass
// operates on one snapshot; callers must not mutate it, all narrowing happens
// on derived slices.
type Snapshot struct {
	Readings []Reading
	Bands    *BandIndex
	LoadedAt time.Time
}

// Empty reports whether the snapshot holds no readings.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Readings) == 0
}

// Age returns the snapshot age relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	if s == nil || s.LoadedAt.IsZero() {
		return 0
	}
	return now.Sub(s.LoadedAt)
}
