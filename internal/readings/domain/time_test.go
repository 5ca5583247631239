package readings

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-02":           time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		"2024-01-02 13:45:09":  time.Date(2024, time.January, 2, 13, 45, 9, 0, time.UTC),
		"2024-01-02T13:45:09":  time.Date(2024, time.January, 2, 13, 45, 9, 0, time.UTC),
		"2024-01-02T13:45:09Z": time.Date(2024, time.January, 2, 13, 45, 9, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := ParseTimestamp(input)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseTimestamp(%q): expected %v, got %v", input, want, got)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "02/01/2024"} {
		if _, err := ParseTimestamp(input); err == nil {
			t.Fatalf("ParseTimestamp(%q): expected error", input)
		}
	}
}

func TestReadingValidRequiresTimestamp(t *testing.T) {
	if (Reading{}).Valid() {
		t.Fatalf("expected zero-timestamp reading to be invalid")
	}
	r := Reading{Timestamp: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)}
	if !r.Valid() {
		t.Fatalf("expected reading with timestamp to be valid")
	}
}
