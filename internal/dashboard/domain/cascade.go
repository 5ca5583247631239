package dashboard

import (
	"sort"

	readings "condmon-cloud/internal/readings/domain"
)

// Selection is the transient three-level drill-down state. It is rebuilt from
// request parameters on every render; nothing persists between renders.
type Selection struct {
	Equipment string
	Component string
	Points    []string
}

// HasPoints reports whether at least one point measurement is selected.
// An empty point set is a distinguished "nothing to show" outcome, not a
// default select-all.
func (s Selection) HasPoints() bool {
	return len(s.Points) > 0
}

// Options carries the candidate lists for each cascade stage, each list
// conditioned on the selections above it.
type Options struct {
	Equipment  []string `json:"equipment"`
	Components []string `json:"components"`
	Points     []string `json:"points"`
}

// EquipmentOptions returns the distinct non-empty equipment names across the
// full set, sorted lexicographically.
func EquipmentOptions(set []readings.Reading) []string {
	return distinctSorted(set, func(r readings.Reading) string { return r.EquipmentName }, nil)
}

// ComponentOptions returns the distinct non-empty component names among
// readings of the given equipment, sorted.
func ComponentOptions(set []readings.Reading, equipment string) []string {
	return distinctSorted(set, func(r readings.Reading) string { return r.Component }, func(r readings.Reading) bool {
		return r.EquipmentName == equipment
	})
}

// PointOptions returns the distinct non-empty point measurements among
// readings matching equipment and component, sorted.
func PointOptions(set []readings.Reading, equipment, component string) []string {
	return distinctSorted(set, func(r readings.Reading) string { return r.PointMeasurement }, func(r readings.Reading) bool {
		return r.EquipmentName == equipment && r.Component == component
	})
}

// CascadeOptions assembles the candidate lists for a selection prefix.
// Downstream lists are empty until the upstream stage is chosen.
func CascadeOptions(set []readings.Reading, sel Selection) Options {
	options := Options{Equipment: EquipmentOptions(set)}
	if sel.Equipment != "" {
		options.Components = ComponentOptions(set, sel.Equipment)
	}
	if sel.Equipment != "" && sel.Component != "" {
		options.Points = PointOptions(set, sel.Equipment, sel.Component)
	}
	return options
}

// Narrow applies the three-stage filter cascade and returns the final subset.
// A scalar stage whose selection is not among its candidates is
// unsatisfiable: the result is empty, never a silent fallback. An empty point
// set always yields an empty subset. The input is never mutated.
func Narrow(set []readings.Reading, sel Selection) []readings.Reading {
	subset := set

	if sel.Equipment != "" {
		if !contains(EquipmentOptions(subset), sel.Equipment) {
			return nil
		}
		subset = filter(subset, func(r readings.Reading) bool { return r.EquipmentName == sel.Equipment })
	}

	if sel.Component != "" {
		candidates := distinctSorted(subset, func(r readings.Reading) string { return r.Component }, nil)
		if !contains(candidates, sel.Component) {
			return nil
		}
		subset = filter(subset, func(r readings.Reading) bool { return r.Component == sel.Component })
	}

	if !sel.HasPoints() {
		return nil
	}
	selected := make(map[string]struct{}, len(sel.Points))
	for _, point := range sel.Points {
		selected[point] = struct{}{}
	}
	return filter(subset, func(r readings.Reading) bool {
		_, ok := selected[r.PointMeasurement]
		return ok
	})
}

func distinctSorted(set []readings.Reading, extract func(readings.Reading) string, match func(readings.Reading) bool) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range set {
		if match != nil && !match(r) {
			continue
		}
		value := extract(r)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func filter(set []readings.Reading, keep func(readings.Reading) bool) []readings.Reading {
	var subset []readings.Reading
	for _, r := range set {
		if keep(r) {
			subset = append(subset, r)
		}
	}
	return subset
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
