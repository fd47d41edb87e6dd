package courtconnect

import (
	"strings"

	"golang.org/x/text/cases"
)

// Catalog is a fixed list of selectable values.
type Catalog []string

var (
	SportsCatalog = Catalog{
		"Football", "Basketball", "Tennis", "Cricket", "Badminton",
		"Volleyball", "Swimming", "Table Tennis", "Squash", "Hockey",
	}
	SurfaceTypeCatalog = Catalog{
		"Grass", "Artificial Turf", "Concrete", "Wooden", "Clay",
		"Rubber", "Synthetic", "Sand", "Indoor Court",
	}
	FacilitiesCatalog = Catalog{
		"Parking", "Restrooms", "Changing Rooms", "Showers", "Lockers",
		"First Aid", "Cafeteria", "Equipment Storage", "Seating Area", "Lighting",
	}
	AccessibilityCatalog = Catalog{
		"Wheelchair Access", "Disabled Parking", "Accessible Restrooms", "Ramps",
		"Wide Doorways", "Braille Signage", "Audio Announcements",
	}
	AmenitiesCatalog = Catalog{
		"WiFi", "Air Conditioning", "Sound System", "Scoreboard", "CCTV",
		"Security Guard", "Referee Services", "Coaching Available",
	}
)

// SlotDurationOptions are the durations offered to owners, in minutes.
var SlotDurationOptions = []int{30, 60, 90, 120, 180, 240, 360, 480}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Canonical returns the catalog spelling of v, matched case-insensitively.
func (c Catalog) Canonical(v string) (string, bool) {
	key := fold(v)
	for _, item := range c {
		if fold(item) == key {
			return item, true
		}
	}
	return v, false
}

func (c Catalog) Contains(v string) bool {
	for _, item := range c {
		if item == v {
			return true
		}
	}
	return false
}

// Normalize rewrites known values to their catalog spelling and drops
// duplicates. Unknown values are kept so validation can report them.
func (c Catalog) Normalize(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		canon, _ := c.Canonical(v)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}
