// Package slots derives the weekly table of bookable start times from a
// property's opening hours and slot durations.
package slots

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kash05/court-connect/internal/clock"
	"github.com/kash05/court-connect/internal/courtconnect"
)

// DerivationError reports a day whose hours could not be turned into slots.
type DerivationError struct {
	Day courtconnect.Day
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("deriving slots for %s: %v", e.Day, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// Weekly computes start times per day. Slots run from open in steps of each
// duration while the start is before close; a slot's end may pass close.
// Starts from all durations are merged, deduplicated and sorted.
//
// Closed days and days missing a time get no entry. A day with a malformed
// time gets no entry and adds a *DerivationError to the returned error; the
// other days are still computed. full_day mode yields no slots.
//
// Weekly never modifies its arguments.
func Weekly(hours map[courtconnect.Day]courtconnect.DayHours, durations []int, mode courtconnect.BookingMode) (map[courtconnect.Day][]string, error) {
	out := make(map[courtconnect.Day][]string)
	if !mode.UsesSlots() {
		return out, nil
	}

	var errs []error
	for _, day := range courtconnect.Days {
		h, ok := hours[day]
		if !ok || h.Closed || h.Open == "" || h.Close == "" {
			continue
		}
		starts, err := forDay(h.Open, h.Close, durations)
		if err != nil {
			errs = append(errs, &DerivationError{Day: day, Err: err})
			continue
		}
		out[day] = starts
	}
	return out, errors.Join(errs...)
}

func forDay(open, close string, durations []int) ([]string, error) {
	start, err := clock.Minutes(open)
	if err != nil {
		return nil, err
	}
	end, err := clock.Minutes(close)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, d := range durations {
		if d <= 0 {
			continue
		}
		for m := start; m < end; m += d {
			seen[clock.Format(m)] = struct{}{}
		}
	}

	starts := make([]string, 0, len(seen))
	for s := range seen {
		starts = append(starts, s)
	}
	sort.Strings(starts)
	return starts, nil
}
