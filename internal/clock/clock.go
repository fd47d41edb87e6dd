// Package clock converts between 24-hour "HH:MM" strings and minute
// offsets since midnight.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidTime = errors.New("invalid time")

// Single-digit hours are accepted on input; Format always pads.
var pattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Minutes returns hh*60+mm for s.
func Minutes(s string) (int, error) {
	if !Valid(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m, nil
}

// Format renders a minute offset as zero-padded "HH:MM".
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
