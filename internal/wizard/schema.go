package wizard

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kash05/court-connect/internal/clock"
	"github.com/kash05/court-connect/internal/courtconnect"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

// errList collects field errors in the order checks run. Each validator
// runs its checks in field declaration order so errs[0] is the error
// shown to the user.
type errList []FieldError

func (l *errList) add(field, msg string) {
	*l = append(*l, FieldError{Field: field, Message: msg})
}

func (l *errList) addf(field, format string, args ...any) {
	l.add(field, fmt.Sprintf(format, args...))
}

// Validate runs the schema for step against section. section must be the
// value type belonging to step.
func Validate(step courtconnect.StepKey, section any) []FieldError {
	switch s := section.(type) {
	case courtconnect.BasicInfo:
		return ValidateBasicInfo(s)
	case courtconnect.PropertyDetail:
		return ValidatePropertyDetail(s)
	case courtconnect.TimingAndAvailability:
		return ValidateTimingAndAvailability(s)
	case courtconnect.BookingAndPricing:
		return ValidateBookingAndPricing(s)
	case courtconnect.Media:
		return ValidateMedia(s)
	}
	return []FieldError{{Field: string(step), Message: "unknown section"}}
}

func ValidateBasicInfo(b courtconnect.BasicInfo) []FieldError {
	var errs errList

	switch n := utf8.RuneCountInString(b.Name); {
	case n < 1:
		errs.add("name", "Property name is required")
	case n > 100:
		errs.add("name", "Name too long")
	}

	switch n := utf8.RuneCountInString(b.Description); {
	case n < 10:
		errs.add("description", "Description must be at least 10 characters")
	case n > 500:
		errs.add("description", "Description too long")
	}

	if b.Address == "" {
		errs.add("address", "Address is required")
	}

	if utf8.RuneCountInString(b.ContactPhone) < 10 {
		errs.add("contactPhone", "Valid phone number required")
	} else if !phonePattern.MatchString(b.ContactPhone) {
		errs.add("contactPhone", "Invalid phone format")
	}

	if !validEmail(b.ContactEmail) {
		errs.add("contactEmail", "Valid email required")
	}

	switch {
	case (b.Latitude == nil) != (b.Longitude == nil):
		errs.add("latitude", "Latitude and longitude must be set together")
	case b.Latitude != nil:
		if *b.Latitude < -90 || *b.Latitude > 90 {
			errs.add("latitude", "Latitude must be between -90 and 90")
		}
		if *b.Longitude < -180 || *b.Longitude > 180 {
			errs.add("longitude", "Longitude must be between -180 and 180")
		}
	}

	return errs
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return strings.Contains(domain, ".")
}

func ValidatePropertyDetail(p courtconnect.PropertyDetail) []FieldError {
	var errs errList

	if len(p.Sports) == 0 {
		errs.add("sports", "At least one sport must be selected")
	}
	selected := make(map[string]bool, len(p.Sports))
	for i, s := range p.Sports {
		selected[s] = true
		if !courtconnect.SportsCatalog.Contains(s) {
			errs.addf(fmt.Sprintf("sports.%d", i), "Unknown sport %q", s)
		}
	}

	for _, sport := range sortedKeys(p.SubUnits) {
		field := "subUnits." + sport
		if !selected[sport] {
			errs.add(field, "Sub-units given for a sport that is not selected")
		} else if p.SubUnits[sport] < 0 {
			errs.add(field, "Sub-unit count cannot be negative")
		}
	}

	if p.SurfaceType == "" {
		errs.add("surfaceType", "Surface type is required")
	} else if !courtconnect.SurfaceTypeCatalog.Contains(p.SurfaceType) {
		errs.addf("surfaceType", "Unknown surface type %q", p.SurfaceType)
	}

	checkCatalog(&errs, "facilities", p.Facilities, courtconnect.FacilitiesCatalog)
	checkCatalog(&errs, "accessibility", p.Accessibility, courtconnect.AccessibilityCatalog)
	checkCatalog(&errs, "additionalAmenities", p.AdditionalAmenities, courtconnect.AmenitiesCatalog)

	return errs
}

func checkCatalog(errs *errList, field string, values []string, c courtconnect.Catalog) {
	for i, v := range values {
		if !c.Contains(v) {
			errs.addf(fmt.Sprintf("%s.%d", field, i), "Unknown option %q", v)
		}
	}
}

func ValidateTimingAndAvailability(t courtconnect.TimingAndAvailability) []FieldError {
	var errs errList

	for _, d := range sortedDayKeys(t.OpeningHours) {
		if !courtconnect.ValidDay(d) {
			errs.addf("openingHours."+string(d), "Unknown day %q", d)
		}
	}
	for _, d := range courtconnect.Days {
		field := "openingHours." + string(d)
		h, ok := t.OpeningHours[d]
		if !ok {
			errs.add(field, "Opening hours are required")
			continue
		}
		if h.Closed {
			continue
		}
		if !clock.Valid(h.Open) {
			errs.add(field+".open", "Invalid time format")
		}
		if !clock.Valid(h.Close) {
			errs.add(field+".close", "Invalid time format")
		}
	}

	if !t.BookingMode.Valid() {
		errs.add("bookingMode", "Booking mode must be slots, full_day or both")
	}

	if t.BookingMode.UsesSlots() && len(t.SlotDuration) == 0 {
		errs.add("slotDuration", "At least one slot duration is required")
	}
	for i, d := range t.SlotDuration {
		field := fmt.Sprintf("slotDuration.%d", i)
		switch {
		case d < 15:
			errs.add(field, "Minimum slot duration is 15 minutes")
		case d > 480:
			errs.add(field, "Maximum slot duration is 8 hours")
		}
	}

	for i, ex := range t.Exceptions {
		if _, err := time.Parse(time.DateOnly, ex.Date); err != nil {
			errs.add(fmt.Sprintf("exceptions.%d.date", i), "Date must be YYYY-MM-DD")
		}
	}

	switch {
	case t.MaxAdvanceDays < 1:
		errs.add("maxAdvanceDays", "Minimum 1 day advance booking")
	case t.MaxAdvanceDays > 365:
		errs.add("maxAdvanceDays", "Maximum 365 days advance booking")
	}

	switch {
	case t.MinNoticeHours < 0:
		errs.add("minNoticeHours", "Minimum notice cannot be negative")
	case t.MinNoticeHours > 72:
		errs.add("minNoticeHours", "Maximum 72 hours notice")
	}

	return errs
}

func ValidateBookingAndPricing(b courtconnect.BookingAndPricing) []FieldError {
	var errs errList

	if !b.PricingModel.Valid() {
		errs.add("pricingModel", "Pricing model must be hourly, daily or monthly")
	}
	if b.BaseRate < 0 {
		errs.add("baseRate", "Base rate cannot be negative")
	}

	for i, pr := range b.PeakRates {
		prefix := fmt.Sprintf("peakRates.%d", i)
		if !clock.Valid(pr.StartTime) {
			errs.add(prefix+".startTime", "Invalid time format")
		}
		if !clock.Valid(pr.EndTime) {
			errs.add(prefix+".endTime", "Invalid time format")
		}
		if pr.Rate < 0 {
			errs.add(prefix+".rate", "Peak rate cannot be negative")
		}
		for j, d := range pr.Days {
			if !courtconnect.ValidDay(d) {
				errs.addf(fmt.Sprintf("%s.days.%d", prefix, j), "Unknown day %q", d)
			}
		}
	}

	if b.SecurityDeposit < 0 {
		errs.add("securityDeposit", "Security deposit cannot be negative")
	}

	cp := b.CancellationPolicy
	if cp.FreeWindowHours < 0 {
		errs.add("cancellationPolicy.freeWindowHours", "Free cancellation window cannot be negative")
	}
	switch {
	case cp.FeePercent < 0:
		errs.add("cancellationPolicy.feePercent", "Fee percentage cannot be negative")
	case cp.FeePercent > 100:
		errs.add("cancellationPolicy.feePercent", "Fee percentage cannot exceed 100%")
	}
	if cp.NoShowCharge < 0 {
		errs.add("cancellationPolicy.noShowCharge", "No show charge cannot be negative")
	}

	return errs
}

func ValidateMedia(m courtconnect.Media) []FieldError {
	var errs errList

	if len(m.Images) == 0 {
		errs.add("images", "At least one image is required")
	}
	for i, img := range m.Images {
		if strings.TrimSpace(img) == "" {
			errs.add(fmt.Sprintf("images.%d", i), "Image URI cannot be empty")
		}
	}

	if m.VideoURL != "" {
		u, err := url.Parse(m.VideoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.add("videoUrl", "Invalid video URL")
		}
	}

	return errs
}

// ValidateForm checks a complete aggregate, section by section in step
// order, and returns the first error found.
func ValidateForm(f courtconnect.PropertyForm) error {
	for _, step := range courtconnect.Steps {
		section := f.Section(step.Key)
		if section == nil {
			return &ValidationError{Step: step.Key, Field: FieldError{Field: string(step.Key), Message: "Section is required"}}
		}
		if errs := Validate(step.Key, section); len(errs) > 0 {
			return &ValidationError{Step: step.Key, Field: errs[0]}
		}
	}
	return nil
}
