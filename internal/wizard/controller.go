package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kash05/court-connect/internal/clock"
	"github.com/kash05/court-connect/internal/courtconnect"
	"github.com/kash05/court-connect/internal/slots"
)

// Navigator receives the transitions a step controller signals.
type Navigator interface {
	Next(ctx context.Context, step courtconnect.StepKey, data any) error
	Back() error
}

// Controller owns the editable copy of one wizard step. Every update
// re-validates the whole section.
type Controller interface {
	Step() courtconnect.StepKey
	// Data returns a copy of the local section value.
	Data() any
	UpdateField(path string, value json.RawMessage) error
	Errors() []FieldError
	Valid() bool
	// Submit fails with *ValidationError while the section is invalid,
	// otherwise hands the section to the navigator.
	Submit(ctx context.Context) error
	GoBack() error
}

// NewController seeds a controller for step from section, or from the
// step's defaults when section is nil.
func NewController(step courtconnect.StepKey, section any, nav Navigator) (Controller, error) {
	switch step {
	case courtconnect.StepBasicInfo:
		return newController(step, section, courtconnect.DefaultBasicInfo(), nav, ValidateBasicInfo, nil)
	case courtconnect.StepPropertyDetail:
		return newController(step, section, courtconnect.DefaultPropertyDetail(), nav, ValidatePropertyDetail, updatePropertyDetail)
	case courtconnect.StepTimingAndAvailability:
		c, err := newController(step, section, courtconnect.DefaultTimingAndAvailability(), nav, ValidateTimingAndAvailability, updateTiming)
		if err != nil {
			return nil, err
		}
		normalizeClosedDays(&c.data)
		deriveSlots(&c.data)
		c.revalidate()
		return &TimingController{controller: c}, nil
	case courtconnect.StepBookingAndPricing:
		return newController(step, section, courtconnect.DefaultBookingAndPricing(), nav, ValidateBookingAndPricing, nil)
	case courtconnect.StepMedia:
		return newController(step, section, courtconnect.DefaultMedia(), nav, ValidateMedia, nil)
	}
	return nil, fmt.Errorf("%w: %q", courtconnect.ErrUnknownStep, step)
}

// updateFunc applies a step-specific write. It returns handled=false to
// fall through to the generic path setter.
type updateFunc[T any] func(data *T, path []string, raw json.RawMessage) (handled bool, err error)

type controller[T any] struct {
	step     courtconnect.StepKey
	nav      Navigator
	data     T
	errs     []FieldError
	validate func(T) []FieldError
	update   updateFunc[T]
}

func newController[T any](step courtconnect.StepKey, section any, def T, nav Navigator,
	validate func(T) []FieldError, update updateFunc[T]) (*controller[T], error) {
	data := def
	if section != nil {
		s, ok := section.(T)
		if !ok {
			return nil, fmt.Errorf("section %T does not belong to step %q", section, step)
		}
		data = courtconnect.Copy(s)
	}
	c := &controller[T]{step: step, nav: nav, data: data, validate: validate, update: update}
	c.revalidate()
	return c, nil
}

func (c *controller[T]) Step() courtconnect.StepKey { return c.step }

func (c *controller[T]) Data() any { return courtconnect.Copy(c.data) }

func (c *controller[T]) Errors() []FieldError {
	return append([]FieldError(nil), c.errs...)
}

func (c *controller[T]) Valid() bool { return len(c.errs) == 0 }

func (c *controller[T]) revalidate() {
	c.errs = c.validate(c.data)
}

func (c *controller[T]) UpdateField(path string, value json.RawMessage) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}

	// Work on a copy so a rejected update leaves the state untouched.
	next := courtconnect.Copy(c.data)
	handled := false
	if c.update != nil {
		if handled, err = c.update(&next, parts, value); err != nil {
			return err
		}
	}
	if !handled {
		if next, err = setPath(next, parts, value); err != nil {
			return err
		}
	}

	c.data = next
	c.revalidate()
	return nil
}

func (c *controller[T]) Submit(ctx context.Context) error {
	if len(c.errs) > 0 {
		return &ValidationError{Step: c.step, Field: c.errs[0]}
	}
	return c.nav.Next(ctx, c.step, courtconnect.Copy(c.data))
}

func (c *controller[T]) GoBack() error {
	return c.nav.Back()
}

func updatePropertyDetail(p *courtconnect.PropertyDetail, path []string, raw json.RawMessage) (bool, error) {
	full := strings.Join(path, ".")

	if path[0] == "subUnits" {
		selected := make(map[string]bool, len(p.Sports))
		for _, s := range p.Sports {
			selected[s] = true
		}
		switch len(path) {
		case 1:
			units, err := decodeValue[map[string]int](full, raw)
			if err != nil {
				return true, err
			}
			p.SubUnits = make(map[string]int, len(units))
			for sport, n := range units {
				sport, _ = courtconnect.SportsCatalog.Canonical(sport)
				if selected[sport] && n > 0 {
					p.SubUnits[sport] = n
				}
			}
		case 2:
			n, err := decodeValue[int](full, raw)
			if err != nil {
				return true, err
			}
			sport, _ := courtconnect.SportsCatalog.Canonical(path[1])
			if !selected[sport] {
				return true, badUpdate(full, "sport %q is not selected", path[1])
			}
			if p.SubUnits == nil {
				p.SubUnits = map[string]int{}
			}
			if n > 0 {
				p.SubUnits[sport] = n
			} else {
				delete(p.SubUnits, sport)
			}
		default:
			return true, badUpdate(full, "path too deep")
		}
		return true, nil
	}

	updated, err := setPath(*p, path, raw)
	if err != nil {
		return true, err
	}
	*p = updated
	normalizeDetail(p)
	if path[0] == "sports" {
		pruneSubUnits(p)
	}
	return true, nil
}

// normalizeDetail rewrites catalog values to their canonical spelling.
func normalizeDetail(p *courtconnect.PropertyDetail) {
	p.Sports = courtconnect.SportsCatalog.Normalize(p.Sports)
	p.Facilities = courtconnect.FacilitiesCatalog.Normalize(p.Facilities)
	p.Accessibility = courtconnect.AccessibilityCatalog.Normalize(p.Accessibility)
	p.AdditionalAmenities = courtconnect.AmenitiesCatalog.Normalize(p.AdditionalAmenities)
	if canon, ok := courtconnect.SurfaceTypeCatalog.Canonical(p.SurfaceType); ok {
		p.SurfaceType = canon
	}
	if len(p.SubUnits) > 0 {
		units := make(map[string]int, len(p.SubUnits))
		for sport, n := range p.SubUnits {
			canon, _ := courtconnect.SportsCatalog.Canonical(sport)
			units[canon] = n
		}
		p.SubUnits = units
	}
}

// Normalize applies to a whole aggregate the rewrites the step controllers
// make on every update: canonical catalog spellings, closed days without
// times, and a weekly slot table derived from the timing fields.
func Normalize(f courtconnect.PropertyForm) courtconnect.PropertyForm {
	f = f.Clone()
	if f.PropertyDetail != nil {
		normalizeDetail(f.PropertyDetail)
	}
	if f.TimingAndAvailability != nil {
		normalizeClosedDays(f.TimingAndAvailability)
		deriveSlots(f.TimingAndAvailability)
	}
	return f
}

// pruneSubUnits keeps subUnits keys a subset of the selected sports.
func pruneSubUnits(p *courtconnect.PropertyDetail) {
	selected := make(map[string]bool, len(p.Sports))
	for _, s := range p.Sports {
		selected[s] = true
	}
	for sport, n := range p.SubUnits {
		if !selected[sport] || n <= 0 {
			delete(p.SubUnits, sport)
		}
	}
}

// TimingController adds the opening-hours helpers to the timing step.
type TimingController struct {
	*controller[courtconnect.TimingAndAvailability]
}

// ApplyToAllDays sets the open or close time on every day that is not
// closed.
func (c *TimingController) ApplyToAllDays(kind, t string) error {
	if kind != "open" && kind != "close" {
		return badUpdate("openingHours.*."+kind, "kind must be open or close")
	}
	if !clock.Valid(t) {
		return badUpdate("openingHours.*."+kind, "invalid time %q", t)
	}

	next := courtconnect.Copy(c.data)
	if next.OpeningHours == nil {
		next.OpeningHours = map[courtconnect.Day]courtconnect.DayHours{}
	}
	for _, d := range courtconnect.Days {
		h := next.OpeningHours[d]
		if h.Closed {
			continue
		}
		if kind == "open" {
			h.Open = t
		} else {
			h.Close = t
		}
		next.OpeningHours[d] = h
	}
	deriveSlots(&next)

	c.data = next
	c.revalidate()
	return nil
}

func updateTiming(t *courtconnect.TimingAndAvailability, path []string, raw json.RawMessage) (bool, error) {
	full := strings.Join(path, ".")

	switch path[0] {
	case "weeklySlots":
		return true, badUpdate(full, "weekly slots are derived and cannot be edited")
	case "openingHours":
		if len(path) >= 2 && !courtconnect.ValidDay(courtconnect.Day(path[1])) {
			return true, badUpdate(full, "unknown day %q", path[1])
		}
		if len(path) == 3 && path[2] == "closed" {
			closed, err := decodeValue[bool](full, raw)
			if err != nil {
				return true, err
			}
			setClosed(t, courtconnect.Day(path[1]), closed)
			deriveSlots(t)
			return true, nil
		}
	}

	updated, err := setPath(*t, path, raw)
	if err != nil {
		return true, err
	}
	*t = updated

	switch path[0] {
	case "openingHours":
		normalizeClosedDays(t)
		deriveSlots(t)
	case "slotDuration", "bookingMode":
		deriveSlots(t)
	}
	return true, nil
}

// setClosed toggles a day. Closing clears both times; reopening leaves them
// empty for the owner to fill in.
func setClosed(t *courtconnect.TimingAndAvailability, day courtconnect.Day, closed bool) {
	if t.OpeningHours == nil {
		t.OpeningHours = map[courtconnect.Day]courtconnect.DayHours{}
	}
	if h, ok := t.OpeningHours[day]; ok && h.Closed == closed {
		return
	}
	t.OpeningHours[day] = courtconnect.DayHours{Closed: closed}
}

func normalizeClosedDays(t *courtconnect.TimingAndAvailability) {
	for d, h := range t.OpeningHours {
		if h.Closed && (h.Open != "" || h.Close != "") {
			t.OpeningHours[d] = courtconnect.DayHours{Closed: true}
		}
	}
}

// deriveSlots recomputes weeklySlots from the other timing fields. In
// full_day mode the previous table is left as it is.
func deriveSlots(t *courtconnect.TimingAndAvailability) {
	if !t.BookingMode.UsesSlots() {
		return
	}
	// A malformed day yields no slots; validation reports the bad time.
	weekly, _ := slots.Weekly(t.OpeningHours, t.SlotDuration, t.BookingMode)
	t.WeeklySlots = weekly
}
