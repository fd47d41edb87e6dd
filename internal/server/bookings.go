package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/kash05/court-connect/internal/clock"
	"github.com/kash05/court-connect/internal/courtconnect"
)

const EventBookingCreated = "booking.created"

// ErrPropertyClosed is returned for a date the property does not open.
var ErrPropertyClosed = errors.New("property is closed")

// BookingError rejects a booking request field.
type BookingError struct {
	Field   string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("booking %s: %s", e.Field, e.Message)
}

func bookingErr(field, format string, args ...any) error {
	return &BookingError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// BookingRequest is the request body for POST /api/bookings. Sport may be
// left empty at a single-sport property. A full-day booking ignores
// timeSlot and duration.
type BookingRequest struct {
	PropertyID string `json:"propertyId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot,omitempty"`
	Duration   int    `json:"duration,omitempty"`
	Sport      string `json:"sport,omitempty"`
	FullDay    bool   `json:"fullDay,omitempty"`
}

// BookingService turns requests into bookings against a property's
// published availability. Dates and times are wall-clock values in loc.
type BookingService struct {
	bookings   BookingStore
	properties PropertyStore
	broker     *Broker
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time
}

func NewBookingService(bookings BookingStore, properties PropertyStore, broker *Broker, logger *slog.Logger, loc *time.Location) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		broker:     broker,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *BookingService) Book(ctx context.Context, playerID string, req BookingRequest) (Booking, error) {
	p, err := s.properties.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return Booking{}, err
	}
	if !propertyActive(p) || !p.Complete() {
		return Booking{}, ErrNotFound
	}
	timing, detail, pricing := p.TimingAndAvailability, p.PropertyDetail, p.BookingAndPricing

	date, err := time.ParseInLocation(time.DateOnly, req.Date, s.loc)
	if err != nil {
		return Booking{}, bookingErr("date", "Date must be YYYY-MM-DD")
	}
	day := courtconnect.DayOf(date)
	if reason, closed := closedOn(timing, req.Date); closed {
		return Booking{}, fmt.Errorf("%w on %s: %s", ErrPropertyClosed, req.Date, reason)
	}
	hours := timing.OpeningHours[day]
	open, errOpen := clock.Minutes(hours.Open)
	closeAt, errClose := clock.Minutes(hours.Close)
	if hours.Closed || errOpen != nil || errClose != nil {
		return Booking{}, fmt.Errorf("%w on %s", ErrPropertyClosed, day)
	}

	sport, err := bookingSport(detail, req.Sport)
	if err != nil {
		return Booking{}, err
	}

	b := Booking{
		PropertyID:   p.ID,
		PropertyName: propertyName(p),
		PlayerID:     playerID,
		OwnerID:      p.OwnerID,
		Sport:        sport,
		Date:         req.Date,
	}
	start := open
	if req.FullDay {
		if timing.BookingMode == courtconnect.BookingModeSlots {
			return Booking{}, bookingErr("fullDay", "This property only takes slot bookings")
		}
		b.FullDay = true
		b.TimeSlot = clock.Format(open)
		b.Duration = closeAt - open
	} else {
		if !timing.BookingMode.UsesSlots() {
			return Booking{}, bookingErr("timeSlot", "This property only takes full-day bookings")
		}
		if start, err = slotStart(timing, day, open, closeAt, req.TimeSlot, req.Duration); err != nil {
			return Booking{}, err
		}
		b.TimeSlot = clock.Format(start)
		b.Duration = req.Duration
	}

	startsAt := date.Add(time.Duration(start) * time.Minute)
	now := s.now().In(s.loc)
	if startsAt.Before(now.Add(time.Duration(timing.MinNoticeHours) * time.Hour)) {
		return Booking{}, bookingErr("timeSlot", "Bookings need at least %d hours notice", timing.MinNoticeHours)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if date.After(today.AddDate(0, 0, timing.MaxAdvanceDays)) {
		return Booking{}, bookingErr("date", "Bookings open at most %d days ahead", timing.MaxAdvanceDays)
	}

	b.Price = bookingPrice(pricing, day, start, b.Duration, closeAt-open, b.FullDay)

	b, err = s.bookings.CreateBooking(ctx, b, courtsFor(detail, sport))
	if err != nil {
		return Booking{}, err
	}
	s.logger.Info("booking created", "booking_id", b.ID, "property_id", b.PropertyID, "player_id", playerID)
	s.broker.Publish(b.OwnerID, PropertyEvent{
		Type:       EventBookingCreated,
		PropertyID: b.PropertyID,
		BookingID:  b.ID,
		Name:       b.PropertyName,
		At:         b.CreatedAt,
	})
	return b, nil
}

// PropertyBookings lists the bookings of a property owned by ownerID.
func (s *BookingService) PropertyBookings(ctx context.Context, ownerID, propertyID string) ([]Booking, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, errNotOwner
	}
	return s.bookings.ListByProperty(ctx, propertyID)
}

// closedOn reports an exception that closes the property on date.
func closedOn(t *courtconnect.TimingAndAvailability, date string) (string, bool) {
	for _, ex := range t.Exceptions {
		if ex.Date == date && !ex.IsAvailable {
			return ex.Reason, true
		}
	}
	return "", false
}

func bookingSport(d *courtconnect.PropertyDetail, requested string) (string, error) {
	if requested == "" {
		if len(d.Sports) == 1 {
			return d.Sports[0], nil
		}
		return "", bookingErr("sport", "Choose one of %v", d.Sports)
	}
	sport, _ := courtconnect.SportsCatalog.Canonical(requested)
	if !slices.Contains(d.Sports, sport) {
		return "", bookingErr("sport", "%s is not offered here", requested)
	}
	return sport, nil
}

// slotStart checks that timeSlot is a published start for day on the grid
// of the requested duration, and that the slot ends by closing time.
func slotStart(t *courtconnect.TimingAndAvailability, day courtconnect.Day, open, closeAt int, timeSlot string, duration int) (int, error) {
	start, err := clock.Minutes(timeSlot)
	if err != nil {
		return 0, bookingErr("timeSlot", "Time slot must be HH:MM")
	}
	if !slices.Contains(t.SlotDuration, duration) {
		return 0, bookingErr("duration", "Duration must be one of %v minutes", t.SlotDuration)
	}
	if !slices.Contains(t.WeeklySlots[day], clock.Format(start)) || (start-open)%duration != 0 {
		return 0, bookingErr("timeSlot", "%s is not a %d-minute slot on %s", timeSlot, duration, day)
	}
	if start+duration > closeAt {
		return 0, bookingErr("timeSlot", "The slot runs past closing time")
	}
	return start, nil
}

// courtsFor is the number of parallel bookings a sport takes.
func courtsFor(d *courtconnect.PropertyDetail, sport string) int {
	if n := d.SubUnits[sport]; n > 0 {
		return n
	}
	return 1
}

// bookingPrice charges hourly properties per hour at the rate in force at
// the slot start. Daily and monthly rates are turned into a day rate and
// prorated over the opening hours for slot bookings.
func bookingPrice(b *courtconnect.BookingAndPricing, day courtconnect.Day, start, duration, openSpan int, fullDay bool) float64 {
	var price float64
	switch b.PricingModel {
	case courtconnect.PricingHourly:
		rate := b.BaseRate
		if !fullDay {
			rate = rateAt(b, day, start)
		}
		price = rate * float64(duration) / 60
	default:
		dayRate := b.BaseRate
		if b.PricingModel == courtconnect.PricingMonthly {
			dayRate = b.BaseRate / 30
		}
		price = dayRate
		if !fullDay && openSpan > 0 {
			price = dayRate * float64(duration) / float64(openSpan)
		}
	}
	return math.Round(price*100) / 100
}

func rateAt(b *courtconnect.BookingAndPricing, day courtconnect.Day, start int) float64 {
	for _, peak := range b.PeakRates {
		from, err1 := clock.Minutes(peak.StartTime)
		to, err2 := clock.Minutes(peak.EndTime)
		if err1 != nil || err2 != nil || !slices.Contains(peak.Days, day) {
			continue
		}
		if start >= from && start < to {
			return peak.Rate
		}
	}
	return b.BaseRate
}
