package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kash05/court-connect/internal/courtconnect"
)

type bookingFixture struct {
	svc      *BookingService
	props    *PropertyService
	owner    string
	player   string
	arena    string // demo property: Badminton x4, Tennis x2, slots only
	flexible string // Tennis x1, 60 and 90 minute slots, full days, closed 2026-10-14
}

// newBookingFixture pins the clock to Monday 2026-10-12 08:00 UTC.
func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := setupDB(t)
	users, store := NewUserDocStore(db), NewPropertyDocStore(db)
	broker := NewBroker()

	f := &bookingFixture{
		svc:    NewBookingService(NewBookingDocStore(db), store, broker, discardLogger(), time.UTC),
		props:  NewPropertyService(store, broker, discardLogger()),
		owner:  createUser(t, users, "owner@example.com", RoleOwner).ID,
		player: createUser(t, users, "player@example.com", RolePlayer).ID,
	}
	f.svc.now = func() time.Time { return time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC) }

	f.arena = f.create(t, demoProperty())

	flex := listing("Flexi Courts", 12.97, 77.59, "Tennis")
	flex.TimingAndAvailability.BookingMode = courtconnect.BookingModeBoth
	flex.TimingAndAvailability.SlotDuration = []int{60, 90}
	flex.TimingAndAvailability.Exceptions = []courtconnect.Exception{{Date: "2026-10-14", Reason: "Resurfacing"}}
	f.flexible = f.create(t, flex)
	return f
}

func (f *bookingFixture) create(t *testing.T, form courtconnect.PropertyForm) string {
	t.Helper()
	p, err := f.props.Create(context.Background(), f.owner, form)
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p.ID
}

func TestBook(t *testing.T) {
	f := newBookingFixture(t)

	tests := []struct {
		name  string
		req   BookingRequest
		price float64
	}{
		{"weekday slot", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}, 400},
		{"peak slot", BookingRequest{PropertyID: f.arena, Date: "2026-10-16", TimeSlot: "19:00", Duration: 60, Sport: "badminton"}, 600},
		{"exactly minimum notice", BookingRequest{PropertyID: f.arena, Date: "2026-10-12", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}, 400},
		{"last advance day", BookingRequest{PropertyID: f.arena, Date: "2026-11-11", TimeSlot: "06:00", Duration: 60, Sport: "Tennis"}, 400},
		{"single sport needs no sport", BookingRequest{PropertyID: f.flexible, Date: "2026-10-13", TimeSlot: "07:30", Duration: 90}, 600},
		{"full day", BookingRequest{PropertyID: f.flexible, Date: "2026-10-15", FullDay: true}, 6400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := f.svc.Book(context.Background(), f.player, tt.req)
			if err != nil {
				t.Fatalf("book: %v", err)
			}
			if b.ID == "" || b.OwnerID != f.owner || b.PlayerID != f.player {
				t.Errorf("unexpected booking %+v", b)
			}
			if b.Price != tt.price {
				t.Errorf("price = %v, want %v", b.Price, tt.price)
			}
		})
	}
}

func TestBookRejects(t *testing.T) {
	f := newBookingFixture(t)

	tests := []struct {
		name  string
		req   BookingRequest
		field string
	}{
		{"ambiguous sport", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60}, "sport"},
		{"sport not offered", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60, Sport: "Squash"}, "sport"},
		{"bad date", BookingRequest{PropertyID: f.arena, Date: "13/10/2026", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}, "date"},
		{"unpublished duration", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:00", Duration: 45, Sport: "Tennis"}, "duration"},
		{"off the grid", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:30", Duration: 60, Sport: "Tennis"}, "timeSlot"},
		{"before opening", BookingRequest{PropertyID: f.arena, Date: "2026-10-18", TimeSlot: "06:00", Duration: 60, Sport: "Tennis"}, "timeSlot"},
		{"past closing", BookingRequest{PropertyID: f.flexible, Date: "2026-10-13", TimeSlot: "21:00", Duration: 90}, "timeSlot"},
		{"too little notice", BookingRequest{PropertyID: f.arena, Date: "2026-10-12", TimeSlot: "09:00", Duration: 60, Sport: "Tennis"}, "timeSlot"},
		{"in the past", BookingRequest{PropertyID: f.arena, Date: "2026-10-11", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}, "timeSlot"},
		{"too far ahead", BookingRequest{PropertyID: f.arena, Date: "2026-11-12", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}, "date"},
		{"full day on a slots property", BookingRequest{PropertyID: f.arena, Date: "2026-10-13", FullDay: true, Sport: "Tennis"}, "fullDay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Book(context.Background(), f.player, tt.req)
			var berr *BookingError
			if !errors.As(err, &berr) {
				t.Fatalf("expected *BookingError, got %v", err)
			}
			if berr.Field != tt.field {
				t.Errorf("field = %q, want %q (%s)", berr.Field, tt.field, berr.Message)
			}
		})
	}
}

func TestBookClosedDays(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.player, BookingRequest{PropertyID: f.flexible, Date: "2026-10-14", TimeSlot: "10:00", Duration: 60})
	if !errors.Is(err, ErrPropertyClosed) {
		t.Errorf("exception day: expected ErrPropertyClosed, got %v", err)
	}

	closed := listing("Weekdays Only", 12.97, 77.59, "Tennis")
	closed.TimingAndAvailability.OpeningHours[courtconnect.Saturday] = courtconnect.DayHours{Closed: true}
	id := f.create(t, closed)
	_, err = f.svc.Book(ctx, f.player, BookingRequest{PropertyID: id, Date: "2026-10-17", TimeSlot: "10:00", Duration: 60})
	if !errors.Is(err, ErrPropertyClosed) {
		t.Errorf("closed weekday: expected ErrPropertyClosed, got %v", err)
	}
}

func TestBookCapacity(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	req := BookingRequest{PropertyID: f.arena, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60, Sport: "Tennis"}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Book(ctx, f.player, req); err != nil {
			t.Fatalf("booking %d: %v", i+1, err)
		}
	}
	if _, err := f.svc.Book(ctx, f.player, req); !errors.Is(err, ErrSlotFull) {
		t.Fatalf("third tennis booking: expected ErrSlotFull, got %v", err)
	}

	// Other sports and adjacent slots have their own courts.
	req.Sport = "Badminton"
	if _, err := f.svc.Book(ctx, f.player, req); err != nil {
		t.Errorf("badminton: %v", err)
	}
	req.Sport, req.TimeSlot = "Tennis", "11:00"
	if _, err := f.svc.Book(ctx, f.player, req); err != nil {
		t.Errorf("next slot: %v", err)
	}

	// A 90 minute slot overlaps the following hour.
	long := BookingRequest{PropertyID: f.flexible, Date: "2026-10-13", TimeSlot: "09:00", Duration: 90}
	if _, err := f.svc.Book(ctx, f.player, long); err != nil {
		t.Fatalf("long slot: %v", err)
	}
	overlap := BookingRequest{PropertyID: f.flexible, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60}
	if _, err := f.svc.Book(ctx, f.player, overlap); !errors.Is(err, ErrSlotFull) {
		t.Errorf("overlap: expected ErrSlotFull, got %v", err)
	}
	fullDay := BookingRequest{PropertyID: f.flexible, Date: "2026-10-13", FullDay: true}
	if _, err := f.svc.Book(ctx, f.player, fullDay); !errors.Is(err, ErrSlotFull) {
		t.Errorf("full day over a slot: expected ErrSlotFull, got %v", err)
	}
}

func TestBookHiddenProperties(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	inactive := listing("Closed Club", 12.97, 77.59, "Tennis")
	inactive.Media.IsActive = false
	id := f.create(t, inactive)

	for _, propertyID := range []string{id, "missing"} {
		_, err := f.svc.Book(ctx, f.player, BookingRequest{PropertyID: propertyID, Date: "2026-10-13", TimeSlot: "10:00", Duration: 60})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", propertyID, err)
		}
	}
}

func TestBookingPrice(t *testing.T) {
	hourly := &courtconnect.BookingAndPricing{
		PricingModel: courtconnect.PricingHourly,
		BaseRate:     100,
		PeakRates: []courtconnect.PeakRate{
			{StartTime: "18:00", EndTime: "21:00", Rate: 150, Days: []courtconnect.Day{courtconnect.Friday}},
		},
	}
	daily := &courtconnect.BookingAndPricing{PricingModel: courtconnect.PricingDaily, BaseRate: 900}
	monthly := &courtconnect.BookingAndPricing{PricingModel: courtconnect.PricingMonthly, BaseRate: 3000}

	tests := []struct {
		name    string
		pricing *courtconnect.BookingAndPricing
		day     courtconnect.Day
		start   int
		dur     int
		fullDay bool
		want    float64
	}{
		{"hourly off peak", hourly, courtconnect.Friday, 10 * 60, 90, false, 150},
		{"hourly peak", hourly, courtconnect.Friday, 18 * 60, 60, false, 150},
		{"peak ends exclusive", hourly, courtconnect.Friday, 21 * 60, 60, false, 100},
		{"peak other day", hourly, courtconnect.Monday, 18 * 60, 60, false, 100},
		{"hourly full day", hourly, courtconnect.Friday, 9 * 60, 9 * 60, true, 900},
		{"daily full day", daily, courtconnect.Monday, 9 * 60, 9 * 60, true, 900},
		{"daily slot prorated", daily, courtconnect.Monday, 9 * 60, 60, false, 100},
		{"monthly full day", monthly, courtconnect.Monday, 9 * 60, 9 * 60, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bookingPrice(tt.pricing, tt.day, tt.start, tt.dur, 9*60, tt.fullDay)
			if got != tt.want {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}
