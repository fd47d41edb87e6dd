package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kash05/court-connect/internal/courtconnect"
)

const (
	DemoOwnerEmail    = "owner@courtconnect.demo"
	DemoOwnerPassword = "demo-owner-pass"
)

// SeedDemo creates a demo owner with one listed property if no users exist.
// Idempotent: does nothing once any user is registered.
func SeedDemo(ctx context.Context, logger *slog.Logger, users UserStore, props *PropertyService) error {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoOwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	owner, err := users.CreateUser(ctx, User{
		Email:    DemoOwnerEmail,
		FullName: "Demo Owner",
		Role:     RoleOwner,
	}, string(hash))
	if err != nil {
		return fmt.Errorf("creating demo owner: %w", err)
	}

	p, err := props.Create(ctx, owner.ID, demoProperty())
	if err != nil {
		return fmt.Errorf("creating demo property: %w", err)
	}

	logger.Info("demo owner created and seeded", "email", DemoOwnerEmail, "property_id", p.ID)
	return nil
}

func demoProperty() courtconnect.PropertyForm {
	lat, lng := 12.9716, 77.5946

	detail := courtconnect.DefaultPropertyDetail()
	detail.Sports = []string{"Badminton", "Tennis"}
	detail.SubUnits = map[string]int{"Badminton": 4, "Tennis": 2}
	detail.SurfaceType = "Synthetic"
	detail.Facilities = []string{"Parking", "Restrooms", "Lighting"}

	timing := courtconnect.DefaultTimingAndAvailability()
	for _, d := range courtconnect.Days {
		timing.OpeningHours[d] = courtconnect.DayHours{Open: "06:00", Close: "22:00"}
	}
	timing.OpeningHours[courtconnect.Sunday] = courtconnect.DayHours{Open: "08:00", Close: "20:00"}

	pricing := courtconnect.DefaultBookingAndPricing()
	pricing.BaseRate = 400
	pricing.PeakRates = []courtconnect.PeakRate{{
		StartTime: "18:00",
		EndTime:   "22:00",
		Rate:      600,
		Days:      []courtconnect.Day{courtconnect.Friday, courtconnect.Saturday},
	}}

	media := courtconnect.DefaultMedia()
	media.Images = []string{"https://images.courtconnect.demo/arena-1.jpg"}

	return courtconnect.PropertyForm{
		BasicInfo: &courtconnect.BasicInfo{
			Name:         "Demo Sports Arena",
			Description:  "Indoor badminton and outdoor tennis courts with floodlights.",
			Address:      "1 MG Road, Bengaluru",
			ContactPhone: "+91 98765 43210",
			ContactEmail: DemoOwnerEmail,
			Latitude:     &lat,
			Longitude:    &lng,
		},
		PropertyDetail:        &detail,
		TimingAndAvailability: &timing,
		BookingAndPricing:     &pricing,
		Media:                 &media,
	}
}
