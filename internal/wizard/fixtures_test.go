package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kash05/court-connect/internal/courtconnect"
)

func validBasicInfo() courtconnect.BasicInfo {
	return courtconnect.BasicInfo{
		Name:         "Riverside Sports Hub",
		Description:  "Four floodlit courts next to the river.",
		Address:      "12 River Road",
		ContactPhone: "+1 (555) 123-4567",
		ContactEmail: "owner@riverside.example",
	}
}

func validPropertyDetail() courtconnect.PropertyDetail {
	d := courtconnect.DefaultPropertyDetail()
	d.Sports = []string{"Tennis", "Badminton"}
	d.SubUnits = map[string]int{"Tennis": 2, "Badminton": 4}
	d.SurfaceType = "Clay"
	d.Facilities = []string{"Parking"}
	return d
}

func validTiming() courtconnect.TimingAndAvailability {
	t := courtconnect.DefaultTimingAndAvailability()
	for _, d := range courtconnect.Days {
		t.OpeningHours[d] = courtconnect.DayHours{Open: "09:00", Close: "11:00"}
	}
	t.OpeningHours[courtconnect.Sunday] = courtconnect.DayHours{Closed: true}
	return t
}

func validPricing() courtconnect.BookingAndPricing {
	p := courtconnect.DefaultBookingAndPricing()
	p.BaseRate = 25
	p.CancellationPolicy = courtconnect.CancellationPolicy{FreeWindowHours: 24, FeePercent: 10}
	return p
}

func validMedia() courtconnect.Media {
	m := courtconnect.DefaultMedia()
	m.Images = []string{"https://cdn.example/court-1.jpg"}
	return m
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %v: %v", v, err)
	}
	return data
}

// recordingNav captures the transitions a controller signals.
type recordingNav struct {
	nextStep courtconnect.StepKey
	nextData any
	backs    int
}

func (n *recordingNav) Next(_ context.Context, step courtconnect.StepKey, data any) error {
	n.nextStep = step
	n.nextData = data
	return nil
}

func (n *recordingNav) Back() error {
	n.backs++
	return nil
}
