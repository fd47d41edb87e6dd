// Package courtconnect defines the core domain types of the property
// listing wizard. It has no dependencies outside golang.org/x/text.
package courtconnect

import "time"

// StepKey identifies one page of the property wizard.
type StepKey string

const (
	StepBasicInfo             StepKey = "basicInfo"
	StepPropertyDetail        StepKey = "propertyDetail"
	StepTimingAndAvailability StepKey = "timingAndAvailability"
	StepBookingAndPricing     StepKey = "bookingAndPricing"
	StepMedia                 StepKey = "media"
)

type Step struct {
	Key         StepKey `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// Steps is the fixed wizard order.
var Steps = []Step{
	{Key: StepBasicInfo, Title: "Basic Info", Description: "Property name, description, and contact details"},
	{Key: StepPropertyDetail, Title: "Property Details", Description: "Sports, facilities, and amenities"},
	{Key: StepTimingAndAvailability, Title: "Timing & Availability", Description: "Opening hours and booking settings"},
	{Key: StepBookingAndPricing, Title: "Booking & Pricing", Description: "Rates, policies, and payment settings"},
	{Key: StepMedia, Title: "Media", Description: "Photos, videos, and floor plans"},
}

// StepIndex returns the position of key in Steps, or -1.
func StepIndex(key StepKey) int {
	for i, s := range Steps {
		if s.Key == key {
			return i
		}
	}
	return -1
}

type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// DayOf returns the day key for the weekday of t.
func DayOf(t time.Time) Day {
	// time.Weekday counts from Sunday.
	return Days[(int(t.Weekday())+6)%7]
}

func ValidDay(d Day) bool {
	for _, day := range Days {
		if day == d {
			return true
		}
	}
	return false
}

type BookingMode string

const (
	BookingModeSlots   BookingMode = "slots"
	BookingModeFullDay BookingMode = "full_day"
	BookingModeBoth    BookingMode = "both"
)

// UsesSlots reports whether the mode offers time-slot booking.
func (m BookingMode) UsesSlots() bool {
	return m == BookingModeSlots || m == BookingModeBoth
}

func (m BookingMode) Valid() bool {
	return m == BookingModeSlots || m == BookingModeFullDay || m == BookingModeBoth
}

type PricingModel string

const (
	PricingHourly  PricingModel = "hourly"
	PricingDaily   PricingModel = "daily"
	PricingMonthly PricingModel = "monthly"
)

func (p PricingModel) Valid() bool {
	return p == PricingHourly || p == PricingDaily || p == PricingMonthly
}

type BasicInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	ContactPhone string   `json:"contactPhone"`
	ContactEmail string   `json:"contactEmail"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type PropertyDetail struct {
	Sports              []string       `json:"sports"`
	SubUnits            map[string]int `json:"subUnits"`
	SurfaceType         string         `json:"surfaceType"`
	Facilities          []string       `json:"facilities"`
	EquipmentRental     bool           `json:"equipmentRental"`
	Accessibility       []string       `json:"accessibility"`
	AdditionalAmenities []string       `json:"additionalAmenities"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed,omitempty"`
}

type Exception struct {
	Date        string `json:"date"`
	Reason      string `json:"reason"`
	IsAvailable bool   `json:"isAvailable"`
}

type TimingAndAvailability struct {
	OpeningHours   map[Day]DayHours `json:"openingHours"`
	BookingMode    BookingMode      `json:"bookingMode"`
	SlotDuration   []int            `json:"slotDuration"`
	WeeklySlots    map[Day][]string `json:"weeklySlots"`
	Exceptions     []Exception      `json:"exceptions"`
	MaxAdvanceDays int              `json:"maxAdvanceDays"`
	MinNoticeHours int              `json:"minNoticeHours"`
}

type PeakRate struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Rate      float64 `json:"rate"`
	Days      []Day   `json:"days"`
}

type CancellationPolicy struct {
	FreeWindowHours float64 `json:"freeWindowHours"`
	FeePercent      float64 `json:"feePercent"`
	NoShowCharge    float64 `json:"noShowCharge"`
}

type BookingAndPricing struct {
	PricingModel       PricingModel       `json:"pricingModel"`
	BaseRate           float64            `json:"baseRate"`
	PeakRates          []PeakRate         `json:"peakRates"`
	SecurityDeposit    float64            `json:"securityDeposit"`
	PreBooking         bool               `json:"preBooking"`
	FullDayBooking     bool               `json:"fullDayBooking"`
	CancellationPolicy CancellationPolicy `json:"cancellationPolicy"`
}

type Media struct {
	Images    []string `json:"images"`
	VideoURL  string   `json:"videoUrl,omitempty"`
	FloorPlan string   `json:"floorPlan,omitempty"`
	IsActive  bool     `json:"isActive"`
}

// PropertyForm is the wizard aggregate. A nil section has not been
// submitted yet.
type PropertyForm struct {
	BasicInfo             *BasicInfo             `json:"basicInfo,omitempty"`
	PropertyDetail        *PropertyDetail        `json:"propertyDetail,omitempty"`
	TimingAndAvailability *TimingAndAvailability `json:"timingAndAvailability,omitempty"`
	BookingAndPricing     *BookingAndPricing     `json:"bookingAndPricing,omitempty"`
	Media                 *Media                 `json:"media,omitempty"`
}
