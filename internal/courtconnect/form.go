package courtconnect

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownStep = errors.New("unknown step")

func DefaultBasicInfo() BasicInfo { return BasicInfo{} }

func DefaultPropertyDetail() PropertyDetail {
	return PropertyDetail{
		Sports:              []string{},
		SubUnits:            map[string]int{},
		Facilities:          []string{},
		Accessibility:       []string{},
		AdditionalAmenities: []string{},
	}
}

func DefaultTimingAndAvailability() TimingAndAvailability {
	hours := make(map[Day]DayHours, len(Days))
	for _, d := range Days {
		hours[d] = DayHours{}
	}
	return TimingAndAvailability{
		OpeningHours:   hours,
		BookingMode:    BookingModeSlots,
		SlotDuration:   []int{60},
		WeeklySlots:    map[Day][]string{},
		Exceptions:     []Exception{},
		MaxAdvanceDays: 30,
		MinNoticeHours: 2,
	}
}

func DefaultBookingAndPricing() BookingAndPricing {
	return BookingAndPricing{
		PricingModel: PricingHourly,
		PeakRates:    []PeakRate{},
	}
}

func DefaultMedia() Media {
	return Media{Images: []string{}, IsActive: true}
}

// Clone returns a deep copy of the aggregate.
func (f PropertyForm) Clone() PropertyForm {
	return Copy(f)
}

// Section returns a copy of the section for step, or nil if it has not
// been submitted.
func (f PropertyForm) Section(step StepKey) any {
	switch step {
	case StepBasicInfo:
		if f.BasicInfo != nil {
			return Copy(*f.BasicInfo)
		}
	case StepPropertyDetail:
		if f.PropertyDetail != nil {
			return Copy(*f.PropertyDetail)
		}
	case StepTimingAndAvailability:
		if f.TimingAndAvailability != nil {
			return Copy(*f.TimingAndAvailability)
		}
	case StepBookingAndPricing:
		if f.BookingAndPricing != nil {
			return Copy(*f.BookingAndPricing)
		}
	case StepMedia:
		if f.Media != nil {
			return Copy(*f.Media)
		}
	}
	return nil
}

// SetSection replaces the section for step wholesale with a copy of v.
func (f *PropertyForm) SetSection(step StepKey, v any) error {
	switch s := v.(type) {
	case BasicInfo:
		if step == StepBasicInfo {
			c := Copy(s)
			f.BasicInfo = &c
			return nil
		}
	case PropertyDetail:
		if step == StepPropertyDetail {
			c := Copy(s)
			f.PropertyDetail = &c
			return nil
		}
	case TimingAndAvailability:
		if step == StepTimingAndAvailability {
			c := Copy(s)
			f.TimingAndAvailability = &c
			return nil
		}
	case BookingAndPricing:
		if step == StepBookingAndPricing {
			c := Copy(s)
			f.BookingAndPricing = &c
			return nil
		}
	case Media:
		if step == StepMedia {
			c := Copy(s)
			f.Media = &c
			return nil
		}
	}
	if StepIndex(step) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return fmt.Errorf("section %T does not belong to step %q", v, step)
}

// Complete reports whether every section is present.
func (f PropertyForm) Complete() bool {
	return f.BasicInfo != nil && f.PropertyDetail != nil && f.TimingAndAvailability != nil &&
		f.BookingAndPricing != nil && f.Media != nil
}

// Copy returns a deep copy of v made through its JSON encoding.
func Copy[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("courtconnect: copying %T: %v", v, err))
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("courtconnect: copying %T: %v", v, err))
	}
	return out
}
