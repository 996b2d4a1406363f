package skyscanner

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"farescan/internal/daterange"
)

// TripParams are held constant for every request of a run.
type TripParams struct {
	Country          string `json:"country"`
	Currency         string `json:"currency"`
	Locale           string `json:"locale"`
	OriginPlace      string `json:"origin_place"`
	DestinationPlace string `json:"destination_place"`
	Adults           int    `json:"adults"`
	CabinClass       string `json:"cabin_class"`
}

// Validate reports every missing field, all of them are required.
func (p TripParams) Validate() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"country", p.Country},
		{"currency", p.Currency},
		{"locale", p.Locale},
		{"origin_place", p.OriginPlace},
		{"destination_place", p.DestinationPlace},
		{"cabin_class", p.CabinClass},
	}
	for _, field := range required {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("trip.%s is required", field.name))
		}
	}
	if p.Adults < 1 {
		errs = append(errs, fmt.Errorf("trip.adults must be at least 1, got %d", p.Adults))
	}
	return errors.Join(errs...)
}

// SessionRequest is a trip for a single pair of dates.
type SessionRequest struct {
	Trip TripParams
	// OutboundDate is the departure date.
	OutboundDate time.Time
	// InboundDate is the arrival (return) date.
	InboundDate time.Time
}

func (r SessionRequest) formData() map[string]string {
	return map[string]string{
		"country":          r.Trip.Country,
		"currency":         r.Trip.Currency,
		"locale":           r.Trip.Locale,
		"originPlace":      r.Trip.OriginPlace,
		"destinationPlace": r.Trip.DestinationPlace,
		"adults":           strconv.Itoa(r.Trip.Adults),
		"cabinClass":       r.Trip.CabinClass,
		"outboundDate":     daterange.Format(r.OutboundDate),
		"inboundDate":      daterange.Format(r.InboundDate),
	}
}

type PricingOption struct {
	Agents            []int   `json:"Agents"`
	QuoteAgeInMinutes int     `json:"QuoteAgeInMinutes"`
	Price             float64 `json:"Price"`
	DeeplinkUrl       string  `json:"DeeplinkUrl"`
}

// QuoteAge is the time since the provider last refreshed the fare.
func (o PricingOption) QuoteAge() time.Duration {
	return time.Duration(o.QuoteAgeInMinutes) * time.Minute
}

type Itinerary struct {
	OutboundLegId  string          `json:"OutboundLegId"`
	InboundLegId   string          `json:"InboundLegId"`
	PricingOptions []PricingOption `json:"PricingOptions"`
}

type Query struct {
	Country          string `json:"Country"`
	Currency         string `json:"Currency"`
	Locale           string `json:"Locale"`
	Adults           int    `json:"Adults"`
	OriginPlace      string `json:"OriginPlace"`
	DestinationPlace string `json:"DestinationPlace"`
	OutboundDate     string `json:"OutboundDate"`
	InboundDate      string `json:"InboundDate"`
	CabinClass       string `json:"CabinClass"`
}

// PollResponse is the part of a live pricing poll that is used, itineraries
// come back sorted by ascending price.
type PollResponse struct {
	SessionKey  string      `json:"SessionKey"`
	Query       Query       `json:"Query"`
	Status      string      `json:"Status"`
	Itineraries []Itinerary `json:"Itineraries"`
}

// Cheapest returns the first pricing option of the first itinerary.
func (r PollResponse) Cheapest() (PricingOption, error) {
	if len(r.Itineraries) == 0 || len(r.Itineraries[0].PricingOptions) == 0 {
		return PricingOption{}, &NoFaresError{SessionKey: r.SessionKey}
	}
	return r.Itineraries[0].PricingOptions[0], nil
}
