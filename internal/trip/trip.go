// Package trip holds the vacation-planning domain types shared by the
// workers, the optimizer strategies, and the orchestrator.
package trip

import (
	"fmt"
	"time"
)

// Query is the traveler's request that seeds a pipeline run.
type Query struct {
	Destination string    `json:"destination" yaml:"destination"`
	Origin      string    `json:"origin" yaml:"origin"`
	StartDate   time.Time `json:"start_date" yaml:"start_date"`
	Nights      int       `json:"nights" yaml:"nights"`
	Travelers   int       `json:"travelers" yaml:"travelers"`
	Budget      float64   `json:"budget" yaml:"budget"`
	Currency    string    `json:"currency" yaml:"currency"`
}

// Validate checks the query is complete enough to plan against.
func (q Query) Validate() error {
	if q.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if q.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if q.Nights <= 0 {
		return fmt.Errorf("nights must be positive, got %d", q.Nights)
	}
	if q.Travelers <= 0 {
		return fmt.Errorf("travelers must be positive, got %d", q.Travelers)
	}
	if q.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %.2f", q.Budget)
	}
	return nil
}

// ToInput converts the query into the structured map form workers consume.
func (q Query) ToInput() map[string]any {
	return map[string]any{
		"destination": q.Destination,
		"origin":      q.Origin,
		"start_date":  q.StartDate.Format(time.DateOnly),
		"nights":      q.Nights,
		"travelers":   q.Travelers,
		"budget":      q.Budget,
		"currency":    q.Currency,
	}
}

// HotelTier is the comfort class of the selected accommodation.
type HotelTier string

const (
	HotelTierLuxury  HotelTier = "luxury"
	HotelTierComfort HotelTier = "comfort"
	HotelTierBudget  HotelTier = "budget"
)

// Cabin is the flight cabin class.
type Cabin string

const (
	CabinBusiness Cabin = "business"
	CabinPremium  Cabin = "premium_economy"
	CabinEconomy  Cabin = "economy"
)

// Bookings is the booking composition produced by the estimates phase.
// Strategy viability is judged against it: a rental car cannot be removed if
// none was booked.
type Bookings struct {
	FlightCost     float64   `json:"flight_cost"`
	HotelCost      float64   `json:"hotel_cost"`
	CarCost        float64   `json:"car_cost"`
	ActivitiesCost float64   `json:"activities_cost"`
	HasCar         bool      `json:"has_car"`
	HotelTier      HotelTier `json:"hotel_tier"`
	FlightCabin    Cabin     `json:"flight_cabin"`
	ActivityCount  int       `json:"activity_count"`
}

// Components returns the cost components in a fixed order for assessment.
func (b Bookings) Components() []float64 {
	return []float64{b.FlightCost, b.HotelCost, b.CarCost, b.ActivitiesCost}
}

// Total sums all cost components.
func (b Bookings) Total() float64 {
	var total float64
	for _, c := range b.Components() {
		total += c
	}
	return total
}

// DayPlan is one day of the assembled itinerary.
type DayPlan struct {
	Day       int    `json:"day" yaml:"day"`
	Morning   string `json:"morning" yaml:"morning"`
	Afternoon string `json:"afternoon" yaml:"afternoon"`
	Evening   string `json:"evening" yaml:"evening"`
}

// Itinerary is the assembled multi-day plan returned in the final report.
type Itinerary struct {
	Destination string    `json:"destination" yaml:"destination"`
	Days        []DayPlan `json:"days" yaml:"days"`
	Notes       []string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}
