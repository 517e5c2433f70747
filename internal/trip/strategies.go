package trip

import (
	"fmt"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/optimizer"
)

// Per-strategy savings fractions. Business constants carried over from the
// product unchanged; tune via config rather than inferring meaning from the
// specific values.
const (
	HotelDowngradeFraction = 0.30 // of hotel cost
	DateShiftFraction      = 0.15 // of flight + hotel cost
	ActivityTrimFraction   = 0.40 // of activities cost
	EconomyCabinFraction   = 0.25 // of flight cost
)

// Strategy identifiers, in rank order.
const (
	StrategyDropCar        = "drop-rental-car"
	StrategyDowngradeHotel = "downgrade-hotel"
	StrategyShiftDates     = "shift-dates-off-peak"
	StrategyTrimActivities = "trim-activities"
	StrategyEconomyFlights = "economy-flights"
)

// costStrategy is a fixed-savings strategy judged against the booking
// composition captured at construction time.
type costStrategy struct {
	id          string
	description string
	savings     float64
	viable      bool
}

func (s costStrategy) ID() string          { return s.id }
func (s costStrategy) Description() string { return s.description }

func (s costStrategy) Viable(optimizer.State) bool { return s.viable }

func (s costStrategy) Estimate(st optimizer.State) (float64, float64) {
	newCost := st.CurrentCost - s.savings
	if newCost < 0 {
		newCost = 0
	}
	return newCost, s.savings
}

// CostStrategies builds the ranked strategy list for a booking composition.
// Rank order favors the least disruptive changes first.
func CostStrategies(b Bookings) []optimizer.Strategy {
	return []optimizer.Strategy{
		costStrategy{
			id:          StrategyDropCar,
			description: fmt.Sprintf("Drop the rental car, saving %.2f", b.CarCost),
			savings:     b.CarCost,
			viable:      b.HasCar && b.CarCost > 0,
		},
		costStrategy{
			id:          StrategyDowngradeHotel,
			description: fmt.Sprintf("Move to a lower hotel tier, saving %.2f", b.HotelCost*HotelDowngradeFraction),
			savings:     b.HotelCost * HotelDowngradeFraction,
			viable:      b.HotelTier != HotelTierBudget && b.HotelCost > 0,
		},
		costStrategy{
			id:          StrategyShiftDates,
			description: fmt.Sprintf("Shift travel dates off-peak, saving %.2f", (b.FlightCost+b.HotelCost)*DateShiftFraction),
			savings:     (b.FlightCost + b.HotelCost) * DateShiftFraction,
			viable:      b.FlightCost+b.HotelCost > 0,
		},
		costStrategy{
			id:          StrategyTrimActivities,
			description: fmt.Sprintf("Trim the activity list, saving %.2f", b.ActivitiesCost*ActivityTrimFraction),
			savings:     b.ActivitiesCost * ActivityTrimFraction,
			viable:      b.ActivityCount > 1 && b.ActivitiesCost > 0,
		},
		costStrategy{
			id:          StrategyEconomyFlights,
			description: fmt.Sprintf("Rebook flights in economy, saving %.2f", b.FlightCost*EconomyCabinFraction),
			savings:     b.FlightCost * EconomyCabinFraction,
			viable:      b.FlightCabin != CabinEconomy && b.FlightCost > 0,
		},
	}
}
