package worker

import (
	"context"
	"fmt"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/llm"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
)

// Cabin price multipliers relative to the base fare.
var cabinMultiplier = map[trip.Cabin]float64{
	trip.CabinEconomy:  1.0,
	trip.CabinPremium:  1.45,
	trip.CabinBusiness: 2.6,
}

// NewFlights builds the flight estimate worker. The default quote is premium
// economy; the optimizer's economy-flights strategy trades it down.
func NewFlights(d Deps) *agent.Worker {
	return agent.New(AgentFlights,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}
			travelers := intInput(input, "travelers")
			if travelers <= 0 {
				travelers = 1
			}

			profile := lookupDestination(dest)
			cabin := trip.CabinPremium
			cost := profile.flightBase * cabinMultiplier[cabin] * float64(travelers)

			return map[string]any{
				"cost":  cost,
				"cabin": string(cabin),
			}, nil
		},
		d.options()...)
}

// Hotel tier price multipliers relative to the comfort nightly rate.
var tierMultiplier = map[trip.HotelTier]float64{
	trip.HotelTierBudget:  0.6,
	trip.HotelTierComfort: 1.0,
	trip.HotelTierLuxury:  2.2,
}

// NewHotels builds the hotel estimate worker.
func NewHotels(d Deps) *agent.Worker {
	return agent.New(AgentHotels,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}
			nights := intInput(input, "nights")
			if nights <= 0 {
				return nil, fmt.Errorf("input missing nights")
			}

			profile := lookupDestination(dest)
			tier := trip.HotelTierComfort
			cost := profile.hotelNightly * tierMultiplier[tier] * float64(nights)

			return map[string]any{
				"cost": cost,
				"tier": string(tier),
			}, nil
		},
		d.options()...)
}

// NewCars builds the rental car estimate worker.
func NewCars(d Deps) *agent.Worker {
	return agent.New(AgentCars,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}
			nights := intInput(input, "nights")
			if nights <= 0 {
				return nil, fmt.Errorf("input missing nights")
			}

			profile := lookupDestination(dest)
			return map[string]any{
				"cost":   profile.carDaily * float64(nights),
				"booked": true,
			}, nil
		},
		d.options()...)
}

// NewActivities builds the activity suggestion worker. When a completer is
// provided it generates a short narrative around the signature sight; any
// completion failure falls back to the deterministic summary, so the result
// stays structured either way.
func NewActivities(d Deps, completer llm.Completer) *agent.Worker {
	return agent.New(AgentActivities,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}
			nights := intInput(input, "nights")
			if nights <= 0 {
				nights = 1
			}
			travelers := intInput(input, "travelers")
			if travelers <= 0 {
				travelers = 1
			}

			profile := lookupDestination(dest)
			count := nights + 1
			summary := fmt.Sprintf("%d activities around %s, starting with %s", count, dest, profile.signatureSight)

			if completer != nil {
				prompt := fmt.Sprintf(
					"Suggest %d concise daily activities for a %d-night trip to %s. Highlight %s.",
					count, nights, dest, profile.signatureSight,
				)
				if generated, err := completer.Complete(ctx, prompt); err == nil && generated != "" {
					summary = generated
				}
			}

			return map[string]any{
				"cost":      profile.activityDaily * float64(nights) * float64(travelers),
				"count":     count,
				"highlight": profile.signatureSight,
				"summary":   summary,
			}, nil
		},
		d.options()...)
}
