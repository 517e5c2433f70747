package worker

import (
	"context"
	"fmt"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
)

// NewItinerary builds the assembly worker that folds the accumulated research
// and booking data into a day-by-day plan.
func NewItinerary(d Deps) *agent.Worker {
	return agent.New(AgentItinerary,
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

			highlight := profile.signatureSight
			if activities, ok := input[AgentActivities].(map[string]any); ok {
				if h, ok := activities["highlight"].(string); ok && h != "" {
					highlight = h
				}
			}

			itinerary := trip.Itinerary{Destination: dest}
			for day := 1; day <= nights+1; day++ {
				plan := trip.DayPlan{
					Day:       day,
					Morning:   fmt.Sprintf("Explore %s", highlight),
					Afternoon: "Neighborhood walk and local food",
					Evening:   "Dinner near the hotel",
				}
				switch day {
				case 1:
					plan.Morning = "Arrival and check-in"
				case nights + 1:
					plan.Afternoon = "Departure"
					plan.Evening = ""
				}
				itinerary.Days = append(itinerary.Days, plan)
			}

			if weather, ok := input[AgentWeather].(map[string]any); ok {
				if severity, _ := weather["severity"].(string); severity == "severe" {
					itinerary.Notes = append(itinerary.Notes,
						fmt.Sprintf("Pack for %s weather", severity))
				}
			}

			return map[string]any{
				"itinerary": itinerary,
				"days":      len(itinerary.Days),
			}, nil
		},
		d.options()...)
}

// NewDocuments builds the document worker, the terminal assembly step. It
// drains its bus queue so advisories emitted during earlier phases (severe
// weather, for instance) land in the traveler-facing checklist.
func NewDocuments(d Deps) *agent.Worker {
	return agent.New(AgentDocuments,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}

			checklist := []string{"Passport", "Booking confirmations", "Travel insurance"}

			if visa, ok := input[AgentVisa].(map[string]any); ok {
				if required, _ := visa["required"].(bool); required {
					checklist = append(checklist, "Visa paperwork")
				}
			}

			if d.Bus != nil {
				for _, msg := range d.Bus.Drain(AgentDocuments, bus.Filter{
					Types: []bus.MessageType{bus.MessageWeatherAdvisory},
				}) {
					if payload, ok := msg.Payload.(bus.WeatherAdvisoryPayload); ok {
						checklist = append(checklist,
							fmt.Sprintf("Weather gear (%s conditions reported)", payload.Severity))
					}
				}
			}

			return map[string]any{
				"destination": dest,
				"checklist":   checklist,
			}, nil
		},
		d.options()...)
}
