package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
)

// NewWeather builds the forecast lookup worker. Severe conditions notify the
// document step over the bus so packing guidance ends up in the final report.
func NewWeather(d Deps) *agent.Worker {
	return agent.New(AgentWeather,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}

			profile := lookupDestination(dest)
			return map[string]any{
				"climate":  profile.climate,
				"severity": profile.severity,
				"forecast": fmt.Sprintf("%s; expect %s conditions", profile.climate, profile.severity),
			}, nil
		},
		d.options(agent.WithAfterHook(func(ctx context.Context, b bus.Bus, input map[string]any, res *agent.Result) {
			if b == nil || res.Failed() {
				return
			}
			if severity, _ := res.Data["severity"].(string); severity == "severe" {
				_ = b.Send(bus.NewMessage(AgentWeather, AgentDocuments, bus.WeatherAdvisoryPayload{
					Destination: stringInput(input, "destination"),
					Conditions:  stringInput(input, "destination") + ": " + res.Data["forecast"].(string),
					Severity:    severity,
				}).WithPriority(bus.PriorityHigh))
			}
		}))...)
}

// NewAdvisory builds the travel-advisory worker. A do-not-travel level emits
// a critical TravelBlocked message, which aborts the run.
func NewAdvisory(d Deps) *agent.Worker {
	return agent.New(AgentAdvisory,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}

			profile := lookupDestination(dest)
			return map[string]any{
				"level": profile.advisoryLevel,
				"note":  profile.advisoryNote,
			}, nil
		},
		d.options(agent.WithAfterHook(func(ctx context.Context, b bus.Bus, input map[string]any, res *agent.Result) {
			if b == nil || res.Failed() {
				return
			}
			if level, _ := res.Data["level"].(int); level >= 4 {
				note, _ := res.Data["note"].(string)
				_ = b.Send(bus.NewMessage(AgentAdvisory, AgentOrchestrator, bus.TravelBlockedPayload{
					Destination: stringInput(input, "destination"),
					Reason:      note,
				}).WithPriority(bus.PriorityCritical))
			}
		}))...)
}

// NewVisa builds the visa requirement lookup worker.
func NewVisa(d Deps) *agent.Worker {
	return agent.New(AgentVisa,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			dest, err := requireDestination(input)
			if err != nil {
				return nil, err
			}
			origin := stringInput(input, "origin")
			if origin == "" {
				return nil, fmt.Errorf("input missing origin")
			}

			profile := lookupDestination(dest)
			required := true
			for _, free := range profile.visaFree {
				if strings.EqualFold(free, origin) {
					required = false
					break
				}
			}

			data := map[string]any{"required": required}
			if required {
				data["guidance"] = fmt.Sprintf("check embassy requirements for %s nationals travelling to %s", origin, dest)
			}
			return data, nil
		},
		d.options()...)
}

// Static conversion rates against USD. A real deployment replaces this with a
// rates API collaborator behind the same contract.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 148.0,
	"ISK": 138.0,
	"PEN": 3.8,
}

// NewCurrency builds the currency conversion worker.
func NewCurrency(d Deps) *agent.Worker {
	return agent.New(AgentCurrency,
		func(ctx context.Context, input map[string]any) (map[string]any, error) {
			code := strings.ToUpper(stringInput(input, "currency"))
			if code == "" {
				code = "USD"
			}

			rate, ok := usdRates[code]
			if !ok {
				return nil, fmt.Errorf("unsupported currency %q", code)
			}

			return map[string]any{
				"currency":     code,
				"rate_per_usd": rate,
			}, nil
		},
		d.options()...)
}
