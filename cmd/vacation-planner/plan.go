package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/config"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/llm"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/orchestrator"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
)

var planFlags struct {
	destination string
	origin      string
	start       string
	nights      int
	travelers   int
	budget      float64
	currency    string
	yes         bool
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip, pausing at checkpoints for your decisions",
	Example: `  vacation-planner plan --destination Kyoto --origin Berlin \
      --start 2026-10-05 --nights 4 --travelers 2 --budget 4000`,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planFlags.destination, "destination", "", "where to go")
	f.StringVar(&planFlags.origin, "origin", "", "where to start from")
	f.StringVar(&planFlags.start, "start", "", "departure date (YYYY-MM-DD)")
	f.IntVar(&planFlags.nights, "nights", 4, "number of nights")
	f.IntVar(&planFlags.travelers, "travelers", 1, "number of travelers")
	f.Float64Var(&planFlags.budget, "budget", 0, "total budget")
	f.StringVar(&planFlags.currency, "currency", "USD", "budget currency code")
	f.BoolVar(&planFlags.yes, "yes", false, "answer proceed/approve at every checkpoint")

	_ = planCmd.MarkFlagRequired("destination")
	_ = planCmd.MarkFlagRequired("origin")
	_ = planCmd.MarkFlagRequired("budget")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	completer, err := llm.NewCompleter(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey)
	if err != nil {
		return err
	}

	query, err := buildQuery()
	if err != nil {
		return err
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if completer != nil {
		opts = append(opts, orchestrator.WithCompleter(completer))
	}
	orch := orchestrator.New(cfg.Planner, opts...)

	ctx := cmd.Context()
	outcome, err := orch.Run(ctx, query)
	if err != nil {
		return err
	}

	prompter := bufio.NewReader(cmd.InOrStdin())
	for outcome.Status == orchestrator.OutcomeHalted {
		decision, err := decideCheckpoint(cmd, prompter, outcome.Checkpoint)
		if err != nil {
			return err
		}
		outcome, err = orch.Resume(ctx, outcome.Checkpoint.ResumeToken, decision)
		if err != nil {
			return err
		}
	}

	switch outcome.Status {
	case orchestrator.OutcomeCompleted:
		renderReport(cmd, outcome.Report)
		return nil
	case orchestrator.OutcomeAborted:
		renderAbort(cmd, outcome.Abort)
		return fmt.Errorf("planning aborted: %s", outcome.Abort.Reason)
	default:
		return fmt.Errorf("unexpected outcome status %s", outcome.Status)
	}
}

func buildQuery() (trip.Query, error) {
	start := time.Now().AddDate(0, 1, 0)
	if planFlags.start != "" {
		parsed, err := time.Parse(time.DateOnly, planFlags.start)
		if err != nil {
			return trip.Query{}, fmt.Errorf("invalid --start date %q: use YYYY-MM-DD", planFlags.start)
		}
		start = parsed
	}

	return trip.Query{
		Destination: planFlags.destination,
		Origin:      planFlags.origin,
		StartDate:   start,
		Nights:      planFlags.nights,
		Travelers:   planFlags.travelers,
		Budget:      planFlags.budget,
		Currency:    planFlags.currency,
	}, nil
}

// decideCheckpoint renders the checkpoint and collects a decision, either
// automatically under --yes or interactively from stdin.
func decideCheckpoint(cmd *cobra.Command, in *bufio.Reader, cp *orchestrator.Checkpoint) (orchestrator.Decision, error) {
	heading := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)

	switch cp.Kind {
	case orchestrator.CheckpointSuggestions:
		heading.Fprintln(cmd.OutOrStdout(), "\nBefore booking anything, a few things worth knowing:")
		for _, h := range cp.Highlights {
			warn.Fprintf(cmd.OutOrStdout(), "  - %s\n", h)
		}

	case orchestrator.CheckpointBudget:
		a := cp.Assessment
		heading.Fprintln(cmd.OutOrStdout(), "\nBudget check:")
		fmt.Fprintf(cmd.OutOrStdout(), "  estimated total %.2f against a budget of %.2f (%s)\n",
			a.EstimatedTotal, a.UserBudget, a.Scenario)

	case orchestrator.CheckpointApproval:
		p := cp.Proposal
		heading.Fprintln(cmd.OutOrStdout(), "\nCost-reduction proposal:")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %.2f -> %.2f (saves %.2f)\n",
			p.Description, p.CurrentCost, p.NewCost, p.Savings)
	}

	choices := cp.Choices()
	if planFlags.yes {
		return orchestrator.Decision{Choice: choices[0], ApproverID: "cli"}, nil
	}

	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = string(c)
	}
	for {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]> ", strings.Join(labels, "/"))
		line, err := in.ReadString('\n')
		if err != nil {
			return orchestrator.Decision{}, fmt.Errorf("read decision: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		for _, c := range choices {
			if answer == string(c) {
				return orchestrator.Decision{Choice: c, ApproverID: "cli"}, nil
			}
		}
		warn.Fprintf(cmd.OutOrStdout(), "expected one of: %s\n", strings.Join(labels, ", "))
	}
}

func renderReport(cmd *cobra.Command, report *orchestrator.FinalReport) {
	out := cmd.OutOrStdout()
	title := color.New(color.FgGreen, color.Bold)
	section := color.New(color.Bold)

	title.Fprintf(out, "\nYour %s trip is planned.\n", report.Query.Destination)

	section.Fprintln(out, "\nEstimated costs")
	fmt.Fprintf(out, "  flights     %10.2f  (%s)\n", report.Bookings.FlightCost, report.Bookings.FlightCabin)
	fmt.Fprintf(out, "  hotel       %10.2f  (%s)\n", report.Bookings.HotelCost, report.Bookings.HotelTier)
	if report.Bookings.HasCar {
		fmt.Fprintf(out, "  rental car  %10.2f\n", report.Bookings.CarCost)
	}
	fmt.Fprintf(out, "  activities  %10.2f\n", report.Bookings.ActivitiesCost)
	fmt.Fprintf(out, "  total       %10.2f against budget %.2f (%s)\n",
		report.Assessment.EstimatedTotal, report.Assessment.UserBudget, report.Assessment.Scenario)

	if opt := report.Optimization; opt != nil {
		section.Fprintln(out, "\nCost optimization")
		fmt.Fprintf(out, "  %d adjustments applied, saving %.2f (final cost %.2f, %s)\n",
			len(opt.Applied), opt.TotalSavings, opt.FinalCost, opt.Phase)
		for _, rec := range opt.Applied {
			fmt.Fprintf(out, "  - %s\n", rec.Description)
		}
	}

	section.Fprintln(out, "\nItinerary")
	for _, day := range report.Itinerary.Days {
		fmt.Fprintf(out, "  Day %d: %s", day.Day, day.Morning)
		if day.Afternoon != "" {
			fmt.Fprintf(out, "; %s", day.Afternoon)
		}
		if day.Evening != "" {
			fmt.Fprintf(out, "; %s", day.Evening)
		}
		fmt.Fprintln(out)
	}
	for _, note := range report.Itinerary.Notes {
		fmt.Fprintf(out, "  Note: %s\n", note)
	}

	section.Fprintln(out, "\nDocument checklist")
	for _, item := range report.Checklist {
		fmt.Fprintf(out, "  [ ] %s\n", item)
	}

	if len(report.Warnings) > 0 {
		warn := color.New(color.FgYellow)
		section.Fprintln(out, "\nWarnings")
		for _, w := range report.Warnings {
			warn.Fprintf(out, "  - %s\n", w)
		}
	}

	fmt.Fprintf(out, "\nEstimates gathered with a %.1fx parallel speedup.\n", report.Speedup)
}

func renderAbort(cmd *cobra.Command, abort *orchestrator.AbortInfo) {
	out := cmd.OutOrStdout()
	fail := color.New(color.FgRed, color.Bold)

	fail.Fprintf(out, "\nPlanning stopped by %s.\n", abort.Agent)
	fmt.Fprintf(out, "  %s\n", abort.Reason)
}
