package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/lessonscheduler/solver/internal/solver"
	"github.com/lessonscheduler/solver/internal/solver/trace"
)

var (
	solveTimeBudgetMsFlag int
	countKMaxFlag         int64
	countSamplesFlag      int
)

var solveCmd = &cobra.Command{
	Use:   "solve <fixture.json>",
	Short: "Run the backtracking solver against a single fixture and print the schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := loadTestCase(args[0])
		if err != nil {
			return err
		}
		problem, err := tc.Problem()
		if err != nil {
			return err
		}

		opts := solver.CreateOptimalConfig(len(problem.Students()))
		if solveTimeBudgetMsFlag > 0 {
			opts.MaxTimeMs = solveTimeBudgetMsFlag
		} else if appConfig.SolveTimeBudget > 0 {
			opts.MaxTimeMs = int(appConfig.SolveTimeBudget.Milliseconds())
		}

		engine := solver.NewEngine(problem, opts)
		if appConfig.Visualize {
			engine.Trace = trace.NewTracer(os.Stderr, appLogger)
		}

		solution, err := engine.Solve(cmd.Context())
		if err != nil {
			return fmt.Errorf("solve %s: %w", tc.ID, err)
		}

		fmt.Printf("scheduled %d/%d students (%.1f%% utilization) in %.1fms\n",
			solution.Metadata.ScheduledStudents, solution.Metadata.TotalStudents,
			solution.Metadata.AverageUtilization*100, solution.Metadata.ComputeTimeMs)
		for _, a := range solution.Assignments {
			fmt.Printf("  %-20s day=%d start=%d duration=%d\n", a.StudentID(), a.DayOfWeek(), a.StartMinute(), a.DurationMinutes())
		}
		for _, id := range solution.Unscheduled {
			fmt.Printf("  %-20s UNSCHEDULED\n", id)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <fixture.json>",
	Short: "Check a fixture for structural errors before attempting to solve it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := loadTestCase(args[0])
		if err != nil {
			return err
		}
		problem, err := tc.Problem()
		if err != nil {
			return err
		}

		errs := solver.Validate(problem)
		if len(errs) == 0 {
			fmt.Println("valid")
			return nil
		}
		for _, e := range errs {
			fmt.Println(e)
		}
		return fmt.Errorf("%d validation error(s)", len(errs))
	},
}

var countCmd = &cobra.Command{
	Use:   "count <fixture.json>",
	Short: "Count (or estimate) the number of distinct full solutions a fixture admits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := loadTestCase(args[0])
		if err != nil {
			return err
		}
		problem, err := tc.Problem()
		if err != nil {
			return err
		}

		result := solver.CountSolutions(problem, countKMaxFlag, countSamplesFlag, rand.New(rand.NewSource(appConfig.DefaultSeed)))
		if result.Exact {
			fmt.Printf("exact count: %d (capped=%v)\n", result.Count, result.Capped)
		} else {
			fmt.Printf("estimated count: %d (confidence=%.2f)\n", result.Count, result.Confidence)
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().IntVar(&solveTimeBudgetMsFlag, "time-budget-ms", 0, "override the solve time budget in milliseconds")
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(validateCmd)

	countCmd.Flags().Int64Var(&countKMaxFlag, "k-max", 10000, "cap on exact enumeration")
	countCmd.Flags().IntVar(&countSamplesFlag, "samples", 2000, "Monte-Carlo sample count when exact enumeration is too expensive")
	rootCmd.AddCommand(countCmd)
}
