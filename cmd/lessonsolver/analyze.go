package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeRecentFlag int

var analyzeFixturesCmd = &cobra.Command{
	Use:   "analyze-fixtures",
	Short: "Report trends across every fixture run recorded in the catalog",
	Long: `analyze-fixtures queries the fixture catalog (populated by
generate-scaled-fixtures and generate-extreme-fixtures) and prints a
summary of how many fixtures were generated per category, the average
difficulty score and predicted solve time, and the most recent runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalogStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		handler := fixtureSummaryHandler{store: store}
		result, err := handler.Handle(cmd.Context(), fixtureSummaryQuery{recent: analyzeRecentFlag})
		if err != nil {
			return fmt.Errorf("summarize fixture catalog: %w", err)
		}

		fmt.Printf("Total fixture runs: %d\n", result.Summary.TotalRuns)
		fmt.Printf("Average difficulty score: %.3f\n", result.Summary.AverageDifficulty)
		fmt.Printf("Average predicted solve time: %.1fms\n", result.Summary.AveragePredictedSolveMs)
		fmt.Println("By category:")
		for category, count := range result.Summary.ByCategory {
			fmt.Printf("  %-20s %d\n", category, count)
		}

		fmt.Printf("\nMost recent %d runs:\n", len(result.Recent))
		for _, run := range result.Recent {
			fmt.Printf("  %-24s %-20s targetK=%-6d actualK=%-6d difficulty=%.3f\n",
				run.ID, run.Category, run.TargetK, run.ActualK, run.DifficultyScore)
		}
		return nil
	},
}

func init() {
	analyzeFixturesCmd.Flags().IntVar(&analyzeRecentFlag, "recent", 20, "number of most recent runs to list")
	rootCmd.AddCommand(analyzeFixturesCmd)
}
