package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/domain/progress"
)

var (
	progressJSON bool
	reportStart  string
	reportEnd    string
)

var progressCmd = &cobra.Command{
	Use:   "progress <task-id>",
	Short: "Show completion percentage and status breakdown for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		summary, err := services.Progress.TrackProgress(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		if progressJSON {
			return json.NewEncoder(os.Stdout).Encode(summary)
		}

		fmt.Printf("Task %s: %.1f%% complete (%d todos)\n", summary.TaskID, summary.CompletionPercentage, summary.Total)
		for status, count := range summary.ByStatus {
			fmt.Printf("  %-12s %d\n", status, count)
		}
		return nil
	},
}

var blockersCmd = &cobra.Command{
	Use:   "blockers <task-id>",
	Short: "Analyze current blockers for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		analysis, err := services.Progress.IdentifyBlockers(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		if progressJSON {
			return json.NewEncoder(os.Stdout).Encode(analysis)
		}

		if len(analysis.Blockers) == 0 {
			fmt.Println("No blockers.")
			return nil
		}
		fmt.Printf("%d blockers (avg %.1f hours blocked):\n", len(analysis.Blockers), analysis.AverageBlockingHours)
		for _, b := range analysis.Blockers {
			fmt.Printf("  %-40s [%s] %s\n", b.TodoID, b.Category, b.Description)
		}
		for category, count := range analysis.ByCategory {
			fmt.Printf("  %-12s %d\n", category, count)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <task-id>",
	Short: "Generate a ranged progress report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		start, err := time.Parse("2006-01-02", reportStart)
		if err != nil {
			return fmt.Errorf("invalid start date %q, want YYYY-MM-DD", reportStart)
		}
		end, err := time.Parse("2006-01-02", reportEnd)
		if err != nil {
			return fmt.Errorf("invalid end date %q, want YYYY-MM-DD", reportEnd)
		}

		report, err := services.Progress.GenerateProgressReport(cmd.Context(), args[0],
			progress.Range{StartDate: start, EndDate: end})
		if err != nil {
			return MapError(err)
		}

		return json.NewEncoder(os.Stdout).Encode(report)
	},
}

func init() {
	progressCmd.Flags().BoolVar(&progressJSON, "json", false, "Output as JSON")
	blockersCmd.Flags().BoolVar(&progressJSON, "json", false, "Output as JSON")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Range start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Range end (YYYY-MM-DD)")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")

	RootCmd.AddCommand(progressCmd)
	RootCmd.AddCommand(blockersCmd)
	RootCmd.AddCommand(reportCmd)
}
