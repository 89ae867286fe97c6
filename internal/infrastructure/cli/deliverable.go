package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/domain/quality"
	"github.com/workintel/workintel/pkg/domain/todo"
)

var deliverableCmd = &cobra.Command{
	Use:   "deliverable",
	Short: "Submit, assess, and inspect deliverables",
}

var (
	submitTodoID    string
	submitTaskID    string
	submitID        string
	assessVersion   int
	assessStandards []string
	assessTeamID    string
	assessJSON      bool
	rejectReason    string
)

var deliverableSubmitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Submit a file as a new deliverable version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		fileName := filepath.Base(args[0])
		d := &todo.Deliverable{
			ID:          submitID,
			TodoID:      submitTodoID,
			TaskID:      submitTaskID,
			FileName:    fileName,
			FileType:    strings.TrimPrefix(filepath.Ext(fileName), "."),
			Content:     string(content),
			SubmittedBy: currentActor(),
		}

		saved, err := services.Assessment.SubmitDeliverable(cmd.Context(), d)
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("Submitted %s as %s v%d\n", fileName, saved.ID, saved.Version)
		return nil
	},
}

var deliverableAssessCmd = &cobra.Command{
	Use:   "assess <deliverable-id>",
	Short: "Run the quality assessment on a deliverable version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		version := assessVersion
		if version == 0 {
			latest, err := services.Workspace.Repo.LatestDeliverable(args[0])
			if err != nil {
				return MapError(err)
			}
			version = latest.Version
		}

		result, err := services.Assessment.PerformQualityAssessment(cmd.Context(), args[0], version,
			assessStandards, quality.AssessmentContext{TeamID: assessTeamID})
		if err != nil {
			return MapError(err)
		}

		if assessJSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		printAssessment(result)
		return nil
	},
}

var deliverableRejectCmd = &cobra.Command{
	Use:   "reject <deliverable-id>",
	Short: "Reject a deliverable version outright",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		version := assessVersion
		if version == 0 {
			latest, err := services.Workspace.Repo.LatestDeliverable(args[0])
			if err != nil {
				return MapError(err)
			}
			version = latest.Version
		}

		if err := services.Assessment.RejectDeliverable(cmd.Context(), args[0], version, currentActor(), rejectReason); err != nil {
			return MapError(err)
		}
		fmt.Printf("Rejected %s v%d\n", args[0], version)
		return nil
	},
}

var deliverableVersionsCmd = &cobra.Command{
	Use:   "versions <deliverable-id>",
	Short: "Show the version lineage of a deliverable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		versions, err := services.Workspace.Repo.ListDeliverableVersions(args[0])
		if err != nil {
			return MapError(err)
		}
		if len(versions) == 0 {
			return MapError(todo.ErrDeliverableNotFound)
		}
		for _, v := range versions {
			fmt.Printf("v%d  %-16s submitted %s by %s\n",
				v.Version, v.Status, v.SubmittedAt.Format("2006-01-02 15:04"), v.SubmittedBy)
		}
		return nil
	},
}

func printAssessment(result *quality.AssessmentResult) {
	verdict := "NEEDS REVISION"
	if result.ComplianceStatus.IsCompliant {
		verdict = "APPROVED"
	}
	fmt.Printf("Overall: %.1f / 100 (threshold %.1f) -> %s\n",
		result.OverallScore, result.ComplianceStatus.Threshold, verdict)

	for _, dim := range result.QualityDimensions {
		marker := "ok"
		if !dim.Passed {
			marker = "FAIL"
		}
		fmt.Printf("  %-14s %6.1f  weight %.2f  [%s]\n", dim.Name, dim.Score, dim.Weight, marker)
	}

	if len(result.ImprovementSuggestions) > 0 {
		fmt.Println("Suggestions:")
		for _, s := range result.ImprovementSuggestions {
			fmt.Printf("  [%s] %s\n", s.Category, s.Description)
		}
	}
}

func init() {
	deliverableSubmitCmd.Flags().StringVar(&submitTodoID, "todo", "", "Todo the deliverable belongs to (required)")
	deliverableSubmitCmd.Flags().StringVar(&submitTaskID, "task", "", "Task the deliverable belongs to (required)")
	deliverableSubmitCmd.Flags().StringVar(&submitID, "id", "", "Deliverable ID for resubmissions (new versions)")
	_ = deliverableSubmitCmd.MarkFlagRequired("todo")
	_ = deliverableSubmitCmd.MarkFlagRequired("task")

	deliverableAssessCmd.Flags().IntVar(&assessVersion, "version", 0, "Version to assess (defaults to latest)")
	deliverableAssessCmd.Flags().StringSliceVar(&assessStandards, "standards", nil, "Named standards to apply (defaults by file type)")
	deliverableAssessCmd.Flags().StringVar(&assessTeamID, "team", "", "Team context for the assessment")
	deliverableAssessCmd.Flags().BoolVar(&assessJSON, "json", false, "Output as JSON")

	deliverableRejectCmd.Flags().IntVar(&assessVersion, "version", 0, "Version to reject (defaults to latest)")
	deliverableRejectCmd.Flags().StringVarP(&rejectReason, "reason", "r", "", "Why the deliverable is rejected")

	deliverableCmd.AddCommand(deliverableSubmitCmd)
	deliverableCmd.AddCommand(deliverableAssessCmd)
	deliverableCmd.AddCommand(deliverableRejectCmd)
	deliverableCmd.AddCommand(deliverableVersionsCmd)
	RootCmd.AddCommand(deliverableCmd)
}
