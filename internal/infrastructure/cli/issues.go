package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/application"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Raise coordination issues in the configured tracker",
}

var (
	issueTaskID     string
	issueBody       string
	issueLabels     []string
	issueNoApproval bool
)

var issueCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a primary coordination issue plus one per high-priority team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		stakeholders, err := services.Config.StakeholdersForTask(issueTaskID)
		if err != nil {
			return err
		}

		created, err := services.Issue.CreateIssueWithApproval(cmd.Context(), &application.CoordinationRequest{
			Title:        args[0],
			Body:         issueBody,
			TaskID:       issueTaskID,
			Labels:       issueLabels,
			Stakeholders: stakeholders,
		}, !issueNoApproval)
		if err != nil {
			return MapError(err)
		}

		for _, c := range created {
			kind := "team " + c.TeamID
			if c.Primary {
				kind = "primary"
			}
			state := "open"
			if c.Pending {
				state = "pending approval"
			}
			fmt.Printf("Created %s issue %s (%s, %s)\n", kind, c.ID, c.URL, state)
		}
		return nil
	},
}

func init() {
	issueCreateCmd.Flags().StringVarP(&issueTaskID, "task", "t", "", "Task the coordination issue relates to (required)")
	issueCreateCmd.Flags().StringVarP(&issueBody, "body", "b", "", "Issue body")
	issueCreateCmd.Flags().StringSliceVarP(&issueLabels, "label", "l", nil, "Additional labels")
	issueCreateCmd.Flags().BoolVar(&issueNoApproval, "no-approval", false, "Create the issues open instead of pending approval")
	_ = issueCreateCmd.MarkFlagRequired("task")

	issueCmd.AddCommand(issueCreateCmd)
	RootCmd.AddCommand(issueCmd)
}
