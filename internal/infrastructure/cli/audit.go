package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and verify the audit log",
}

var auditJSON bool

var auditTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print audit events in chronological order",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		events, err := services.Audit.GetTimeline()
		if err != nil {
			return MapError(err)
		}

		if auditJSON {
			return json.NewEncoder(os.Stdout).Encode(events)
		}

		for _, e := range events {
			fmt.Printf("%s  %-28s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor)
		}
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the hash chain of the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		violations, err := services.Audit.VerifyIntegrity()
		if err != nil {
			return MapError(err)
		}

		if len(violations) == 0 {
			fmt.Println("Audit log intact.")
			return nil
		}
		for _, v := range violations {
			fmt.Println(v)
		}
		return fmt.Errorf("audit log failed verification with %d violations", len(violations))
	},
}

func init() {
	auditTimelineCmd.Flags().BoolVar(&auditJSON, "json", false, "Output as JSON")

	auditCmd.AddCommand(auditTimelineCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}
