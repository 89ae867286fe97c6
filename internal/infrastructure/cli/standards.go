package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/domain/quality"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Inspect and validate quality standards",
}

var standardsFileType string

var standardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the standards available for a file type",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		names := services.Assessment.AvailableQualityStandards(standardsFileType)
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var standardsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dimension configuration for a file type",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		dims := services.Assessment.QualityDimensionConfig(standardsFileType)
		for _, dim := range dims {
			checks := make([]string, 0, len(dim.Checks))
			for _, c := range dim.Checks {
				checks = append(checks, c.Name)
			}
			fmt.Printf("%-14s weight %.2f  min %.0f  checks: %s\n",
				dim.Name, dim.Weight, dim.MinimumScore, strings.Join(checks, ", "))
		}
		return nil
	},
}

var standardsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a standard override file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		cfg, err := quality.ParseStandardJSON(data)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Standard %q is valid.\n", cfg.Name)
		out, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	standardsCmd.PersistentFlags().StringVarP(&standardsFileType, "file-type", "f", "md", "File type extension (go, ts, md, json, ...)")

	standardsCmd.AddCommand(standardsListCmd)
	standardsCmd.AddCommand(standardsShowCmd)
	standardsCmd.AddCommand(standardsValidateCmd)
	RootCmd.AddCommand(standardsCmd)
}
