package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workintel/workintel/pkg/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new workintel workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)

		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		fmt.Printf("Initialized workintel workspace in %s\n", root)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
