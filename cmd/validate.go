package cmd

import (
	"fmt"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [task]",
	Short: "Check a task file and a saved state",
	Long:  "Report config errors of a task file and, with --state, layout errors of a saved state.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, err := taskPath(args)
	if err != nil {
		return err
	}
	task, err := config.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d items, config ok\n", path, len(task.Items))

	if statePath == "" {
		return nil
	}
	st, err := loadSaved(statePath)
	if err != nil {
		return err
	}
	if err := config.Validate(st.Task.Config); err != nil {
		return fmt.Errorf("%s: %w", statePath, err)
	}
	fmt.Printf("%s: %d items, %d labels, state ok\n", statePath, len(st.Task.Items), st.LabelCount())
	return nil
}
