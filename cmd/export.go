package cmd

import (
	"fmt"
	"os"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [task]",
	Short: "Export the labels of a task as JSON",
	Long:  "Write one entry per item with its labels, category names and geometry.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	_, st, err := loadState(args)
	if err != nil {
		return err
	}
	if exportOut == "" {
		data, err := persist.MarshalExport(st)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	out, err := config.ExpandPath(exportOut)
	if err != nil {
		return err
	}
	if err := persist.WriteExport(out, st); err != nil {
		return err
	}
	fmt.Printf("Exported %d items to %s\n", len(st.Task.Items), out)
	return nil
}
