package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/spf13/cobra"
)

var (
	infoJSON bool
	infoTop  int
)

var infoCmd = &cobra.Command{
	Use:   "info [task]",
	Short: "Display statistics about a task",
	Long:  "Show item, label, category and track statistics of a task or a saved state.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print the statistics as JSON")
	infoCmd.Flags().IntVarP(&infoTop, "top", "n", 3, "number of largest and smallest labels to list")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	task, st, err := loadState(args)
	if err != nil {
		return err
	}
	result := analysis.AnalyzeTask(st)

	if infoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	cfg := st.Task.Config
	fmt.Println("Task Information")
	fmt.Println("================")
	if cfg.ProjectName != "" {
		fmt.Printf("Project: %s\n", cfg.ProjectName)
	}
	fmt.Printf("Directory: %s\n", task.Dir)
	fmt.Printf("Item Type: %s\n", cfg.ItemType)
	fmt.Printf("Label Types: %v\n", cfg.LabelTypes)
	fmt.Printf("Tracking: %t\n\n", cfg.Tracking)

	fmt.Println("Items:")
	fmt.Printf("  Total: %d\n", result.Items)
	fmt.Printf("  Loaded: %d\n", result.LoadedItems)
	fmt.Printf("  Labeled: %d\n\n", result.LabeledItems)

	fmt.Println("Labels:")
	fmt.Printf("  Total: %d\n", result.Labels)
	fmt.Printf("  Shapes: %d\n", result.Shapes)
	for _, name := range sortedKeys(result.ByType) {
		fmt.Printf("  %s: %d\n", name, result.ByType[name])
	}
	fmt.Println()

	fmt.Println("Categories:")
	for _, name := range sortedKeys(result.ByCategory) {
		fmt.Printf("  %s: %d\n", name, result.ByCategory[name])
	}
	fmt.Println()

	fmt.Println("Tracks:")
	fmt.Printf("  Total: %d\n", result.Tracks)
	if result.Tracks > 0 {
		fmt.Printf("  Shortest: %d items\n", result.MinTrackLength)
		fmt.Printf("  Longest: %d items\n", result.MaxTrackLength)
		fmt.Printf("  Average: %.2f items\n", result.AvgTrackLength)
	}

	if infoTop > 0 && result.Labels > 0 {
		fmt.Println()
		fmt.Println("Largest Labels:")
		for _, lb := range analysis.FindLargestLabels(result, infoTop) {
			fmt.Printf("  item %d #%d %s %s: %.3f\n", lb.Item+1, lb.ID, lb.Type, lb.Category, lb.Extent)
		}
		fmt.Println("Smallest Labels:")
		for _, lb := range analysis.FindSmallestLabels(result, infoTop) {
			fmt.Printf("  item %d #%d %s %s: %.3f\n", lb.Item+1, lb.ID, lb.Type, lb.Category, lb.Extent)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
