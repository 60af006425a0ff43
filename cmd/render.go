package cmd

import (
	"fmt"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/preview"
	"github.com/spf13/cobra"
)

var (
	renderItem   int
	renderOut    string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render [task]",
	Short: "Render an item with its labels to a PNG file",
	Long: "Draw the labels of one item over its image, or render a point cloud " +
		"with its boxes and planes from the stored camera.",
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	defaults := preview.DefaultOptions()
	renderCmd.Flags().IntVar(&renderItem, "item", 1, "item number, starting at 1")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "preview.png", "output file")
	renderCmd.Flags().IntVar(&renderWidth, "width", defaults.Width, "point cloud image width")
	renderCmd.Flags().IntVar(&renderHeight, "height", defaults.Height, "point cloud image height")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	task, st, err := loadState(args)
	if err != nil {
		return err
	}
	if renderWidth <= 0 || renderHeight <= 0 {
		return fmt.Errorf("invalid size %dx%d", renderWidth, renderHeight)
	}
	opts := preview.DefaultOptions()
	opts.Width = renderWidth
	opts.Height = renderHeight

	img, err := preview.Item(st, renderItem-1, task.Dir, opts)
	if err != nil {
		return fmt.Errorf("render item %d: %w", renderItem, err)
	}
	out, err := config.ExpandPath(renderOut)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(out, img); err != nil {
		return err
	}
	fmt.Printf("Rendered item %d to %s\n", renderItem, out)
	return nil
}
