package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/boxrender/engine"
)

func newBatchCmd(a *app) *cobra.Command {
	var outDir string

	batchCmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Render every .html document in a directory",
		Long: `Render every DIR/*.html document to a PNG in the output directory.
A .css file with the same base name is used as the document's stylesheet
when present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := expandPaths(&dir, &outDir); err != nil {
				return err
			}

			jobs, err := engine.DiscoverJobs(dir, outDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			if err := a.newEngine().RenderBatch(cmd.Context(), jobs, a.cfg.Batch.Concurrency); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d documents into %s\n", len(jobs), outDir)
			return nil
		},
	}
	batchCmd.Flags().StringVarP(&outDir, "out-dir", "d", "out", "output directory")
	batchCmd.Flags().Int("concurrency", 4, "maximum renders in flight")
	mustBind(a.v, "batch.concurrency", batchCmd.Flags(), "concurrency")
	return batchCmd
}
