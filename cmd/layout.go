package cmd

import (
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func newLayoutCmd(a *app) *cobra.Command {
	var src sourceFlags

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the layout tree of a document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := expandPaths(&src.htmlPath, &src.cssPath); err != nil {
				return err
			}

			res, err := a.newEngine().LayoutFiles(src.htmlPath, src.cssPath)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res.Layout.Snapshot(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding layout tree: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	src.register(layoutCmd)
	return layoutCmd
}
