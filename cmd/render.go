package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultHTMLPath   = "examples/test.html"
	defaultCSSPath    = "examples/test.css"
	defaultOutputPath = "output.png"
)

// sourceFlags are the document inputs shared by render and layout.
type sourceFlags struct {
	htmlPath string
	cssPath  string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.htmlPath, "html", "H", defaultHTMLPath, "HTML document")
	cmd.Flags().StringVarP(&s.cssPath, "css", "C", defaultCSSPath, "CSS stylesheet (empty for none)")
}

func newRenderCmd(a *app) *cobra.Command {
	var src sourceFlags
	var output string

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a document to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := expandPaths(&src.htmlPath, &src.cssPath, &output); err != nil {
				return err
			}

			res, err := a.newEngine().RenderFiles(src.htmlPath, src.cssPath)
			if err != nil {
				return err
			}
			if err := res.Canvas.SavePNG(output); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			a.logger.Info("Rendered document",
				zap.String("html", src.htmlPath),
				zap.String("css", src.cssPath),
				zap.String("output", output),
				zap.Int("boxes", res.Layout.Count()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved output as %s\n", output)
			return nil
		},
	}
	src.register(renderCmd)
	renderCmd.Flags().StringVarP(&output, "output", "o", defaultOutputPath, "output PNG file")
	return renderCmd
}
