package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		compact bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render <shape>",
		Short: "Draw the derivation chart of a shape",
		Long: `Render derives a shape and writes its construction chart. The format
follows the output extension: .svg, .dot (or .gv), .pdf or .png. PDF and PNG
need rsvg-convert from librsvg.`,
		Example: `  shapereach render Cu------:CuCuCuCu:CuCu---- -o chain.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.Format(output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, closeFn, err := c.newService(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeFn()

			sh, err := svc.Parse(args[0])
			if err != nil {
				return err
			}
			res, _, err := svc.Derive(ctx, sh)
			if err != nil {
				return err
			}

			sp := newSpinner(ctx, "Rendering "+format+"...")
			sp.Start()
			data, err := render.Chart(res, format, render.Options{Detailed: !compact})
			sp.Stop()
			if err != nil {
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Rendered %s", res.Input)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "derivation.svg", "output file")
	cmd.Flags().BoolVar(&compact, "compact", false, "label nodes with one-line shape codes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}
