package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/derive"
	"github.com/matzehuels/shapereach/pkg/render"
)

// deriveCommand creates the derive command.
func (c *CLI) deriveCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
		svgPath string
		dotPath string
	)

	cmd := &cobra.Command{
		Use:   "derive <shape>",
		Short: "Explain how a shape is built",
		Long: `Derive classifies a shape and prints its construction chain.

Shapes found in the lookup table are traced back through pin and stack
steps to a directly creatable shape. Shapes missing from the table fall
back to stacking their top layers onto a separable base.`,
		Example: `  shapereach derive Cu------:CuCuCuCu:CuCu----
  shapereach derive 0xff03 --svg chain.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			prog := newProgress(loggerFromContext(ctx))
			res, hit, err := svc.Derive(ctx, sh)
			if err != nil {
				return err
			}
			c.Logger.Debug("derived", "shape", res.Input, "verdict", res.Verdict, "cached", hit)

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printDerivation(res, hit)
			}

			charts := []struct{ path, format string }{{svgPath, render.FormatSVG}, {dotPath, render.FormatDOT}}
			for _, ch := range charts {
				if ch.path == "" {
					continue
				}
				if err := writeChart(res, ch.path, ch.format); err != nil {
					return err
				}
				printFile(ch.path)
			}
			if svgPath != "" || dotPath != "" {
				prog.done("Wrote derivation chart")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the derivation as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the derivation chart as SVG")
	cmd.Flags().StringVar(&dotPath, "dot", "", "write the derivation chart as Graphviz DOT")
	return cmd
}

func writeChart(res *derive.Result, path, format string) error {
	data, err := render.Chart(res, format, render.Options{Detailed: true})
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func printDerivation(res *derive.Result, cached bool) {
	verdict := verdictStyle(res.Verdict).Render(string(res.Verdict))
	if res.Verdict.Creatable() {
		printSuccess("%s is creatable (%s)", StyleHighlight.Render(res.Input), verdict)
	} else {
		printWarning("%s is not creatable (%s)", res.Input, verdict)
	}

	switch res.Verdict {
	case derive.VerdictSeparable:
		printDetail("separates along axis %d", res.Axis)
	case derive.VerdictDerived, derive.VerdictDecomposed:
		printKeyValue("Base", res.Base)
		for i, s := range res.Steps {
			fmt.Fprintf(stdout, "  %s %s %s\n",
				StyleNumber.Render(fmt.Sprintf("%2d.", i+1)),
				StyleDim.Render(stepText(s)),
				StyleValue.Render(s.Shape))
		}
	}
	printStats(cached, fmt.Sprintf("%d steps", len(res.Steps)))
}

func stepText(s derive.Step) string {
	switch s.Op {
	case derive.OpPin:
		return "pin " + iconArrow
	case derive.OpStack:
		text := "stack " + s.With
		if s.Method != nil {
			text = fmt.Sprintf("stack #%d %s", uint64(*s.Method), s.With)
		}
		if s.Rotation != 0 {
			text += fmt.Sprintf(" rot %d", s.Rotation)
		}
		return text + " " + iconArrow
	}
	return "layer " + s.With + " " + iconArrow
}
