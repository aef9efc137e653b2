package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/cache"
	"github.com/matzehuels/shapereach/pkg/derive"
	"github.com/matzehuels/shapereach/pkg/shape"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON, noCache bool

	cmd := &cobra.Command{
		Use:   "analyze <shape>",
		Short: "Report the structural properties of a shape",
		Long: `Analyze prints index, canonical rotation, stability, compactness,
separability, quadrant legality and the no-pin stacking witness of a shape.

The shape is a code such as "Cu------:CuCuCuCu" (bottom layer first) or a
0x-prefixed index.`,
		Example: `  shapereach analyze Cu------:CuCuCuCu
  shapereach analyze 0xff03 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := c.analysisService(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeFn()

			sh, err := svc.Parse(args[0])
			if err != nil {
				return err
			}
			a, hit, err := svc.Analyze(ctx, sh)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			printAnalysis(sh.Plain(), a, hit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// analysisService is a table-less service; analyses never consult a store.
func (c *CLI) analysisService(ctx context.Context, noCache bool) (*derive.Service, func(), error) {
	cfg := c.conf()
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	w := derive.NewWalker(nil, cfg.Codec(), c.Logger)
	svc := derive.NewService(w, ch, nil, cache.KeyOpts{Width: cfg.Width, MaxHeight: cfg.MaxHeight}, c.Logger)
	svc.TTL = cfg.Cache.TTL
	return svc, func() { ch.Close() }, nil
}

func printAnalysis(s shape.Shape, a *derive.Analysis, cached bool) {
	fmt.Fprintln(stdout, StyleTitle.Render(a.Code))
	printKeyValue("Index", a.IndexHex)
	printKeyValue("Canonical", fmt.Sprintf("%#x  %s", a.Canonical, a.CanonicalCode))
	printKeyValue("Stable", stableText(a))
	printKeyValue("Compact", yesNo(a.Compact))
	printKeyValue("Separable", separableText(a.SeparableAxis))
	printKeyValue("Quadrants", legalityText(a))
	printKeyValue("No-pin", noPinText(a))
	printNewline()
	fmt.Fprintln(stdout, analysisTable(s, a))
	printStats(cached, fmt.Sprintf("%d layers", a.Height), fmt.Sprintf("%d quadrants", a.Width))
}

// analysisTable draws the shape top layer first with unstable cells in red
// and illegal quadrants marked in the header.
func analysisTable(s shape.Shape, a *derive.Analysis) string {
	headers := []string{"layer"}
	for q := range a.Width {
		h := "q" + strconv.Itoa(q)
		if q < len(a.Quadrants) && !a.Quadrants[q] {
			h += " " + iconError
		}
		headers = append(headers, h)
	}
	rows := analysisRows(s)

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return cell.Foreground(colorDim)
			}
			layer := a.Height - 1 - row
			if layer < 0 || layer >= len(a.Stability) || col-1 >= len(a.Stability[layer]) {
				return cell
			}
			switch a.Stability[layer][col-1] {
			case shape.Unstable.String():
				return cell.Foreground(colorRed)
			case shape.Stable.String():
				return cell.Foreground(colorGreen)
			}
			return cell.Foreground(colorDim)
		})
	return t.Render()
}

// analysisRows lists layers top first: the layer number, then one glyph
// pair per quadrant.
func analysisRows(s shape.Shape) [][]string {
	rows := make([][]string, 0, s.Height())
	for l := s.Height() - 1; l >= 0; l-- {
		row := []string{strconv.Itoa(l)}
		for _, it := range s.Layer(l) {
			row = append(row, it.String())
		}
		rows = append(rows, row)
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return StyleSuccess.Render("yes")
	}
	return StyleWarning.Render("no")
}

func stableText(a *derive.Analysis) string {
	switch {
	case a.Stable:
		return yesNo(true)
	case a.StableCircular:
		return yesNo(false) + StyleDim.Render(" (stable if circular support counts)")
	}
	return yesNo(false)
}

func separableText(axis int) string {
	if axis == -1 {
		return "no"
	}
	return fmt.Sprintf("axis %d", axis)
}

func legalityText(a *derive.Analysis) string {
	marks := make([]string, len(a.Quadrants))
	for q, ok := range a.Quadrants {
		switch {
		case ok:
			marks[q] = StyleSuccess.Render(iconSuccess)
		case q < len(a.WeakQuadrants) && a.WeakQuadrants[q]:
			marks[q] = StyleWarning.Render(iconWarning)
		default:
			marks[q] = StyleError.Render(iconError)
		}
	}
	return strings.Join(marks, " ")
}

func noPinText(a *derive.Analysis) string {
	if a.SeparableAxis != -1 {
		return StyleDim.Render("n/a (separable)")
	}
	if !a.NoPinCreatable {
		return "none"
	}
	cells := make([]string, len(a.NoPinStack))
	for i, c := range a.NoPinStack {
		cells[i] = fmt.Sprintf("(%d,%d)", c.Layer, c.Quad)
	}
	return "stack " + strings.Join(cells, " ")
}
