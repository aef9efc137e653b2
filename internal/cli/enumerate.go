package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/enumerate"
	"github.com/matzehuels/shapereach/pkg/table"
)

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		workers int
		rounds  int
		output  string
		text    bool
	)

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Build the lookup table of reachable shapes",
		Long: `Enumerate scans every shape of the configured width and height, keeps the
directly creatable ones, and expands them by pinning and stacking until no
new shape appears. Each reachable shape is recorded with the shape and
method it was first reached from.

The full 4x5 space has 2^40 shapes; smaller dimensions finish in seconds.`,
		Example: `  shapereach enumerate --max-height 3 -o small.bin
  shapereach enumerate --workers 16 --text -o creatable.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.conf()
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Enumerate.Workers
			}
			if !cmd.Flags().Changed("rounds") {
				rounds = cfg.Enumerate.MaxRounds
			}
			if output == "" {
				output = cfg.Table
			}

			printInfo("Enumerating %dx%d shapes", cfg.Width, cfg.MaxHeight)
			prog := newProgress(loggerFromContext(ctx))
			sp := newSpinner(ctx, "Scanning for seeds...")
			sp.Start()
			res, err := enumerate.Run(ctx, enumerate.Options{
				Width:     cfg.Width,
				MaxHeight: cfg.MaxHeight,
				Workers:   workers,
				MaxRounds: rounds,
				OnRound: func(st enumerate.RoundStats) {
					sp.SetMessage(fmt.Sprintf("Expanding round %d, frontier %d...", st.Round+1, st.Found))
				},
				Logger: loggerFromContext(ctx),
			})
			sp.Stop()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if text {
				err = table.WriteText(&buf, res.Table)
			} else {
				err = table.Write(&buf, res.Table)
			}
			if err != nil {
				return err
			}
			if err := writeFile(output, buf.Bytes()); err != nil {
				return err
			}
			prog.done("Enumeration finished")

			printSuccess("Recorded %s shapes from %s seeds", StyleNumber.Render(fmt.Sprint(len(res.Table))), StyleNumber.Render(fmt.Sprint(res.Seeds)))
			printFile(output)
			printStats(false, fmt.Sprintf("%d rounds", len(res.Rounds)-1), "run "+res.RunID[:8], roundSummary(res.Rounds))
			if !text {
				printNextStep("Look up a shape", "shapereach table lookup <shape> --table "+output)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines (default from config, 0 = all CPUs)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "maximum expansion rounds (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: the configured table)")
	cmd.Flags().BoolVar(&text, "text", false, "write hex text instead of binary records")
	return cmd
}

// roundSummary lists how many shapes each expansion round found.
func roundSummary(rounds []enumerate.RoundStats) string {
	if len(rounds) <= 1 {
		return "no expansion"
	}
	found := make([]string, 0, len(rounds)-1)
	for _, r := range rounds[1:] {
		found = append(found, fmt.Sprint(r.Found))
	}
	const maxShown = 8
	if len(found) > maxShown {
		found = append(found[:maxShown], "…")
	}
	return "found " + strings.Join(found, "/")
}
