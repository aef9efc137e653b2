package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/catalog"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/shape"
	"github.com/matzehuels/shapereach/pkg/table"
)

// tableCommand creates the table command group.
func (c *CLI) tableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect and convert lookup tables",
	}

	cmd.AddCommand(c.tableStatsCommand())
	cmd.AddCommand(c.tableLookupCommand())
	cmd.AddCommand(c.tableConvertCommand())

	return cmd
}

// tableStatsCommand creates the "table stats" subcommand.
func (c *CLI) tableStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Count records per method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.conf().Table
			if len(args) == 1 {
				path = args[0]
			}
			t, err := table.Open(path)
			if err != nil {
				return err
			}
			defer t.Close()

			counts, err := methodCounts(t, c.conf().Codec())
			if err != nil {
				return err
			}
			printKeyValue("Table", path)
			printKeyValue("Records", fmt.Sprint(t.Len()))
			printKeyValue("Size", fmt.Sprintf("%d bytes", t.Len()*table.RecordSize))
			fmt.Fprintln(stdout, countsTable(counts))
			return nil
		},
	}
}

// methodCounts tallies records by method name.
func methodCounts(t *table.File, codec catalog.Codec) (map[string]int, error) {
	counts := map[string]int{}
	err := t.Iterate(func(r table.Record) error {
		_, m := codec.Unpack(r.Value)
		counts[catalog.Name(m)]++
		return nil
	})
	return counts, err
}

func countsTable(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Most frequent first, ties by name.
	slices.SortFunc(names, func(a, b string) int {
		if d := counts[b] - counts[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, fmt.Sprint(counts[name])}
	}
	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("method", "records").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// tableLookupCommand creates the "table lookup" subcommand.
func (c *CLI) tableLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <shape>",
		Short: "Print the table entry for a shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.conf()
			sh, err := shape.ParseCode(args[0], cfg.Width, cfg.MaxHeight)
			if err != nil {
				return err
			}
			if _, err := sh.Encode(); err != nil {
				return err
			}
			t, err := table.Open(cfg.Table)
			if err != nil {
				return err
			}
			defer t.Close()

			canon := sh.LeastIndex()
			v, ok, err := t.Lookup(cmd.Context(), canon)
			if err != nil {
				return err
			}
			if !ok {
				return errs.New(errs.ErrCodeNotFound, "%s (canonical %#x) is not in %s", sh, canon, cfg.Table)
			}
			src, m := cfg.Codec().Unpack(v)
			printKeyValue("Canonical", fmt.Sprintf("%#x  %s", canon, sh.RotateToLeast()))
			printKeyValue("Source", fmt.Sprintf("%#x  %s", src, shape.Decode(src, cfg.Width, cfg.MaxHeight)))
			printKeyValue("Method", catalog.Name(m))
			return nil
		},
	}
}

// tableConvertCommand creates the "table convert" subcommand.
func (c *CLI) tableConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between binary and hex text tables",
		Long: `Convert reads a table and writes it in the other format. Files ending in
.txt are hex text ("index value" per line); anything else is binary.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			m, err := readTable(in)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if isTextTable(out) {
				err = table.WriteText(&buf, m)
			} else {
				err = table.Write(&buf, m)
			}
			if err != nil {
				return err
			}
			if err := writeFile(out, buf.Bytes()); err != nil {
				return err
			}
			printSuccess("Converted %d records", len(m))
			printFile(out)
			return nil
		},
	}
}

func isTextTable(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

func readTable(path string) (map[uint64]uint64, error) {
	if isTextTable(path) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read table")
		}
		if err != nil {
			return nil, err
		}
		return table.ReadText(bytes.NewReader(data))
	}
	t, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.All()
}
