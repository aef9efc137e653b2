package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/derive"
	errs "github.com/matzehuels/shapereach/pkg/errors"
)

const maxHistory = 100

var (
	replPromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	replHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const replHelp = `Enter a shape code (bottom layer first) or a 0x index.
  Cu------:CuCuCuCu    derive and analyze a shape
  0xff03               same, by index
  help                 show this text
  exit                 quit`

// replCommand creates the repl command.
func (c *CLI) replCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Query shapes interactively",
		Long: `Repl reads shape codes or 0x indexes and prints whether each shape is
creatable and how. Type "exit" or press Ctrl+D to quit. When stdin is not a
terminal, queries are read one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := c.newService(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeFn()

			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return runLines(ctx, svc, os.Stdin, c.Out)
			}
			_, err = tea.NewProgram(newReplModel(ctx, svc), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	return cmd
}

// runLines answers one query per input line until EOF or "exit".
func runLines(ctx context.Context, svc *derive.Service, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if isExit(line) {
			return nil
		}
		fmt.Fprintln(w, evalQuery(ctx, svc, line))
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}

func isExit(line string) bool {
	return line == "exit" || line == "quit"
}

// evalQuery answers one query. Errors are rendered into the answer so the
// prompt keeps running.
func evalQuery(ctx context.Context, svc *derive.Service, line string) string {
	if line == "help" {
		return replHelpStyle.Render(replHelp)
	}
	sh, err := svc.Parse(line)
	if err != nil {
		return StyleError.Render(iconError + " " + errs.UserMessage(err))
	}
	res, _, err := svc.Derive(ctx, sh)
	if err != nil {
		return StyleError.Render(iconError + " " + errs.UserMessage(err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleValue.Render(res.Input), StyleDim.Render(fmt.Sprintf("index %#x canonical %#x", res.Index, res.Canonical)))
	vs := verdictStyle(res.Verdict)
	if res.Verdict.Creatable() {
		fmt.Fprintf(&b, "%s creatable (%s)", vs.Render(iconSuccess), res.Verdict)
	} else {
		fmt.Fprintf(&b, "%s not creatable (%s)", vs.Render(iconError), res.Verdict)
	}
	switch res.Verdict {
	case derive.VerdictSeparable:
		fmt.Fprintf(&b, ", axis %d", res.Axis)
	case derive.VerdictDerived, derive.VerdictDecomposed:
		fmt.Fprintf(&b, "\n  base %s", res.Base)
		for _, s := range res.Steps {
			fmt.Fprintf(&b, "\n  %s %s", StyleDim.Render(stepText(s)), s.Shape)
		}
	}
	return b.String()
}

// =============================================================================
// replModel - bubbletea prompt
// =============================================================================

type evalMsg struct{ text string }

type replModel struct {
	ctx   context.Context
	svc   *derive.Service
	input textinput.Model

	history []string
	histIdx int
	draft   string

	busy     bool
	quitting bool
}

func newReplModel(ctx context.Context, svc *derive.Service) replModel {
	ti := textinput.New()
	ti.Prompt = replPromptStyle.Render("shape> ")
	ti.Placeholder = "Cu------:CuCuCuCu or 0xff03"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()
	return replModel{ctx: ctx, svc: svc, input: ti, histIdx: -1}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evalMsg:
		m.busy = false
		return m, tea.Println(msg.text)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.remember(line)
			if isExit(line) {
				m.quitting = true
				return m, tea.Quit
			}
			m.busy = true
			return m, tea.Sequence(tea.Println(replPromptStyle.Render("shape> ")+line), m.eval(line))

		case tea.KeyUp:
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIdx == -1 {
				m.draft = m.input.Value()
				m.histIdx = len(m.history) - 1
			} else if m.histIdx > 0 {
				m.histIdx--
			}
			m.input.SetValue(m.history[m.histIdx])
			m.input.CursorEnd()
			return m, nil

		case tea.KeyDown:
			if m.histIdx == -1 {
				return m, nil
			}
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
			} else {
				m.histIdx = -1
				m.input.SetValue(m.draft)
			}
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}
	if m.busy {
		return replHelpStyle.Render("deriving…")
	}
	return m.input.View() + "\n" + replHelpStyle.Render("↑/↓ history  ⏎ query  help  exit")
}

func (m *replModel) remember(line string) {
	m.histIdx = -1
	m.draft = ""
	if n := len(m.history); n > 0 && m.history[n-1] == line {
		return
	}
	m.history = append(m.history, line)
	if len(m.history) > maxHistory {
		m.history = m.history[1:]
	}
}

func (m replModel) eval(line string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return evalMsg{text: evalQuery(ctx, svc, line)}
	}
}
