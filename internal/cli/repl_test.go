package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapereach/pkg/cache"
	"github.com/matzehuels/shapereach/pkg/catalog"
	"github.com/matzehuels/shapereach/pkg/derive"
)

func testService() *derive.Service {
	logger := log.New(io.Discard)
	w := derive.NewWalker(nil, catalog.Codec{Width: 4, MaxHeight: 5}, logger)
	return derive.NewService(w, nil, nil, cache.KeyOpts{}, logger)
}

func TestEvalQuery(t *testing.T) {
	ctx := context.Background()
	svc := testService()

	tests := []struct {
		line string
		want []string
	}{
		{"Cu------:CuCuCuCu", []string{"creatable (decomposed)", "base Cu------", "CuCuCuCu"}},
		{"0xff03", []string{"Cu------:CuCuCuCu", "index 0xff03"}},
		{"CuCu----", []string{"creatable (separable)", "axis 0"}},
		{"--------:cu------", []string{"not creatable (invalid_quadrant)"}},
		{"help", []string{"exit", "0x index"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := evalQuery(ctx, svc, tt.line)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("evalQuery(%q) = %q, missing %q", tt.line, got, w)
				}
			}
		})
	}

	if got := evalQuery(ctx, svc, "Zz??"); strings.Contains(got, "creatable") || got == "" {
		t.Errorf("bad input rendered as %q", got)
	}
}

func TestRunLinesStopsAtExit(t *testing.T) {
	in := strings.NewReader("\nCuCu----\nexit\nCu------:CuCuCuCu\n")
	var out bytes.Buffer
	if err := runLines(context.Background(), testService(), in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "separable") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "decomposed") {
		t.Error("queries after exit should not run")
	}
}

func press(t *testing.T, m replModel, key tea.KeyType) (replModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(replModel), cmd
}

func TestReplModelEnter(t *testing.T) {
	m := newReplModel(context.Background(), testService())

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd != nil || m.busy {
		t.Error("empty input should do nothing")
	}

	m.input.SetValue("  CuCu----  ")
	m, cmd = press(t, m, tea.KeyEnter)
	if cmd == nil || !m.busy {
		t.Fatal("query should start an evaluation")
	}
	if m.input.Value() != "" || len(m.history) != 1 || m.history[0] != "CuCu----" {
		t.Errorf("input = %q history = %v", m.input.Value(), m.history)
	}
	if v := m.View(); !strings.Contains(v, "deriving") {
		t.Errorf("busy view = %q", v)
	}

	next, _ := m.Update(evalMsg{text: "done"})
	if next.(replModel).busy {
		t.Error("result should clear busy")
	}
}

func TestReplModelHistory(t *testing.T) {
	m := newReplModel(context.Background(), testService())
	for _, line := range []string{"CuCu----", "CuCu----", "0xff03"} {
		m.input.SetValue(line)
		m, _ = press(t, m, tea.KeyEnter)
		m.busy = false
	}
	if len(m.history) != 2 {
		t.Fatalf("history = %v, repeated entries should collapse", m.history)
	}

	m.input.SetValue("draft")
	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "0xff03"},
		{tea.KeyUp, "CuCu----"},
		{tea.KeyUp, "CuCu----"},
		{tea.KeyDown, "0xff03"},
		{tea.KeyDown, "draft"},
	}
	for i, s := range steps {
		m, _ = press(t, m, s.key)
		if got := m.input.Value(); got != s.want {
			t.Errorf("step %d: input = %q, want %q", i, got, s.want)
		}
	}
}

func TestReplModelQuit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		m := newReplModel(context.Background(), testService())
		m, cmd := press(t, m, key)
		if cmd == nil {
			t.Fatalf("%v: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok || !m.quitting {
			t.Errorf("%v should quit", key)
		}
		if m.View() != "" {
			t.Errorf("%v: view after quit = %q", key, m.View())
		}
	}

	m := newReplModel(context.Background(), testService())
	m.input.SetValue("exit")
	m, cmd := press(t, m, tea.KeyEnter)
	if _, ok := cmd().(tea.QuitMsg); !ok || m.busy {
		t.Error("exit should quit without evaluating")
	}
}
