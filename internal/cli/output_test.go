package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/shapereach/pkg/catalog"
	"github.com/matzehuels/shapereach/pkg/derive"
	"github.com/matzehuels/shapereach/pkg/enumerate"
	"github.com/matzehuels/shapereach/pkg/shape"
)

func TestAnalysisRowsTopFirst(t *testing.T) {
	s := shape.MustParse("Cu------:CuCuCuCu", 5)
	rows := analysisRows(s)
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "1" || rows[1][0] != "0" {
		t.Errorf("layer column = %q, %q", rows[0][0], rows[1][0])
	}
	if rows[1][1] != "Cu" || rows[1][2] != "--" || len(rows[0]) != 5 {
		t.Errorf("rows = %v", rows)
	}
}

func TestAnalysisTable(t *testing.T) {
	s := shape.MustParse("--------:cu------", 5)
	a := derive.Analyze(s)
	out := analysisTable(s, &a)
	for _, want := range []string{"layer", "q0 " + iconError, "q1", "cu"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestSeparableText(t *testing.T) {
	if got := separableText(-1); got != "no" {
		t.Errorf("separableText(-1) = %q", got)
	}
	if got := separableText(2); got != "axis 2" {
		t.Errorf("separableText(2) = %q", got)
	}
}

func TestNoPinText(t *testing.T) {
	a := derive.Analyze(shape.MustParse("Cu------:CuCuCuCu", 5))
	if got := noPinText(&a); !strings.HasPrefix(got, "stack (1,0)") {
		t.Errorf("noPinText = %q", got)
	}
	a = derive.Analyze(shape.MustParse("CuCu----", 5))
	if got := noPinText(&a); !strings.Contains(got, "separable") {
		t.Errorf("separable noPinText = %q", got)
	}
}

func TestStepText(t *testing.T) {
	m := catalog.Method(8)
	tests := []struct {
		step derive.Step
		want string
	}{
		{derive.Step{Op: derive.OpPin}, "pin " + iconArrow},
		{derive.Step{Op: derive.OpStack, With: "CuCuCuCu", Method: &m}, "stack #8 CuCuCuCu " + iconArrow},
		{derive.Step{Op: derive.OpStack, With: "----CuCu", Method: &m, Rotation: 2}, "stack #8 ----CuCu rot 2 " + iconArrow},
		{derive.Step{Op: derive.OpStackLayer, With: "CuCuCuCu"}, "layer CuCuCuCu " + iconArrow},
	}
	for _, tt := range tests {
		if got := stepText(tt.step); got != tt.want {
			t.Errorf("stepText(%+v) = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestRoundSummary(t *testing.T) {
	if got := roundSummary([]enumerate.RoundStats{{Found: 10}}); got != "no expansion" {
		t.Errorf("seed only = %q", got)
	}
	rounds := []enumerate.RoundStats{{Found: 10}, {Found: 5}, {Found: 2}, {Found: 0, Duration: time.Millisecond}}
	if got := roundSummary(rounds); got != "found 5/2/0" {
		t.Errorf("roundSummary = %q", got)
	}
	long := make([]enumerate.RoundStats, 12)
	if got := roundSummary(long); !strings.HasSuffix(got, "/…") {
		t.Errorf("long summary = %q", got)
	}
}

func TestCountsTableOrder(t *testing.T) {
	out := countsTable(map[string]int{"pin": 3, "stack #8": 7, "stack #0": 3})
	i8, i0, ip := strings.Index(out, "stack #8"), strings.Index(out, "stack #0"), strings.Index(out, "pin")
	if i8 < 0 || i0 < 0 || ip < 0 {
		t.Fatalf("table missing rows:\n%s", out)
	}
	if !(i8 < ip && ip < i0) {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func captureStdout(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	old := stdout
	stdout = &b
	t.Cleanup(func() { stdout = old })
	return &b
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		cached bool
		parts  []string
		want   string
	}{
		{false, []string{"2 steps"}, "  2 steps · fresh\n"},
		{true, []string{"3 layers", "4 quadrants"}, "  3 layers · 4 quadrants · cached\n"},
		{true, nil, "  cached\n"},
	}
	for _, tt := range tests {
		out := captureStdout(t)
		printStats(tt.cached, tt.parts...)
		if out.String() != tt.want {
			t.Errorf("printStats(%v, %v) = %q, want %q", tt.cached, tt.parts, out.String(), tt.want)
		}
	}
}

func TestPrintDerivation(t *testing.T) {
	out := captureStdout(t)
	m := catalog.Method(8)
	printDerivation(&derive.Result{
		Input:   "Cu------:CuCuCuCu",
		Verdict: derive.VerdictDerived,
		Base:    "Cu------",
		Steps:   []derive.Step{{Op: derive.OpStack, With: "CuCuCuCu", Method: &m, Shape: "Cu------:CuCuCuCu"}},
	}, false)
	for _, want := range []string{"is creatable (derived)", "Base", " 1. stack #8 CuCuCuCu", "1 steps"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
