package tui

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string { return ansiEscape.ReplaceAllString(s, "") }

func TestWrapText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"line 3: expect: want a, got b", 12, "line 3:\nexpect: want\na, got b"},
		{"short", 20, "short"},
		{"a\n\nb", 5, "a\n\nb"},
		{"unbreakablewordhere x", 5, "unbreakablewordhere\nx"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := wrapText(tt.in, tt.width); got != tt.want {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestChunkCells(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"--AAA--------", 5, []string{"--AAA", "-----", "---"}},
		{"--AAA", 5, []string{"--AAA"}},
		{"", 5, []string{""}},
		{"--xx", 0, []string{"--xx"}},
	}
	for _, tt := range tests {
		if got := chunkCells(tt.in, tt.width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("chunkCells(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestColorizeKeepsSymbols(t *testing.T) {
	seq := "--xxAAx--------"
	if got := stripANSI(colorize(seq)); got != seq {
		t.Errorf("colorize(%q) = %q after stripping styles", seq, got)
	}
}

func TestViewShowsGenome(t *testing.T) {
	m := testModel(t)
	if !strings.Contains(stripANSI(ModelView(m)), "no genome yet") {
		t.Error("empty view should prompt for the first step")
	}

	m = press(m, "n", "n")
	view := stripANSI(ModelView(m))
	for _, want := range []string{"--AAA--------", "insert 2 3: TE 1", "Step: 2/6", "contiguous"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}

	m, _ = HandleKeyMsg(m, simulateKeyMsg("q"))
	if ModelView(m) != "Goodbye!\n" {
		t.Errorf("quitting view = %q", ModelView(m))
	}
}
