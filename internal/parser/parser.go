package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"tesim/internal/rewrite"
	"tesim/pkg/genome"
	"tesim/pkg/scenario"
)

var (
	// ErrUnknownOp is returned for a list item whose first word is not a step.
	ErrUnknownOp = errors.New("unknown scenario step")
	// ErrBadArgs is returned when a step has the wrong number or kind of arguments.
	ErrBadArgs = errors.New("invalid step arguments")
	// ErrNoGenome is returned when a genome step appears before any size step.
	ErrNoGenome = errors.New("step before the first size step")
)

// ParseScenarioFile reads a Markdown scenario. The scenario is named after its
// first level-1 heading, or after the file when there is none.
func ParseScenarioFile(filename string) (scenario.Scenario, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	scn, err := ParseScenario(name, src)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("%s: %w", filename, err)
	}
	scn.Path = filename
	return scn, nil
}

// ParseScenario extracts steps from Markdown source. Every bullet list item is
// one step; everything else in the document is commentary.
func ParseScenario(defaultName string, src []byte) (scenario.Scenario, error) {
	scn := scenario.Scenario{Name: defaultName}
	offsets := rewrite.BuildLineOffsets(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	named := false
	haveGenome := false
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && !named {
				if title := strings.TrimSpace(segmentsText(node.Lines(), src)); title != "" {
					scn.Name = title
					named = true
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			body := node.FirstChild()
			if body == nil || body.Lines().Len() == 0 {
				return ast.WalkContinue, nil
			}
			seg := body.Lines().At(0)
			line := rewrite.LineIndex(offsets, seg.Start)
			op, err := parseOp(string(seg.Value(src)))
			if err != nil {
				return ast.WalkStop, fmt.Errorf("line %d: %w", line+1, err)
			}
			if op.Kind == scenario.OpSize {
				haveGenome = true
			} else if !haveGenome {
				return ast.WalkStop, fmt.Errorf("line %d: %w: %s", line+1, ErrNoGenome, op.Kind)
			}
			op.Line = line
			op.Indent = string(src[offsets[line]:seg.Start])
			scn.Ops = append(scn.Ops, op)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return scenario.Scenario{}, err
	}
	return scn, nil
}

func parseOp(raw string) (scenario.Op, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return scenario.Op{}, fmt.Errorf("%w: empty list item", ErrUnknownOp)
	}
	kind := scenario.OpKind(strings.ToLower(fields[0]))
	args := fields[1:]
	op := scenario.Op{Kind: kind}

	var err error
	switch kind {
	case scenario.OpSize, scenario.OpExpectLength:
		op.Args, err = ints(kind, args, 1)
		if err == nil && op.Args[0] < 0 {
			err = fmt.Errorf("%w: %s needs a non-negative value, got %d", ErrBadArgs, kind, op.Args[0])
		}
	case scenario.OpInsert, scenario.OpCopy:
		op.Args, err = ints(kind, args, 2)
	case scenario.OpDisable:
		op.Args, err = ints(kind, args, 1)
	case scenario.OpExpect:
		op.Text, err = sequence(args)
	case scenario.OpExpectActive:
		if len(args) == 1 && strings.EqualFold(args[0], "none") {
			break
		}
		op.Args, err = ints(kind, args, len(args))
	default:
		return scenario.Op{}, fmt.Errorf("%w: %q", ErrUnknownOp, fields[0])
	}
	if err != nil {
		return scenario.Op{}, err
	}
	return op, nil
}

func ints(kind scenario.OpKind, args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArgs, kind, want, len(args))
	}
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %q is not an integer", ErrBadArgs, kind, a)
		}
		out[i] = v
	}
	return out, nil
}

// sequence accepts a rendering made of genome symbols, optionally quoted or
// in backticks.
func sequence(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expect takes one sequence, got %d words", ErrBadArgs, len(args))
	}
	seq := strings.Trim(args[0], "`\"")
	for i := 0; i < len(seq); i++ {
		if !genome.Symbol(seq[i]).Valid() {
			return "", fmt.Errorf("%w: %q is not a genome symbol", ErrBadArgs, seq[i])
		}
	}
	return seq, nil
}

func segmentsText(lines *text.Segments, src []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}
