// Package visualization renders intersection cycles as Graphviz graphs
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/samber/lo"

	"github.com/anggasct/crossing"
)

// DOTGenerator generates Graphviz DOT format representations of a cycle
type DOTGenerator struct {
	cycle   *crossing.Cycle
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowGuardConditions bool
	ShowInitial         bool
	RankDirection       string // "TB", "LR", "BT", "RL"
	NodeShape           string
	TransitionStyle     string
	FallbackStyle       string // style of the unguarded edge of a guarded phase
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuardConditions: true,
		ShowInitial:         true,
		RankDirection:       "LR",
		NodeShape:           "box",
		TransitionStyle:     "solid",
		FallbackStyle:       "dashed",
	}
}

// NewDOTGenerator creates a new DOT generator for cycle
func NewDOTGenerator(cycle *crossing.Cycle, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		cycle:   cycle,
		options: opts,
	}
}

// Generate creates a DOT representation of the cycle
func (g *DOTGenerator) Generate() (string, error) {
	if g.cycle == nil {
		return "", fmt.Errorf("no cycle to render")
	}

	var dot strings.Builder

	dot.WriteString("digraph Intersection {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generatePhases(&dot)
	g.generateTransitions(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generatePhases generates DOT nodes for every phase the cycle uses, in cycle order
func (g *DOTGenerator) generatePhases(dot *strings.Builder) {
	dot.WriteString("  // Phases\n")

	used := lo.Filter(crossing.Phases, func(p crossing.Phase, _ int) bool {
		return p == g.cycle.Initial() || len(g.cycle.Transitions(p)) > 0
	})
	for _, phase := range used {
		label := phase.String()
		style := "filled"
		if g.options.ShowInitial && phase == g.cycle.Initial() {
			label += "\\n(initial)"
			style = "filled,bold"
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" [style=\"%s\" fillcolor=%s label=\"%s\"];\n",
			phase, style, fillColor(phase), label))
	}
	dot.WriteString("\n")
}

func fillColor(phase crossing.Phase) string {
	switch {
	case phase.IsGreen():
		return "palegreen"
	case phase.IsYellow():
		return "khaki"
	default:
		return "lightblue"
	}
}

// generateTransitions generates DOT edges in evaluation order
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	for _, from := range crossing.Phases {
		transitions := g.cycle.Transitions(from)
		guarded := lo.SomeBy(transitions, func(t crossing.Transition) bool { return t.Guarded() })

		for _, t := range transitions {
			attrs := []string{fmt.Sprintf("style=%s", g.options.TransitionStyle)}
			if g.options.ShowGuardConditions {
				switch {
				case t.Guarded():
					attrs = append(attrs, fmt.Sprintf("label=\"[%s]\"", t.Label))
				case guarded:
					attrs = []string{fmt.Sprintf("style=%s", g.options.FallbackStyle), "label=\"else\""}
				}
			}
			dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", t.From, t.To, strings.Join(attrs, " ")))
		}
	}
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(cycle *crossing.Cycle, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(cycle, options...),
	}
}

// Generate creates an SVG representation of the cycle
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
