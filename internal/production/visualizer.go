package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/calculatorx"
)

// DefaultVisualizer renders the engine's phase chart.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the chart, filling the
// current phase.
func (v *DefaultVisualizer) ExportDOT(m *calculatorx.Machine, current calculatorx.PhaseID) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Calculator {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	if m == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, p := range m.Phases() {
		attrs := ""
		if p.ID == current {
			attrs = ` style="rounded,filled" fillcolor=lightgreen`
		}
		if p.Initial {
			attrs += ` peripheries=2`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", p.ID.String(), p.ID.String(), attrs)
	}

	for _, e := range collectEdges(m) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Edge represents a transition edge.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// chartDoc is the JSON shape of ExportJSON.
type chartDoc struct {
	Phases  []string `json:"phases"`
	Initial string   `json:"initial"`
	Current string   `json:"current"`
	Edges   []Edge   `json:"edges"`
}

// ExportJSON serializes the chart structure to JSON.
func (v *DefaultVisualizer) ExportJSON(m *calculatorx.Machine, current calculatorx.PhaseID) ([]byte, error) {
	doc := chartDoc{Current: current.String()}
	if m == nil {
		return json.MarshalIndent(doc, "", "  ")
	}
	doc.Edges = collectEdges(m)
	for _, p := range m.Phases() {
		doc.Phases = append(doc.Phases, p.ID.String())
		if p.Initial {
			doc.Initial = p.ID.String()
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// collectEdges collects all external transitions in declaration order.
// Internal transitions draw as self loops.
func collectEdges(m *calculatorx.Machine) []Edge {
	var edges []Edge
	for _, p := range m.Phases() {
		for _, t := range p.Transitions {
			to := p.ID
			if t.Target != nil {
				to = t.Target.ID
			}
			edges = append(edges, Edge{
				From:  p.ID.String(),
				To:    to.String(),
				Label: t.Signal.String(),
			})
		}
	}
	return edges
}
