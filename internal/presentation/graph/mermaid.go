package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/faustbox/internal/interval"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

// GraphOverlay contains analysis data to visualize on the graph.
type GraphOverlay struct {
	// Ranges is indexed by node id, as returned by interval.Infer.
	Ranges []interval.Interval
	// Highlight lists node ids to emphasize.
	Highlight []uint32
}

// GenerateMermaid produces a Mermaid flowchart of a compiled program.
// It applies semantic styling:
// - Input: ((Circle))
// - UI widget: [/Parallelogram/]
// - Foreign constant or variable: [[Subroutine]]
// - Recursive tap: {{Hexagon}}
// - Default: [Rectangle]
// Tap edges are dotted and labelled with their delay.
func GenerateMermaid(p *factory.Program, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range p.Nodes {
		id := nodeID(n.ID)
		opener, closer := shape(n.Kind)

		text := escape(caption(n))
		if overlay != nil && int(n.ID) < len(overlay.Ranges) {
			text = fmt.Sprintf("%s <br/> %s", text, overlay.Ranges[n.ID])
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, text, closer))

		if n.Kind == domain.SigTap.String() {
			for _, a := range n.Args {
				sb.WriteString(fmt.Sprintf("    %s -. \"z-%d\" .-> %s\n", nodeID(a), n.Delay, id))
			}
			continue
		}
		for _, a := range n.Args {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(a), id))
		}
	}

	for i, o := range p.Outputs {
		out := fmt.Sprintf("out%d", i)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", out, out))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(o), out))
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[uint32]bool)
		for _, h := range overlay.Highlight {
			if seen[h] {
				continue
			}
			seen[h] = true
			if _, ok := p.Node(h); ok {
				sb.WriteString(fmt.Sprintf("    class %s highlight;\n", nodeID(h)))
			}
		}
	}

	return sb.String()
}

func nodeID(id uint32) string {
	return "n" + strconv.FormatUint(uint64(id), 10)
}

func shape(kind string) (string, string) {
	k, _ := domain.ParseSignalKind(kind)
	switch k {
	case domain.SigInput:
		return "((", "))"
	case domain.SigButton, domain.SigCheckbox, domain.SigVSlider, domain.SigHSlider,
		domain.SigNumEntry, domain.SigVBargraph, domain.SigHBargraph:
		return "[/", "/]"
	case domain.SigFConst, domain.SigFVar:
		return "[[", "]]"
	case domain.SigTap:
		return "{{", "}}"
	}
	return "[", "]"
}

func caption(n factory.Node) string {
	k, _ := domain.ParseSignalKind(n.Kind)
	switch k {
	case domain.SigInput:
		return fmt.Sprintf("in%d", n.Int)
	case domain.SigInt:
		return strconv.FormatInt(n.Int, 10)
	case domain.SigReal:
		return strconv.FormatFloat(n.Real, 'g', -1, 64)
	case domain.SigBinOp:
		if op, ok := domain.ParseOperator(n.Op); ok {
			return op.Symbol()
		}
		return n.Op
	case domain.SigMath:
		return n.Fn
	case domain.SigTap:
		return fmt.Sprintf("tap%d", n.Int)
	case domain.SigDelay:
		return "@"
	case domain.SigFConst, domain.SigFVar:
		return n.Name
	case domain.SigButton, domain.SigCheckbox, domain.SigVSlider, domain.SigHSlider,
		domain.SigNumEntry, domain.SigVBargraph, domain.SigHBargraph:
		return fmt.Sprintf("%s %s", n.Kind, n.Label)
	case domain.SigSoundfile:
		return fmt.Sprintf("soundfile %s", n.Label)
	}
	return n.Kind
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
