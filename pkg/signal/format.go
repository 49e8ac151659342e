package signal

import (
	"strconv"
	"strings"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Format renders s as a compact expression, e.g. "(in0 + (in1 * 0.5))".
// Taps are rendered by name and not expanded, so feedback loops terminate.
func (g *Graph) Format(s Signal) string {
	if !g.Owns(s) {
		return s.String()
	}
	var sb strings.Builder
	g.format(&sb, s)
	return sb.String()
}

func (g *Graph) format(sb *strings.Builder, s Signal) {
	n := g.node(s)
	switch n.Kind {
	case domain.SigInt:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case domain.SigReal:
		sb.WriteString(strconv.FormatFloat(n.Real, 'g', -1, 64))
	case domain.SigInput:
		sb.WriteString("in")
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case domain.SigTap:
		sb.WriteString("tap")
		sb.WriteString(strconv.FormatInt(n.Int, 10))
	case domain.SigBinOp:
		sb.WriteByte('(')
		g.format(sb, n.Args[0])
		sb.WriteByte(' ')
		sb.WriteString(n.Op.Symbol())
		sb.WriteByte(' ')
		g.format(sb, n.Args[1])
		sb.WriteByte(')')
	case domain.SigMath:
		g.call(sb, n.Fn.String(), n.Args)
	case domain.SigFConst, domain.SigFVar:
		sb.WriteString(n.Name)
	case domain.SigButton, domain.SigCheckbox, domain.SigVSlider, domain.SigHSlider, domain.SigNumEntry, domain.SigSoundfile:
		sb.WriteString(n.Kind.String())
		sb.WriteByte('(')
		sb.WriteString(strconv.Quote(n.Label))
		sb.WriteByte(')')
	default:
		g.call(sb, n.Kind.String(), n.Args)
	}
}

func (g *Graph) call(sb *strings.Builder, name string, args []Signal) {
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		g.format(sb, a)
	}
	sb.WriteByte(')')
}
