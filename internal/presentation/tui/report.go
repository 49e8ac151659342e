package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/faustbox/internal/interval"
	"github.com/aretw0/faustbox/pkg/factory"
)

// Report describes a factory as markdown: identity, options, node census and
// the inferred range of every output.
func Report(f *factory.Factory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", f.Name)
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| SHA | `%s` |\n", f.SHAKey)
	fmt.Fprintf(&sb, "| Arity | %s |\n", f.Arity)
	fmt.Fprintf(&sb, "| Options | `%s` |\n", strings.Join(f.Options.Args(), " "))
	if f.Compiler != "" {
		fmt.Fprintf(&sb, "| Compiler | %s |\n", f.Compiler)
	}
	if !f.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "| Created | %s |\n", f.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	if f.Program == nil {
		return sb.String()
	}

	counts := f.Program.CountByKind()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintf(&sb, "\n## Signals (%d)\n\n", len(f.Program.Nodes))
	sb.WriteString("| Kind | Count |\n|---|---|\n")
	for _, k := range kinds {
		fmt.Fprintf(&sb, "| %s | %d |\n", k, counts[k])
	}

	if len(f.Program.Outputs) > 0 {
		sb.WriteString("\n## Outputs\n\n")
		sb.WriteString("| Output | Range |\n|---|---|\n")
		for i, r := range interval.Outputs(f.Program) {
			fmt.Fprintf(&sb, "| out%d | %s |\n", i, r)
		}
	}
	return sb.String()
}
