package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox/internal/interval"
	"github.com/aretw0/faustbox/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [document|-] [-- compiler args...]",
	Short: "Export the signal graph visualization",
	Long:  `Compiles the diagram and outputs a Mermaid diagram (graph LR) of its signal program.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, argv := splitArgs(cmd, args)

		svc, _, err := newService(cmd)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, svc, args)
		if err != nil {
			return err
		}
		f, _, err := svc.CompileDocument(cmd.Context(), doc, argv)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if ranges, _ := cmd.Flags().GetBool("ranges"); ranges {
			overlay = &graph.GraphOverlay{Ranges: interval.Infer(f.Program), Highlight: f.Program.Outputs}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(f.Program, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("id", "", "Use a diagram of the library (--dir) by ID")
	graphCmd.Flags().Bool("ranges", false, "Annotate nodes with their inferred value range")
}
