package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox/internal/presentation/tui"
)

var reportCmd = &cobra.Command{
	Use:   "report [document|-] [-- compiler args...]",
	Short: "Describe the factory of a diagram",
	Long: `Compiles the diagram and prints a markdown report: SHA key, arity, options,
signal node census and the inferred range of every output.
On a terminal the report is rendered; pipes get plain markdown.`,
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

		plain, _ := cmd.Flags().GetBool("plain")
		render := tui.NewRenderer(plain || !isTerminal(cmd.OutOrStdout()))
		out, err := render(tui.Report(f))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("id", "", "Use a diagram of the library (--dir) by ID")
	reportCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
}
