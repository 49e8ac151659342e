package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox/pkg/factory"
)

var compileCmd = &cobra.Command{
	Use:   "compile [document|-] [-- compiler args...]",
	Short: "Compile a diagram document into a factory",
	Long: `Builds the diagram, compiles it into a signal program and writes the factory.
Compiler arguments follow "--": -single|-double, -I <dir>, -cn <class>.

` + factory.Usage(),
	Example: `  faustbox compile echo.yaml -- -double -cn Echo
  faustbox compile --dir lib --id fx/echo --binary -o echo.fbx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, argv := splitArgs(cmd, args)

		svc, logger, err := newService(cmd)
		if err != nil {
			return err
		}
		doc, err := readDocument(cmd, svc, args)
		if err != nil {
			return err
		}

		f, cached, err := svc.CompileDocument(cmd.Context(), doc, argv)
		if err != nil {
			return err
		}
		logger.Info("Factory compiled", "name", f.Name, "sha", f.SHAKey, "arity", f.Arity, "cached", cached)

		binary, _ := cmd.Flags().GetBool("binary")
		compact, _ := cmd.Flags().GetBool("compact")
		output, _ := cmd.Flags().GetString("output")

		if output == "" || output == "-" {
			return f.Write(cmd.OutOrStdout(), binary, compact)
		}
		out, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := f.Write(out, binary, compact); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s -> %s\n", f.Name, f.Arity, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().String("id", "", "Compile a diagram of the library (--dir) by ID")
	compileCmd.Flags().StringP("output", "o", "", "Write the factory to a file instead of stdout")
	compileCmd.Flags().Bool("binary", false, "Write the factory as MessagePack")
	compileCmd.Flags().Bool("compact", false, "Compact JSON / integer encoding")
}
