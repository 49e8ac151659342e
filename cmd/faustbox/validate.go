package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox/internal/compiler"
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document...]",
	Short: "Check diagram documents without caching them",
	Long: `Parses, builds and compiles each document and reports every problem found.
Without arguments, every diagram of the library (--dir) is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logger, err := newService(cmd)
		if err != nil {
			return err
		}

		docs := make(map[string][]byte)
		var order []string
		if len(args) > 0 {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				docs[path] = data
				order = append(order, path)
			}
		} else {
			if svc.Loader() == nil {
				return fmt.Errorf("nothing to validate: pass documents or --dir")
			}
			ids, err := svc.Loader().ListDiagrams()
			if err != nil {
				return err
			}
			for _, id := range ids {
				data, err := svc.Loader().GetDiagram(id)
				if err != nil {
					return err
				}
				docs[id] = data
				order = append(order, id)
			}
		}

		failed := 0
		for _, id := range order {
			if err := validateDocument(docs[id], compiler.WithLogger(logger)); err != nil {
				failed++
				printProblems(cmd.OutOrStdout(), id, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d diagrams are invalid", failed, len(order))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateDocument runs a document through every stage of compilation in a
// context of its own.
func validateDocument(data []byte, opts ...compiler.Option) error {
	doc, err := schema.Parse(data)
	if err != nil {
		return err
	}
	ctx := box.NewContext()
	defer ctx.Destroy()

	root, err := schema.Build(ctx, doc)
	if err != nil {
		return err
	}
	opts = append(opts, compiler.WithForeignResolver(compiler.IncludePathResolver{Dirs: []string{"."}}))
	_, err = compiler.New(opts...).Compile(ctx, root)
	return err
}

func printProblems(w io.Writer, id string, err error) {
	fmt.Fprintf(w, "❌ %s\n", id)
	problems := schema.ValidationErrors(err)
	for _, d := range domain.Diagnostics(err) {
		problems = append(problems, d)
	}
	if len(problems) == 0 {
		fmt.Fprintf(w, "   %v\n", err)
		return
	}
	for _, p := range problems {
		fmt.Fprintf(w, "   - %v\n", p)
	}
}
