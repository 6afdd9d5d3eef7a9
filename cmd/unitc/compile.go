package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/arbor/unitres"
)

func newCompileCmd(logger func() *zap.Logger) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "compile [unit.yaml]",
		Short:   "Compile a YAML unit description to a binary node layout",
		Example: "unitc compile arm.yaml -o arm.arbn",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if out == "" {
				out = strings.TrimSuffix(in, filepath.Ext(in)) + ".arbn"
			}
			n, err := compileUnit(in, out)
			if err != nil {
				return err
			}
			logger().Info("compiled unit",
				zap.String("in", in),
				zap.String("out", out),
				zap.Int("nodes", n),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: input with .arbn extension)")
	return cmd
}

// compileUnit compiles in and writes the layout to out, returning the node
// count. A partially written file is removed on failure.
func compileUnit(in, out string) (int, error) {
	c, err := unitres.CompileFile(in)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", out, err)
	}
	if err := unitres.Encode(f, c.Layout); err != nil {
		f.Close()
		os.Remove(out)
		return 0, fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return 0, fmt.Errorf("close %s: %w", out, err)
	}
	return len(c.Layout.Names), nil
}
