package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/unitres"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dump [unit.arbn]",
		Short:   "Print the nodes of a compiled layout",
		Example: "unitc dump arm.arbn",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			layout, err := unitres.Decode(f)
			if err != nil {
				return err
			}
			return dumpLayout(cmd.OutOrStdout(), layout)
		},
	}
}

func dumpLayout(w io.Writer, layout arbor.NodeLayout) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tHASH\tPARENT\tTRANSLATION")
	for i, name := range layout.Names {
		t := layout.Poses[i].Col(3)
		parent := "-"
		if layout.Parents[i] != arbor.NoParent {
			parent = fmt.Sprint(layout.Parents[i])
		}
		fmt.Fprintf(tw, "%d\t%#08x\t%s\t(%g, %g, %g)\n", i, uint32(name), parent, t[0], t[1], t[2])
	}
	return tw.Flush()
}
