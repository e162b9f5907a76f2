package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered document types and their extraction steps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tLABEL\tEXTENSIONS\tSTEPS")
			for _, meta := range reg.AllTypeInfos() {
				p, err := reg.Processor(meta.Tag)
				if err != nil {
					return err
				}
				steps := make([]string, 0)
				for _, s := range p.Steps() {
					steps = append(steps, fmt.Sprintf("%d:%s", s.Ordinal, s.Name))
				}
				if len(steps) == 0 {
					steps = append(steps, "single")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					meta.Tag, meta.HumanLabel,
					strings.Join(meta.SupportedFileExtensions, ","),
					strings.Join(steps, " "),
				)
			}
			return w.Flush()
		},
	}
}
