package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/docval/pkg/ruleset"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Compile rule set files and report configuration errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			out := termenv.NewOutput(w)

			failed := 0
			for _, path := range args {
				rs, err := ruleset.LoadFile(path)
				if err == nil {
					_, err = rs.Compile()
				}
				if err != nil {
					failed++
					fmt.Fprintf(w, "%s %s: %v\n", out.String("FAIL").Foreground(termenv.ANSIRed).Bold(), path, err)
					continue
				}
				fmt.Fprintf(w, "%s %s (%s, %d fields)\n",
					out.String("ok").Foreground(termenv.ANSIGreen).Bold(), path, rs.Name, len(rs.Declarations))
			}

			if failed > 0 {
				return usageError(fmt.Errorf("%d of %d rule sets failed", failed, len(args)))
			}
			return nil
		},
	}
}
