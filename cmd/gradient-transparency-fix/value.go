package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValueCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "value <property> <value>",
		Short: "Fix a single declaration value",
		Long: `Fix the value of one declaration and print it. Properties that the
configured pattern does not select are printed unchanged.`,
		Example: `  gradient-transparency-fix value background 'linear-gradient(red, transparent)'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.loadConfig(".")
			if err != nil {
				return err
			}
			f, err := cfg.Fixer()
			if err != nil {
				return err
			}

			result := f.FixDeclaration(args[0], args[1])
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Stop, w.Message)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Value)
			return err
		},
	}
}
