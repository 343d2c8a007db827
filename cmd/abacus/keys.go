package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/runner"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the key layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer env.Close()

		help := runner.Help(env.Calculator.Keymap())
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), help)
			return nil
		}

		render, err := tui.NewAutoRenderer()
		if err != nil {
			return err
		}
		out, err := render(help)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().Bool("raw", false, "Print markdown without styling")
}
