package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
)

var evalCmd = &cobra.Command{
	Use:   "eval <keys>...",
	Short: "Press keys on a fresh calculator and print the display",
	Example: `  abacus eval 12 + 30 =
  abacus eval "2 ^ 10 =" --equation
  abacus eval 90 sin --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		equation, _ := cmd.Flags().GetBool("equation")
		jsonOut, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")

		env, err := setup(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer env.Close()

		return cli.Eval(cmd.Context(), env, args, cmd.OutOrStdout(), cli.EvalOptions{
			Equation: equation,
			JSON:     jsonOut,
			Strict:   strict,
		})
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().BoolP("equation", "e", false, "Print the equation trail instead of the display")
	evalCmd.Flags().Bool("json", false, "Print the full state as JSON")
	evalCmd.Flags().Bool("strict", false, "Exit non-zero when the result is an error")
}
