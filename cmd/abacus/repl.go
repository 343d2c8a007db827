package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/internal/config"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the interactive calculator",
	Long: `Starts an interactive calculator session.

Modes:
- text (default): one line per input, keys separated by spaces ("12 + 30 =").
- keys: raw terminal, every keystroke is a key press.
- json: NDJSON input ({"tokens": [...]}) and state output, for scripts.

With --session the state is kept in the configured store and resumed next time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		sessionID, _ := cmd.Flags().GetString("session")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		prefs, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		env, err := setup(cmd, cli.Options{
			Interactive: true,
			Calculator:  prefs.Options(),
		})
		if err != nil {
			return err
		}
		defer env.Close()

		if sessionID != "" && env.Config.Store.Backend == config.BackendMemory && mode != cli.ModeJSON {
			fmt.Fprintln(cmd.ErrOrStderr(), "note: the memory store forgets the session on exit; use --store file to keep it")
		}

		return cli.RunREPL(cmd.Context(), env, cli.REPLOptions{
			Mode:      mode,
			SessionID: sessionID,
			Settings:  prefs,
			NoBanner:  noBanner,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringP("mode", "m", cli.ModeText, "Input mode: text, keys or json")
	replCmd.Flags().StringP("session", "s", "", "Session ID to resume and persist")
	replCmd.Flags().Bool("no-banner", false, "Do not print the welcome banner")
	replCmd.Flags().String("settings", "", "Path to the settings file (default: user config dir)")

	rootCmd.RunE = replCmd.RunE
	rootCmd.Flags().AddFlagSet(replCmd.Flags())
}
