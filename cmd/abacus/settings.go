package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change calculator preferences",
	Long: `Preferences are stored in settings.yaml under the user config directory
and apply to the interactive calculator: dark_mode, scientific, angle_mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		for _, key := range settings.Keys() {
			value, _ := prefs.Get(key)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Print one preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: settings.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		value, err := prefs.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one preference",
	Args:      cobra.ExactArgs(2),
	ValidArgs: settings.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath(cmd)
		if err != nil {
			return err
		}
		prefs, err := settings.Load(path)
		if err != nil {
			return err
		}
		if err := prefs.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := settings.Save(path, prefs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.PersistentFlags().String("settings", "", "Path to the settings file (default: user config dir)")
}

func settingsPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		return path, nil
	}
	return settings.DefaultPath()
}

func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	path, err := settingsPath(cmd)
	if err != nil {
		return settings.Default(), nil
	}
	return settings.Load(path)
}
