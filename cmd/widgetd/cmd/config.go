package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/widgetd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing widgetd configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration values in YAML format.

Without a config file or WIDGETD_ variables this shows every option with
its default value. Redirect the output to create a configuration template:

  widgetd config dump > .widgetd.yaml

Configuration can be set via:
  - Config file (.widgetd.yaml in $HOME, the working directory or /etc/widgetd)
  - Environment variables (WIDGETD_SERVER_PORT, WIDGETD_WEATHER_UNITS, etc.)
  - Command-line flags (for some options)

Environment variables use the WIDGETD_ prefix and underscores for nesting.
Example: server.port -> WIDGETD_SERVER_PORT`,
	RunE: runConfigDump,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigDump(cmd *cobra.Command, _ []string) error {
	out, err := config.Dump(viper.GetViper())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "# widgetd configuration")
	fmt.Fprintln(w, "# Environment variables override these values, e.g. WIDGETD_SERVER_PORT=9090")
	fmt.Fprintln(w)
	_, err = w.Write(out)
	return err
}
