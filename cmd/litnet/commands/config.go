package commands

import (
	"fmt"

	"github.com/boxwithpython/litnet-dataset/internal/config"
	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configSetArgCount = 2

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Display and change the settings stored in the litnet config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after flags, environment and config file are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			settings := cfg.Settings()

			return render(cmd.OutOrStdout(), cfg.Output, settings, func(table *tablewriter.Table) {
				table.Header("Key", "Value")
				_ = table.Append([]string{keyConfigFile, orNotAvailable(viper.ConfigFileUsed())})

				for _, key := range config.Keys {
					_ = table.Append([]string{key, orNotAvailable(settings[key])})
				}
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  fmt.Sprintf("Persist a configuration value. Known keys: %v", config.Keys),
		Args:  cobra.ExactArgs(configSetArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			err := config.SaveValue(viper.GetViper(), key, value)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, viper.ConfigFileUsed())

			return err
		},
	}
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
