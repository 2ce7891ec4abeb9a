package commands

import (
	"os"

	"github.com/boxwithpython/litnet-dataset/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const (
	keyConfigFile = "config"
	keyVerbose    = "verbose"
)

// NewRootCommand creates the litnet command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "litnet",
		Short: "Litnet book catalog CLI",
		Long: `A command-line client for the Litnet book catalog API.

It registers an anonymous device, obtains an access token and fetches
book records, either one by one or as a dataset written to a sink.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(version)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.litnet/config.yml)")
	flags.StringP("api", "a", "", "API endpoint URL (default https://api.litnet.com/v1/)")
	flags.String("device-id", "", "device id used for anonymous registration (generated when empty)")
	flags.StringP("output", "o", "", "output format (table, json, yaml); json when stdout is not a terminal")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Duration("timeout", 0, "HTTP request timeout (default 30s)")
	flags.BoolP("verbose", "v", false, "verbose output, logs every HTTP request")

	// Bind flags to viper
	_ = viper.BindPFlag(keyConfigFile, flags.Lookup("config"))
	_ = viper.BindPFlag(config.KeyAPI, flags.Lookup("api"))
	_ = viper.BindPFlag(config.KeyDeviceID, flags.Lookup("device-id"))
	_ = viper.BindPFlag(config.KeyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = viper.BindPFlag(keyVerbose, flags.Lookup("verbose"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewRegisterCommand())
	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewBookCommand())
	rootCmd.AddCommand(NewDumpCommand())

	return rootCmd
}

func initConfig(version string) error {
	v := viper.GetViper()
	config.SetDefaults(v, version, term.IsTerminal(int(os.Stdout.Fd())))

	return config.Setup(v, v.GetString(keyConfigFile))
}
