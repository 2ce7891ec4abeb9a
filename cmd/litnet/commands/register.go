package commands

import (
	"fmt"

	"github.com/boxwithpython/litnet-dataset/pkg/litnetclient"
	"github.com/spf13/cobra"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register the device anonymously",
		Long:  "Register the configured device with the Litnet API and display the raw registration response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			defer func() { _ = logger.Sync() }()

			session, err := litnetclient.NewSession(clientConfig(cfg, logger, nil))
			if err != nil {
				return err
			}

			record, err := session.Register(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to register device: %w", err)
			}

			return renderRecord(cmd.OutOrStdout(), cfg.Output, record)
		},
	}
}
