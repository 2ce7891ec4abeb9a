package commands

import (
	"fmt"

	"github.com/boxwithpython/litnet-dataset/pkg/litnetclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// TokenInfo is the token command output.
type TokenInfo struct {
	DeviceID string `json:"device_id" yaml:"device_id"`
	State    string `json:"state"     yaml:"state"`
	Token    string `json:"token"     yaml:"token"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Obtain an access token",
		Long:  "Register the configured device and display the access token issued for it",
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

			token, err := session.Authorize(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to authorize device: %w", err)
			}

			info := TokenInfo{
				DeviceID: session.DeviceID(),
				State:    session.State().String(),
				Token:    token,
			}

			return render(cmd.OutOrStdout(), cfg.Output, info, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append([]string{"Device ID", info.DeviceID})
				_ = table.Append([]string{"State", info.State})
				_ = table.Append([]string{"Token", info.Token})
			})
		},
	}
}
