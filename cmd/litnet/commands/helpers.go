package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/boxwithpython/litnet-dataset/internal/config"
	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/internal/logging"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// defaultJSONIndent is the indent used for JSON output.
const defaultJSONIndent = "  "

// loadSettings loads the validated configuration and makes sure a device id
// exists.
func loadSettings() (*config.Config, error) {
	v := viper.GetViper()

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	_, err = config.EnsureDeviceID(v, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger builds the command logger on stderr. --verbose forces debug.
func newLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	level := cfg.LogLevel
	if viper.GetBool(keyVerbose) {
		level = "debug"
	}

	return logging.NewWithWriter(level, cmd.ErrOrStderr())
}

// clientConfig maps CLI settings onto the client configuration.
func clientConfig(cfg *config.Config, logger litnet.Logger, observer litnet.RequestObserver) *litnet.Config {
	clientCfg := &litnet.Config{
		BaseURL:   cfg.API,
		DeviceID:  cfg.DeviceID,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Debug:     viper.GetBool(keyVerbose),
		Logger:    logger,
	}

	if observer != nil {
		clientCfg.Observer = observer
	}

	return clientCfg
}

// parseBookID parses a positive book id argument.
func parseBookID(arg string) (int, error) {
	bookID, err := strconv.Atoi(arg)
	if err != nil || bookID < 1 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidBookID, arg)
	}

	return bookID, nil
}

// render writes value as JSON or YAML, or fills a table for table output.
func render(w io.Writer, format string, value any, fill func(*tablewriter.Table)) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(value)
		if err != nil {
			return err
		}

		return encoder.Close()
	default:
		table := tablewriter.NewWriter(w)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// renderRecord renders a single record, one field per table row.
func renderRecord(w io.Writer, format string, record litnet.Record) error {
	return render(w, format, record, func(table *tablewriter.Table) {
		table.Header("Field", "Value")
		appendRecordRows(table, record)
	})
}

func appendRecordRows(table *tablewriter.Table, record litnet.Record) {
	for _, row := range recordRows(record) {
		_ = table.Append(row)
	}
}

// recordRows returns key/value rows sorted by key.
func recordRows(record litnet.Record) [][]string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatValue(record[key])})
	}

	return rows
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		return typed
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(data)
	}
}
