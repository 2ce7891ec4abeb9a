package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/boxwithpython/litnet-dataset/internal/config"
	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/internal/dataset"
	"github.com/boxwithpython/litnet-dataset/internal/logging"
	"github.com/boxwithpython/litnet-dataset/internal/metrics"
	"github.com/boxwithpython/litnet-dataset/pkg/litnetclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	var (
		from        int
		to          int
		skipMissing bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump a range of books to a sink",
		Long: `Authorize once, then fetch every book id from --from to --to in order and
write each record to the configured sink (stdout, file, nats or bolt).

The run stops at the first error. With --skip-missing, books the API reports
as not found are logged and skipped instead.`,
		Example: `  litnet dump --from 1 --to 100
  litnet dump --from 1 --to 5000 --sink bolt --path ./data/books.db --skip-missing
  litnet dump --from 1 --to 100 --sink nats --nats-url nats://localhost:4222 --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := dataset.ValidateRange(from, to)
			if err != nil {
				return err
			}

			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			defer func() { _ = logger.Sync() }()

			collector := metrics.NewCollector()

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, collector, logger)
				defer stop()
			}

			sink, err := dataset.NewSink(sinkConfig(cfg, cmd.OutOrStdout()))
			if err != nil {
				return fmt.Errorf("failed to open %s sink: %w", cfg.Sink, err)
			}

			catalog, err := litnetclient.New(cmd.Context(), clientConfig(cfg, logger, collector))
			if err != nil {
				_ = sink.Close()

				return err
			}

			dumper := dataset.NewDumper(catalog, sink,
				dataset.WithSkipMissing(skipMissing),
				dataset.WithDumperLogger(logger),
				dataset.WithRecordObserver(collector),
			)

			stats, dumpErr := dumper.Dump(cmd.Context(), from, to)

			err = sink.Close()
			if err != nil && dumpErr == nil {
				dumpErr = fmt.Errorf("failed to close %s sink: %w", sink.Name(), err)
			}

			if dumpErr != nil {
				logger.Error("Dump failed", map[string]interface{}{
					"written": stats.Written,
					"skipped": stats.Skipped,
					"error":   dumpErr.Error(),
				})

				return dumpErr
			}

			return renderStats(summaryWriter(cmd, cfg), cfg.Output, sink.Name(), stats)
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "first book id")
	cmd.Flags().IntVar(&to, "to", 1, "last book id (inclusive)")
	cmd.Flags().BoolVar(&skipMissing, "skip-missing", false, "skip books the API reports as not found")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the dump")
	cmd.Flags().String("sink", "", "sink type (stdout, file, nats, bolt)")
	cmd.Flags().String("path", "", "output path for the file and bolt sinks")
	cmd.Flags().String("nats-url", "", "NATS server URL for the nats sink")
	cmd.Flags().String("nats-subject", "", "subject prefix for the nats sink")

	_ = viper.BindPFlag(config.KeySink, cmd.Flags().Lookup("sink"))
	_ = viper.BindPFlag(config.KeySinkPath, cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag(config.KeyNATSURL, cmd.Flags().Lookup("nats-url"))
	_ = viper.BindPFlag(config.KeyNATSSubject, cmd.Flags().Lookup("nats-subject"))

	return cmd
}

func sinkConfig(cfg *config.Config, stdout io.Writer) dataset.SinkConfig {
	sinkCfg := dataset.SinkConfig{
		Type:   cfg.Sink,
		Path:   cfg.SinkPath,
		NATS:   dataset.DefaultNATSConfig(),
		Writer: stdout,
	}

	sinkCfg.NATS.URL = cfg.NATSURL
	sinkCfg.NATS.Subject = cfg.NATSSubject

	if sinkCfg.Type == constants.SinkBolt && sinkCfg.Path == "" {
		sinkCfg.Path = cfg.BoltPath
	}

	return sinkCfg
}

// summaryWriter keeps stdout clean when records are streamed to it.
func summaryWriter(cmd *cobra.Command, cfg *config.Config) io.Writer {
	if cfg.Sink == constants.SinkStdout {
		return cmd.ErrOrStderr()
	}

	return cmd.OutOrStdout()
}

func renderStats(w io.Writer, format, sink string, stats dataset.Stats) error {
	return render(w, format, stats, func(table *tablewriter.Table) {
		table.Header("Sink", "Written", "Skipped")
		_ = table.Append([]string{sink, fmt.Sprint(stats.Written), fmt.Sprint(stats.Skipped)})
	})
}

// serveMetrics exposes /metrics until the returned stop function is called.
func serveMetrics(addr string, collector *metrics.Collector, logger *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: constants.MetricsShutdownTimeout,
	}

	go func() {
		logger.Info("Serving metrics", map[string]interface{}{"addr": addr})

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.MetricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}
}
