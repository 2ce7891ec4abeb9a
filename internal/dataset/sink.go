// Package dataset writes book records fetched from the catalog to durable or
// streaming sinks.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// Sink receives book records.
type Sink interface {
	// Name identifies the sink kind in logs and metrics.
	Name() string
	// Write stores or forwards the record of bookID.
	Write(ctx context.Context, bookID int, record litnet.Record) error
	// Close flushes and releases the sink.
	Close() error
}

// SinkConfig selects and configures a sink.
type SinkConfig struct {
	// Type is one of stdout, file, nats, bolt.
	Type string
	// Path is the output file for file and bolt sinks.
	Path string
	// NATS configures the nats sink.
	NATS NATSConfig
	// Writer replaces os.Stdout for the stdout sink.
	Writer io.Writer
}

// NewSink creates a sink from configuration.
func NewSink(config SinkConfig) (Sink, error) {
	switch config.Type {
	case "", constants.SinkStdout:
		w := config.Writer
		if w == nil {
			w = os.Stdout
		}

		return NewJSONLinesSink(constants.SinkStdout, w, nil), nil

	case constants.SinkFile:
		if config.Path == "" {
			return nil, fmt.Errorf("%w: %s", constants.ErrSinkPathRequired, config.Type)
		}

		return OpenFileSink(config.Path)

	case constants.SinkNATS:
		if config.NATS.URL == "" {
			return nil, constants.ErrSinkNATSRequired
		}

		return NewNATSSink(config.NATS)

	case constants.SinkBolt:
		if config.Path == "" {
			return nil, fmt.Errorf("%w: %s", constants.ErrSinkPathRequired, config.Type)
		}

		return OpenBoltSink(config.Path)

	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownSink, config.Type)
	}
}
