package dataset

import (
	"context"
	"fmt"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// RecordObserver is notified after a record reaches a sink.
type RecordObserver interface {
	ObserveRecord(sink string)
}

// Stats summarizes a dump run.
type Stats struct {
	Written int `json:"written" yaml:"written"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// DumperOption configures a Dumper.
type DumperOption func(*Dumper)

// WithSkipMissing skips ids the catalog reports as not found instead of
// stopping the run.
func WithSkipMissing(skip bool) DumperOption {
	return func(d *Dumper) {
		d.skipMissing = skip
	}
}

// WithDumperLogger sets the logger.
func WithDumperLogger(logger litnet.Logger) DumperOption {
	return func(d *Dumper) {
		d.logger = logger
	}
}

// WithRecordObserver sets the observer notified per written record.
func WithRecordObserver(observer RecordObserver) DumperOption {
	return func(d *Dumper) {
		d.observer = observer
	}
}

// Dumper copies a range of books from the catalog into a sink, one id at a
// time.
type Dumper struct {
	catalog     litnet.Catalog
	sink        Sink
	logger      litnet.Logger
	observer    RecordObserver
	skipMissing bool
}

// NewDumper creates a dumper.
func NewDumper(catalog litnet.Catalog, sink Sink, opts ...DumperOption) *Dumper {
	dumper := &Dumper{
		catalog: catalog,
		sink:    sink,
	}

	for _, opt := range opts {
		opt(dumper)
	}

	return dumper
}

// Dump fetches every id in [from, to] in ascending order. It stops on the
// first error, or on a missing book unless skipping is enabled.
func (d *Dumper) Dump(ctx context.Context, from, to int) (Stats, error) {
	var stats Stats

	err := ValidateRange(from, to)
	if err != nil {
		return stats, err
	}

	for bookID := from; bookID <= to; bookID++ {
		err := ctx.Err()
		if err != nil {
			return stats, err
		}

		record, err := d.catalog.Book(ctx, bookID)
		if err != nil {
			if d.skipMissing && litnet.IsNotFound(err) {
				stats.Skipped++
				d.debug("Book not found, skipping", map[string]interface{}{"book_id": bookID})

				continue
			}

			return stats, fmt.Errorf("fetching book %d: %w", bookID, err)
		}

		err = d.sink.Write(ctx, bookID, record)
		if err != nil {
			return stats, fmt.Errorf("writing book %d to %s: %w", bookID, d.sink.Name(), err)
		}

		stats.Written++

		if d.observer != nil {
			d.observer.ObserveRecord(d.sink.Name())
		}
	}

	if d.logger != nil {
		d.logger.Info("Dump finished", map[string]interface{}{
			"from":    from,
			"to":      to,
			"written": stats.Written,
			"skipped": stats.Skipped,
			"sink":    d.sink.Name(),
		})
	}

	return stats, nil
}

// ValidateRange checks that [from, to] is a non-empty range of positive ids.
func ValidateRange(from, to int) error {
	if from < 1 || to < from {
		return fmt.Errorf("%w: %d..%d", constants.ErrInvalidBookRange, from, to)
	}

	return nil
}

func (d *Dumper) debug(msg string, fields map[string]interface{}) {
	if d.logger != nil {
		d.logger.Debug(msg, fields)
	}
}
