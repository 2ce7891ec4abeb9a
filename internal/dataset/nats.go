package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/nats-io/nats.go"
)

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Subject       string        // subject prefix, the book id is appended
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           constants.DefaultNATSURL,
		Subject:       constants.DefaultNATSSubject,
		Name:          "litnet-dataset",
		ReconnectWait: constants.NATSReconnectWait,
		MaxReconnects: 5,
	}
}

// Publisher is the subset of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSSink publishes each record on "<subject>.<book id>".
type NATSSink struct {
	publisher Publisher
	subject   string
}

// NewNATSSink connects to NATS and returns a sink publishing to it.
func NewNATSSink(config NATSConfig) (*NATSSink, error) {
	defaults := DefaultNATSConfig()
	if config.Subject == "" {
		config.Subject = defaults.Subject
	}

	if config.Name == "" {
		config.Name = defaults.Name
	}

	if config.ReconnectWait == 0 {
		config.ReconnectWait = defaults.ReconnectWait
	}

	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return NewNATSSinkWithPublisher(nc, config.Subject), nil
}

// NewNATSSinkWithPublisher wraps an existing connection.
func NewNATSSinkWithPublisher(publisher Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

// Subject returns the subject the record of bookID is published on.
func (s *NATSSink) Subject(bookID int) string {
	return s.subject + "." + strconv.Itoa(bookID)
}

// Name implements Sink.Name.
func (s *NATSSink) Name() string {
	return constants.SinkNATS
}

// Write implements Sink.Write.
func (s *NATSSink) Write(_ context.Context, bookID int, record litnet.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding book %d: %w", bookID, err)
	}

	err = s.publisher.Publish(s.Subject(bookID), data)
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", s.Subject(bookID), err)
	}

	return nil
}

// Close flushes pending messages and closes the connection.
func (s *NATSSink) Close() error {
	defer s.publisher.Close()

	err := s.publisher.FlushTimeout(constants.NATSFlushTimeout)
	if err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	return nil
}
