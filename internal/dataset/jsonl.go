package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// JSONLinesSink writes one JSON object per line.
type JSONLinesSink struct {
	name    string
	encoder *json.Encoder
	closer  io.Closer
}

// NewJSONLinesSink writes to w. closer, if not nil, is closed with the sink.
func NewJSONLinesSink(name string, w io.Writer, closer io.Closer) *JSONLinesSink {
	return &JSONLinesSink{
		name:    name,
		encoder: json.NewEncoder(w),
		closer:  closer,
	}
}

// OpenFileSink appends JSON lines to path, creating parent directories.
func OpenFileSink(path string) (*JSONLinesSink, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		err := os.MkdirAll(dir, constants.DataDirPerm)
		if err != nil {
			return nil, fmt.Errorf("create dataset directory: %w", err)
		}
	}

	// #nosec G304 -- path is an operator-provided output location
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.ConfigFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}

	return NewJSONLinesSink(constants.SinkFile, file, file), nil
}

// Name implements Sink.Name.
func (s *JSONLinesSink) Name() string {
	return s.name
}

// Write implements Sink.Write.
func (s *JSONLinesSink) Write(_ context.Context, bookID int, record litnet.Record) error {
	err := s.encoder.Encode(record)
	if err != nil {
		return fmt.Errorf("encoding book %d: %w", bookID, err)
	}

	return nil
}

// Close implements Sink.Close.
func (s *JSONLinesSink) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
