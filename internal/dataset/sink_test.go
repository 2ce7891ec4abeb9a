package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boxwithpython/litnet-dataset/internal/constants"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ErrTestPublish = errors.New("publish failed")

type fakePublisher struct {
	messages   map[string][]byte
	publishErr error
	flushed    bool
	closed     bool
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	if p.publishErr != nil {
		return p.publishErr
	}

	if p.messages == nil {
		p.messages = make(map[string][]byte)
	}

	p.messages[subject] = data

	return nil
}

func (p *fakePublisher) FlushTimeout(time.Duration) error {
	p.flushed = true

	return nil
}

func (p *fakePublisher) Close() {
	p.closed = true
}

func TestJSONLinesSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	sink := NewJSONLinesSink("test", &buf, nil)
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, 1, litnet.Record{"id": 1, "title": "A"}))
	require.NoError(t, sink.Write(ctx, 2, litnet.Record{"id": 2, "title": "B"}))
	require.NoError(t, sink.Close())

	scanner := bufio.NewScanner(&buf)

	var titles []string

	for scanner.Scan() {
		var record litnet.Record

		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		titles = append(titles, record["title"].(string))
	}

	assert.Equal(t, []string{"A", "B"}, titles)
	assert.Equal(t, "test", sink.Name())
}

func TestFileSink_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "books.jsonl")
	ctx := context.Background()

	sink, err := OpenFileSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(ctx, 1, litnet.Record{"id": 1}))
	require.NoError(t, sink.Close())

	sink, err = OpenFileSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(ctx, 2, litnet.Record{"id": 2}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", string(data))
}

func TestNATSSink(t *testing.T) {
	t.Parallel()

	t.Run("publishes per book subject", func(t *testing.T) {
		t.Parallel()

		publisher := &fakePublisher{}
		sink := NewNATSSinkWithPublisher(publisher, "litnet.books")

		require.NoError(t, sink.Write(context.Background(), 42, litnet.Record{"title": "X"}))
		require.NoError(t, sink.Close())

		assert.JSONEq(t, `{"title":"X"}`, string(publisher.messages["litnet.books.42"]))
		assert.True(t, publisher.flushed)
		assert.True(t, publisher.closed)
		assert.Equal(t, constants.SinkNATS, sink.Name())
	})

	t.Run("publish error", func(t *testing.T) {
		t.Parallel()

		publisher := &fakePublisher{publishErr: ErrTestPublish}
		sink := NewNATSSinkWithPublisher(publisher, "litnet.books")

		err := sink.Write(context.Background(), 1, litnet.Record{})
		require.ErrorIs(t, err, ErrTestPublish)
		assert.Contains(t, err.Error(), "litnet.books.1")
	})
}

func TestBoltSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "books.db")
	ctx := context.Background()

	sink, err := OpenBoltSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Write(ctx, 300, litnet.Record{"title": "C"}))
	require.NoError(t, sink.Write(ctx, 2, litnet.Record{"title": "B"}))
	require.NoError(t, sink.Write(ctx, 2, litnet.Record{"title": "B2"}))

	record, err := sink.Get(2)
	require.NoError(t, err)
	assert.Equal(t, litnet.Record{"title": "B2"}, record)

	missing, err := sink.Get(7)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ids, err := sink.IDs()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 300}, ids)

	require.NoError(t, sink.Close())

	reopened, err := OpenBoltSink(path)
	require.NoError(t, err)

	defer func() {
		_ = reopened.Close()
	}()

	record, err = reopened.Get(300)
	require.NoError(t, err)
	assert.Equal(t, "C", record["title"])
}

func TestNewSink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name     string
		config   SinkConfig
		expected string
		err      error
	}{
		{name: "default", config: SinkConfig{}, expected: constants.SinkStdout},
		{name: "file", config: SinkConfig{Type: constants.SinkFile, Path: filepath.Join(dir, "out.jsonl")}, expected: constants.SinkFile},
		{name: "bolt", config: SinkConfig{Type: constants.SinkBolt, Path: filepath.Join(dir, "out.db")}, expected: constants.SinkBolt},
		{name: "file without path", config: SinkConfig{Type: constants.SinkFile}, err: constants.ErrSinkPathRequired},
		{name: "bolt without path", config: SinkConfig{Type: constants.SinkBolt}, err: constants.ErrSinkPathRequired},
		{name: "nats without url", config: SinkConfig{Type: constants.SinkNATS}, err: constants.ErrSinkNATSRequired},
		{name: "unknown", config: SinkConfig{Type: "kafka"}, err: constants.ErrUnknownSink},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink, err := NewSink(tt.config)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Nil(t, sink)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, sink.Name())
			require.NoError(t, sink.Close())
		})
	}
}
