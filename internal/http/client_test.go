package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	litnethttp "github.com/boxwithpython/litnet-dataset/internal/http"
	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) messages(msg string) []map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	var found []map[string]interface{}

	for _, entry := range l.logs {
		if entry["msg"] == msg {
			found = append(found, entry)
		}
	}

	return found
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []int
}

func (o *recordingObserver) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.statuses = append(o.statuses, status)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/book/get/42", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, litnethttp.DefaultUserAgent, request.Header.Get("User-Agent"))
			assert.Equal(t, "dev-1", request.URL.Query().Get("device_id"))

			_, _ = writer.Write([]byte(`{"id":42,"title":"X"}`))
		}))
		defer server.Close()

		client := litnethttp.NewClient(server.URL + "/v1/")

		resp, err := client.Get(context.Background(), "book/get/42", url.Values{"device_id": []string{"dev-1"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"id":42,"title":"X"}`, string(resp.Body))
	})

	t.Run("base URL without trailing slash", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/registration/registration-by-device", request.URL.Path)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := litnethttp.NewClient(server.URL + "/v1")
		assert.Equal(t, server.URL+"/v1/", client.BaseURL())

		_, err := client.Get(context.Background(), "registration/registration-by-device", nil)
		require.NoError(t, err)
	})

	t.Run("empty query values are sent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			values := request.URL.Query()
			_, present := values["user_token"]
			assert.True(t, present)
			assert.Empty(t, values.Get("user_token"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := litnethttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "x", url.Values{"user_token": []string{""}})
		require.NoError(t, err)
	})

	t.Run("error response is not retried", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
			_, _ = writer.Write([]byte("not json at all"))
		}))
		defer server.Close()

		client := litnethttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "book/get/1", nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, int32(1), attempts.Load())

		httpErr := &litnet.HTTPError{}
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
		assert.Equal(t, "book/get/1", httpErr.Endpoint)
		assert.Equal(t, "not json at all", string(httpErr.Body))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		client := litnethttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "book/get/0", nil)
		require.Error(t, err)
		assert.True(t, litnet.IsNotFound(err))
		assert.False(t, litnet.IsUnauthorized(err))
	})

	t.Run("connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		client := litnethttp.NewClient(baseURL)

		_, err := client.Get(context.Background(), "book/get/1", nil)
		require.Error(t, err)

		httpErr := &litnet.HTTPError{}
		assert.False(t, errors.As(err, &httpErr))
	})

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "litnet-dataset/test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := litnethttp.NewClient(server.URL, litnethttp.WithUserAgent("litnet-dataset/test"))

		_, err := client.Get(context.Background(), "x", nil)
		require.NoError(t, err)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"result":"ok"}`))
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := litnethttp.NewClient(server.URL, litnethttp.WithLogger(logger), litnethttp.WithDebug(true))

		_, err := client.Get(context.Background(), "x", url.Values{"user_token": []string{"secret-token"}})
		require.NoError(t, err)

		requests := logger.messages("HTTP Request")
		require.Len(t, requests, 1)
		assert.Len(t, logger.messages("HTTP Response"), 1)

		fields, ok := requests[0]["fields"].(map[string]interface{})
		require.True(t, ok)

		query, ok := fields["query"].(string)
		require.True(t, ok)
		assert.NotContains(t, query, "secret-token")

		for _, entry := range logger.logs {
			for _, value := range entry["fields"].(map[string]interface{}) {
				if text, isString := value.(string); isString {
					assert.False(t, strings.Contains(text, "secret-token"), "token leaked in %q", entry["msg"])
				}
			}
		}
	})

	t.Run("observer sees every round trip", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if strings.HasSuffix(request.URL.Path, "missing") {
				writer.WriteHeader(http.StatusNotFound)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		observer := &recordingObserver{}
		client := litnethttp.NewClient(server.URL, litnethttp.WithObserver(observer))

		_, err := client.Get(context.Background(), "present", nil)
		require.NoError(t, err)
		_, err = client.Get(context.Background(), "missing", nil)
		require.Error(t, err)

		assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.statuses)
	})
}

func TestClient_SharedHTTPClientIsNotModified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	shared := &http.Client{Timeout: 7 * time.Second}
	client := litnethttp.NewClient(server.URL, litnethttp.WithHTTPClient(shared), litnethttp.WithTimeout(time.Second))

	_, err := client.Get(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, shared.Timeout)
}

func TestMaskQuery(t *testing.T) {
	t.Parallel()

	query := url.Values{"device_id": []string{"dev"}, "user_token": []string{"abcdefgh"}}
	masked := litnethttp.MaskQuery(query)

	assert.Equal(t, "abcd***", masked.Get("user_token"))
	assert.Equal(t, "dev", masked.Get("device_id"))
	assert.Equal(t, "abcdefgh", query.Get("user_token"))
	assert.Equal(t, "***", litnethttp.MaskSecret("abc"))
}
