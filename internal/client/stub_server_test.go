package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
)

// stubResponse is a canned reply of the stub API.
type stubResponse struct {
	StatusCode int
	Body       string
}

// recordedRequest is a request the stub API received.
type recordedRequest struct {
	Path  string
	Query url.Values
}

// stubAPI serves canned responses keyed by endpoint (path below /v1/).
type stubAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]stubResponse
	requests  []recordedRequest
}

func newStubAPI(t *testing.T, responses map[string]stubResponse) *stubAPI {
	t.Helper()

	api := &stubAPI{responses: responses}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)

	return api
}

func (a *stubAPI) handle(writer http.ResponseWriter, request *http.Request) {
	endpoint := strings.TrimPrefix(request.URL.Path, "/v1/")

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{Path: endpoint, Query: request.URL.Query()})
	resp, ok := a.responses[endpoint]
	a.mu.Unlock()

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"error":"not found"}`))

		return
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(resp.Body))
}

func (a *stubAPI) baseURL() string {
	return a.server.URL + "/v1/"
}

func (a *stubAPI) recorded() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]recordedRequest(nil), a.requests...)
}

func (a *stubAPI) last() recordedRequest {
	requests := a.recorded()

	return requests[len(requests)-1]
}

// fakeTransport is an in-memory litnet.Transport.
type fakeTransport struct {
	response *litnet.Response
	err      error
	queries  []url.Values
	paths    []string
}

func (f *fakeTransport) Get(ctx context.Context, endpoint string, query url.Values) (*litnet.Response, error) {
	f.paths = append(f.paths, endpoint)
	f.queries = append(f.queries, query)

	if f.err != nil {
		return nil, f.err
	}

	return f.response, nil
}
