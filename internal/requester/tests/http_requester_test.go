package tests

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequester(t *testing.T) {
	tests := []struct {
		name           string
		request        func(baseURL string) *requester.Request
		timeout        time.Duration
		serverResponse func(w http.ResponseWriter, r *http.Request)
		checkResponse  func(t *testing.T, response *requester.Response, err error)
	}{
		{
			name: "Simple GET Request",
			request: func(baseURL string) *requester.Request {
				return &requester.Request{Method: http.MethodGet, URL: baseURL + "/test?param1=value1"}
			},
			timeout: 30 * time.Second,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "GET", r.Method)
				assert.Equal(t, "/test", r.URL.Path)
				assert.Equal(t, "value1", r.URL.Query().Get("param1"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"status":"success"}`))
			},
			checkResponse: func(t *testing.T, response *requester.Response, err error) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, response.StatusCode)
				assert.True(t, response.OK())
				assert.JSONEq(t, `{"status":"success"}`, string(response.Body))
			},
		},
		{
			name: "POST Request with Form Body",
			request: func(baseURL string) *requester.Request {
				return &requester.Request{
					Method:      http.MethodPost,
					URL:         baseURL + "/form",
					Body:        strings.NewReader("a=1&b=2"),
					ContentType: "application/x-www-form-urlencoded",
				}
			},
			timeout: 30 * time.Second,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Equal(t, "a=1&b=2", string(body))
				w.WriteHeader(http.StatusCreated)
			},
			checkResponse: func(t *testing.T, response *requester.Response, err error) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusCreated, response.StatusCode)
				assert.True(t, response.OK())
			},
		},
		{
			name: "Non-2xx Is Not An Error",
			request: func(baseURL string) *requester.Request {
				return &requester.Request{Method: http.MethodGet, URL: baseURL + "/missing"}
			},
			timeout: 30 * time.Second,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("nope"))
			},
			checkResponse: func(t *testing.T, response *requester.Response, err error) {
				require.NoError(t, err)
				assert.False(t, response.OK())
				assert.Equal(t, "400 Bad Request", response.Status)
				assert.Equal(t, "nope", string(response.Body))
			},
		},
		{
			name: "Request Timeout",
			request: func(baseURL string) *requester.Request {
				return &requester.Request{Method: http.MethodGet, URL: baseURL + "/timeout"}
			},
			timeout: 100 * time.Millisecond,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			checkResponse: func(t *testing.T, response *requester.Response, err error) {
				assert.Error(t, err)
				assert.Nil(t, response)
			},
		},
		{
			name: "Request with Headers",
			request: func(baseURL string) *requester.Request {
				return &requester.Request{
					Method:  http.MethodGet,
					URL:     baseURL + "/headers",
					Headers: map[string]string{"X-Test-Header": "test-value"},
				}
			},
			timeout: 30 * time.Second,
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-value", r.Header.Get("X-Test-Header"))
				w.WriteHeader(http.StatusOK)
			},
			checkResponse: func(t *testing.T, response *requester.Response, err error) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, response.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			r := requester.NewHTTPRequester(&config.Config{})
			r.SetTimeout(tt.timeout)

			response, err := r.Do(context.Background(), tt.request(server.URL))
			tt.checkResponse(t, response, err)
		})
	}
}

func TestHTTPRequester_SingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := requester.NewHTTPRequester(&config.Config{})
	response, err := r.Do(context.Background(), &requester.Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestHTTPRequester_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := requester.NewHTTPRequester(&config.Config{Provider: config.ProviderConfig{Timeout: time.Second}})
	_, err := r.Do(ctx, &requester.Request{Method: http.MethodGet, URL: server.URL})
	assert.ErrorIs(t, err, context.Canceled)
}
