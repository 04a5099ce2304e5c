package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Convert(t *testing.T) {
	tests := []struct {
		name              string
		call              func(ctx context.Context, client *Client) (string, error)
		wantPath          string
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)

		want            string
		wantCalls       int32
		wantError       bool
		wantErrorString string
	}{
		{
			name: "MakeOLX",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeOLX(ctx, ">>Q<<\n= 1")
			},
			wantPath: PathMakeOLX,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				var body ConversionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, ">>Q<<\n= 1", body.Content)
				_, _ = w.Write([]byte(`{"content":"<problem/>"}`))
			},
			want:      "<problem/>",
			wantCalls: 1,
		},
		{
			name: "MakeHTML",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeHTML(ctx, "# A")
			},
			wantPath: PathMakeHTML,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"content":"<h1>A</h1>"}`))
			},
			want:      "<h1>A</h1>",
			wantCalls: 1,
		},
		{
			name: "MakeMarkdown",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeMarkdown(ctx, "<h1>A</h1>")
			},
			wantPath: PathMakeMarkdown,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"content":"# A\n"}`))
			},
			want:      "# A\n",
			wantCalls: 1,
		},
		{
			name: "UnescapeMD",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.UnescapeMD(ctx, "`a &amp; b`")
			},
			wantPath: PathUnescapeMD,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{\"content\":\"`a & b`\"}"))
			},
			want:      "`a & b`",
			wantCalls: 1,
		},
		{
			name: "retries while the service is unavailable",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeOLX(ctx, "x")
			},
			wantPath: PathMakeOLX,
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"code":"unavailable","message":"starting"}`))
					return
				}
				_, _ = w.Write([]byte(`{"content":"ok"}`))
			},
			want:      "ok",
			wantCalls: 2,
		},
		{
			name: "invalid argument is not retried",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeOLX(ctx, "")
			},
			wantPath: PathMakeOLX,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"invalid_argument","message":"content is required"}`))
			},
			wantCalls:       1,
			wantError:       true,
			wantErrorString: "invalid_argument: content is required",
		},
		{
			name: "gives up after the retry attempts",
			call: func(ctx context.Context, client *Client) (string, error) {
				return client.MakeOLX(ctx, "x")
			},
			wantPath: PathMakeOLX,
			mockServerHandler: func(t *testing.T, _ int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCalls:       3,
			wantError:       true,
			wantErrorString: "response error 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				tt.mockServerHandler(t, n, w, r)
			}))
			defer server.Close()

			client := NewClient(server.URL, 5*time.Second, 2)
			defer func() {
				_ = client.Close()
			}()

			got, err := tt.call(context.Background(), client)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceError_Reason(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "error info detail",
			body: `{"code":"invalid_argument","message":"bad","details":[{"type":"google.rpc.ErrorInfo","value":"","debug":{"reason":"OLX_ASSEMBLY_FAILED","domain":"olxmark"}}]}`,
			want: "OLX_ASSEMBLY_FAILED",
		},
		{
			name: "no details",
			body: `{"code":"internal","message":"bad"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var serviceErr ServiceError
			require.NoError(t, json.Unmarshal([]byte(tt.body), &serviceErr))
			assert.Equal(t, tt.want, serviceErr.Reason())
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "server error", err: &ServiceError{StatusCode: 503}, want: true},
		{name: "rate limited", err: &ServiceError{StatusCode: 429}, want: true},
		{name: "bad request", err: &ServiceError{StatusCode: 400}, want: false},
		{name: "other error", err: assert.AnError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}
