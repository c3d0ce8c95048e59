package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/syncdeck/syncdeck/internal/config"
	"github.com/syncdeck/syncdeck/internal/constants"
	apperrors "github.com/syncdeck/syncdeck/internal/errors"
	"github.com/syncdeck/syncdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return New(&config.Config{
		APIEndpoint: serverURL,
		APIKey:      "test-api-key",
	}, testutil.SilentLogger())
}

func TestIssueSocketToken(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantToken string
		wantErr   bool
		wantCode  string
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, constants.SocketTokenPath, r.URL.Path)
				assert.Equal(t, "test-api-key", r.Header.Get(constants.APIKeyHeader))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"token":"abc"}`))
			},
			wantToken: "abc",
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid API key"}`))
			},
			wantErr:  true,
			wantCode: apperrors.ErrCodeUnauthorized,
		},
		{
			name: "missing token field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{}`))
			},
			wantErr:  true,
			wantCode: apperrors.ErrCodeInternalError,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`not json`))
			},
			wantErr: true,
		},
		{
			name: "server error with plain body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`upstream down`))
			},
			wantErr:  true,
			wantCode: apperrors.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			resp, err := newTestClient(ts.URL).IssueSocketToken(testutil.TestContext())
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, apperrors.GetErrorCode(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, resp.Token)
		})
	}
}

func TestIssueSocketTokenNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // connection refused from here on

	_, err := newTestClient(ts.URL).IssueSocketToken(testutil.TestContext())
	require.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	c := newTestClient("https://api.example.com")

	got, err := c.buildURL("/api/v1/ws/token")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1/ws/token", got)

	got, err = c.buildURL("/api/v1/workers?limit=5")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1/workers?limit=5", got)
}
