package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHealthCheck_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/livez", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var buf bytes.Buffer

	err := runHealthCheck(t.Context(), &buf, &healthFlags{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", buf.String())
}

func TestRunHealthCheck_Failures(t *testing.T) {
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unavailable.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	cancelled, cancel := context.WithCancel(t.Context())
	cancel()

	tests := []struct {
		ctx     context.Context
		flags   healthFlags
		name    string
		wantErr string
	}{
		{name: "server down", ctx: t.Context(), flags: healthFlags{URL: "http://localhost:1"}, wantErr: "health check failed"},
		{name: "non-OK status", ctx: t.Context(), flags: healthFlags{URL: unavailable.URL}, wantErr: "health check returned status 503"},
		{name: "invalid URL", ctx: t.Context(), flags: healthFlags{URL: "://invalid"}, wantErr: "failed to create request"},
		{name: "context cancelled", ctx: cancelled, flags: healthFlags{URL: "http://localhost:8080"}, wantErr: "health check failed"},
		{name: "timeout", ctx: t.Context(), flags: healthFlags{URL: slow.URL, Timeout: 20 * time.Millisecond}, wantErr: "health check failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := runHealthCheck(tt.ctx, &buf, &tt.flags)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, buf.String())
		})
	}
}

func TestNewHealthCmd(t *testing.T) {
	cmd := newHealthCmd()

	assert.Equal(t, "health", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	urlFlag := cmd.Flags().Lookup("url")
	require.NotNil(t, urlFlag)
	assert.Equal(t, "http://localhost:8080", urlFlag.DefValue)
	assert.Equal(t, "5s", cmd.Flags().Lookup("timeout").DefValue)
}
