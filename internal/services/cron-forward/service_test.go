package cronforward

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psb-dashboard/internal/common/logger"
)

func TestService_Forward_PassesThroughVerbatim(t *testing.T) {
	var gotPath, gotKey, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("API-KEY")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"triggered"}`))
	}))
	defer upstream.Close()

	svc := NewService(upstream.URL, "secret-key", 5*time.Second, logger.NewTestLogger(t))

	result, err := svc.Forward(context.Background(), PathFTPMovement, []byte(`{"dryRun":true}`))

	require.NoError(t, err)
	assert.Equal(t, PathFTPMovement, gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, `{"dryRun":true}`, gotBody)
	assert.Equal(t, http.StatusAccepted, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)
	assert.JSONEq(t, `{"status":"triggered"}`, string(result.Body))
}

func TestService_Forward_UpstreamErrorStatusIsNotATransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cron already running", http.StatusConflict)
	}))
	defer upstream.Close()

	svc := NewService(upstream.URL, "k", 5*time.Second, logger.NewTestLogger(t))

	result, err := svc.Forward(context.Background(), PathH2HLimitCallback, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, result.StatusCode)
	assert.Contains(t, string(result.Body), "cron already running")
}

func TestService_Forward_Unreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // nothing listening anymore

	svc := NewService(upstream.URL, "k", time.Second, logger.NewTestLogger(t))

	_, err := svc.Forward(context.Background(), PathStatusRepaymentCallback, nil)

	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}
