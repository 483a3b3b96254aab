package cronforward

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	commonhttp "psb-dashboard/internal/common/http"
	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/metrics"
)

var ErrUpstreamUnreachable = errors.New("UPSTREAM_UNREACHABLE")

// Upstream cron trigger paths. The payloads are opaque; this service
// never interprets them.
const (
	PathFTPMovement             = "/v2/cron/ftp-movement-cron"
	PathStatusRepaymentCallback = "/v2/cron/status-repayment-callback-cron"
	PathH2HLimitCallback        = "/v2/cron/h2h-limit-callback-cron"
)

const apiKeyHeader = "API-KEY"

// Result is the upstream response passed back to the caller verbatim.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Service forwards cron trigger requests to the upstream platform API.
type Service struct {
	baseURL string
	apiKey  string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewService(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Service {
	return &Service{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  commonhttp.NewClient(timeout),
		logger:  log,
	}
}

// Forward POSTs the body to the upstream path and returns the response
// unmodified, whatever its status. Only transport failures are errors.
func (s *Service) Forward(ctx context.Context, path string, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.CronForwardsTotal.WithLabelValues(path, "error").Inc()
		s.logger.Error("cron forward failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CronForwardsTotal.WithLabelValues(path, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	metrics.CronForwardsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()
	s.logger.Info("cron forwarded", map[string]interface{}{
		"path":   path,
		"status": resp.StatusCode,
		"bytes":  len(respBody),
	})

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
