package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"powerrelay/backend/services/relay-service/internal/models"
)

const (
	dateLayout      = "2006-01-02"
	maxResponseBody = 1 << 20
)

var errResponseTooLarge = errors.New("reporting response exceeds size limit")

// ReportingClient fetches water-isolation readings from the reporting endpoint.
type ReportingClient struct {
	url     string
	orgCode string
	kind    string
	client  *http.Client
	decode  responseDecoder
	logger  *zap.Logger
}

// ReportingOptions configures the client.
type ReportingOptions struct {
	URL     string
	OrgCode string
	Type    string
	Timeout time.Duration
	// Transport overrides the default round tripper, mainly for tests.
	Transport http.RoundTripper
}

type readingsResponse struct {
	Data models.ReadingBatch `json:"data"`
}

// responseDecoder turns a raw response body into a batch.
type responseDecoder func(body []byte) (models.ReadingBatch, error)

func newResponseDecoder() responseDecoder {
	return func(body []byte) (models.ReadingBatch, error) {
		var resp readingsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode readings: %w", err)
		}
		return resp.Data, nil
	}
}

// NewReportingClient returns HTTP client wrapper.
func NewReportingClient(opts ReportingOptions, logger *zap.Logger) *ReportingClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReportingClient{
		url:     opts.URL,
		orgCode: opts.OrgCode,
		kind:    opts.Type,
		client: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		decode: newResponseDecoder(),
		logger: logger,
	}
}

// FetchReadings returns the readings reported for day. Any failure is logged and yields an
// empty batch.
func (c *ReportingClient) FetchReadings(ctx context.Context, day time.Time) models.ReadingBatch {
	batch, err := c.fetch(ctx, day)
	if err != nil {
		c.logger.Warn("reporting client fetch failed", zap.Error(err))
		return models.ReadingBatch{}
	}
	if batch == nil {
		batch = models.ReadingBatch{}
	}
	return batch
}

func (c *ReportingClient) fetch(ctx context.Context, day time.Time) (models.ReadingBatch, error) {
	form := url.Values{}
	form.Set("orgCode", c.orgCode)
	form.Set("type", c.kind)
	form.Set("date", day.Format(dateLayout))
	encoded := form.Encode()

	c.logger.Debug("reporting client request", zap.String("url", c.url), zap.String("body", encoded))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseBody {
		c.logger.Warn("reporting response too large",
			zap.Int("status", resp.StatusCode),
			zap.Int64("limit", maxResponseBody),
		)
		return nil, errResponseTooLarge
	}

	if resp.StatusCode >= 300 {
		c.logger.Warn("reporting client returned non-success",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("reporting status %d", resp.StatusCode)
	}

	batch, err := c.decode(body)
	if err != nil {
		c.logger.Warn("failed to parse response body", zap.ByteString("body", body), zap.Error(err))
		return nil, err
	}
	return batch, nil
}
