// Package catalog is the HTTP client for the NASA image search API
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/yildizm/NasaLens/internal/images"
	"github.com/yildizm/NasaLens/internal/logger"
)

const (
	tracerName   = "github.com/yildizm/NasaLens/internal/catalog"
	maxErrorBody = 512
)

// Recorder observes finished requests. status is "ok" or an ErrorType.
type Recorder interface {
	ObserveRequest(status string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, time.Duration) {}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default client built from Config.Timeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithRecorder reports every request to r
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithComponent("catalog")
		}
	}
}

// WithTracerProvider traces through tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// Client implements images.Repository against the search endpoint
type Client struct {
	config   *Config
	client   *http.Client
	baseURL  *url.URL
	limiter  *rate.Limiter
	recorder Recorder
	tracer   trace.Tracer
	log      *logger.Logger
}

var _ images.Repository = (*Client)(nil)

// New creates a catalog client
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, NewErrorWithCause(ErrTypeConfiguration, "invalid base URL", err)
	}

	c := &Client{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		baseURL:  baseURL,
		recorder: nopRecorder{},
		tracer:   otel.Tracer(tracerName),
		log:      logger.Nop(),
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetImages fetches one page of results for query. Page 0 omits the page
// parameter so the API returns its first page.
func (c *Client) GetImages(ctx context.Context, query string, page int) (*images.NasaImagesResult, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.search", trace.WithAttributes(
		attribute.String("catalog.query", query),
		attribute.Int("catalog.page", page),
	))
	defer span.End()

	start := time.Now()
	result, err := c.search(ctx, query, page)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = string(TypeOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Int("catalog.items", len(result.Items)),
			attribute.Int("catalog.next_page", result.NextPage),
		)
	}
	c.recorder.ObserveRequest(status, elapsed)
	c.log.DebugWithFields("search request finished", []logger.Field{
		logger.Query(query), logger.Page(page), logger.F("status", status), logger.Duration(elapsed),
	})

	return result, err
}

func (c *Client) search(ctx context.Context, query string, page int) (*images.NasaImagesResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewErrorWithCause(ErrTypeRateLimit, "request pacing aborted", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, page), http.NoBody)
	if err != nil {
		return nil, NewErrorWithCause(ErrTypeNetwork, "failed to create request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, NewErrorWithCause(ErrTypeNetwork, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewErrorWithCause(ErrTypeDecode, "failed to decode search response", err)
	}

	return body.ToDomain(), nil
}

func (c *Client) searchURL(query string, page int) string {
	endpoint := c.baseURL.JoinPath("search")
	params := url.Values{}
	params.Set("q", query)
	params.Set("media_type", c.config.MediaType)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

type errorResponse struct {
	Reason string `json:"reason"`
}

func statusError(resp *http.Response) *CatalogError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Reason != "" {
		return NewStatusError(resp.StatusCode, parsed.Reason)
	}
	if len(raw) == 0 {
		return NewStatusError(resp.StatusCode, fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	return NewStatusError(resp.StatusCode, string(raw))
}
