// Package backend is the HTTP client for the rulebook backend, which serves
// the content docs, footnotes, ASOP, rule info and search results.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ksysoev/rulebook/pkg/core"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 32 << 20
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found")

// Config holds the backend client settings.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Endpoints Endpoints     `mapstructure:"endpoints"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// Client fetches data from the rulebook backend.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	endpoints  Endpoints
	timeout    time.Duration
}

// New creates a Client. A zero RateLimit disables client-side rate limiting.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var limiter *rate.Limiter

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		endpoints:  cfg.Endpoints.withDefaults(),
		timeout:    timeout,
	}
}

// AppConfig fetches the application config.
func (c *Client) AppConfig(ctx context.Context) (*core.AppConfig, error) {
	var cfg core.AppConfig
	if err := c.getJSON(ctx, "app-config", c.endpoints.AppConfig, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ContentDocs fetches the content docs in the order the backend lists them.
func (c *Client) ContentDocs(ctx context.Context) ([]core.ContentDoc, error) {
	body, err := c.get(ctx, "content-docs", c.endpoints.ContentDocs)
	if err != nil {
		return nil, err
	}

	return core.DecodeContentDocs(body)
}

// Footnotes fetches the footnote index.
func (c *Client) Footnotes(ctx context.Context) (core.FootnoteIndex, error) {
	var fi core.FootnoteIndex
	if err := c.getJSON(ctx, "footnotes", c.endpoints.Footnotes, &fi); err != nil {
		return nil, err
	}

	return fi, nil
}

// ASOP fetches the ASOP chapter structure.
func (c *Client) ASOP(ctx context.Context) (*core.ASOP, error) {
	var asop core.ASOP
	if err := c.getJSON(ctx, "asop", c.endpoints.ASOP, &asop); err != nil {
		return nil, err
	}

	return &asop, nil
}

// ASOPIntro fetches the ASOP introduction as HTML.
func (c *Client) ASOPIntro(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "asop-intro", c.endpoints.ASOPIntro)
	return string(body), err
}

// ASOPFooter fetches the ASOP footer as HTML.
func (c *Client) ASOPFooter(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "asop-footer", c.endpoints.ASOPFooter)
	return string(body), err
}

// ASOPSection fetches the body of an ASOP section as HTML.
func (c *Client) ASOPSection(ctx context.Context, sectionID string) (string, error) {
	body, err := c.get(ctx, "asop-section", expand(c.endpoints.ASOPSection, sectionIDPlaceholder, sectionID))
	return string(body), err
}

// RuleInfo fetches the Q+A, errata and annotations for a ruleid.
func (c *Client) RuleInfo(ctx context.Context, ruleid string) ([]core.RuleInfo, error) {
	body, err := c.get(ctx, "rule-info", expand(c.endpoints.RuleInfo, ruleidPlaceholder, ruleid))
	if err != nil {
		return nil, err
	}

	return core.DecodeRuleInfo(body)
}

// StartupMsgs fetches the messages the backend produced while starting up.
func (c *Client) StartupMsgs(ctx context.Context) (*core.StartupMsgs, error) {
	var msgs core.StartupMsgs
	if err := c.getJSON(ctx, "startup-msgs", c.endpoints.StartupMsgs, &msgs); err != nil {
		return nil, err
	}

	return &msgs, nil
}

// Search runs a full-text search. A search the backend rejects is returned
// as a *core.SearchError.
func (c *Client) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	reqBody, err := json.Marshal(map[string]string{"queryString": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	body, err := c.do(ctx, "search", http.MethodPost, c.endpoints.Search, reqBody)
	if err != nil {
		return nil, err
	}

	return core.DecodeSearchResults(body)
}

// QAImageURL returns the absolute URL of an image attached to a Q+A entry.
func (c *Client) QAImageURL(fname string) string {
	return c.baseURL + expand(c.endpoints.QAImage, fnamePlaceholder, fname)
}

func (c *Client) getJSON(ctx context.Context, name, path string, v any) error {
	body, err := c.get(ctx, name, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", name, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, name, path string) ([]byte, error) {
	return c.do(ctx, name, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, name, method, path string, reqBody []byte) (body []byte, err error) {
	start := time.Now()

	defer func() {
		fetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			fetchErrors.WithLabelValues(name).Inc()
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s: %w", name, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if reqBody != nil {
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq) //nolint:gosec // base URL comes from operator config
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.DebugContext(ctx, "backend fetch", "endpoint", name, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("server returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
