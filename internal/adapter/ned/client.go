// Package ned queries the NASA/IPAC Extragalactic Database object search
// service for source positions and photometry tables.
package ned

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/astrofuse/sedfuse/internal/adapter/votable"
	"github.com/astrofuse/sedfuse/internal/domain"
)

const defaultBaseURL = "https://ned.ipac.caltech.edu/cgi-bin/objsearch"

// Client implements position and photometry lookups against the NED
// objsearch endpoint. Requests are throttled to stay under the service's
// rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	logger     *slog.Logger

	clock clockwork.Clock
	mu    sync.Mutex
	last  time.Time
}

// NewClient creates a NED client. An empty baseURL selects the production
// endpoint; delay is the minimum gap between consecutive requests.
func NewClient(baseURL string, timeout, delay time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		delay:   delay,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
	}
}

// SetClock replaces the throttle clock, for tests.
func (c *Client) SetClock(clk clockwork.Clock) {
	c.clock = clk
}

// Position looks up the catalog position of a named object.
func (c *Client) Position(ctx context.Context, name string) (*domain.Table, error) {
	params := url.Values{
		"objname": {name},
		"of":      {"xml_posn"},
	}
	return c.doRequest(ctx, params, "position")
}

// Photometry fetches the full photometric data table of a named object.
func (c *Client) Photometry(ctx context.Context, name string) (*domain.Table, error) {
	params := url.Values{
		"objname":     {name},
		"search_type": {"Photometry"},
		"of":          {"xml_all"},
	}
	return c.doRequest(ctx, params, "photometry")
}

func (c *Client) doRequest(ctx context.Context, params url.Values, kind string) (*domain.Table, error) {
	c.throttle()

	fullURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ned %s request: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ned API error: status %d: %s", resp.StatusCode, body)
	}

	table, err := votable.Parse(resp.Body)
	if err != nil {
		// Unknown objects come back as a tableless document, not an error
		// status; surface them as the domain's no-data condition.
		if errors.Is(err, votable.ErrNoTable) {
			return nil, domain.ErrNoData
		}
		return nil, fmt.Errorf("ned %s response: %w", kind, err)
	}
	return table, nil
}

// throttle blocks until at least the configured delay has elapsed since
// the previous request.
func (c *Client) throttle() {
	if c.delay <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if !c.last.IsZero() {
		if wait := c.delay - now.Sub(c.last); wait > 0 {
			c.clock.Sleep(wait)
		}
	}
	c.last = c.clock.Now()
}
