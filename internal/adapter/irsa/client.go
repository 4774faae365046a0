// Package irsa queries the IRSA Gator catalog search service for WISE,
// 2MASS, and GALEX detections near a position, and the IRSA DUST service
// for line-of-sight reddening.
package irsa

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/astrofuse/sedfuse/internal/adapter/votable"
	"github.com/astrofuse/sedfuse/internal/domain"
)

const (
	defaultGatorURL = "https://irsa.ipac.caltech.edu/cgi-bin/Gator/nph-query"
	defaultDustURL  = "https://irsa.ipac.caltech.edu/cgi-bin/DUST/nph-dust"

	wiseCatalog    = "wise_allsky_4band_p3as_psd"
	twoMASSCatalog = "fp_psc"
	galexCatalog   = "galex_gr6_gr7"
)

// Client implements cone searches against Gator and reddening lookups
// against DUST. Requests are throttled to stay under the service's rate
// limit.
type Client struct {
	httpClient *http.Client
	gatorURL   string
	dustURL    string
	delay      time.Duration
	logger     *slog.Logger

	clock clockwork.Clock
	mu    sync.Mutex
	last  time.Time
}

// NewClient creates an IRSA client. Empty URLs select the production
// endpoints; delay is the minimum gap between consecutive requests.
func NewClient(gatorURL, dustURL string, timeout, delay time.Duration, logger *slog.Logger) *Client {
	if gatorURL == "" {
		gatorURL = defaultGatorURL
	}
	if dustURL == "" {
		dustURL = defaultDustURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		gatorURL: gatorURL,
		dustURL:  dustURL,
		delay:    delay,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock replaces the throttle clock, for tests.
func (c *Client) SetClock(clk clockwork.Clock) {
	c.clock = clk
}

// WISE searches the WISE All-Sky point source catalog around a position.
func (c *Client) WISE(ctx context.Context, lat, lon float64) (*domain.Table, error) {
	return c.query(ctx, wiseCatalog, lat, lon)
}

// TwoMASS searches the 2MASS point source catalog around a position.
func (c *Client) TwoMASS(ctx context.Context, lat, lon float64) (*domain.Table, error) {
	return c.query(ctx, twoMASSCatalog, lat, lon)
}

// GALEX searches the GALEX source catalog around a position.
func (c *Client) GALEX(ctx context.Context, lat, lon float64) (*domain.Table, error) {
	return c.query(ctx, galexCatalog, lat, lon)
}

func (c *Client) query(ctx context.Context, catalog string, lat, lon float64) (*domain.Table, error) {
	params := url.Values{
		"catalog": {catalog},
		"outfmt":  {"3"},
		"objstr":  {objstr(lat, lon)},
	}

	body, err := c.doRequest(ctx, c.gatorURL+"?"+params.Encode(), catalog)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	table, err := votable.Parse(body)
	if err != nil {
		if errors.Is(err, votable.ErrNoTable) {
			return nil, domain.ErrNoData
		}
		return nil, fmt.Errorf("irsa %s response: %w", catalog, err)
	}
	return table, nil
}

// Reddening queries the DUST extinction map for the E(B−V) value at a
// position. A position outside the map coverage reports domain.ErrNoData.
func (c *Client) Reddening(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{
		"locstr": {objstr(lat, lon) + " equ j2000"},
	}

	body, err := c.doRequest(ctx, c.dustURL+"?"+params.Encode(), "dust")
	if err != nil {
		return math.NaN(), err
	}
	defer body.Close()

	var doc dustResults
	if err := xml.NewDecoder(body).Decode(&doc); err != nil {
		return math.NaN(), fmt.Errorf("irsa dust response: %w", err)
	}

	for _, r := range doc.Results {
		if !strings.Contains(r.Desc, "E(B-V)") {
			continue
		}
		value, err := parseMagValue(r.Statistics.MeanValueSandF)
		if err != nil {
			return math.NaN(), fmt.Errorf("irsa dust value %q: %w", r.Statistics.MeanValueSandF, err)
		}
		return value, nil
	}
	return math.NaN(), domain.ErrNoData
}

func (c *Client) doRequest(ctx context.Context, fullURL, kind string) (io.ReadCloser, error) {
	c.throttle()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("irsa %s request: %w", kind, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("irsa API error: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

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

// objstr formats a search position the way Gator expects, rounded to five
// decimals so identical sources produce identical query strings.
func objstr(lat, lon float64) string {
	return fmt.Sprintf("%.5f %.5f", lat, lon)
}

// DUST response envelope. The service reports several map statistics; the
// reddening block is identified by its description text, and values carry
// a unit suffix, e.g. "0.0319 (mag)".

type dustResults struct {
	XMLName xml.Name     `xml:"results"`
	Results []dustResult `xml:"result"`
}

type dustResult struct {
	Desc       string         `xml:"desc"`
	Statistics dustStatistics `xml:"statistics"`
}

type dustStatistics struct {
	MeanValueSandF string `xml:"meanValueSandF"`
}

func parseMagValue(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(fields[0], 64)
}
