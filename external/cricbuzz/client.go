package cricbuzz

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/platform/resilience"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL     = "https://www.cricbuzz.com"
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultMaxAttempts = 4
	defaultBackoffStep = 2 * time.Second
	defaultHydration   = 4
	maxBodyBytes       = 8 << 20

	liveScoresPath = "/cricket-match/live-scores"
	seriesPathFmt  = "/cricket-series/%s/matches"
	matchFactsFmt  = "/cricket-match-facts/%s"
	scorecardFmt   = "/live-cricket-scorecard/%s"
	matchSquadsFmt = "/cricket-match-squads/%s"
)

var (
	errSourceTransient = crerr.New("cricbuzz transient failure")
	errPageNotFound    = crerr.New("cricbuzz page not found")
)

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BackoffStep time.Duration
	// SeriesIDs selects the series pages listed by ListMatches. Empty means
	// the live-scores page.
	SeriesIDs        []string
	HydrationWorkers int
	Logger           *logging.Logger
	CircuitBreaker   resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient       *http.Client
	baseURL          string
	userAgent        string
	seriesIDs        []string
	hydrationWorkers int
	retry            resilience.RetryPolicy
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
	flight           resilience.SingleFlight
	// flightBudget bounds one shared fetch, retries and backoff included.
	flightBudget     time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	step := cfg.BackoffStep
	if step <= 0 {
		step = defaultBackoffStep
	}
	workers := cfg.HydrationWorkers
	if workers <= 0 {
		workers = defaultHydration
	}
	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("cricbuzz circuit state changed", "from", from, "to", to)
	})

	client := &Client{
		httpClient:       httpClient,
		baseURL:          baseURL,
		userAgent:        userAgent,
		seriesIDs:        normalizeSeriesIDs(cfg.SeriesIDs),
		hydrationWorkers: workers,
		logger:           logger,
		breaker:          breaker,
		circuitEnabled:   cfg.CircuitBreaker.Enabled,
		flightBudget:     time.Duration(attempts)*httpClient.Timeout + time.Duration(attempts*(attempts-1)/2)*step,
	}
	client.retry = resilience.RetryPolicy{
		MaxAttempts: attempts,
		BackoffStep: step,
		Retryable:   isTransient,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			client.logger.Warn("cricbuzz request retry", "attempt", attempt, "wait", wait.String(), "error", err)
		},
	}
	return client
}

// ListMatches returns the matches on the configured series pages, or on the
// live-scores page when no series is configured.
func (c *Client) ListMatches(ctx context.Context) ([]usecase.ExternalMatchSummary, error) {
	paths := []string{liveScoresPath}
	if len(c.seriesIDs) > 0 {
		paths = make([]string, 0, len(c.seriesIDs))
		for _, seriesID := range c.seriesIDs {
			paths = append(paths, fmt.Sprintf(seriesPathFmt, seriesID))
		}
	}

	byKey := make(map[string]usecase.ExternalMatchSummary, 32)
	for _, path := range paths {
		doc, err := c.fetchDocument(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("fetch match list path=%s: %w", path, err)
		}
		for _, item := range ParseMatchList(doc) {
			existing, ok := byKey[item.ExternalKey]
			if ok {
				item = mergeSummary(existing, item)
			}
			byKey[item.ExternalKey] = item
		}
	}

	out := make([]usecase.ExternalMatchSummary, 0, len(byKey))
	for _, item := range byKey {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExternalKey < out[j].ExternalKey
	})

	c.hydrateSummaries(ctx, out)
	return out, nil
}

func (c *Client) MatchInfo(ctx context.Context, externalKey string) (*usecase.ExternalMatchInfo, error) {
	externalKey = strings.TrimSpace(externalKey)
	if externalKey == "" {
		return nil, nil
	}

	doc, err := c.fetchDocument(ctx, fmt.Sprintf(matchFactsFmt, externalKey))
	if err != nil {
		if stderrors.Is(err, errPageNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch match info external key=%s: %w", externalKey, err)
	}

	info := ParseMatchInfo(doc)
	if info == nil {
		return nil, nil
	}
	info.ExternalKey = externalKey
	return info, nil
}

func (c *Client) FullScorecard(ctx context.Context, externalKey string) (*usecase.ExternalScorecard, error) {
	externalKey = strings.TrimSpace(externalKey)
	if externalKey == "" {
		return nil, nil
	}

	doc, err := c.fetchDocument(ctx, fmt.Sprintf(scorecardFmt, externalKey))
	if err != nil {
		if stderrors.Is(err, errPageNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch scorecard external key=%s: %w", externalKey, err)
	}

	card := ParseScorecard(doc)
	if card == nil {
		return nil, nil
	}
	card.ExternalKey = externalKey
	return card, nil
}

func (c *Client) Squads(ctx context.Context, externalKey string) (*usecase.ExternalSquads, error) {
	externalKey = strings.TrimSpace(externalKey)
	if externalKey == "" {
		return nil, nil
	}

	doc, err := c.fetchDocument(ctx, fmt.Sprintf(matchSquadsFmt, externalKey))
	if err != nil {
		if stderrors.Is(err, errPageNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch squads external key=%s: %w", externalKey, err)
	}

	squads := ParseSquads(doc)
	if squads == nil {
		return nil, nil
	}
	squads.ExternalKey = externalKey
	return squads, nil
}

// fetchDocument shares one upstream fetch between concurrent callers of the
// same path. The breaker admits and records that fetch once, and the fetch
// outlives any single caller's cancellation.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	fullURL := c.baseURL + path
	out, err, _ := c.flight.DoContext(ctx, path, func(ctx context.Context) (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "cricbuzz circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("%w: match source is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		ctx, cancel := context.WithTimeout(ctx, c.flightBudget)
		defer cancel()
		doc, reqErr := c.getWithRetry(ctx, fullURL)
		if c.circuitEnabled {
			c.breaker.Record(reqErr, isTransient)
		}
		return doc, reqErr
	})
	if err != nil {
		return nil, err
	}

	doc, ok := out.(*goquery.Document)
	if !ok {
		return nil, fmt.Errorf("unexpected document type %T", out)
	}
	return doc, nil
}

func (c *Client) getWithRetry(ctx context.Context, fullURL string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		parsed, reqErr := c.get(ctx, fullURL)
		if reqErr != nil {
			return reqErr
		}
		doc = parsed
		return nil
	})
	if err != nil {
		if !stderrors.Is(err, errPageNotFound) {
			c.logger.WarnContext(ctx, "cricbuzz request failed", "url", fullURL, "error", err)
		}
		return nil, err
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, fullURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "text/html,application/xhtml+xml")
	req.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionReset(err) {
			return nil, fmt.Errorf("%w: send request: %v", errSourceTransient, err)
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		if isConnectionReset(err) {
			return nil, fmt.Errorf("%w: read response body: %v", errSourceTransient, err)
		}
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: status=%d", errPageNotFound, resp.StatusCode)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: status=%d", errSourceTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("source status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.B))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errSourceTransient)
}

func isConnectionReset(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, syscall.ECONNRESET) || stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection reset by peer")
}

func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func normalizeSeriesIDs(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
