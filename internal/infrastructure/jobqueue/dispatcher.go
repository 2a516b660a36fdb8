package jobqueue

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	InternalJobTokenHeader = "X-Internal-Job-Token"
	maxLoggedBodyBytes     = 4096
)

var errDispatchTransient = crerr.New("job dispatch transient failure")

var tracer = otel.Tracer("cricket-slots/internal/infrastructure/jobqueue")

type DispatcherConfig struct {
	TargetBaseURL    string
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// Dispatcher triggers the API's internal job endpoints over HTTP.
type Dispatcher struct {
	client           *http.Client
	targetBaseURL    string
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
}

// Result is the outcome of one dispatched job.
type Result struct {
	Path       string
	StatusCode int
	Body       string
	Duration   time.Duration
}

func NewDispatcher(cfg DispatcherConfig, logger *logging.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("job dispatch circuit state changed", "from", from, "to", to)
	})

	return &Dispatcher{
		client: &http.Client{
			Timeout: timeout,
		},
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          breaker,
		circuitEnabled:   cfg.CircuitBreaker.Enabled,
	}
}

// Dispatch POSTs payload to path on the target API and returns the response.
func (d *Dispatcher) Dispatch(ctx context.Context, path string, payload any) (Result, error) {
	ctx, span := tracer.Start(ctx, "jobqueue.Dispatcher.Dispatch")
	defer span.End()

	result, err := d.dispatch(ctx, path, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// jobRequest is a validated dispatch, ready to send.
type jobRequest struct {
	path      string
	targetURL string
	body      []byte
	preview   string
}

func (d *Dispatcher) prepare(path string, payload any) (jobRequest, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return jobRequest{}, crerr.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(d.targetBaseURL)
	if err != nil {
		return jobRequest{}, crerr.Wrap(err, "invalid SCHEDULER_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return jobRequest{}, crerr.Wrap(err, "marshal job payload")
	}

	job := jobRequest{path: path, targetURL: baseURL + path, body: body}
	job.preview = buildCurlPreview(job.targetURL, path, truncateForLog(string(body), maxLoggedBodyBytes), d.internalJobToken != "")
	return job, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, path string, payload any) (Result, error) {
	job, err := d.prepare(path, payload)
	if err != nil {
		return Result{}, err
	}

	if d.circuitEnabled {
		if err := d.breaker.Allow(); err != nil {
			d.logger.WarnContext(ctx, "job dispatch circuit breaker rejected request", "path", job.path, "state", d.breaker.State())
			return Result{}, fmt.Errorf("job target is temporarily unavailable: %w", err)
		}
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("job.target_url", job.targetURL),
		attribute.String("job.path", job.path),
		attribute.String("job.request_curl_preview", job.preview),
	)
	d.logger.InfoContext(ctx, "job dispatch request", "path", job.path, "curl_preview", job.preview)

	result, err := d.send(ctx, job)
	d.recordCircuitResult(err)
	if err != nil {
		return result, err
	}
	span.SetAttributes(attribute.Int("job.response_status", result.StatusCode))

	d.logger.InfoContext(ctx, "job dispatched",
		"path", job.path,
		"status", result.StatusCode,
		"duration_ms", result.Duration.Milliseconds(),
		"response", result.Body,
	)
	return result, nil
}

// send performs one POST. Network errors and retryable statuses are wrapped
// with errDispatchTransient.
func (d *Dispatcher) send(ctx context.Context, job jobRequest) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.targetURL, bytes.NewReader(job.body))
	if err != nil {
		return Result{}, crerr.Wrap(err, "create job request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.internalJobToken != "" {
		req.Header.Set(InternalJobTokenHeader, d.internalJobToken)
	}

	startedAt := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: dispatch job target_url=%s: %v", errDispatchTransient, job.targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBodyBytes))
	result := Result{
		Path:       job.path,
		StatusCode: resp.StatusCode,
		Body:       truncateForLog(strings.TrimSpace(string(raw)), maxLoggedBodyBytes),
		Duration:   time.Since(startedAt),
	}
	if resp.StatusCode/100 == 2 {
		return result, nil
	}

	callErr := fmt.Errorf("dispatch job status=%d target_url=%s body=%s", resp.StatusCode, job.targetURL, result.Body)
	if isRetryableStatus(resp.StatusCode) {
		callErr = fmt.Errorf("%w: %v", errDispatchTransient, callErr)
	}
	return result, callErr
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(targetURL, path, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(targetURL))
	appendFlagHeader("Content-Type: application/json")
	if withToken {
		appendFlagHeader(InternalJobTokenHeader + ": ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("path=" + path))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (d *Dispatcher) recordCircuitResult(err error) {
	if !d.circuitEnabled || d.breaker == nil {
		return
	}
	d.breaker.Record(err, func(err error) bool {
		return stderrors.Is(err, errDispatchTransient)
	})
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
