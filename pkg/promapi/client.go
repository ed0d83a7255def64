package promapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/galileo/pkg/ratelimit"
	tlsconfig "mercator-hq/galileo/pkg/security/tls"
)

// unhealthyThreshold is the number of consecutive failures before the
// client marks the server unhealthy.
const unhealthyThreshold = 3

// ClientHealth tracks the health of the connection to the server.
type ClientHealth struct {
	// Healthy indicates whether recent requests are succeeding
	Healthy bool

	// LastCheck is when the health state was last updated
	LastCheck time.Time

	// LastError is the message of the most recent failure
	LastError string

	// ConsecutiveFailures counts back-to-back failed operations
	ConsecutiveFailures int

	// LastSuccess is when a request last succeeded
	LastSuccess time.Time

	// TotalRequests is the total number of HTTP attempts made
	TotalRequests int64

	// FailedRequests is the number of failed HTTP attempts
	FailedRequests int64
}

// Client is an HTTP client for the Prometheus query API.
// It is safe for concurrent use.
type Client struct {
	config     Config
	base       *url.URL
	http       *http.Client
	limiter    *ratelimit.Limiter
	reloader   *tlsconfig.CertificateReloader
	stopReload context.CancelFunc
	logger     *slog.Logger
	observers  []RequestObserver
	tracer     Tracer

	mu     sync.RWMutex
	health ClientHealth

	closeOnce sync.Once
}

// New creates a Client from the given configuration.
func New(config Config) (*Client, error) {
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, &ConfigError{Field: "base_url", Message: "invalid URL: " + err.Error()}
	}

	c := &Client{
		config:    config,
		base:      base,
		logger:    slog.Default().With("component", "promapi", "server", base.Host),
		observers: config.Observers,
		tracer:    config.Tracer,
		health:    ClientHealth{Healthy: true},
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	if config.TLS != nil && config.TLS.Enabled {
		tlsCfg, err := config.TLS.ToTLSConfig()
		if err != nil {
			return nil, err
		}
		if config.TLS.HasClientCertificate() {
			if interval := config.TLS.ParseReloadInterval(); interval > 0 {
				reloader := tlsconfig.NewCertificateReloader(config.TLS.CertFile, config.TLS.KeyFile, interval)
				reloadCtx, cancel := context.WithCancel(context.Background())
				if err := reloader.Start(reloadCtx); err != nil {
					cancel()
					return nil, err
				}
				// Hand certificate selection to the reloader so renewed
				// certificates are picked up without restarting the client.
				tlsCfg.Certificates = nil
				tlsCfg.GetClientCertificate = reloader.GetClientCertificateFunc()
				c.reloader = reloader
				c.stopReload = cancel
			}
		}
		transport.TLSClientConfig = tlsCfg
	}

	if config.Limits != nil {
		c.limiter = ratelimit.NewLimiter(*config.Limits)
	}

	c.http = &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	c.logger.Debug("client created",
		"base_url", config.BaseURL,
		"timeout", config.Timeout,
		"prefer_post", config.PreferPOST)

	return c, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Health returns a snapshot of the connection health.
func (c *Client) Health() ClientHealth {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// IsHealthy reports whether recent requests have been succeeding.
func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health.Healthy
}

// Close releases resources held by the client. The client must not be
// used after Close returns.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.stopReload != nil {
			c.stopReload()
		}
		if transport, ok := c.http.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
		c.logger.Debug("client closed")
	})
	return nil
}

// newEvent starts a RequestEvent for one logical operation.
func (c *Client) newEvent(endpoint, method, expr string) *RequestEvent {
	return &RequestEvent{
		ID:       uuid.NewString(),
		Endpoint: endpoint,
		Method:   method,
		Expr:     expr,
		Start:    time.Now(),
	}
}

// observe finalizes an event and fans it out to all observers.
func (c *Client) observe(ctx context.Context, event *RequestEvent) {
	event.Duration = time.Since(event.Start)
	for _, obs := range c.observers {
		obs.ObserveRequest(ctx, *event)
	}
}

// notifyStart tells observers that implement RequestStartObserver that
// a request is about to be sent.
func (c *Client) notifyStart(ctx context.Context, event *RequestEvent) {
	for _, obs := range c.observers {
		if so, ok := obs.(RequestStartObserver); ok {
			so.ObserveRequestStart(ctx, *event)
		}
	}
}

// queryMethod returns the HTTP method for endpoints that accept POST.
func (c *Client) queryMethod() string {
	if c.config.PreferPOST {
		return http.MethodPost
	}
	return http.MethodGet
}

// validateExpr rejects empty expressions and optionally parses the
// expression client-side before sending it.
func (c *Client) validateExpr(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return &ValidationError{Field: "query", Message: "expression must not be empty"}
	}
	if c.config.ValidateQueries {
		return ValidateQuery(expr)
	}
	return nil
}

// validateSelectors optionally parses series matchers client-side
// before sending them.
func (c *Client) validateSelectors(matchers []string) error {
	if c.config.ValidateQueries {
		return ValidateMatchers(matchers)
	}
	return nil
}

// call performs a request and decodes the response envelope. Envelope
// warnings are recorded on the event.
func (c *Client) call(ctx context.Context, event *RequestEvent, method, path string, params url.Values) (env *envelope, err error) {
	if c.tracer != nil {
		var finish func(error)
		ctx, finish = c.tracer.StartSpan(ctx, event)
		defer func() { finish(err) }()
	}
	c.notifyStart(ctx, event)

	body, statusCode, err := c.send(ctx, event, method, path, params)
	if err != nil {
		event.Err = err
		return nil, err
	}

	env, err = decodeEnvelope(body, statusCode)
	if err != nil {
		event.Err = err
		return nil, err
	}

	event.WarningCount = len(env.Warnings)
	return env, nil
}

// callRaw performs a request against an endpoint that does not use the
// response envelope (the health and readiness probes).
func (c *Client) callRaw(ctx context.Context, event *RequestEvent, method, path string, params url.Values) (body []byte, err error) {
	if c.tracer != nil {
		var finish func(error)
		ctx, finish = c.tracer.StartSpan(ctx, event)
		defer func() { finish(err) }()
	}
	c.notifyStart(ctx, event)

	body, _, err = c.send(ctx, event, method, path, params)
	if err != nil {
		event.Err = err
	}
	return body, err
}

// getJSON performs a GET request and decodes the envelope data field
// into out. It covers the simple read endpoints.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	event := c.newEvent(endpoint, http.MethodGet, "")
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, http.MethodGet, path, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := decodeData(env, out); err != nil {
		event.Err = err
		return err
	}
	return nil
}

// send performs the HTTP request with retries. It returns the response
// body for 2xx responses and a typed error otherwise.
func (c *Client) send(ctx context.Context, event *RequestEvent, method, path string, params url.Values) ([]byte, int, error) {
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		var limitErr *ratelimit.LimitError
		if errors.As(err, &limitErr) {
			return nil, 0, &RateLimitError{
				RetryAfter: limitErr.Result.RetryAfter,
				Message:    limitErr.Result.Reason,
			}
		}
		return nil, 0, err
	}
	defer release()

	u := resolvePath(c.base, path)

	maxRetries := 0
	var baseDelay, maxDelay time.Duration
	if c.config.Retry != nil {
		maxRetries = c.config.Retry.MaxRetries
		baseDelay = c.config.Retry.BaseDelay
		maxDelay = c.config.Retry.MaxDelay
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBackoff(baseDelay, maxDelay, attempt)
			c.logger.Debug("retrying request",
				"endpoint", event.Endpoint,
				"attempt", attempt,
				"backoff", backoff)

			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := c.newRequest(ctx, method, u, params)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("X-Request-ID", event.ID)

		event.Attempts = attempt + 1
		resp, err := c.http.Do(req)
		if err != nil {
			c.recordRequest(false)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				timeoutErr := &TimeoutError{Timeout: c.config.Timeout}
				c.updateHealth(false, timeoutErr)
				return nil, 0, timeoutErr
			}
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}

			lastErr = &TransportError{URL: u.String(), Cause: err}
			c.logger.Warn("request failed, retrying",
				"endpoint", event.Endpoint,
				"attempt", attempt+1,
				"error", err)
			continue
		}

		event.StatusCode = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				c.recordRequest(false)
				lastErr = &TransportError{URL: u.String(), Cause: readErr}
				continue
			}
			c.recordRequest(true)
			c.updateHealth(true, nil)
			return body, resp.StatusCode, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxErrorBodySize))
		resp.Body.Close()
		c.recordRequest(false)

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			authErr := &AuthError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(body)),
			}
			c.updateHealth(false, authErr)
			return nil, resp.StatusCode, authErr

		case resp.StatusCode == http.StatusTooManyRequests:
			rateErr := &RateLimitError{
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    "server rejected request",
			}
			c.updateHealth(false, rateErr)
			return nil, resp.StatusCode, rateErr

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			apiErr := apiErrorFromBody(body, resp.StatusCode)
			c.updateHealth(false, apiErr)
			return nil, resp.StatusCode, apiErr

		default:
			lastErr = apiErrorFromBody(body, resp.StatusCode)
			c.logger.Warn("server error, retrying",
				"endpoint", event.Endpoint,
				"status", resp.StatusCode,
				"attempt", attempt+1)
		}
	}

	c.updateHealth(false, lastErr)
	return nil, event.StatusCode, lastErr
}

// newRequest builds the HTTP request for one attempt. Parameters go in
// the query string for GET and in a form-encoded body for POST.
func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, params url.Values) (*http.Request, error) {
	var req *http.Request
	var err error

	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		target := *u
		target.RawQuery = params.Encode()
		req, err = http.NewRequestWithContext(ctx, method, target.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	if injector, ok := c.tracer.(HeaderInjector); ok {
		injector.InjectHeaders(ctx, req.Header)
	}

	if err := c.applyAuth(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// applyAuth attaches credentials to the request. Bearer tokens take
// precedence over basic auth.
func (c *Client) applyAuth(ctx context.Context, req *http.Request) error {
	if c.config.BearerToken != nil {
		token, err := c.config.BearerToken.Credential(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve bearer token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}

	if c.config.BasicAuth != nil {
		password, err := c.config.BasicAuth.Password.Credential(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve basic auth password: %w", err)
		}
		req.SetBasicAuth(c.config.BasicAuth.Username, password)
	}

	return nil
}

// recordRequest updates request counters.
func (c *Client) recordRequest(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.TotalRequests++
	if !success {
		c.health.FailedRequests++
	}
}

// updateHealth updates the health state after a terminal outcome.
func (c *Client) updateHealth(healthy bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.health.LastCheck = time.Now()

	if healthy {
		c.health.Healthy = true
		c.health.LastError = ""
		c.health.ConsecutiveFailures = 0
		c.health.LastSuccess = time.Now()
		return
	}

	c.health.ConsecutiveFailures++
	if err != nil {
		c.health.LastError = err.Error()
	}

	if c.health.ConsecutiveFailures >= unhealthyThreshold && c.health.Healthy {
		c.health.Healthy = false
		c.logger.Warn("server marked unhealthy",
			"consecutive_failures", c.health.ConsecutiveFailures,
			"last_error", c.health.LastError)
	}
}

// retryBackoff computes the exponential delay before the given retry
// attempt, capped at maxDelay.
func retryBackoff(baseDelay, maxDelay time.Duration, attempt int) time.Duration {
	backoff := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)))
	if backoff > maxDelay {
		return maxDelay
	}
	return backoff
}

// parseRetryAfter parses a Retry-After header value, which may be a
// number of seconds or an HTTP date.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}

// apiErrorFromBody builds an APIError from an error response body,
// falling back to the raw body when it is not a valid error envelope.
func apiErrorFromBody(body []byte, statusCode int) *APIError {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Status == statusError {
		return &APIError{
			ErrorType:  env.ErrorType,
			Message:    env.Error,
			StatusCode: statusCode,
		}
	}
	return &APIError{
		Message:    strings.TrimSpace(truncateBody(body)),
		StatusCode: statusCode,
	}
}
