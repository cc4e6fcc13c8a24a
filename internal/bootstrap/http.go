package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/event"
)

// maxDocumentSize caps how much of a response body is read. A larger body
// fails the load.
var maxDocumentSize int64 = 16 << 20

// HTTPSource fetches the document with a GET request, retrying transient
// failures with exponential backoff.
type HTTPSource struct {
	url    string
	policy RetryPolicy
	opts   options
}

// NewHTTPSource creates a source fetching url under policy.
func NewHTTPSource(url string, policy RetryPolicy, opts ...Option) *HTTPSource {
	return &HTTPSource{url: url, policy: policy, opts: newOptions(opts)}
}

func (s *HTTPSource) String() string { return s.url }

// Load fetches the document. Network errors, timeouts, 408, 429 and 5xx
// responses are retried; other 4xx responses and malformed documents fail
// immediately.
func (s *HTTPSource) Load(ctx context.Context) (*Document, error) {
	log := s.opts.logger.With("source", s.url)
	attempts := s.policy.attempts()

	for attempt := 1; ; attempt++ {
		doc, err := s.fetch(ctx, attempt)
		if err == nil {
			doc.Source = s.url
			doc.Attempts = attempt
			return doc, nil
		}

		if ctx.Err() != nil {
			return nil, errors.NewFetchError("canceled", ctx.Err()).
				WithURL(s.url).
				WithAttempt(attempt).
				WithRetryable(false)
		}
		if !errors.IsRetryable(err) || attempt >= attempts {
			return nil, err
		}

		delay := s.policy.Backoff(attempt)
		log.Warn("fetch failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"delay_ms", delay.Milliseconds(),
			"error", err.Error())
		s.opts.publish(event.NewFetchRetryEvent(s.url, attempt, delay, err))

		if err := s.opts.sleep(ctx, delay); err != nil {
			return nil, errors.NewFetchError("canceled while waiting to retry", err).
				WithURL(s.url).
				WithAttempt(attempt).
				WithRetryable(false)
		}
	}
}

func (s *HTTPSource) fetch(ctx context.Context, attempt int) (*Document, error) {
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.NewFetchError("invalid request", err).
			WithURL(s.url).
			WithRetryable(false)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.opts.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", errors.ErrTimeout, s.policy.Timeout, err)
		}
		return nil, errors.NewFetchError("request failed", err).
			WithURL(s.url).
			WithAttempt(attempt)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentSize))
		return nil, errors.NewFetchError(fmt.Sprintf("unexpected status %s", resp.Status), nil).
			WithURL(s.url).
			WithAttempt(attempt).
			WithStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, errors.NewFetchError("reading response body", err).
			WithURL(s.url).
			WithAttempt(attempt)
	}
	if int64(len(body)) > maxDocumentSize {
		return nil, errors.NewFetchError(fmt.Sprintf("document too large: over %d bytes", maxDocumentSize), nil).
			WithURL(s.url).
			WithAttempt(attempt).
			WithRetryable(false)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		return DecodeYAML(body)
	}
	return Decode(body)
}
