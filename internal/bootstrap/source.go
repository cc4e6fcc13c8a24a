package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/Iron-Ham/tileboard/internal/event"
	"github.com/Iron-Ham/tileboard/internal/logging"
)

// Source produces a definition document.
type Source interface {
	// Load fetches and decodes the document. It returns when the document
	// is loaded, when the source gives up, or when ctx is done.
	Load(ctx context.Context) (*Document, error)

	// String names the source in logs and events.
	String() string
}

// RetryPolicy bounds how an HTTP source retries transient failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of requests. Values below 1 mean 1.
	MaxAttempts int

	// Timeout bounds each request. Zero means no per-request limit.
	Timeout time.Duration

	// InitialBackoff is the delay after the first failure. Each later delay
	// doubles, up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy returns three attempts of at most 10s each, backing
// off from 500ms to 5s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		Timeout:        10 * time.Second,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

// Backoff returns the delay after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.InitialBackoff <= 0 {
		return 0
	}
	d := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

func (p RetryPolicy) attempts() int {
	return max(p.MaxAttempts, 1)
}

type options struct {
	bus    *event.Bus
	logger *logging.Logger
	client *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures a source.
type Option func(*options)

// WithBus publishes retry events on bus.
func WithBus(bus *event.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient sets the client HTTP sources send requests with.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

func newOptions(opts []Option) options {
	o := options{
		logger: logging.NopLogger(),
		client: http.DefaultClient,
		sleep:  sleep,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithComponent("bootstrap")
	return o
}

func (o options) publish(e event.Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
