// Package forager gathers a title and a leading paragraph from a fixed list of
// web pages.
//
// Sources are fetched one at a time by default, and no request timeout is set,
// so a source that never answers blocks everything after it. WithTimeout and
// WithConcurrency lift both limits.
package forager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/booksage/kgforager/internal/logging"
)

var tracer = otel.Tracer("kgforager/internal/forager")

var (
	// ErrNoSources is returned by New when the source list is empty.
	ErrNoSources = errors.New("forager: at least one source is required")
	// ErrStatus marks a response outside the 2xx range.
	ErrStatus = errors.New("unexpected HTTP status")
)

// Forager fetches every configured source and extracts its title and content.
type Forager struct {
	sources     []string
	logger      *zap.Logger
	httpClient  *http.Client
	timeout     time.Duration
	concurrency int
	userAgent   string
	client      *resty.Client
}

// Option configures a Forager.
type Option func(*Forager)

// WithLogger sets the logger. The forager logs under the name "forager".
func WithLogger(l *zap.Logger) Option {
	return func(f *Forager) { f.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Forager) { f.httpClient = c }
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Forager) { f.timeout = d }
}

// WithConcurrency sets how many sources may be in flight at once.
func WithConcurrency(n int) Option {
	return func(f *Forager) { f.concurrency = n }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Forager) { f.userAgent = ua }
}

// New creates a forager over the given sources. Order is kept and duplicates
// are fetched independently.
func New(sources []string, opts ...Option) (*Forager, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	f := &Forager{
		sources:     append([]string(nil), sources...),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.logger = logging.OrNop(f.logger).Named("forager")
	if f.concurrency < 1 {
		f.concurrency = 1
	}

	hc := &http.Client{}
	if f.httpClient != nil {
		c := *f.httpClient
		hc = &c
	}
	hc.Transport = &LoggingTransport{Base: hc.Transport, Logger: f.logger}

	f.client = resty.NewWithClient(hc).
		SetLogger(restyLogger{s: f.logger.Sugar()}).
		SetTimeout(f.timeout)
	if f.userAgent != "" {
		f.client.SetHeader("User-Agent", f.userAgent)
	}

	return f, nil
}

// FetchData fetches all sources and returns the extracted text keyed by
// source. A source that fails is logged and left out of the result; the call
// itself never fails.
func (f *Forager) FetchData(ctx context.Context) map[string]FetchResult {
	results := make(map[string]FetchResult, len(f.sources))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for _, source := range f.sources {
		g.Go(func() error {
			res, err := f.fetch(ctx, source)
			if err != nil {
				f.logger.Error("failed to fetch data",
					zap.String("source", source),
					zap.Error(err),
				)
				return nil
			}

			mu.Lock()
			results[source] = res
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	f.logger.Info("fetch complete",
		zap.Int("sources", len(f.sources)),
		zap.Int("succeeded", len(results)),
	)
	return results
}

func (f *Forager) fetch(ctx context.Context, source string) (FetchResult, error) {
	ctx, span := tracer.Start(ctx, "forager.fetch",
		trace.WithAttributes(attribute.String("source", source)),
	)
	defer span.End()

	res, err := f.client.R().
		SetContext(ctx).
		Get(source)
	if err != nil {
		return FetchResult{}, recordFailure(span, fmt.Errorf("request failed: %w", err))
	}

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
	if !res.IsSuccess() {
		return FetchResult{}, recordFailure(span, fmt.Errorf("%w: %s", ErrStatus, res.Status()))
	}

	// Bodies are decoded to UTF-8 using the Content-Type charset, then any
	// <meta> declaration, before extraction.
	body, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("Content-Type"))
	if err != nil {
		return FetchResult{}, recordFailure(span, fmt.Errorf("failed to decode body: %w", err))
	}

	result, err := Extract(body)
	if err != nil {
		return FetchResult{}, recordFailure(span, err)
	}

	f.logger.Debug("fetched source",
		zap.String("source", source),
		zap.String("title", result.Title),
	)
	return result, nil
}

func recordFailure(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
