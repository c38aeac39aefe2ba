// Package fetch downloads the emitter, overrides, template and test
// definitions a target refers to, so generation can run offline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/covergen/internal/config"
	"github.com/wesleyorama2/covergen/internal/http"
)

// Kind identifies the role of an artifact
type Kind string

// Artifact kinds, in fetch order
const (
	KindEmitter  Kind = "emitter"
	KindOverride Kind = "override"
	KindTemplate Kind = "template"
	KindTests    Kind = "tests"
)

// Getter downloads a single URL.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Artifact is one downloaded collaborator script or resource.
type Artifact struct {
	Kind Kind
	// Index is the position among overrides; zero for other kinds
	Index   int
	URL     string
	Body    []byte
	Elapsed time.Duration
	Cached  bool
}

// Bundle holds every artifact of a record. Overrides keep record order.
type Bundle struct {
	RunID     string
	Record    config.Record
	FetchedAt time.Time
	Emitter   Artifact
	Overrides []Artifact
	Template  Artifact
	Tests     Artifact
	Stats     Stats
}

// Artifacts returns the artifacts in record order.
func (b *Bundle) Artifacts() []Artifact {
	out := make([]Artifact, 0, len(b.Overrides)+3)
	out = append(out, b.Emitter)
	out = append(out, b.Overrides...)
	return append(out, b.Template, b.Tests)
}

// ArtifactError reports which artifact could not be fetched.
type ArtifactError struct {
	Kind  Kind
	Index int
	URL   string
	Err   error
}

func (e *ArtifactError) Error() string {
	if e.Kind == KindOverride {
		return fmt.Sprintf("fetching %s[%d] %s: %v", e.Kind, e.Index, e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// Fetcher downloads artifacts concurrently and memoises bodies per URL.
type Fetcher struct {
	client      Getter
	logger      *zap.Logger
	concurrency int
	retries     int
	backoff     time.Duration
	cache       *cache.Cache
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithClient sets the downloader
func WithClient(c Getter) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithConcurrency bounds the number of parallel downloads
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithRetries sets how many times a retryable failure is retried
func WithRetries(n int, backoff time.Duration) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = n
		}
		f.backoff = backoff
	}
}

// WithCacheTTL sets how long downloaded bodies are reused. Zero disables
// the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		if ttl <= 0 {
			f.cache = nil
			return
		}
		// no janitor: expired entries are ignored by Get
		f.cache = cache.New(ttl, 0)
	}
}

// NewFetcher creates a fetcher with the given options
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      http.NewClient(),
		logger:      zap.NewNop(),
		concurrency: 4,
		retries:     1,
		backoff:     500 * time.Millisecond,
		cache:       cache.New(10*time.Minute, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type job struct {
	kind  Kind
	index int
	url   string
}

func jobsFor(r config.Record) []job {
	jobs := make([]job, 0, len(r.Overrides)+3)
	jobs = append(jobs, job{kind: KindEmitter, url: r.Emitter})
	for i, o := range r.Overrides {
		jobs = append(jobs, job{kind: KindOverride, index: i, url: o})
	}
	return append(jobs,
		job{kind: KindTemplate, url: r.Template},
		job{kind: KindTests, url: r.Tests},
	)
}

// Fetch downloads every artifact of r. The first failure cancels the
// remaining downloads and is returned as an *ArtifactError.
func (f *Fetcher) Fetch(ctx context.Context, r config.Record) (*Bundle, error) {
	if err := config.Validate(r).Err(); err != nil {
		return nil, fmt.Errorf("invalid target '%s': %w", r.Name, err)
	}

	runID := uuid.NewString()
	log := f.logger.With(zap.String("target", r.Name), zap.String("run", runID))

	jobs := jobsFor(r)
	results := make([]Artifact, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			a, err := f.fetchOne(gctx, log, j)
			if err != nil {
				return err
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("fetch failed", zap.Error(err))
		return nil, err
	}

	b := &Bundle{
		RunID:     runID,
		Record:    r.Clone(),
		FetchedAt: time.Now().UTC(),
		Emitter:   results[0],
		Overrides: results[1 : len(results)-2],
		Template:  results[len(results)-2],
		Tests:     results[len(results)-1],
		Stats:     computeStats(results),
	}

	log.Info("fetched target",
		zap.Int("artifacts", b.Stats.Count),
		zap.Int64("bytes", b.Stats.Bytes),
		zap.Int("cacheHits", b.Stats.CacheHits),
		zap.Duration("p99", b.Stats.P99))

	return b, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, log *zap.Logger, j job) (Artifact, error) {
	a := Artifact{Kind: j.kind, Index: j.index, URL: j.url}

	if f.cache != nil {
		if body, ok := f.cache.Get(j.url); ok {
			a.Body = body.([]byte)
			a.Cached = true
			log.Debug("artifact cache hit", zap.String("kind", string(j.kind)), zap.String("url", j.url))
			return a, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			log.Debug("retrying artifact",
				zap.String("url", j.url),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			if err := sleep(ctx, f.backoff*time.Duration(attempt)); err != nil {
				lastErr = err
				break
			}
		}

		log.Debug("fetching artifact", zap.String("kind", string(j.kind)), zap.String("url", j.url))
		resp, err := f.client.Get(ctx, j.url)
		if err == nil {
			a.Body = resp.Body
			a.Elapsed = resp.ResponseTime
			if f.cache != nil {
				f.cache.Set(j.url, resp.Body, cache.DefaultExpiration)
			}
			return a, nil
		}

		lastErr = err
		if !retryable(err) {
			break
		}
	}

	return Artifact{}, &ArtifactError{Kind: j.kind, Index: j.index, URL: j.url, Err: lastErr}
}

func retryable(err error) bool {
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
