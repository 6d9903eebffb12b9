package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/sydlexius/gallery/internal/provider"
)

// Getter performs the upstream GET for a resolved URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetcher issues at most one upstream request per query key at a time,
// caches successful bodies, and reports results as a Status.
type Fetcher struct {
	endpoints Endpoints
	getter    Getter
	cache     Cache
	logger    *slog.Logger
	timeout   time.Duration

	group singleflight.Group

	// failures holds the last error per key until it is reported once.
	// Entries nobody asks about again age out.
	mu       sync.Mutex
	failures *expirable.LRU[string, error]
}

const (
	maxFailures = 1024
	failureTTL  = 5 * time.Minute
)

// NewFetcher creates a Fetcher.
func NewFetcher(endpoints Endpoints, getter Getter, cache Cache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		endpoints: endpoints,
		getter:    getter,
		cache:     cache,
		logger:    logger.With("component", "fetcher"),
		timeout:   30 * time.Second,
		failures:  expirable.NewLRU[string, error](maxFailures, nil, failureTTL),
	}
}

// Fetch blocks until q's images are available or the request fails.
// A failure recorded by an earlier background request is reported once
// and then forgotten, so the next Fetch or Peek asks upstream again.
func (f *Fetcher) Fetch(ctx context.Context, q Query) Status {
	key := q.Key()
	if body, ok := f.cached(ctx, key); ok {
		return Ready{Images: Normalize(body)}
	}
	if err := f.takeFailure(key); err != nil {
		return Failed{Err: err}
	}

	body, err := f.load(ctx, q)
	if err != nil {
		f.takeFailure(key)
		return Failed{Err: err}
	}
	return Ready{Images: Normalize(body)}
}

// Peek returns q's status without blocking. A failure from an earlier
// background request is reported once, like Fetch does. When nothing is
// known about q it starts a background request and returns Pending.
func (f *Fetcher) Peek(ctx context.Context, q Query) Status {
	key := q.Key()
	if body, ok := f.cached(ctx, key); ok {
		return Ready{Images: Normalize(body)}
	}
	if err := f.takeFailure(key); err != nil {
		return Failed{Err: err}
	}

	bg := context.WithoutCancel(ctx)
	go f.load(bg, q) //nolint:errcheck
	return Pending{}
}

func (f *Fetcher) cached(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return body, ok
}

// takeFailure returns and forgets the failure recorded for key, if any.
func (f *Fetcher) takeFailure(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err, ok := f.failures.Get(key)
	if !ok {
		return nil
	}
	f.failures.Remove(key)
	return err
}

// load joins or starts the request for q. The request itself is detached
// from ctx so that one caller giving up does not fail the others.
func (f *Fetcher) load(ctx context.Context, q Query) ([]byte, error) {
	key := q.Key()
	ch := f.group.DoChan(key, func() (any, error) {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.request(reqCtx, key, q)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (f *Fetcher) request(ctx context.Context, key string, q Query) ([]byte, error) {
	reqURL := f.endpoints.Resolve(q)
	start := time.Now()

	body, err := f.getter.Get(ctx, reqURL)
	if err != nil {
		f.logFailure(reqURL, err)
		f.mu.Lock()
		f.failures.Add(key, err)
		f.mu.Unlock()
		return nil, err
	}

	f.mu.Lock()
	f.failures.Remove(key)
	f.mu.Unlock()

	if err := f.cache.Set(ctx, key, body); err != nil {
		f.logger.Warn("cache write failed", "key", key, "error", err)
	}

	f.logger.Debug("images fetched",
		slog.String("mode", string(q.Mode())),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))
	return body, nil
}

// logFailure logs rate limiting distinctly from other failures. The error
// itself is passed to callers unchanged.
func (f *Fetcher) logFailure(reqURL string, err error) {
	redacted := provider.RedactURL(reqURL)
	if fe, ok := provider.AsFetchError(err); ok && fe.IsRateLimited() {
		f.logger.Error("rate limit exceeded, please try again later",
			slog.String("url", redacted),
			slog.Int("status", fe.StatusCode))
		return
	}
	f.logger.Error("error fetching images",
		slog.String("url", redacted),
		slog.Any("error", err))
}
