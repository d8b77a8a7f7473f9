// Package preload fetches the next scene's keyframe, transition video and
// narration into an on-disk cache before the viewer asks for them.
package preload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/abhisek/storyreel/internal/assets"
)

const (
	DefaultBurst   = 3
	DefaultTimeout = 30 * time.Second
)

// Options configures a Preloader.
type Options struct {
	CacheDir string

	// RequestsPerSecond paces downloads. Zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	// Client defaults to a dedicated http.Client.
	Client *http.Client
}

// Preloader warms the asset cache for one target scene at a time.
// Retargeting cancels whatever the previous target still had in flight.
type Preloader struct {
	resolver assets.Resolver
	total    int
	dir      string
	client   *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *zap.Logger
	flights  singleflight.Group

	base       context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.Mutex
	target int
	cancel context.CancelFunc
	closed bool
}

// New returns a Preloader for a catalog of total scenes, creating the cache
// directory if needed.
func New(resolver assets.Resolver, total int, opts Options, logger *zap.Logger) (*Preloader, error) {
	if opts.CacheDir == "" {
		return nil, errors.New("preload: cache dir is required")
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}

	base, cancel := context.WithCancel(context.Background())
	return &Preloader{
		resolver:   resolver,
		total:      total,
		dir:        opts.CacheDir,
		client:     client,
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    timeout,
		logger:     logger,
		base:       base,
		baseCancel: cancel,
	}, nil
}

// Target starts warming scene next in the background and returns at once.
// An out-of-range index only cancels the previous target.
func (p *Preloader) Target(next int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || next == p.target {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.target = next
	if next < 1 || next > p.total {
		return
	}

	ctx, cancel := context.WithCancel(p.base)
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.warm(ctx, next)
	}()
}

// Targeted returns the scene most recently passed to Target.
func (p *Preloader) Targeted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// URLs lists the assets needed to enter scene i.
func (p *Preloader) URLs(i int) []string {
	a := p.resolver.SceneAssets(i)
	urls := []string{a.Keyframe}
	if a.Transition != "" {
		urls = append(urls, a.Transition)
	}
	return append(urls, a.Narration)
}

func (p *Preloader) warm(ctx context.Context, scene int) {
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range p.URLs(scene) {
		g.Go(func() error {
			if err := p.Fetch(gctx, u); err != nil && ctx.Err() == nil {
				p.logger.Debug("preload failed",
					zap.Int("scene", scene),
					zap.String("url", u),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Fetch downloads u into the cache unless it is already there. Concurrent
// fetches of one URL share a single download; a caller whose ctx ends stops
// waiting, and a caller that joined a download cancelled by someone else
// starts its own.
func (p *Preloader) Fetch(ctx context.Context, u string) error {
	for {
		if _, ok := p.Cached(u); ok {
			return nil
		}
		ch := p.flights.DoChan(u, func() (any, error) {
			return nil, p.download(ctx, u)
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-ch:
			if res.Shared && errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
				continue
			}
			return res.Err
		}
	}
}

func (p *Preloader) download(ctx context.Context, u string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", u, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(p.dir, ".part-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("download %s: %w", u, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path(u)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store %s: %w", u, err)
	}
	return nil
}

// Path returns where u is cached, whether or not it exists yet.
func (p *Preloader) Path(u string) string {
	sum := sha256.Sum256([]byte(u))
	ext := ""
	if parsed, err := url.Parse(u); err == nil {
		ext = path.Ext(parsed.Path)
	}
	return filepath.Join(p.dir, hex.EncodeToString(sum[:8])+ext)
}

// Cached returns the local path of u if it has been downloaded.
func (p *Preloader) Cached(u string) (string, bool) {
	fp := p.Path(u)
	info, err := os.Stat(fp)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return "", false
	}
	return fp, true
}

// Wait blocks until every background batch has returned.
func (p *Preloader) Wait() {
	p.wg.Wait()
}

// Close cancels all work, waits for it to stop and drops idle connections.
func (p *Preloader) Close() {
	p.mu.Lock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.baseCancel()
	p.wg.Wait()
	p.client.CloseIdleConnections()
}
