package forcedalign

import (
	"context"
	"encoding/hex"
	"time"

	"lukechampine.com/blake3"

	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/observability"
	"github.com/kbukum/aligner/redis"
)

const (
	cachePrefix     = "words"
	defaultCacheTTL = 24 * time.Hour
)

// CacheConfig configures the word-stream cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills unset fields.
func (c *CacheConfig) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = defaultCacheTTL
	}
}

// Fingerprint returns the hex BLAKE3-256 digest of audio.
func Fingerprint(audio []byte) string {
	sum := blake3.Sum256(audio)
	return hex.EncodeToString(sum[:])
}

// CacheKey returns the key, without the store prefix, under which the word
// stream for audio is cached.
func CacheKey(providerName, language string, audio []byte) string {
	if language == "" {
		language = "auto"
	}
	return providerName + ":" + language + ":" + Fingerprint(audio)
}

// CachedProvider serves repeated alignments of the same audio from Redis.
// Cache failures are logged and bypassed; they never fail a call.
type CachedProvider struct {
	inner   Provider
	store   *redis.TypedStore[Response]
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

var _ Provider = (*CachedProvider)(nil)

// CacheOption configures a CachedProvider.
type CacheOption func(*CachedProvider)

// WithCacheLogger sets the logger for bypassed cache errors.
func WithCacheLogger(log *logger.Logger) CacheOption {
	return func(c *CachedProvider) { c.log = log }
}

// WithCacheMetrics records hits and misses.
func WithCacheMetrics(m *observability.Metrics) CacheOption {
	return func(c *CachedProvider) { c.metrics = m }
}

// NewCachedProvider wraps inner with a cache kept in store under
// "words:<provider>:<language>:<blake3>".
func NewCachedProvider(inner Provider, store redis.Store, ttl time.Duration, opts ...CacheOption) *CachedProvider {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c := &CachedProvider{
		inner: inner,
		store: redis.NewTypedStore[Response](store, cachePrefix),
		ttl:   ttl,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedProvider) Name() string { return c.inner.Name() }

func (c *CachedProvider) IsAvailable(ctx context.Context) bool { return c.inner.IsAvailable(ctx) }

func (c *CachedProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	key := CacheKey(c.inner.Name(), req.Language, req.Audio)
	log := c.log.WithContext(ctx).WithComponent("word-cache")

	cached, err := c.store.Load(ctx, key)
	if err != nil {
		log.WithError(err).Warn("word cache lookup failed, calling provider")
	}
	hit := cached != nil && len(cached.Words) > 0
	c.metrics.RecordCacheLookup(ctx, hit)
	observability.SetSpanAttribute(ctx, observability.AttrCacheHit, hit)
	if hit {
		cached.Cached = true
		log.Debug("word cache hit", logger.Fields("words", len(cached.Words)))
		return cached, nil
	}

	resp, err := c.inner.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Words) > 0 {
		if err := c.store.Save(ctx, key, resp, c.ttl); err != nil {
			log.WithError(err).Warn("word cache store failed")
		}
	}
	return resp, nil
}
