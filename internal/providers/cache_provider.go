package providers

import (
	"protostats/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider stores zstd-compressed payloads in freecache. Entries expire
// one second after the snapshot refresh interval so a fresh analysis is
// recomputed at most once per refresh cycle.
type CacheProvider struct {
	cache      *freecache.Cache
	compressor CompressorInterface
	ttl        int
}

func NewCacheProvider(conf *structures.Config, compressor CompressorInterface, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Snapshot.RefreshInterval.Seconds()), 1) + 1

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache:      freecache.NewCache(sizeBytes),
		compressor: compressor,
		ttl:        ttl,
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache — it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	plain, err := c.compressor.Decompress(val)
	if err != nil {
		return nil, false
	}
	return plain, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	packed, err := c.compressor.Compress(value)
	if err != nil {
		return
	}
	_ = c.cache.Set(unsafeStringToBytes(key), packed, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
