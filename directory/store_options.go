package directory

import (
	"github.com/goliatone/go-meetings/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
)

// StoreOption configures store construction.
type StoreOption func(*StoreOptions)

// StoreOptions captures optional behavior for meeting persistence.
type StoreOptions struct {
	CacheEnabled bool
	CacheConfig  *cache.Config
}

// WithCache toggles the repository cache decorator.
func WithCache(enabled bool) StoreOption {
	return func(opts *StoreOptions) {
		if opts == nil {
			return
		}
		opts.CacheEnabled = enabled
	}
}

// WithCacheConfig supplies the cache configuration to use when caching is enabled.
func WithCacheConfig(cfg cache.Config) StoreOption {
	return func(opts *StoreOptions) {
		if opts == nil {
			return
		}
		opts.CacheConfig = &cfg
	}
}

func applyStoreOptions(options []StoreOption) StoreOptions {
	var opts StoreOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return opts
}

// maybeWrapCache decorates both repositories with the shared cache
// service when caching is requested. Repositories that already carry
// the decorator are left untouched.
func maybeWrapCache(
	meetings repository.Repository[*MeetingRecord],
	messages repository.Repository[*MessageRecord],
	opts StoreOptions,
) (repository.Repository[*MeetingRecord], repository.Repository[*MessageRecord], error) {
	if !opts.CacheEnabled {
		return meetings, messages, nil
	}

	cacheCfg := cache.DefaultConfig()
	if opts.CacheConfig != nil {
		cacheCfg = *opts.CacheConfig
	}
	cacheService, err := cache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, nil, types.NewServiceError("repository cache", err)
	}
	keySerializer := cache.NewDefaultKeySerializer()

	if _, ok := meetings.(*repositorycache.CachedRepository[*MeetingRecord]); !ok {
		meetings = repositorycache.New(meetings, cacheService, keySerializer)
	}
	if _, ok := messages.(*repositorycache.CachedRepository[*MessageRecord]); !ok {
		messages = repositorycache.New(messages, cacheService, keySerializer)
	}
	return meetings, messages, nil
}
