package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/vytor/wordflash/internal/config"
	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/dictionary/providers"
	"github.com/vytor/wordflash/internal/grading"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/openai"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/redis"
	"github.com/vytor/wordflash/internal/repository/sqlite"
)

// newDefinitionStore returns the persistent definition tier and its closer.
func newDefinitionStore(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (repository.DefinitionCacheRepository, func(), error) {
	if cfg.DefinitionStore != config.StoreRedis {
		return sqlite.NewDefinitionRepository(sqlDB), func() {}, nil
	}

	rdb, err := redis.Connect(ctx, redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return nil, nil, err
	}
	logger.FromContext(ctx).Info("using redis definition store at %s", cfg.RedisAddr)
	// Keys outlive the TTL so stale entries behave like sqlite rows awaiting purge.
	store := redis.NewDefinitionRepository(rdb, cfg.RedisPrefix, 2*cfg.CacheTTL)
	return store, func() { _ = rdb.Close() }, nil
}

// newGenerator returns nil when no API key is configured.
func newGenerator(cfg config.Config) openai.JSONGenerator {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	client, err := openai.New(cfg.OpenAIAPIKey,
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithModel(cfg.OpenAIModel),
		openai.WithRatePerMinute(cfg.OpenAIRatePerMinute),
	)
	if err != nil {
		logger.Warn("openai disabled: %v", err)
		return nil
	}
	return client
}

func newGrader(gen openai.JSONGenerator) grading.Grader {
	if gen == nil {
		logger.Info("no OPENAI_API_KEY; spoken answers use word-overlap grading")
		return grading.ExactGrader{}
	}
	return grading.NewLLMGrader(gen)
}

// newProviders builds the chain members in PROVIDERS order.
func newProviders(cfg config.Config, gen openai.JSONGenerator) []dictionary.Provider {
	hc := &http.Client{Timeout: cfg.ProviderTimeout}
	var out []dictionary.Provider
	for _, name := range cfg.Providers {
		switch name {
		case config.ProviderDictionaryAPI:
			out = append(out, providers.NewDictionaryAPI(cfg.DictionaryAPIURL, hc))
		case config.ProviderWiktionary:
			out = append(out, providers.NewWiktionary(cfg.WiktionaryURL, hc))
		case config.ProviderCambridge:
			out = append(out, providers.NewCambridge(cfg.CambridgeURL, hc))
		case config.ProviderOpenAI:
			if gen == nil {
				logger.Warn("provider %s listed but OPENAI_API_KEY is empty; skipping", name)
				continue
			}
			out = append(out, providers.NewGenerative(gen))
		}
	}
	return out
}

func newResolver(cfg config.Config, store dictionary.Store, gen openai.JSONGenerator) *dictionary.Resolver {
	chain := dictionary.NewChain(newProviders(cfg, gen),
		dictionary.WithProviderTimeout(cfg.ProviderTimeout),
		dictionary.WithBackoff(cfg.ProviderBackoff),
	)
	logger.Info("provider chain: %v", chain.Names())

	memory := dictionary.NewMemoryCache(cfg.MemoryCacheSize, cfg.CacheTTL)
	return dictionary.NewResolver(memory, store, chain, dictionary.WithTTL(cfg.CacheTTL))
}
