package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/common"
	"golang-stock-portfolio/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// StockCache stores resolved market data stocks by symbol.
type StockCache interface {
	Get(ctx context.Context, symbol string) (*entity.Stock, bool)
	Set(ctx context.Context, symbol string, stock *entity.Stock)
}

// NewMemoryStockCache keeps entries in process memory.
func NewMemoryStockCache(ttl time.Duration) StockCache {
	return &memoryStockCache{cache: cache.New(ttl, 2*ttl)}
}

type memoryStockCache struct {
	cache *cache.Cache
}

func (c *memoryStockCache) Get(_ context.Context, symbol string) (*entity.Stock, bool) {
	v, ok := c.cache.Get(cacheKey(symbol))
	if !ok {
		return nil, false
	}
	stock := v.(entity.Stock)
	return &stock, true
}

func (c *memoryStockCache) Set(_ context.Context, symbol string, stock *entity.Stock) {
	c.cache.SetDefault(cacheKey(symbol), *stock)
}

// NewRedisStockCache keeps entries in Redis as JSON so they are shared by every instance.
func NewRedisStockCache(client *redis.Client, ttl time.Duration, log *logger.Logger) StockCache {
	return &redisStockCache{client: client, ttl: ttl, log: log}
}

type redisStockCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func (c *redisStockCache) Get(ctx context.Context, symbol string) (*entity.Stock, bool) {
	raw, err := c.client.Get(ctx, cacheKey(symbol)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.ErrorContext(ctx, "Failed to read market data cache", logger.ErrorField(err), logger.StringField("symbol", symbol))
		}
		return nil, false
	}

	var stock entity.Stock
	if err := json.Unmarshal(raw, &stock); err != nil {
		c.log.ErrorContext(ctx, "Failed to decode market data cache entry", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, false
	}
	return &stock, true
}

func (c *redisStockCache) Set(ctx context.Context, symbol string, stock *entity.Stock) {
	raw, err := json.Marshal(stock)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to encode market data cache entry", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return
	}
	if err := c.client.Set(ctx, cacheKey(symbol), raw, c.ttl).Err(); err != nil {
		c.log.ErrorContext(ctx, "Failed to write market data cache", logger.ErrorField(err), logger.StringField("symbol", symbol))
	}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf(common.RedisKeyMarketDataProfile, strings.ToUpper(symbol))
}

// NewCachedMarketDataRepository serves repeated lookups from cache. Only
// successful lookups are cached; misses always go to the API.
func NewCachedMarketDataRepository(next MarketDataRepository, cache StockCache) MarketDataRepository {
	return &cachedMarketDataRepository{next: next, cache: cache}
}

type cachedMarketDataRepository struct {
	next  MarketDataRepository
	cache StockCache
}

func (r *cachedMarketDataRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	if stock, ok := r.cache.Get(ctx, symbol); ok {
		return stock, nil
	}

	stock, err := r.next.GetStockBySymbol(ctx, symbol)
	if err != nil || stock == nil {
		return stock, err
	}

	r.cache.Set(ctx, symbol, stock)
	return stock, nil
}
