package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/mapper"
	"golang-stock-portfolio/internal/entity"
	"golang-stock-portfolio/pkg/config"
	"golang-stock-portfolio/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MarketDataRepository resolves stocks from the third-party market data API.
type MarketDataRepository interface {
	// GetStockBySymbol returns nil, nil when the symbol cannot be resolved for
	// any reason (unknown symbol, API down, bad payload). An error is only
	// returned when ctx is done.
	GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
}

type marketDataRepository struct {
	cfg            config.MarketData
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewMarketDataRepository creates a market data client sharing one request limiter.
func NewMarketDataRepository(cfg config.MarketData, log *logger.Logger) MarketDataRepository {
	limit := rate.Inf
	if cfg.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MaxRequestPerMinute))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &marketDataRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *marketDataRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	endpoint := fmt.Sprintf("%s/profile/%s", strings.TrimRight(r.cfg.BaseURL, "/"), url.PathEscape(symbol))

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}

	var profiles []dto.MarketDataProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode market data profile", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, nil
	}

	for i := range profiles {
		if profiles[i].Symbol == "" {
			continue
		}
		r.log.DebugContext(ctx, "Market data profile found", logger.StringField("symbol", profiles[i].Symbol))
		return mapper.StockFromMarketData(&profiles[i]), nil
	}

	r.log.DebugContext(ctx, "Market data profile not found", logger.StringField("symbol", symbol))
	return nil, nil
}

// sendRequest performs a rate limited GET. The API key is added here so it
// never reaches the logs.
func (r *marketDataRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", endpoint),
		zap.Int("max_request_per_minute", r.cfg.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	q := req.URL.Query()
	q.Set("apikey", r.cfg.APIKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to market data API", fields...)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from market data API", fields...)
		return nil, fmt.Errorf("market data API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from market data API", fields...)
		return nil, err
	}

	return body, nil
}
