package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-portfolio/internal/api/dto"
	"golang-stock-portfolio/internal/api/repository"
	"golang-stock-portfolio/pkg/logger"
	"golang-stock-portfolio/pkg/telegram"
	"golang-stock-portfolio/pkg/utils"

	"github.com/robfig/cron/v3"
)

// PriceRefreshService updates stored quotes from the market data API.
type PriceRefreshService interface {
	RefreshAll(ctx context.Context) (*dto.PriceRefreshResult, error)
	Start(ctx context.Context, expression string) error
}

// NewPriceRefreshService creates a new price refresh service. marketDataRepo
// should not be cached, otherwise refreshed prices can be stale.
func NewPriceRefreshService(stockRepo repository.StockRepository, marketDataRepo repository.MarketDataRepository, notifier telegram.Notifier, logger *logger.Logger) PriceRefreshService {
	return &priceRefreshService{
		stockRepo:      stockRepo,
		marketDataRepo: marketDataRepo,
		notifier:       notifier,
		logger:         logger,
		cronParser:     cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

type priceRefreshService struct {
	stockRepo      repository.StockRepository
	marketDataRepo repository.MarketDataRepository
	notifier       telegram.Notifier
	logger         *logger.Logger
	cronParser     cron.Parser
}

// RefreshAll overwrites price, last dividend and market cap of every stored
// stock with fresh market data. Stocks the API has no data for are skipped;
// a failed update does not stop the run.
func (s *priceRefreshService) RefreshAll(ctx context.Context) (*dto.PriceRefreshResult, error) {
	startedAt := time.Now()

	stocks, err := s.stockRepo.FindAll(ctx, dto.GetStocksParam{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list stocks for price refresh", logger.ErrorField(err))
		return nil, err
	}

	result := &dto.PriceRefreshResult{
		Total:   len(stocks),
		Skipped: []string{},
		Failed:  []string{},
	}
	for i := range stocks {
		stock := &stocks[i]

		fresh, err := s.marketDataRepo.GetStockBySymbol(ctx, stock.Symbol)
		if err != nil {
			// only returned once ctx is done
			return nil, err
		}
		if fresh == nil {
			result.Skipped = append(result.Skipped, stock.Symbol)
			continue
		}

		stock.Price = fresh.Price
		stock.LastDiv = fresh.LastDiv
		stock.MarketCap = fresh.MarketCap
		if err := s.stockRepo.Update(ctx, stock); err != nil {
			s.logger.ErrorContext(ctx, "Failed to update stock price", logger.ErrorField(err), logger.StringField("symbol", stock.Symbol))
			result.Failed = append(result.Failed, stock.Symbol)
			continue
		}
		result.Updated++
	}

	s.logger.InfoContext(ctx, "Price refresh finished",
		logger.IntField("total", result.Total),
		logger.IntField("updated", result.Updated),
		logger.IntField("skipped", len(result.Skipped)),
		logger.IntField("failed", len(result.Failed)))

	msg := telegram.FormatPriceRefreshSummary(telegram.PriceRefreshSummary{
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Total:     result.Total,
		Updated:   result.Updated,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	})
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to send price refresh summary", logger.ErrorField(err))
	}
	return result, nil
}

// Start schedules RefreshAll with a standard five-field cron expression. The
// schedule stops when ctx is cancelled.
func (s *priceRefreshService) Start(ctx context.Context, expression string) error {
	schedule, err := s.cronParser.Parse(expression)
	if err != nil {
		return fmt.Errorf("invalid price refresh cron %q: %w", expression, err)
	}

	c := cron.New(cron.WithParser(s.cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	c.Schedule(schedule, cron.FuncJob(func() {
		if _, err := s.RefreshAll(ctx); err != nil {
			s.logger.Error("Scheduled price refresh failed", logger.ErrorField(err))
		}
	}))
	c.Start()
	s.logger.Info("Price refresh scheduled", logger.StringField("cron", expression), logger.Field("next_run", schedule.Next(time.Now())))

	utils.GoSafe(s.logger, func() {
		<-ctx.Done()
		<-c.Stop().Done()
		s.logger.Info("Price refresh scheduler stopped")
	})
	return nil
}
