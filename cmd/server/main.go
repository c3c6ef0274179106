package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ndmitrieva/lob-engine/internal/adapter/cache"
	"github.com/ndmitrieva/lob-engine/internal/api"
	"github.com/ndmitrieva/lob-engine/internal/config"
	"github.com/ndmitrieva/lob-engine/internal/core"
	"github.com/ndmitrieva/lob-engine/internal/domain"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	scale := domain.NewScaleWithMax(cfg.Book.DecimalScale, decimal.NewFromInt(cfg.Book.MaxMagnitude))

	opts := []core.Option{}
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedisCache(
			cfg.Cache.RedisAddr,
			cfg.Cache.RedisPassword,
			cfg.Cache.RedisDB,
			cfg.Cache.TTL,
		)
		opts = append(opts, core.WithCache(redisCache))
		logger.Info().Str("addr", cfg.Cache.RedisAddr).Msg("depth cache enabled")
	}

	book := core.NewBook(cfg.Book.Symbol, scale, opts...)
	if cfg.Book.Demo {
		seedDemoLiquidity(book, logger)
	}

	server := api.NewHTTPServer(book, logger)
	if err := server.Run(cfg.Server.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Logging.Pretty {
		return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log.Logger
}

// seedDemoLiquidity fills the book with a small ladder on both sides and
// runs one market order through it, so the read-only endpoints have
// something to show when LOB_BOOK_DEMO=true.
func seedDemoLiquidity(book *core.Book, logger zerolog.Logger) {
	ctx := context.Background()

	type level struct {
		side  domain.Side
		price string
		qty   string
	}
	levels := []level{
		{domain.Buy, "99.50", "12"},
		{domain.Buy, "99.00", "25"},
		{domain.Buy, "98.50", "40"},
		{domain.Sell, "100.50", "10"},
		{domain.Sell, "101.00", "30"},
		{domain.Sell, "101.50", "55"},
	}
	for _, lv := range levels {
		_, err := book.Place(ctx, domain.OrderParams{
			Side:     lv.side,
			Type:     domain.Limit,
			Price:    decimal.RequireFromString(lv.price),
			Quantity: decimal.RequireFromString(lv.qty),
		})
		if err != nil {
			logger.Error().Err(err).Str("price", lv.price).Msg("demo placement failed")
		}
	}

	res, err := book.Execute(ctx, domain.OrderParams{
		Side:     domain.Buy,
		Type:     domain.Market,
		Quantity: decimal.RequireFromString("15"),
	})
	if err != nil {
		logger.Error().Err(err).Msg("demo market order failed")
		return
	}
	logger.Info().
		Int("orders_matched", res.OrdersMatched).
		Int("limits_matched", res.LimitsMatched).
		Str("avg_price", res.AveragePrice().String()).
		Msg("demo market order executed")
}
