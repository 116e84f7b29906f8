package surveillance

import (
	"heimdall/internal/common"

	"github.com/rs/zerolog"
)

// Stats summarises a single scan.
type Stats struct {
	Trades      int // Trades examined
	Orders      int // Orders available to each trade
	Comparisons int // (trade, order) pairs evaluated
	Flags       int // Total flags emitted, duplicates included
	TradeFlags  int
	OrderFlags  int
}

// Reporter receives diagnostic events while a scan runs. It observes the scan and
// never affects its result. Implementations used with a parallel scan must be safe for
// concurrent use; TradeExamined and Flagged may then arrive out of input order.
type Reporter interface {
	TradeExamined(trade *common.Trade, orders int)
	Flagged(flag common.Flag)
	Completed(stats Stats)
}

type NopReporter struct{}

func (NopReporter) TradeExamined(*common.Trade, int) {}
func (NopReporter) Flagged(common.Flag)              {}
func (NopReporter) Completed(Stats)                  {}

// LogReporter traces every trade and flag at debug level and the final tally at info.
type LogReporter struct {
	logger zerolog.Logger
}

func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) TradeExamined(trade *common.Trade, orders int) {
	r.logger.Debug().
		Int64("trade", trade.ID).
		Stringer("side", trade.Side).
		Str("price", trade.Price.String()).
		Time("ts", trade.Timestamp).
		Int("orders", orders).
		Msg("examining trade")
}

func (r *LogReporter) Flagged(flag common.Flag) {
	r.logger.Debug().
		Stringer("kind", flag.Kind).
		Stringer("rule", flag.Rule).
		Int64("id", flag.ID()).
		Int64("against", flag.Against).
		Str("price", flag.Price().String()).
		Msg("suspicious item")
}

func (r *LogReporter) Completed(stats Stats) {
	r.logger.Info().
		Int("trades", stats.Trades).
		Int("orders", stats.Orders).
		Int("comparisons", stats.Comparisons).
		Int("trade_flags", stats.TradeFlags).
		Int("order_flags", stats.OrderFlags).
		Int("flags", stats.Flags).
		Msg("suspicious items found")
}
