package surveillance

import (
	"context"
	"errors"
	"time"

	"heimdall/internal/common"
	"heimdall/internal/utils"

	"github.com/shopspring/decimal"
	tomb "gopkg.in/tomb.v2"
)

const DefaultWindow = 30 * time.Minute

var (
	DefaultBand = decimal.RequireFromString("0.10")

	ErrImproperConversion = errors.New("improper type conversion")
)

// Options configures a Scanner.
type Options struct {
	Window  time.Duration   // Look-back window for the window rule
	Band    decimal.Decimal // Fractional price band for the price rule
	Workers int             // Trades evaluated concurrently by ScanContext
}

func DefaultOptions() *Options {
	return &Options{
		Window:  DefaultWindow,
		Band:    DefaultBand,
		Workers: 1,
	}
}

// Detector finds suspicious trades and orders.
type Detector interface {
	Scan(trades []common.Trade, orders []common.Order) []common.Flag
}

// Scanner cross-references executed trades against resting orders with two rules:
//
//  1. A trade is flagged when an opposite-side order sits strictly inside the window
//     before it. The first such order ends the trade's scan.
//  2. Otherwise an opposite-side order is flagged when its price is within the band of
//     the trade price: at most price*(1+band) against a buy, at least price*(1-band)
//     against a sell. Both bounds are inclusive.
//
// Output is in encounter order and is not de-duplicated.
type Scanner struct {
	window   time.Duration
	upper    decimal.Decimal // 1 + band
	lower    decimal.Decimal // 1 - band
	workers  int
	reporter Reporter
}

var _ Detector = (*Scanner)(nil)

// New creates a scanner. A nil opts uses DefaultOptions.
func New(opts *Options) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	one := decimal.NewFromInt(1)
	return &Scanner{
		window:   opts.Window,
		upper:    one.Add(opts.Band),
		lower:    one.Sub(opts.Band),
		workers:  max(opts.Workers, 1),
		reporter: NopReporter{},
	}
}

// SetReporter installs the diagnostic sink. A nil reporter disables reporting.
func (s *Scanner) SetReporter(reporter Reporter) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	s.reporter = reporter
}

// Scan runs both rules over every (trade, order) pair, trades in input order and orders
// in input order within each trade. Flags reference elements of the input slices, which
// are only read.
func (s *Scanner) Scan(trades []common.Trade, orders []common.Order) []common.Flag {
	flags := make([]common.Flag, 0)
	comparisons := 0
	for i := range trades {
		found, n := s.scanTrade(&trades[i], orders)
		flags = append(flags, found...)
		comparisons += n
	}
	s.complete(len(trades), len(orders), comparisons, flags)
	return flags
}

// ScanContext produces exactly the output of Scan, evaluating trades on a pool of
// workers. Each trade's flags are collected separately and concatenated in trade order.
// If ctx is cancelled first, no flags are returned.
func (s *Scanner) ScanContext(ctx context.Context, trades []common.Trade, orders []common.Order) ([]common.Flag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.workers <= 1 || len(trades) <= 1 {
		return s.scanSequential(ctx, trades, orders)
	}

	slots := make([][]common.Flag, len(trades))
	counts := make([]int, len(trades))

	t, _ := tomb.WithContext(ctx)
	pool := utils.NewWorkerPool(uint(min(s.workers, len(trades))))
	pool.Setup(t, func(t *tomb.Tomb, task any) error {
		i, ok := task.(int)
		if !ok {
			return ErrImproperConversion
		}
		// Each slot is written by exactly one worker.
		slots[i], counts[i] = s.scanTrade(&trades[i], orders)
		return nil
	})
	t.Go(func() error {
		defer pool.Close()
		for i := range trades {
			if !pool.AddTask(t, i) {
				return nil
			}
		}
		return nil
	})
	if err := t.Wait(); err != nil {
		return nil, err
	}
	// The pool may have drained just as the context was cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flags := make([]common.Flag, 0)
	comparisons := 0
	for i := range slots {
		flags = append(flags, slots[i]...)
		comparisons += counts[i]
	}
	s.complete(len(trades), len(orders), comparisons, flags)
	return flags, nil
}

func (s *Scanner) scanSequential(ctx context.Context, trades []common.Trade, orders []common.Order) ([]common.Flag, error) {
	flags := make([]common.Flag, 0)
	comparisons := 0
	for i := range trades {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, n := s.scanTrade(&trades[i], orders)
		flags = append(flags, found...)
		comparisons += n
	}
	s.complete(len(trades), len(orders), comparisons, flags)
	return flags, nil
}

// scanTrade evaluates one trade against every order and returns its flags together
// with the number of pairs compared.
func (s *Scanner) scanTrade(trade *common.Trade, orders []common.Order) ([]common.Flag, int) {
	s.reporter.TradeExamined(trade, len(orders))

	var flags []common.Flag
	from := trade.Timestamp.Add(-s.window)
	ceiling := trade.Price.Mul(s.upper)
	floor := trade.Price.Mul(s.lower)

	comparisons := 0
	for i := range orders {
		order := &orders[i]
		comparisons++

		// An order at exactly trade time minus the window is outside it.
		if order.Side != trade.Side &&
			order.Timestamp.After(from) &&
			order.Timestamp.Before(trade.Timestamp) {
			flags = s.emit(flags, common.TradeFlag(trade, order.ID))
			break
		}

		switch {
		case trade.Side == common.Buy && order.Side == common.Sell && order.Price.LessThanOrEqual(ceiling):
			flags = s.emit(flags, common.OrderFlag(order, trade.ID))
		case trade.Side == common.Sell && order.Side == common.Buy && order.Price.GreaterThanOrEqual(floor):
			flags = s.emit(flags, common.OrderFlag(order, trade.ID))
		}
	}
	return flags, comparisons
}

func (s *Scanner) emit(flags []common.Flag, flag common.Flag) []common.Flag {
	s.reporter.Flagged(flag)
	return append(flags, flag)
}

func (s *Scanner) complete(trades, orders, comparisons int, flags []common.Flag) {
	stats := Stats{
		Trades:      trades,
		Orders:      orders,
		Comparisons: comparisons,
		Flags:       len(flags),
	}
	for _, f := range flags {
		if f.Kind == common.TradeRecord {
			stats.TradeFlags++
		} else {
			stats.OrderFlags++
		}
	}
	s.reporter.Completed(stats)
}
