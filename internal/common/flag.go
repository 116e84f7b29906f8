package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Rule identifies the heuristic that raised a flag.
type Rule int

const (
	// WindowRule fires on a trade preceded by an opposite-side order inside the
	// look-back window.
	WindowRule Rule = iota
	// PriceRule fires on an opposite-side order priced inside the band around a trade.
	PriceRule
)

func (r Rule) String() string {
	switch r {
	case WindowRule:
		return "window"
	case PriceRule:
		return "price"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Flag is a single suspicious item. Exactly one of Trade or Order is set, matching
// Kind, and it points at the caller's original record.
type Flag struct {
	Kind    RecordKind
	Rule    Rule
	Trade   *Trade
	Order   *Order
	Against int64 // ID of the record on the other side of the comparison
}

func TradeFlag(trade *Trade, against int64) Flag {
	return Flag{Kind: TradeRecord, Rule: WindowRule, Trade: trade, Against: against}
}

func OrderFlag(order *Order, against int64) Flag {
	return Flag{Kind: OrderRecord, Rule: PriceRule, Order: order, Against: against}
}

func (f Flag) ID() int64 {
	if f.Kind == TradeRecord {
		return f.Trade.ID
	}
	return f.Order.ID
}

func (f Flag) Side() Side {
	if f.Kind == TradeRecord {
		return f.Trade.Side
	}
	return f.Order.Side
}

func (f Flag) Price() decimal.Decimal {
	if f.Kind == TradeRecord {
		return f.Trade.Price
	}
	return f.Order.Price
}

func (f Flag) Timestamp() time.Time {
	if f.Kind == TradeRecord {
		return f.Trade.Timestamp
	}
	return f.Order.Timestamp
}

func (f Flag) String() string {
	var item string
	if f.Kind == TradeRecord {
		item = f.Trade.String()
	} else {
		item = f.Order.String()
	}
	return fmt.Sprintf("[%s] %s (against %d)", f.Rule, item, f.Against)
}
