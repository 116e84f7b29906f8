package common

import (
	"fmt"
	"strings"
)

type Side int

// The zero value is not a valid side.
const (
	Buy Side = iota + 1
	Sell
)

var sideName = map[Side]string{
	Buy:  "BUY",
	Sell: "SELL",
}

func (s Side) String() string {
	if name, ok := sideName[s]; ok {
		return name
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Opposite returns the other side of the book. Invalid sides are returned as-is.
func (s Side) Opposite() Side {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	}
	return s
}

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// RecordKind names which of the two record types a value refers to.
type RecordKind int

const (
	TradeRecord RecordKind = iota
	OrderRecord
)

func (k RecordKind) String() string {
	switch k {
	case TradeRecord:
		return "trade"
	case OrderRecord:
		return "order"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}
