package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an executed transaction as reported by the execution system.
type Trade struct {
	ID        int64           // Upstream trade identifier
	Price     decimal.Decimal // Execution price
	Quantity  decimal.Decimal // Executed volume
	Side      Side            // Aggressor side
	Timestamp time.Time       // Time of execution
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"trade id=%d side=%v price=%s qty=%s ts=%s",
		t.ID,
		t.Side,
		t.Price.String(),
		t.Quantity.String(),
		t.Timestamp.Format(time.RFC3339),
	)
}

// Validate reports the first field that would make the record unusable for a scan.
func (t Trade) Validate() error {
	return validateRecord(t.Price, t.Quantity, t.Side, t.Timestamp)
}

func validateRecord(price, quantity decimal.Decimal, side Side, ts time.Time) error {
	if ts.IsZero() {
		return ErrMissingTimestamp
	}
	if !side.Valid() {
		return ErrInvalidSide
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateTrades checks every trade and returns the first failure as a *RecordError.
func ValidateTrades(trades []Trade) error {
	for i, t := range trades {
		if err := t.Validate(); err != nil {
			return &RecordError{Kind: TradeRecord, Index: i, ID: t.ID, Err: err}
		}
	}
	return nil
}
