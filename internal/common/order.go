package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a resting order taken from an order book snapshot.
type Order struct {
	ID        int64           // Upstream order identifier
	Price     decimal.Decimal // Limit price
	Quantity  decimal.Decimal // Resting volume
	Side      Side            // Order side
	Timestamp time.Time       // Time the order entered the book
}

func (o Order) String() string {
	return fmt.Sprintf(
		"order id=%d side=%v price=%s qty=%s ts=%s",
		o.ID,
		o.Side,
		o.Price.String(),
		o.Quantity.String(),
		o.Timestamp.Format(time.RFC3339),
	)
}

func (o Order) Validate() error {
	return validateRecord(o.Price, o.Quantity, o.Side, o.Timestamp)
}

// ValidateOrders checks every order and returns the first failure as a *RecordError.
func ValidateOrders(orders []Order) error {
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return &RecordError{Kind: OrderRecord, Index: i, ID: o.ID, Err: err}
		}
	}
	return nil
}
