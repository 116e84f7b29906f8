// Package feed turns a records document into validated trades and orders.
//
// A document is YAML, or JSON since JSON is a subset of YAML:
//
//	trades:
//	  - {id: 1, price: "100", quantity: 10, side: buy, timestamp: 2024-12-05T14:40:00Z}
//	orders:
//	  - {id: 1, price: 109, quantity: 10, side: sell, timestamp: 2024-12-05T14:30:00Z}
//
// Every record must carry price, side and timestamp. A document with any invalid
// record is rejected as a whole.
package feed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"heimdall/internal/common"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Batch is a validated set of records ready to scan.
type Batch struct {
	Trades []common.Trade
	Orders []common.Order
}

type document struct {
	Trades []record `yaml:"trades"`
	Orders []record `yaml:"orders"`
}

type record struct {
	ID        int64   `yaml:"id"`
	Price     *amount `yaml:"price"`
	Quantity  *amount `yaml:"quantity"`
	Side      *side   `yaml:"side"`
	Timestamp *stamp  `yaml:"timestamp"`
}

type amount struct{ decimal.Decimal }

func (a *amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: decimal %q: %w", value.Line, value.Value, err)
	}
	a.Decimal = d
	return nil
}

type side struct{ common.Side }

func (s *side) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := common.ParseSide(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	s.Side = parsed
	return nil
}

type stamp struct{ time.Time }

func (s *stamp) UnmarshalYAML(value *yaml.Node) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value.Value); err == nil {
			s.Time = t
			return nil
		}
	}
	return fmt.Errorf("line %d: timestamp %q: unsupported format", value.Line, value.Value)
}

// Load reads and validates a records document from disk.
func Load(path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer file.Close()

	batch, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

// Decode reads and validates a records document. An empty document is an empty batch.
func Decode(r io.Reader) (*Batch, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	batch := &Batch{
		Trades: make([]common.Trade, 0, len(doc.Trades)),
		Orders: make([]common.Order, 0, len(doc.Orders)),
	}
	for i, rec := range doc.Trades {
		if err := rec.check(); err != nil {
			return nil, &common.RecordError{Kind: common.TradeRecord, Index: i, ID: rec.ID, Err: err}
		}
		batch.Trades = append(batch.Trades, common.Trade{
			ID:        rec.ID,
			Price:     rec.Price.Decimal,
			Quantity:  rec.quantity(),
			Side:      rec.Side.Side,
			Timestamp: rec.Timestamp.Time,
		})
	}
	for i, rec := range doc.Orders {
		if err := rec.check(); err != nil {
			return nil, &common.RecordError{Kind: common.OrderRecord, Index: i, ID: rec.ID, Err: err}
		}
		batch.Orders = append(batch.Orders, common.Order{
			ID:        rec.ID,
			Price:     rec.Price.Decimal,
			Quantity:  rec.quantity(),
			Side:      rec.Side.Side,
			Timestamp: rec.Timestamp.Time,
		})
	}

	if err := common.ValidateTrades(batch.Trades); err != nil {
		return nil, err
	}
	if err := common.ValidateOrders(batch.Orders); err != nil {
		return nil, err
	}
	return batch, nil
}

// check rejects records with required fields absent from the document.
func (r record) check() error {
	switch {
	case r.Price == nil:
		return common.ErrMissingPrice
	case r.Side == nil:
		return common.ErrMissingSide
	case r.Timestamp == nil:
		return common.ErrMissingTimestamp
	}
	return nil
}

func (r record) quantity() decimal.Decimal {
	if r.Quantity == nil {
		return decimal.Zero
	}
	return r.Quantity.Decimal
}
