// Package report condenses a raw flag sequence into a per-record summary for review.
// The raw sequence is kept as produced, duplicates included.
package report

import (
	"heimdall/internal/common"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/btree"
)

// Entry is one distinct flagged record.
type Entry struct {
	ID      int64
	Hits    int     // Number of flags raised against the record
	Against []int64 // Counterpart IDs, in encounter order
	Rules   []common.Rule

	seq int // First encounter position; orders records that share an ID
}

type Entries = btree.BTreeG[*Entry]

// index keys entries by record identity and keeps them sorted by ID.
type index[T any] struct {
	tree  *Entries
	byRef map[*T]*Entry
}

func newIndex[T any]() *index[T] {
	return &index[T]{
		tree: btree.NewBTreeG(func(a, b *Entry) bool {
			if a.ID != b.ID {
				return a.ID < b.ID
			}
			return a.seq < b.seq
		}),
		byRef: make(map[*T]*Entry),
	}
}

func (idx *index[T]) add(ref *T, id int64, seq int, flag common.Flag) {
	entry, ok := idx.byRef[ref]
	if !ok {
		entry = &Entry{ID: id, seq: seq}
		idx.byRef[ref] = entry
		idx.tree.Set(entry)
	}
	entry.Hits++
	entry.Against = append(entry.Against, flag.Against)
	if !containsRule(entry.Rules, flag.Rule) {
		entry.Rules = append(entry.Rules, flag.Rule)
	}
}

func (idx *index[T]) entries() []Entry {
	items := idx.tree.Items()
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

func containsRule(rules []common.Rule, rule common.Rule) bool {
	for _, r := range rules {
		if r == rule {
			return true
		}
	}
	return false
}

// Report is the outcome of a single scan run.
type Report struct {
	RunID  uuid.UUID
	Flags  []common.Flag // As produced by the scanner
	Trades []Entry       // Distinct flagged trades, by ID
	Orders []Entry       // Distinct flagged orders, by ID
}

func NewRunID() uuid.UUID {
	return uuid.New()
}

// Build groups flags by the record they reference. Two flags count as the same record
// only when they point at the same element, so distinct records sharing an ID stay apart.
func Build(runID uuid.UUID, flags []common.Flag) *Report {
	trades := newIndex[common.Trade]()
	orders := newIndex[common.Order]()
	for i, flag := range flags {
		switch flag.Kind {
		case common.TradeRecord:
			trades.add(flag.Trade, flag.Trade.ID, i, flag)
		case common.OrderRecord:
			orders.add(flag.Order, flag.Order.ID, i, flag)
		}
	}
	return &Report{
		RunID:  runID,
		Flags:  flags,
		Trades: trades.entries(),
		Orders: orders.entries(),
	}
}

// Duplicates is the number of flags beyond the first for each record.
func (r *Report) Duplicates() int {
	return len(r.Flags) - len(r.Trades) - len(r.Orders)
}

func (r *Report) Log(logger zerolog.Logger) {
	logger = logger.With().Str("run", r.RunID.String()).Logger()
	logger.Info().
		Int("flags", len(r.Flags)).
		Int("trades", len(r.Trades)).
		Int("orders", len(r.Orders)).
		Int("duplicates", r.Duplicates()).
		Msg("scan report")
	for _, e := range r.Trades {
		logEntry(logger, common.TradeRecord, e)
	}
	for _, e := range r.Orders {
		logEntry(logger, common.OrderRecord, e)
	}
}

func logEntry(logger zerolog.Logger, kind common.RecordKind, e Entry) {
	rules := make([]string, len(e.Rules))
	for i, r := range e.Rules {
		rules[i] = r.String()
	}
	logger.Info().
		Stringer("kind", kind).
		Int64("id", e.ID).
		Int("hits", e.Hits).
		Ints64("against", e.Against).
		Strs("rules", rules).
		Msg("flagged")
}
