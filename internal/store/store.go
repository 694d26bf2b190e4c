// Package store holds the in-memory ledger: payment links, transactions,
// virtual accounts, yield earnings and widgets. It is the single source of
// truth for the process lifetime; derived values (link counters, account
// balances) are recomputed from the transaction set on every write rather
// than incremented, so they cannot drift from the records that back them.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/squadgrid/payment-dashboard/internal/models"
)

const defaultWidgetOrigin = "https://squadgrid.xyz"

// Store is the in-memory ledger. All access is serialized through a single
// RWMutex: there is exactly one logical writer per request and the HTTP layer
// above is concurrent, so every mutation takes the write lock.
type Store struct {
	mu sync.RWMutex

	links         map[string]*models.PaymentLink    // keyed by public link id
	accounts      map[string]*models.VirtualAccount // keyed by public account id
	transactions  []*models.Transaction
	widgets       []*models.Widget
	yieldEarnings []*models.YieldEarning

	widgetOrigin string
	now          func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithWidgetOrigin overrides the base URL baked into generated embed code.
func WithWidgetOrigin(origin string) Option {
	return func(s *Store) {
		if origin != "" {
			s.widgetOrigin = origin
		}
	}
}

// WithClock overrides the time source. Used by tests that assert on
// month-bucketed history.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty ledger store.
func New(opts ...Option) *Store {
	s := &Store{
		links:        make(map[string]*models.PaymentLink),
		accounts:     make(map[string]*models.VirtualAccount),
		widgetOrigin: defaultWidgetOrigin,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded returns a store pre-populated with the fixture records the
// dashboard boots with: 2 links, 3 accounts, 3 yield records, 10
// transactions and 1 widget.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.seed()
	return s
}

func sortTransactionsDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
