package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
)

// CreateYieldEarningParams holds the fields for a new yield earning record.
type CreateYieldEarningParams struct {
	AccountID   string
	Currency    string
	Principal   string
	Earned      string
	CurrentRate float64
	Period      string
}

// CreateYieldEarning records a yield position for an account. The next payment
// date is derived from the accrual period.
func (s *Store) CreateYieldEarning(params CreateYieldEarningParams) (models.YieldEarning, error) {
	if !domain.IsValidCurrency(params.Currency) {
		return models.YieldEarning{}, fmt.Errorf("unsupported currency: %s", params.Currency)
	}
	principal, err := domain.ParseNonNegativeAmount(params.Principal)
	if err != nil {
		return models.YieldEarning{}, fmt.Errorf("invalid principal: %w", err)
	}
	earned, err := domain.ParseNonNegativeAmount(params.Earned)
	if err != nil {
		return models.YieldEarning{}, fmt.Errorf("invalid earned amount: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[params.AccountID]; !ok {
		return models.YieldEarning{}, models.ErrAccountNotFound
	}

	now := s.now()
	earning := &models.YieldEarning{
		ID:          uuid.New(),
		AccountID:   params.AccountID,
		Currency:    params.Currency,
		Principal:   domain.FormatAmount(principal),
		Earned:      domain.FormatAmount(earned),
		CurrentRate: params.CurrentRate,
		Period:      params.Period,
		LastPayment: now,
		NextPayment: now.Add(domain.YieldPeriodDuration(params.Period)),
		CreatedAt:   now,
	}
	s.yieldEarnings = append(s.yieldEarnings, earning)
	return *earning, nil
}

// AllYieldEarnings returns every yield earning record, newest first.
func (s *Store) AllYieldEarnings() []models.YieldEarning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.YieldEarning, 0, len(s.yieldEarnings))
	for _, y := range s.yieldEarnings {
		out = append(out, *y)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// YieldEarningsByAccountID returns the yield records for one account.
func (s *Store) YieldEarningsByAccountID(accountID string) []models.YieldEarning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.YieldEarning
	for _, y := range s.yieldEarnings {
		if y.AccountID == accountID {
			out = append(out, *y)
		}
	}
	return out
}

// RecordYieldPayment rolls an existing yield record forward after an accrual
// posts: the earned total grows, the principal and rate snapshot refresh, and
// the payment window advances by one period.
func (s *Store) RecordYieldPayment(id uuid.UUID, principal, earned decimal.Decimal, rate float64, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, y := range s.yieldEarnings {
		if y.ID != id {
			continue
		}
		prev, err := decimal.NewFromString(y.Earned)
		if err != nil {
			prev = decimal.Zero
		}
		y.Principal = domain.FormatAmount(principal)
		y.Earned = domain.FormatAmount(prev.Add(earned))
		y.CurrentRate = rate
		y.LastPayment = paidAt
		y.NextPayment = paidAt.Add(domain.YieldPeriodDuration(y.Period))
		return nil
	}
	return models.ErrYieldEarningNotFound
}
