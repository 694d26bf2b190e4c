package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
	"go.uber.org/zap"
)

// YieldService accrues interest on yield-enabled accounts. Each accrual posts
// a yield transaction, which credits the balance through the normal ledger
// path, and rolls the earning record's payment window forward.
type YieldService struct {
	store *store.Store
	now   func() time.Time
}

func NewYieldService(st *store.Store) *YieldService {
	return &YieldService{store: st, now: time.Now}
}

// WithClock overrides the time source used to decide which accruals are due.
func (s *YieldService) WithClock(now func() time.Time) *YieldService {
	if now != nil {
		s.now = now
	}
	return s
}

// AccrueDue posts every accrual whose next payment date has passed. It
// returns the number of accruals posted. Records against deleted or
// yield-disabled accounts are skipped.
func (s *YieldService) AccrueDue(ctx context.Context) (int, error) {
	now := s.now()
	posted := 0

	for _, earning := range s.store.AllYieldEarnings() {
		if earning.NextPayment.After(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return posted, err
		}

		account, err := s.store.VirtualAccountByAccountID(earning.AccountID)
		if err != nil {
			if errors.Is(err, models.ErrAccountNotFound) {
				continue
			}
			return posted, err
		}
		if !account.YieldEnabled {
			continue
		}

		principal, err := decimal.NewFromString(account.Balances[earning.Currency])
		if err != nil || principal.IsZero() {
			continue
		}

		amount := accrualAmount(principal, account.YieldRate, earning.Period)
		if amount.IsZero() {
			continue
		}

		_, err = s.store.CreateTransaction(store.CreateTransactionParams{
			AccountID:       account.AccountID,
			TransactionType: domain.TxTypeYield,
			Amount:          domain.FormatAmount(amount),
			Currency:        earning.Currency,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			ToAccount:       account.AccountID,
			Fees:            "0.00",
			Memo:            fmt.Sprintf("%s yield payment", capitalize(earning.Period)),
		})
		if err != nil {
			return posted, fmt.Errorf("post yield for account %s: %w", account.AccountID, err)
		}

		if err := s.store.RecordYieldPayment(earning.ID, principal, amount, account.YieldRate, now); err != nil {
			return posted, fmt.Errorf("roll yield record %s: %w", earning.ID, err)
		}

		zap.L().Info("yield accrued",
			zap.String("account_id", account.AccountID),
			zap.String("currency", earning.Currency),
			zap.String("amount", domain.FormatAmount(amount)),
			zap.Float64("rate", account.YieldRate))
		posted++
	}
	return posted, nil
}

// accrualAmount is one period's interest at a simple annual rate:
// principal * rate / 100 / periods-per-year, rounded to cents.
func accrualAmount(principal decimal.Decimal, annualRate float64, period string) decimal.Decimal {
	rate := decimal.NewFromFloat(annualRate).Div(decimal.NewFromInt(100))
	annual := principal.Mul(rate)
	return annual.Div(decimal.NewFromInt(periodsPerYear(period))).Round(2)
}

func periodsPerYear(period string) int64 {
	switch period {
	case domain.YieldPeriodDaily:
		return 365
	case domain.YieldPeriodWeekly:
		return 52
	case domain.YieldPeriodYearly:
		return 1
	default:
		return 12
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
