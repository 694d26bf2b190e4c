package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// AnalyticsService computes dashboard aggregates on demand from the full
// transaction history. Nothing is cached; the ledger is small enough that a
// fresh pass per request is cheaper than keeping derived state coherent.
type AnalyticsService struct {
	store *store.Store
	now   func() time.Time
}

func NewAnalyticsService(st *store.Store) *AnalyticsService {
	return &AnalyticsService{store: st, now: time.Now}
}

// WithClock overrides the time source used for month bucketing.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	if now != nil {
		s.now = now
	}
	return s
}

// ComputeStats aggregates the ledger. Revenue counts completed transactions
// of every type; pending includes processing; failed includes cancelled. The
// monthly series covers the 12 trailing calendar months, oldest first, with
// zero-valued buckets for empty months.
func (s *AnalyticsService) ComputeStats() models.AnalyticsStats {
	transactions := s.store.AllTransactions()
	accounts := s.store.AllVirtualAccounts()
	earnings := s.store.AllYieldEarnings()

	stats := models.AnalyticsStats{
		RevenueByCurrency: map[string]float64{},
		AccountsByType:    map[string]int{},
		YieldByCurrency:   map[string]float64{},
	}
	for _, c := range domain.Currencies {
		stats.RevenueByCurrency[c] = 0
		stats.YieldByCurrency[c] = 0
	}

	totalRevenue := decimal.Zero
	revenueByCurrency := map[string]decimal.Decimal{}
	methodCounts := map[string]int{}

	var completed []models.Transaction
	for _, tx := range transactions {
		methodCounts[tx.PaymentMethod]++
		switch tx.Status {
		case domain.TxStatusCompleted:
			completed = append(completed, tx)
			amt, err := decimal.NewFromString(tx.Amount)
			if err != nil {
				continue
			}
			totalRevenue = totalRevenue.Add(amt)
			revenueByCurrency[tx.Currency] = revenueByCurrency[tx.Currency].Add(amt)
		case domain.TxStatusPending, domain.TxStatusProcessing:
			stats.TotalPendingTransactions++
		case domain.TxStatusFailed, domain.TxStatusCancelled:
			stats.TotalFailedTransactions++
		}
		if tx.TransferType == domain.TransferTypeCrossBorder {
			stats.CrossBorderTransactions++
		}
	}

	stats.TransactionCount = len(transactions)
	stats.TotalCompletedTransactions = len(completed)
	stats.TotalRevenue, _ = totalRevenue.Round(2).Float64()
	for c, amt := range revenueByCurrency {
		if domain.IsValidCurrency(c) {
			stats.RevenueByCurrency[c], _ = amt.Round(2).Float64()
		}
	}
	if stats.TransactionCount > 0 {
		stats.SuccessRate = float64(stats.TotalCompletedTransactions) / float64(stats.TransactionCount) * 100
	}
	if stats.TotalCompletedTransactions > 0 {
		stats.AvgTransactionValue = stats.TotalRevenue / float64(stats.TotalCompletedTransactions)
	}

	stats.RevenueByMonth = s.monthlyRevenue(completed)

	for _, method := range domain.PaymentMethods {
		count := methodCounts[method]
		if count == 0 {
			continue
		}
		stats.PaymentMethodDistribution = append(stats.PaymentMethodDistribution, models.PaymentMethodShare{
			Method:     method,
			Count:      count,
			Percentage: float64(count) / float64(stats.TransactionCount) * 100,
		})
	}

	stats.TotalAccounts = len(accounts)
	for _, a := range accounts {
		if a.Status == domain.AccountStatusActive {
			stats.ActiveAccounts++
		}
		stats.AccountsByType[a.AccountType]++
	}

	totalYield := decimal.Zero
	yieldByCurrency := map[string]decimal.Decimal{}
	for _, y := range earnings {
		earned, err := decimal.NewFromString(y.Earned)
		if err != nil {
			continue
		}
		totalYield = totalYield.Add(earned)
		yieldByCurrency[y.Currency] = yieldByCurrency[y.Currency].Add(earned)
	}
	stats.TotalYieldEarned, _ = totalYield.Round(2).Float64()
	for c, amt := range yieldByCurrency {
		if domain.IsValidCurrency(c) {
			stats.YieldByCurrency[c], _ = amt.Round(2).Float64()
		}
	}

	return stats
}

// monthlyRevenue buckets completed transactions into the 12 trailing calendar
// months, oldest first. Month labels follow the "Jan 2006" form.
func (s *AnalyticsService) monthlyRevenue(completed []models.Transaction) []models.MonthlyRevenue {
	now := s.now()
	out := make([]models.MonthlyRevenue, 0, 12)
	for i := 11; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		revenue := decimal.Zero
		count := 0
		for _, tx := range completed {
			if !tx.CreatedAt.Before(monthStart) && tx.CreatedAt.Before(monthEnd) {
				if amt, err := decimal.NewFromString(tx.Amount); err == nil {
					revenue = revenue.Add(amt)
				}
				count++
			}
		}

		rev, _ := revenue.Round(2).Float64()
		out = append(out, models.MonthlyRevenue{
			Month:            monthStart.Format("Jan 2006"),
			Revenue:          rev,
			TransactionCount: count,
		})
	}
	return out
}
