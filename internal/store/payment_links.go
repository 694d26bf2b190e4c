package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
)

// CreatePaymentLinkParams holds the fields for a new payment link. Amount and
// currency are validated at the store boundary; malformed input is rejected
// instead of persisted.
type CreatePaymentLinkParams struct {
	Amount         string
	Currency       string
	Description    string
	SuccessURL     string
	CancelURL      string
	MerchantWallet string
}

// CreatePaymentLink creates an active payment link with zero counters and a
// generated public short id.
func (s *Store) CreatePaymentLink(params CreatePaymentLinkParams) (models.PaymentLink, error) {
	amount, err := domain.ParseAmount(params.Amount)
	if err != nil {
		return models.PaymentLink{}, err
	}
	if !domain.IsValidCurrency(params.Currency) {
		return models.PaymentLink{}, fmt.Errorf("unsupported currency: %s", params.Currency)
	}
	if params.MerchantWallet == "" {
		return models.PaymentLink{}, fmt.Errorf("merchant wallet is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link := &models.PaymentLink{
		ID:             uuid.New(),
		LinkID:         domain.NewShortID(),
		Amount:         domain.FormatAmount(amount),
		Currency:       params.Currency,
		Description:    params.Description,
		Status:         domain.LinkStatusActive,
		SuccessURL:     params.SuccessURL,
		CancelURL:      params.CancelURL,
		MerchantWallet: params.MerchantWallet,
		CreatedAt:      s.now(),
	}
	s.links[link.LinkID] = link
	return *link, nil
}

// AllPaymentLinks returns every payment link, newest first.
func (s *Store) AllPaymentLinks() []models.PaymentLink {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PaymentLink, 0, len(s.links))
	for _, link := range s.links {
		out = append(out, *link)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// PaymentLinkByLinkID resolves a link by its public short id.
func (s *Store) PaymentLinkByLinkID(linkID string) (models.PaymentLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[linkID]
	if !ok {
		return models.PaymentLink{}, models.ErrPaymentLinkNotFound
	}
	return *link, nil
}

// UpdatePaymentLinkStatus moves a link through its lifecycle. Checkout and
// payment processing reject links that are no longer active.
func (s *Store) UpdatePaymentLinkStatus(linkID, status string) error {
	if !domain.IsValidLinkStatus(status) {
		return fmt.Errorf("unsupported link status: %s", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[linkID]
	if !ok {
		return models.ErrPaymentLinkNotFound
	}
	link.Status = status
	now := s.now()
	link.UpdatedAt = &now
	return nil
}

// UpdatePaymentLinkStats pushes recomputed counters onto a link. Callers
// recompute both counts from the full transaction set; the store never
// increments counters independently. Unknown link ids are a silent no-op.
func (s *Store) UpdatePaymentLinkStats(linkID string, transactionCount, completedCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLinkStatsLocked(linkID, transactionCount, completedCount)
}

func (s *Store) applyLinkStatsLocked(linkID string, transactionCount, completedCount int) {
	link, ok := s.links[linkID]
	if !ok {
		return
	}
	link.TransactionCount = transactionCount
	link.CompletedCount = completedCount
	now := s.now()
	link.UpdatedAt = &now
}

// recomputeLinkStatsLocked rebuilds a link's counters from the transaction
// history referencing it.
func (s *Store) recomputeLinkStatsLocked(linkID string) {
	total, completed := 0, 0
	for _, tx := range s.transactions {
		if tx.PaymentLinkID != linkID {
			continue
		}
		total++
		if tx.Status == domain.TxStatusCompleted {
			completed++
		}
	}
	s.applyLinkStatsLocked(linkID, total, completed)
}

// DeletePaymentLink removes a link by its public short id.
func (s *Store) DeletePaymentLink(linkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[linkID]; !ok {
		return false
	}
	delete(s.links, linkID)
	return true
}
