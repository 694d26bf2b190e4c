package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
)

// CreateVirtualAccountParams holds the fields for a new virtual account.
type CreateVirtualAccountParams struct {
	AccountName string
	AccountType string
	EnableYield bool
	Metadata    map[string]string
}

// CreateVirtualAccount creates an active account with zero balances across
// all supported currencies and a generated wallet address. When yield is
// enabled the APY follows the fixed per-type rate table.
func (s *Store) CreateVirtualAccount(params CreateVirtualAccountParams) (models.VirtualAccount, error) {
	if params.AccountName == "" {
		return models.VirtualAccount{}, fmt.Errorf("account name is required")
	}
	if !domain.IsValidAccountType(params.AccountType) {
		return models.VirtualAccount{}, fmt.Errorf("unsupported account type: %s", params.AccountType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balances := make(map[string]string, len(domain.Currencies))
	for _, c := range domain.Currencies {
		balances[c] = "0.00"
	}

	account := &models.VirtualAccount{
		ID:            uuid.New(),
		AccountID:     domain.NewShortID(),
		AccountName:   params.AccountName,
		AccountType:   params.AccountType,
		Status:        domain.AccountStatusActive,
		WalletAddress: domain.NewWalletAddress(),
		Balances:      balances,
		TotalBalance:  "0.00",
		YieldEnabled:  params.EnableYield,
		Metadata:      params.Metadata,
		CreatedAt:     s.now(),
	}
	if params.EnableYield {
		account.YieldRate = domain.YieldRateForAccountType(params.AccountType)
	}

	s.accounts[account.AccountID] = account
	return copyAccount(account), nil
}

// AllVirtualAccounts returns every account, newest first.
func (s *Store) AllVirtualAccounts() []models.VirtualAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VirtualAccount, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, copyAccount(account))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// VirtualAccountByAccountID resolves an account by its public short id.
func (s *Store) VirtualAccountByAccountID(accountID string) (models.VirtualAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return models.VirtualAccount{}, models.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// DeleteVirtualAccount removes an account by its public short id.
func (s *Store) DeleteVirtualAccount(accountID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return false
	}
	delete(s.accounts, accountID)
	return true
}

// copyAccount snapshots an account so callers never share the store's
// internal balance map.
func copyAccount(account *models.VirtualAccount) models.VirtualAccount {
	out := *account
	out.Balances = make(map[string]string, len(account.Balances))
	for c, b := range account.Balances {
		out.Balances[c] = b
	}
	if account.Metadata != nil {
		out.Metadata = make(map[string]string, len(account.Metadata))
		for k, v := range account.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
