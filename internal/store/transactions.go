package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/observability"
	"go.uber.org/zap"
)

// CreateTransactionParams holds the fields for a new ledger record. The store
// validates enums and amounts; relationship fields are free-form because a
// transaction may reference accounts outside the tracked set.
type CreateTransactionParams struct {
	PaymentLinkID   string
	AccountID       string
	TransactionType string
	Amount          string
	Currency        string
	Status          string
	PaymentMethod   string
	CustomerWallet  string
	CustomerEmail   string
	FromAccount     string
	ToAccount       string
	RecipientName   string
	RecipientEmail  string
	RecipientWallet string
	TransferType    string
	ExchangeRate    float64
	Fees            string
	Memo            string
	Signature       string
	TransferRef     string
}

// CreateTransaction appends a transaction to the ledger. CompletedAt is set
// iff the status is completed. Two derived updates happen in the same
// critical section: the referenced payment link's counters are recomputed
// from the full history, and a completed transaction against a tracked
// account mutates that account's balance.
func (s *Store) CreateTransaction(params CreateTransactionParams) (models.Transaction, error) {
	amount, err := domain.ParseAmount(params.Amount)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := domain.ParseNonNegativeAmount(params.Fees); err != nil {
		return models.Transaction{}, fmt.Errorf("invalid fees: %w", err)
	}
	if !domain.IsValidCurrency(params.Currency) {
		return models.Transaction{}, fmt.Errorf("unsupported currency: %s", params.Currency)
	}
	if !domain.IsValidTransactionType(params.TransactionType) {
		return models.Transaction{}, fmt.Errorf("unsupported transaction type: %s", params.TransactionType)
	}
	if !domain.IsValidTransactionStatus(params.Status) {
		return models.Transaction{}, fmt.Errorf("unsupported transaction status: %s", params.Status)
	}
	if !domain.IsValidPaymentMethod(params.PaymentMethod) {
		return models.Transaction{}, fmt.Errorf("unsupported payment method: %s", params.PaymentMethod)
	}

	transferRef := params.TransferRef
	if transferRef == "" {
		transferRef = domain.NewTransferRef()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tx := &models.Transaction{
		ID:              uuid.New(),
		PaymentLinkID:   params.PaymentLinkID,
		AccountID:       params.AccountID,
		TransactionType: params.TransactionType,
		Amount:          domain.FormatAmount(amount),
		Currency:        params.Currency,
		Status:          params.Status,
		PaymentMethod:   params.PaymentMethod,
		CustomerWallet:  params.CustomerWallet,
		CustomerEmail:   params.CustomerEmail,
		FromAccount:     params.FromAccount,
		ToAccount:       params.ToAccount,
		RecipientName:   params.RecipientName,
		RecipientEmail:  params.RecipientEmail,
		RecipientWallet: params.RecipientWallet,
		TransferType:    params.TransferType,
		ExchangeRate:    params.ExchangeRate,
		Fees:            params.Fees,
		Memo:            params.Memo,
		Signature:       params.Signature,
		TransferRef:     transferRef,
		CreatedAt:       now,
	}
	if tx.Status == domain.TxStatusCompleted {
		completed := now
		tx.CompletedAt = &completed
	}
	s.transactions = append(s.transactions, tx)

	if tx.PaymentLinkID != "" {
		s.recomputeLinkStatsLocked(tx.PaymentLinkID)
	}
	if tx.AccountID != "" && tx.Status == domain.TxStatusCompleted {
		s.applyBalanceMutationLocked(tx.AccountID, tx.TransactionType, tx.Currency, amount)
	}

	return *tx, nil
}

// applyBalanceMutationLocked moves a completed transaction's amount in or out
// of the referenced account. Credits: deposit, receive, yield. Debits:
// withdrawal, send, floored at zero. Other types (payment, transfer) settle
// outside the tracked accounts and leave balances untouched.
func (s *Store) applyBalanceMutationLocked(accountID, txType, currency string, amount decimal.Decimal) {
	account, ok := s.accounts[accountID]
	if !ok {
		return
	}

	current, err := domain.ParseNonNegativeAmount(account.Balances[currency])
	if err != nil {
		// Balances are only ever written through FormatAmount, so this is a
		// programming error, not caller input.
		zap.L().Error("corrupt account balance",
			zap.String("account_id", accountID),
			zap.String("currency", currency),
			zap.Error(err),
		)
		return
	}

	switch txType {
	case domain.TxTypeDeposit, domain.TxTypeReceive, domain.TxTypeYield:
		current = current.Add(amount)
	case domain.TxTypeWithdrawal, domain.TxTypeSend:
		next := current.Sub(amount)
		if next.IsNegative() {
			observability.IncrementBalanceFloor(currency)
			zap.L().Warn("debit exceeds balance, floored at zero",
				zap.String("account_id", accountID),
				zap.String("currency", currency),
				zap.String("balance", domain.FormatAmount(current)),
				zap.String("amount", domain.FormatAmount(amount)),
			)
			next = decimal.Zero
		}
		current = next
	default:
		return
	}

	account.Balances[currency] = domain.FormatAmount(current)

	total := decimal.Zero
	for _, c := range domain.Currencies {
		bal, balErr := domain.ParseNonNegativeAmount(account.Balances[c])
		if balErr != nil {
			continue
		}
		total = total.Add(bal)
	}
	account.TotalBalance = domain.FormatAmount(total.Round(2))
	now := s.now()
	account.UpdatedAt = &now
}

// AllTransactions returns the full ledger, newest first.
func (s *Store) AllTransactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		out = append(out, *tx)
	}
	sortTransactionsDesc(out)
	return out
}

// TransactionsByPaymentLinkID returns the transactions referencing a link's
// public short id, in insertion order.
func (s *Store) TransactionsByPaymentLinkID(linkID string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.PaymentLinkID == linkID {
			out = append(out, *tx)
		}
	}
	return out
}

// TransactionsByAccountID returns the transactions touching an account as
// owner, source or destination.
func (s *Store) TransactionsByAccountID(accountID string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.AccountID == accountID || tx.FromAccount == accountID || tx.ToAccount == accountID {
			out = append(out, *tx)
		}
	}
	return out
}

// CrossBorderTransactions returns the transactions flagged as cross-border
// transfers.
func (s *Store) CrossBorderTransactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.TransferType == domain.TransferTypeCrossBorder {
			out = append(out, *tx)
		}
	}
	return out
}
