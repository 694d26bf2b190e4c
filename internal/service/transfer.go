package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/gateway"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
	"go.uber.org/zap"
)

var ErrTransferDeclined = errors.New("transfer declined")

// TransferService moves funds between virtual accounts and in and out of the
// rail: internal transfers, deposits, withdrawals and cross-border payments.
type TransferService struct {
	store   *store.Store
	gateway gateway.Gateway
}

func NewTransferService(st *store.Store, gw gateway.Gateway) *TransferService {
	return &TransferService{store: st, gateway: gw}
}

// InternalTransferRequest moves funds between two tracked accounts.
type InternalTransferRequest struct {
	FromAccountID string `json:"fromAccountId"`
	ToAccountID   string `json:"toAccountId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	RecipientName string `json:"recipientName,omitempty"`
	Memo          string `json:"memo,omitempty"`
}

func (r InternalTransferRequest) Validate() error {
	if r.FromAccountID == "" || r.ToAccountID == "" {
		return errors.New("fromAccountId and toAccountId are required")
	}
	if r.FromAccountID == r.ToAccountID {
		return errors.New("cannot transfer to the same account")
	}
	if _, err := domain.ParseAmount(r.Amount); err != nil {
		return err
	}
	if !domain.IsValidCurrency(r.Currency) {
		return fmt.Errorf("unsupported currency: %s", r.Currency)
	}
	return nil
}

// Transfer settles an internal transfer and records it as a paired send and
// receive. Both legs share one settlement receipt. The send leg debits the
// source, the receive leg credits the destination.
func (s *TransferService) Transfer(ctx context.Context, req InternalTransferRequest) (send, receive models.Transaction, err error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}
	from, err := s.store.VirtualAccountByAccountID(req.FromAccountID)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}
	to, err := s.store.VirtualAccountByAccountID(req.ToAccountID)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, err
	}

	receipt, err := s.gateway.Settle(ctx, to.WalletAddress, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, gateway.ErrDeclined) {
			return models.Transaction{}, models.Transaction{}, ErrTransferDeclined
		}
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("settle transfer: %w", err)
	}

	base := store.CreateTransactionParams{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        domain.TxStatusCompleted,
		PaymentMethod: domain.PaymentMethodWallet,
		FromAccount:   req.FromAccountID,
		ToAccount:     req.ToAccountID,
		RecipientName: req.RecipientName,
		TransferType:  domain.TransferTypeInternal,
		Fees:          "0.00",
		Memo:          req.Memo,
		Signature:     receipt.Signature,
		TransferRef:   receipt.TransferRef,
	}

	sendParams := base
	sendParams.AccountID = req.FromAccountID
	sendParams.TransactionType = domain.TxTypeSend
	send, err = s.store.CreateTransaction(sendParams)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("record send leg: %w", err)
	}

	recvParams := base
	recvParams.AccountID = req.ToAccountID
	recvParams.TransactionType = domain.TxTypeReceive
	receive, err = s.store.CreateTransaction(recvParams)
	if err != nil {
		return models.Transaction{}, models.Transaction{}, fmt.Errorf("record receive leg: %w", err)
	}

	zap.L().Info("internal transfer completed",
		zap.String("from", from.AccountID),
		zap.String("to", to.AccountID),
		zap.String("amount", req.Amount),
		zap.String("currency", req.Currency))
	return send, receive, nil
}

// CrossBorderRequest pays an external recipient with a transfer-type record.
type CrossBorderRequest struct {
	FromAccountID   string  `json:"fromAccountId"`
	RecipientName   string  `json:"recipientName"`
	RecipientEmail  string  `json:"recipientEmail,omitempty"`
	RecipientWallet string  `json:"recipientWallet"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	ExchangeRate    float64 `json:"exchangeRate,omitempty"`
	Fees            string  `json:"fees,omitempty"`
	Memo            string  `json:"memo,omitempty"`
}

func (r CrossBorderRequest) Validate() error {
	if r.FromAccountID == "" {
		return errors.New("fromAccountId is required")
	}
	if r.RecipientName == "" || r.RecipientWallet == "" {
		return errors.New("recipientName and recipientWallet are required")
	}
	if _, err := domain.ParseAmount(r.Amount); err != nil {
		return err
	}
	if !domain.IsValidCurrency(r.Currency) {
		return fmt.Errorf("unsupported currency: %s", r.Currency)
	}
	return nil
}

// CrossBorder settles a cross-border payment from a tracked account to an
// external wallet. Transfer-type records do not move tracked balances; the
// receipt is the proof the rail moved the funds.
func (s *TransferService) CrossBorder(ctx context.Context, req CrossBorderRequest) (models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, err
	}
	if _, err := s.store.VirtualAccountByAccountID(req.FromAccountID); err != nil {
		return models.Transaction{}, err
	}

	receipt, err := s.gateway.Settle(ctx, req.RecipientWallet, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, gateway.ErrDeclined) {
			return models.Transaction{}, ErrTransferDeclined
		}
		return models.Transaction{}, fmt.Errorf("settle cross-border payment: %w", err)
	}

	rate := req.ExchangeRate
	if rate == 0 {
		rate = 1.0
	}
	fees := req.Fees
	if fees == "" {
		fees = "5.00"
	}

	tx, err := s.store.CreateTransaction(store.CreateTransactionParams{
		AccountID:       req.FromAccountID,
		TransactionType: domain.TxTypeTransfer,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
		FromAccount:     req.FromAccountID,
		RecipientName:   req.RecipientName,
		RecipientEmail:  req.RecipientEmail,
		RecipientWallet: req.RecipientWallet,
		TransferType:    domain.TransferTypeCrossBorder,
		ExchangeRate:    rate,
		Fees:            fees,
		Memo:            req.Memo,
		Signature:       receipt.Signature,
		TransferRef:     receipt.TransferRef,
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("record cross-border payment: %w", err)
	}
	zap.L().Info("cross-border payment completed",
		zap.String("from", req.FromAccountID),
		zap.String("amount", req.Amount),
		zap.String("currency", req.Currency))
	return tx, nil
}

// DepositRequest funds a tracked account from an on-ramp.
type DepositRequest struct {
	AccountID     string `json:"accountId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Fees          string `json:"fees,omitempty"`
	Memo          string `json:"memo,omitempty"`
}

// Deposit credits a tracked account. The default method is the on-ramp.
func (s *TransferService) Deposit(ctx context.Context, req DepositRequest) (models.Transaction, error) {
	if _, err := domain.ParseAmount(req.Amount); err != nil {
		return models.Transaction{}, err
	}
	account, err := s.store.VirtualAccountByAccountID(req.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}
	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentMethodRamp
	}

	receipt, err := s.gateway.Settle(ctx, account.WalletAddress, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, gateway.ErrDeclined) {
			return models.Transaction{}, ErrTransferDeclined
		}
		return models.Transaction{}, fmt.Errorf("settle deposit: %w", err)
	}

	return s.store.CreateTransaction(store.CreateTransactionParams{
		AccountID:       req.AccountID,
		TransactionType: domain.TxTypeDeposit,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   method,
		ToAccount:       req.AccountID,
		Fees:            req.Fees,
		Memo:            req.Memo,
		Signature:       receipt.Signature,
		TransferRef:     receipt.TransferRef,
	})
}

// WithdrawRequest moves funds from a tracked account to an external wallet.
type WithdrawRequest struct {
	AccountID       string `json:"accountId"`
	RecipientWallet string `json:"recipientWallet"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Fees            string `json:"fees,omitempty"`
	Memo            string `json:"memo,omitempty"`
}

// Withdraw debits a tracked account toward an external wallet. The store
// clamps the resulting balance at zero.
func (s *TransferService) Withdraw(ctx context.Context, req WithdrawRequest) (models.Transaction, error) {
	if _, err := domain.ParseAmount(req.Amount); err != nil {
		return models.Transaction{}, err
	}
	if req.RecipientWallet == "" {
		return models.Transaction{}, errors.New("recipientWallet is required")
	}
	if _, err := s.store.VirtualAccountByAccountID(req.AccountID); err != nil {
		return models.Transaction{}, err
	}

	receipt, err := s.gateway.Settle(ctx, req.RecipientWallet, req.Amount, req.Currency)
	if err != nil {
		if errors.Is(err, gateway.ErrDeclined) {
			return models.Transaction{}, ErrTransferDeclined
		}
		return models.Transaction{}, fmt.Errorf("settle withdrawal: %w", err)
	}

	return s.store.CreateTransaction(store.CreateTransactionParams{
		AccountID:       req.AccountID,
		TransactionType: domain.TxTypeWithdrawal,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
		FromAccount:     req.AccountID,
		RecipientWallet: req.RecipientWallet,
		Fees:            req.Fees,
		Memo:            req.Memo,
		Signature:       receipt.Signature,
		TransferRef:     receipt.TransferRef,
	})
}
