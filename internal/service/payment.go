package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/gateway"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/observability"
	"github.com/squadgrid/payment-dashboard/internal/store"
	"go.uber.org/zap"
)

var (
	ErrLinkNotActive   = errors.New("payment link is not active")
	ErrPaymentDeclined = errors.New("payment declined")
)

// PaymentService processes checkout attempts against payment links.
type PaymentService struct {
	store   *store.Store
	gateway gateway.Gateway
}

func NewPaymentService(st *store.Store, gw gateway.Gateway) *PaymentService {
	return &PaymentService{store: st, gateway: gw}
}

// ProcessPaymentRequest holds a payer's checkout submission.
type ProcessPaymentRequest struct {
	PaymentLinkID  string `json:"paymentLinkId"`
	PaymentMethod  string `json:"paymentMethod"`
	CustomerWallet string `json:"customerWallet,omitempty"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	Signature      string `json:"solanaSignature,omitempty"`
}

// Validate ensures the submission names a link, a supported method, and for
// wallet payments either a wallet or a pre-signed transaction.
func (r ProcessPaymentRequest) Validate() error {
	if r.PaymentLinkID == "" {
		return errors.New("paymentLinkId is required")
	}
	if !domain.IsValidPaymentMethod(r.PaymentMethod) {
		return fmt.Errorf("unsupported payment method: %s", r.PaymentMethod)
	}
	if r.PaymentMethod == domain.PaymentMethodWallet && r.CustomerWallet == "" && r.Signature == "" {
		return errors.New("customer wallet or transaction signature is required for wallet payments")
	}
	return nil
}

// ProcessPayment settles a checkout attempt. The charged amount and currency
// always come from the link, never from the payer. Declined attempts are
// recorded as failed transactions so the ledger shows every attempt, then
// surfaced as ErrPaymentDeclined.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (models.Transaction, error) {
	if err := req.Validate(); err != nil {
		return models.Transaction{}, err
	}

	link, err := s.store.PaymentLinkByLinkID(req.PaymentLinkID)
	if err != nil {
		return models.Transaction{}, err
	}
	if link.Status != domain.LinkStatusActive {
		return models.Transaction{}, fmt.Errorf("%w: link is %s", ErrLinkNotActive, link.Status)
	}

	receipt, settleErr := s.gateway.Settle(ctx, link.MerchantWallet, link.Amount, link.Currency)
	if settleErr != nil && !errors.Is(settleErr, gateway.ErrDeclined) {
		return models.Transaction{}, fmt.Errorf("settle payment: %w", settleErr)
	}

	params := store.CreateTransactionParams{
		PaymentLinkID:   req.PaymentLinkID,
		TransactionType: domain.TxTypePayment,
		Amount:          link.Amount,
		Currency:        link.Currency,
		PaymentMethod:   req.PaymentMethod,
		CustomerWallet:  req.CustomerWallet,
		CustomerEmail:   req.CustomerEmail,
	}

	if settleErr != nil {
		params.Status = domain.TxStatusFailed
		tx, createErr := s.store.CreateTransaction(params)
		if createErr != nil {
			return models.Transaction{}, fmt.Errorf("record failed payment: %w", createErr)
		}
		observability.IncrementPaymentAttempt(link.Currency, "declined")
		zap.L().Warn("payment declined",
			zap.String("link_id", req.PaymentLinkID),
			zap.String("currency", link.Currency),
			zap.String("transaction_id", tx.ID.String()))
		return tx, ErrPaymentDeclined
	}

	params.Status = domain.TxStatusCompleted
	params.Signature = req.Signature
	if params.Signature == "" {
		params.Signature = receipt.Signature
	}
	params.TransferRef = receipt.TransferRef

	tx, err := s.store.CreateTransaction(params)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("record payment: %w", err)
	}
	observability.IncrementPaymentAttempt(link.Currency, "completed")
	zap.L().Info("payment completed",
		zap.String("link_id", req.PaymentLinkID),
		zap.String("amount", link.Amount),
		zap.String("currency", link.Currency),
		zap.String("transfer_ref", tx.TransferRef))
	return tx, nil
}
