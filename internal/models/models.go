package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPaymentLinkNotFound = errors.New("payment link not found")
	ErrAccountNotFound     = errors.New("virtual account not found")
	ErrWidgetNotFound      = errors.New("widget not found")

	ErrYieldEarningNotFound = errors.New("yield earning not found")
)

// PaymentLink is a shareable checkout URL bound to a fixed amount, currency
// and description. LinkID is the public 8-character identifier distributed to
// payers; ID is internal and must never leak into embed code or checkout URLs.
type PaymentLink struct {
	ID               uuid.UUID  `json:"id"`
	LinkID           string     `json:"linkId"`
	Amount           string     `json:"amount"`
	Currency         string     `json:"currency"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	TransactionCount int        `json:"transactionCount"`
	CompletedCount   int        `json:"completedCount"`
	SuccessURL       string     `json:"successUrl,omitempty"`
	CancelURL        string     `json:"cancelUrl,omitempty"`
	MerchantWallet   string     `json:"merchantWallet"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// Transaction is an append-only ledger record. CompletedAt is set iff the
// status is completed; there is no post-creation status transition.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	PaymentLinkID   string     `json:"paymentLinkId,omitempty"`
	AccountID       string     `json:"accountId,omitempty"`
	TransactionType string     `json:"transactionType"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	PaymentMethod   string     `json:"paymentMethod"`
	CustomerWallet  string     `json:"customerWallet,omitempty"`
	CustomerEmail   string     `json:"customerEmail,omitempty"`
	FromAccount     string     `json:"fromAccount,omitempty"`
	ToAccount       string     `json:"toAccount,omitempty"`
	RecipientName   string     `json:"recipientName,omitempty"`
	RecipientEmail  string     `json:"recipientEmail,omitempty"`
	RecipientWallet string     `json:"recipientWallet,omitempty"`
	TransferType    string     `json:"transferType,omitempty"`
	ExchangeRate    float64    `json:"exchangeRate,omitempty"`
	Fees            string     `json:"fees,omitempty"`
	Memo            string     `json:"memo,omitempty"`
	Signature       string     `json:"solanaSignature,omitempty"`
	TransferRef     string     `json:"gridTransferId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// VirtualAccount is an internally tracked balance-holding entity with one
// balance per supported currency. TotalBalance always equals the rounded sum
// of the per-currency balances.
type VirtualAccount struct {
	ID            uuid.UUID         `json:"id"`
	AccountID     string            `json:"accountId"`
	AccountName   string            `json:"accountName"`
	AccountType   string            `json:"accountType"`
	Status        string            `json:"status"`
	WalletAddress string            `json:"walletAddress"`
	Balances      map[string]string `json:"balances"`
	TotalBalance  string            `json:"totalBalance"`
	YieldEnabled  bool              `json:"isYieldEnabled"`
	YieldRate     float64           `json:"yieldRate,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
}

// YieldEarning tracks accrued interest against an account's principal at a
// stated APY.
type YieldEarning struct {
	ID          uuid.UUID `json:"id"`
	AccountID   string    `json:"accountId"`
	Currency    string    `json:"currency"`
	Principal   string    `json:"principal"`
	Earned      string    `json:"earned"`
	CurrentRate float64   `json:"currentRate"`
	Period      string    `json:"period"`
	LastPayment time.Time `json:"lastPayment"`
	NextPayment time.Time `json:"nextPayment"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Widget is an embeddable checkout snippet bound to a payment link.
type Widget struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Style         string     `json:"style"`
	Size          string     `json:"size"`
	ButtonText    string     `json:"buttonText"`
	Description   string     `json:"description,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Active        bool       `json:"isActive"`
	EmbedCode     string     `json:"embedCode"`
	PaymentLinkID string     `json:"paymentLinkId"`
	PrimaryColor  string     `json:"primaryColor,omitempty"`
	BorderRadius  int        `json:"borderRadius,omitempty"`
	ShowAmount    bool       `json:"showAmount,omitempty"`
	ShowCurrency  bool       `json:"showCurrency,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// MonthlyRevenue is one trailing-twelve-months analytics bucket.
type MonthlyRevenue struct {
	Month            string  `json:"month"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transactionCount"`
}

// PaymentMethodShare is the count and percentage of transactions using one
// payment method.
type PaymentMethodShare struct {
	Method     string  `json:"method"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalyticsStats is the on-demand aggregate over the full transaction set.
type AnalyticsStats struct {
	TotalRevenue               float64              `json:"totalRevenue"`
	TransactionCount           int                  `json:"transactionCount"`
	SuccessRate                float64              `json:"successRate"`
	AvgTransactionValue        float64              `json:"avgTransactionValue"`
	TotalCompletedTransactions int                  `json:"totalCompletedTransactions"`
	TotalPendingTransactions   int                  `json:"totalPendingTransactions"`
	TotalFailedTransactions    int                  `json:"totalFailedTransactions"`
	RevenueByCurrency          map[string]float64   `json:"revenueByCurrency"`
	RevenueByMonth             []MonthlyRevenue     `json:"revenueByMonth"`
	PaymentMethodDistribution  []PaymentMethodShare `json:"paymentMethodDistribution"`
	TotalAccounts              int                  `json:"totalAccounts"`
	ActiveAccounts             int                  `json:"activeAccounts"`
	TotalYieldEarned           float64              `json:"totalYieldEarned"`
	CrossBorderTransactions    int                  `json:"crossBorderTransactions"`
	AccountsByType             map[string]int       `json:"accountsByType"`
	YieldByCurrency            map[string]float64   `json:"yieldByCurrency"`
}
