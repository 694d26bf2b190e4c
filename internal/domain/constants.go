package domain

import "time"

// Supported stablecoin currencies. The rail is fixed to these three.
const (
	CurrencyUSDC  = "USDC"
	CurrencyUSDT  = "USDT"
	CurrencyPYUSD = "PYUSD"
)

// Currencies lists the supported currencies in canonical order.
var Currencies = []string{CurrencyUSDC, CurrencyUSDT, CurrencyPYUSD}

const (
	LinkStatusActive    = "active"
	LinkStatusCompleted = "completed"
	LinkStatusExpired   = "expired"
	LinkStatusPaused    = "paused"

	TxStatusCompleted  = "completed"
	TxStatusPending    = "pending"
	TxStatusProcessing = "processing"
	TxStatusFailed     = "failed"
	TxStatusCancelled  = "cancelled"

	TxTypePayment    = "payment"
	TxTypeSend       = "send"
	TxTypeReceive    = "receive"
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeTransfer   = "transfer"
	TxTypeYield      = "yield"

	PaymentMethodWallet = "wallet"
	PaymentMethodRamp   = "ramp"
	PaymentMethodCard   = "card"

	AccountTypeBusiness = "business"
	AccountTypePersonal = "personal"
	AccountTypeSavings  = "savings"
	AccountTypeYield    = "yield"

	AccountStatusActive    = "active"
	AccountStatusInactive  = "inactive"
	AccountStatusSuspended = "suspended"
	AccountStatusClosed    = "closed"

	TransferTypeDomestic    = "domestic"
	TransferTypeCrossBorder = "cross_border"
	TransferTypeInternal    = "internal"

	WidgetTypeButton       = "button"
	WidgetTypeCard         = "card"
	WidgetTypeInline       = "inline"
	WidgetTypeCheckout     = "checkout"
	WidgetTypeDonation     = "donation"
	WidgetTypeSubscription = "subscription"

	WidgetStyleDefault = "default"
	WidgetStyleOutline = "outline"
	WidgetStyleGhost   = "ghost"
	WidgetStylePill    = "pill"
	WidgetStyleMinimal = "minimal"

	WidgetSizeSmall  = "sm"
	WidgetSizeMedium = "md"
	WidgetSizeLarge  = "lg"

	YieldPeriodDaily   = "daily"
	YieldPeriodWeekly  = "weekly"
	YieldPeriodMonthly = "monthly"
	YieldPeriodYearly  = "yearly"
)

// PaymentMethods lists the supported payment methods in canonical order.
var PaymentMethods = []string{PaymentMethodWallet, PaymentMethodRamp, PaymentMethodCard}

// IsValidCurrency reports whether currency is one of the three supported stablecoins.
func IsValidCurrency(currency string) bool {
	switch currency {
	case CurrencyUSDC, CurrencyUSDT, CurrencyPYUSD:
		return true
	default:
		return false
	}
}

// IsValidPaymentMethod reports whether method is a supported payment method.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodWallet, PaymentMethodRamp, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// IsValidLinkStatus reports whether s is a known payment link status.
func IsValidLinkStatus(s string) bool {
	switch s {
	case LinkStatusActive, LinkStatusCompleted, LinkStatusExpired, LinkStatusPaused:
		return true
	default:
		return false
	}
}

// IsValidTransactionType reports whether t is a known transaction type.
func IsValidTransactionType(t string) bool {
	switch t {
	case TxTypePayment, TxTypeSend, TxTypeReceive, TxTypeDeposit, TxTypeWithdrawal, TxTypeTransfer, TxTypeYield:
		return true
	default:
		return false
	}
}

// IsValidTransactionStatus reports whether s is a known transaction status.
func IsValidTransactionStatus(s string) bool {
	switch s {
	case TxStatusCompleted, TxStatusPending, TxStatusProcessing, TxStatusFailed, TxStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidAccountType reports whether t is a known virtual account type.
func IsValidAccountType(t string) bool {
	switch t {
	case AccountTypeBusiness, AccountTypePersonal, AccountTypeSavings, AccountTypeYield:
		return true
	default:
		return false
	}
}

// IsValidWidgetType reports whether t is a known widget type.
func IsValidWidgetType(t string) bool {
	switch t {
	case WidgetTypeButton, WidgetTypeCard, WidgetTypeInline, WidgetTypeCheckout, WidgetTypeDonation, WidgetTypeSubscription:
		return true
	default:
		return false
	}
}

// YieldPeriodDuration maps an accrual period to the span between payments.
// Months are a flat 30 days on this rail.
func YieldPeriodDuration(period string) time.Duration {
	switch period {
	case YieldPeriodDaily:
		return 24 * time.Hour
	case YieldPeriodWeekly:
		return 7 * 24 * time.Hour
	case YieldPeriodYearly:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// YieldRateForAccountType returns the fixed APY offered when yield is enabled.
// These are business policy rates, not derived values.
func YieldRateForAccountType(accountType string) float64 {
	switch accountType {
	case AccountTypeYield:
		return 6.5
	case AccountTypeSavings:
		return 5.1
	default:
		return 4.2
	}
}
