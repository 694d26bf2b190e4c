package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
)

// seed loads the fixture ledger the dashboard boots with. Record timestamps
// are anchored to the store clock so the trailing-month analytics buckets stay
// populated no matter when the process starts.
func (s *Store) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	ptr := func(t time.Time) *time.Time { return &t }
	day := 24 * time.Hour

	link1 := &models.PaymentLink{
		ID:             uuid.New(),
		LinkID:         domain.NewShortID(),
		Amount:         "100.00",
		Currency:       domain.CurrencyUSDC,
		Description:    "Premium Subscription",
		Status:         domain.LinkStatusActive,
		SuccessURL:     "https://example.com/success",
		CancelURL:      "https://example.com/cancel",
		MerchantWallet: domain.NewWalletAddress(),
		CreatedAt:      ago(7 * day),
	}
	link2 := &models.PaymentLink{
		ID:             uuid.New(),
		LinkID:         domain.NewShortID(),
		Amount:         "50.00",
		Currency:       domain.CurrencyUSDT,
		Description:    "One-time Payment",
		Status:         domain.LinkStatusActive,
		MerchantWallet: domain.NewWalletAddress(),
		CreatedAt:      ago(3 * day),
	}
	s.links[link1.LinkID] = link1
	s.links[link2.LinkID] = link2

	account1 := &models.VirtualAccount{
		ID:            uuid.New(),
		AccountID:     domain.NewShortID(),
		AccountName:   "Business Operating Account",
		AccountType:   domain.AccountTypeBusiness,
		Status:        domain.AccountStatusActive,
		WalletAddress: domain.NewWalletAddress(),
		Balances: map[string]string{
			domain.CurrencyUSDC:  "25430.50",
			domain.CurrencyUSDT:  "15200.00",
			domain.CurrencyPYUSD: "0.00",
		},
		TotalBalance: "40630.50",
		YieldEnabled: true,
		YieldRate:    4.2,
		Metadata: map[string]string{
			"businessName": "Acme Corp",
			"taxId":        "12-3456789",
		},
		CreatedAt: ago(30 * day),
	}
	account2 := &models.VirtualAccount{
		ID:            uuid.New(),
		AccountID:     domain.NewShortID(),
		AccountName:   "Personal Savings",
		AccountType:   domain.AccountTypeSavings,
		Status:        domain.AccountStatusActive,
		WalletAddress: domain.NewWalletAddress(),
		Balances: map[string]string{
			domain.CurrencyUSDC:  "12500.00",
			domain.CurrencyUSDT:  "0.00",
			domain.CurrencyPYUSD: "5000.00",
		},
		TotalBalance: "17500.00",
		YieldEnabled: true,
		YieldRate:    5.1,
		CreatedAt:    ago(60 * day),
	}
	account3 := &models.VirtualAccount{
		ID:            uuid.New(),
		AccountID:     domain.NewShortID(),
		AccountName:   "Yield Account",
		AccountType:   domain.AccountTypeYield,
		Status:        domain.AccountStatusActive,
		WalletAddress: domain.NewWalletAddress(),
		Balances: map[string]string{
			domain.CurrencyUSDC:  "50000.00",
			domain.CurrencyUSDT:  "25000.00",
			domain.CurrencyPYUSD: "10000.00",
		},
		TotalBalance: "85000.00",
		YieldEnabled: true,
		YieldRate:    6.5,
		CreatedAt:    ago(90 * day),
	}
	s.accounts[account1.AccountID] = account1
	s.accounts[account2.AccountID] = account2
	s.accounts[account3.AccountID] = account3

	s.yieldEarnings = append(s.yieldEarnings,
		&models.YieldEarning{
			ID:          uuid.New(),
			AccountID:   account1.AccountID,
			Currency:    domain.CurrencyUSDC,
			Principal:   "25000.00",
			Earned:      "287.50",
			CurrentRate: 4.2,
			Period:      domain.YieldPeriodMonthly,
			LastPayment: ago(2 * day),
			NextPayment: now.Add(28 * day),
			CreatedAt:   account1.CreatedAt,
		},
		&models.YieldEarning{
			ID:          uuid.New(),
			AccountID:   account2.AccountID,
			Currency:    domain.CurrencyUSDC,
			Principal:   "12500.00",
			Earned:      "159.38",
			CurrentRate: 5.1,
			Period:      domain.YieldPeriodMonthly,
			LastPayment: ago(2 * day),
			NextPayment: now.Add(28 * day),
			CreatedAt:   account2.CreatedAt,
		},
		&models.YieldEarning{
			ID:          uuid.New(),
			AccountID:   account3.AccountID,
			Currency:    domain.CurrencyUSDC,
			Principal:   "50000.00",
			Earned:      "812.50",
			CurrentRate: 6.5,
			Period:      domain.YieldPeriodMonthly,
			LastPayment: ago(2 * day),
			NextPayment: now.Add(28 * day),
			CreatedAt:   account3.CreatedAt,
		},
	)

	s.transactions = append(s.transactions,
		&models.Transaction{
			ID:              uuid.New(),
			PaymentLinkID:   link1.LinkID,
			TransactionType: domain.TxTypePayment,
			Amount:          "100.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			CustomerWallet:  domain.NewWalletAddress(),
			Fees:            "0.30",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(2 * day),
			CompletedAt:     ptr(ago(2*day - 30*time.Second)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			PaymentLinkID:   link1.LinkID,
			TransactionType: domain.TxTypePayment,
			Amount:          "100.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			CustomerWallet:  domain.NewWalletAddress(),
			Fees:            "0.30",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(1 * day),
			CompletedAt:     ptr(ago(1*day - 45*time.Second)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			PaymentLinkID:   link2.LinkID,
			TransactionType: domain.TxTypePayment,
			Amount:          "50.00",
			Currency:        domain.CurrencyUSDT,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			CustomerWallet:  domain.NewWalletAddress(),
			Fees:            "0.15",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(5 * time.Hour),
			CompletedAt:     ptr(ago(5*time.Hour - 20*time.Second)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account1.AccountID,
			TransactionType: domain.TxTypeSend,
			Amount:          "500.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			FromAccount:     account1.AccountID,
			ToAccount:       account2.AccountID,
			RecipientName:   "John Doe",
			RecipientWallet: domain.NewWalletAddress(),
			TransferType:    domain.TransferTypeInternal,
			Fees:            "0.00",
			Memo:            "Monthly allowance",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(3 * day),
			CompletedAt:     ptr(ago(3*day - 10*time.Second)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account2.AccountID,
			TransactionType: domain.TxTypeReceive,
			Amount:          "250.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			FromAccount:     account1.AccountID,
			ToAccount:       account2.AccountID,
			RecipientName:   "Jane Smith",
			TransferType:    domain.TransferTypeInternal,
			Fees:            "0.00",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(4 * day),
			CompletedAt:     ptr(ago(4*day - 5*time.Second)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account1.AccountID,
			TransactionType: domain.TxTypeTransfer,
			Amount:          "1000.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			FromAccount:     account1.AccountID,
			ToAccount:       domain.NewShortID(),
			RecipientName:   "Sarah Johnson",
			RecipientEmail:  "sarah@example.com",
			RecipientWallet: domain.NewWalletAddress(),
			TransferType:    domain.TransferTypeCrossBorder,
			ExchangeRate:    1.0,
			Fees:            "5.00",
			Memo:            "International payment - Invoice #1234",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(6 * day),
			CompletedAt:     ptr(ago(5 * day)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account3.AccountID,
			TransactionType: domain.TxTypeDeposit,
			Amount:          "10000.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodRamp,
			ToAccount:       account3.AccountID,
			Fees:            "25.00",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(7 * day),
			CompletedAt:     ptr(ago(7*day - 2*time.Minute)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account1.AccountID,
			TransactionType: domain.TxTypeWithdrawal,
			Amount:          "2000.00",
			Currency:        domain.CurrencyUSDT,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			FromAccount:     account1.AccountID,
			RecipientWallet: domain.NewWalletAddress(),
			Fees:            "2.00",
			Memo:            "Withdrawal to external wallet",
			Signature:       domain.NewSignature(),
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(8 * day),
			CompletedAt:     ptr(ago(8*day - time.Minute)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account3.AccountID,
			TransactionType: domain.TxTypeYield,
			Amount:          "270.83",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodWallet,
			ToAccount:       account3.AccountID,
			Fees:            "0.00",
			Memo:            "Monthly yield payment",
			TransferRef:     domain.NewTransferRef(),
			CreatedAt:       ago(2 * day),
			CompletedAt:     ptr(ago(2 * day)),
		},
		&models.Transaction{
			ID:              uuid.New(),
			AccountID:       account2.AccountID,
			TransactionType: domain.TxTypeSend,
			Amount:          "150.00",
			Currency:        domain.CurrencyUSDC,
			Status:          domain.TxStatusPending,
			PaymentMethod:   domain.PaymentMethodWallet,
			FromAccount:     account2.AccountID,
			ToAccount:       account1.AccountID,
			RecipientName:   "Bob Wilson",
			TransferType:    domain.TransferTypeInternal,
			Fees:            "0.00",
			CreatedAt:       now,
		},
	)

	// Link counters are derived state. Recompute rather than hardcode so the
	// seeded ledger satisfies the same invariant as a live one.
	s.recomputeLinkStatsLocked(link1.LinkID)
	s.recomputeLinkStatsLocked(link2.LinkID)

	s.widgets = append(s.widgets, &models.Widget{
		ID:         uuid.New(),
		Name:       "Basic Payment Button",
		Type:       domain.WidgetTypeButton,
		Style:      domain.WidgetStyleDefault,
		Size:       domain.WidgetSizeMedium,
		ButtonText: "Pay Now",
		Active:     true,
		EmbedCode: s.renderEmbedCode(CreateWidgetParams{
			Type:       domain.WidgetTypeButton,
			ButtonText: "Pay Now",
			Style:      domain.WidgetStyleDefault,
			Size:       domain.WidgetSizeMedium,
		}, link1),
		PaymentLinkID: link1.LinkID,
		CreatedAt:     ago(1 * day),
	})
}
