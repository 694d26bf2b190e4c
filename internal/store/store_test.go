package store

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T, s *Store) models.VirtualAccount {
	t.Helper()
	account, err := s.CreateVirtualAccount(CreateVirtualAccountParams{
		AccountName: "Test Account",
		AccountType: domain.AccountTypeBusiness,
	})
	require.NoError(t, err)
	return account
}

func newTestLink(t *testing.T, s *Store) models.PaymentLink {
	t.Helper()
	link, err := s.CreatePaymentLink(CreatePaymentLinkParams{
		Amount:         "100.00",
		Currency:       domain.CurrencyUSDC,
		Description:    "Test Link",
		MerchantWallet: domain.NewWalletAddress(),
	})
	require.NoError(t, err)
	return link
}

func TestNewSeeded_Fixtures(t *testing.T) {
	s := NewSeeded()

	assert.Len(t, s.AllPaymentLinks(), 2)
	assert.Len(t, s.AllVirtualAccounts(), 3)
	assert.Len(t, s.AllTransactions(), 10)
	assert.Len(t, s.AllYieldEarnings(), 3)
	assert.Len(t, s.AllWidgets(), 1)

	// Seeded link counters are derived from the seeded transactions, so the
	// completed-bounded-by-total invariant holds from the first request.
	for _, link := range s.AllPaymentLinks() {
		assert.LessOrEqual(t, link.CompletedCount, link.TransactionCount)
		assert.Positive(t, link.TransactionCount)
	}
}

func TestCreatePaymentLink_Validation(t *testing.T) {
	s := New()

	_, err := s.CreatePaymentLink(CreatePaymentLinkParams{Amount: "0", Currency: domain.CurrencyUSDC, MerchantWallet: "w"})
	assert.Error(t, err)

	_, err = s.CreatePaymentLink(CreatePaymentLinkParams{Amount: "10.00", Currency: "EUR", MerchantWallet: "w"})
	assert.Error(t, err)

	link, err := s.CreatePaymentLink(CreatePaymentLinkParams{Amount: "10.00", Currency: domain.CurrencyUSDT, MerchantWallet: "w"})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkStatusActive, link.Status)
	assert.Len(t, link.LinkID, 8)
	assert.Zero(t, link.TransactionCount)
}

func TestUpdatePaymentLinkStats(t *testing.T) {
	s := New()
	link := newTestLink(t, s)

	s.UpdatePaymentLinkStats(link.LinkID, 5, 3)

	got, err := s.PaymentLinkByLinkID(link.LinkID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.TransactionCount)
	assert.Equal(t, 3, got.CompletedCount)
}

func TestUpdatePaymentLinkStatus(t *testing.T) {
	s := New()
	link := newTestLink(t, s)

	require.NoError(t, s.UpdatePaymentLinkStatus(link.LinkID, domain.LinkStatusPaused))
	got, err := s.PaymentLinkByLinkID(link.LinkID)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkStatusPaused, got.Status)
	require.NotNil(t, got.UpdatedAt)

	assert.Error(t, s.UpdatePaymentLinkStatus(link.LinkID, "archived"))
	assert.ErrorIs(t, s.UpdatePaymentLinkStatus("missing0", domain.LinkStatusActive), models.ErrPaymentLinkNotFound)
}

func TestPaymentLinkByLinkID_NotFound(t *testing.T) {
	s := New()
	_, err := s.PaymentLinkByLinkID("missing")
	assert.ErrorIs(t, err, models.ErrPaymentLinkNotFound)
}

func TestCreateTransaction_RecomputesLinkStats(t *testing.T) {
	s := New()
	link := newTestLink(t, s)

	for _, status := range []string{domain.TxStatusCompleted, domain.TxStatusFailed, domain.TxStatusCompleted} {
		_, err := s.CreateTransaction(CreateTransactionParams{
			PaymentLinkID:   link.LinkID,
			TransactionType: domain.TxTypePayment,
			Amount:          "100.00",
			Currency:        domain.CurrencyUSDC,
			Status:          status,
			PaymentMethod:   domain.PaymentMethodWallet,
		})
		require.NoError(t, err)
	}

	got, err := s.PaymentLinkByLinkID(link.LinkID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TransactionCount)
	assert.Equal(t, 2, got.CompletedCount)
	require.NotNil(t, got.UpdatedAt)
}

func TestCreateTransaction_CompletedAt(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	done, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeDeposit,
		Amount:          "50.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodRamp,
	})
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)
	assert.NotEmpty(t, done.TransferRef)

	pending, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeSend,
		Amount:          "10.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusPending,
		PaymentMethod:   domain.PaymentMethodWallet,
	})
	require.NoError(t, err)
	assert.Nil(t, pending.CompletedAt)
}

func TestBalanceMutation_CreditAndDebit(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	_, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeDeposit,
		Amount:          "100.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodRamp,
	})
	require.NoError(t, err)

	got, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Balances[domain.CurrencyUSDC])
	assert.Equal(t, "100.00", got.TotalBalance)

	_, err = s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeSend,
		Amount:          "30.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
	})
	require.NoError(t, err)

	got, err = s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", got.Balances[domain.CurrencyUSDC])
	assert.Equal(t, "70.00", got.TotalBalance)
	require.NotNil(t, got.UpdatedAt)
}

func TestBalanceMutation_FloorsAtZero(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	_, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeWithdrawal,
		Amount:          "500.00",
		Currency:        domain.CurrencyUSDT,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
	})
	require.NoError(t, err)

	got, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Balances[domain.CurrencyUSDT])
	assert.Equal(t, "0.00", got.TotalBalance)
}

func TestBalanceMutation_PendingAndNeutralTypesDoNotMove(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	// Pending credit: no mutation until completed.
	_, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeDeposit,
		Amount:          "100.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusPending,
		PaymentMethod:   domain.PaymentMethodRamp,
	})
	require.NoError(t, err)

	// Completed transfer: the type is balance-neutral.
	_, err = s.CreateTransaction(CreateTransactionParams{
		AccountID:       account.AccountID,
		TransactionType: domain.TxTypeTransfer,
		Amount:          "100.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
		TransferType:    domain.TransferTypeCrossBorder,
	})
	require.NoError(t, err)

	got, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Balances[domain.CurrencyUSDC])
	assert.Equal(t, "0.00", got.TotalBalance)
}

func TestTotalBalance_SumsAllCurrencies(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	for currency, amount := range map[string]string{
		domain.CurrencyUSDC:  "10.50",
		domain.CurrencyUSDT:  "20.25",
		domain.CurrencyPYUSD: "5.00",
	} {
		_, err := s.CreateTransaction(CreateTransactionParams{
			AccountID:       account.AccountID,
			TransactionType: domain.TxTypeDeposit,
			Amount:          amount,
			Currency:        currency,
			Status:          domain.TxStatusCompleted,
			PaymentMethod:   domain.PaymentMethodRamp,
		})
		require.NoError(t, err)
	}

	got, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)

	total := decimal.Zero
	for _, bal := range got.Balances {
		d, err := decimal.NewFromString(bal)
		require.NoError(t, err)
		total = total.Add(d)
	}
	assert.Equal(t, domain.FormatAmount(total), got.TotalBalance)
	assert.Equal(t, "35.75", got.TotalBalance)
}

func TestTransactionsByAccountID_IncludesLegs(t *testing.T) {
	s := New()
	a := newTestAccount(t, s)
	b := newTestAccount(t, s)

	_, err := s.CreateTransaction(CreateTransactionParams{
		AccountID:       a.AccountID,
		TransactionType: domain.TxTypeSend,
		Amount:          "10.00",
		Currency:        domain.CurrencyUSDC,
		Status:          domain.TxStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
		FromAccount:     a.AccountID,
		ToAccount:       b.AccountID,
	})
	require.NoError(t, err)

	// b never appears as the owning account but is the recipient leg.
	assert.Len(t, s.TransactionsByAccountID(b.AccountID), 1)
	assert.Len(t, s.TransactionsByAccountID(a.AccountID), 1)
	assert.Empty(t, s.TransactionsByAccountID("unknown"))
}

func TestCreateWidget_EmbedCode(t *testing.T) {
	s := New()
	link := newTestLink(t, s)

	widget, err := s.CreateWidget(CreateWidgetParams{
		Name:          "Pay Button",
		Type:          domain.WidgetTypeButton,
		ButtonText:    "Pay Now",
		PaymentLinkID: link.LinkID,
	})
	require.NoError(t, err)
	assert.True(t, widget.Active)
	assert.Contains(t, widget.EmbedCode, link.LinkID)
	assert.Contains(t, widget.EmbedCode, "widget.js")
	assert.Contains(t, widget.EmbedCode, `data-widget-type="button"`)
	// The internal identifier never appears in embed code.
	assert.NotContains(t, widget.EmbedCode, link.ID.String())
}

func TestCreateWidget_CheckoutIframe(t *testing.T) {
	s := New(WithWidgetOrigin("https://pay.example.com"))
	link := newTestLink(t, s)

	widget, err := s.CreateWidget(CreateWidgetParams{
		Name:          "Embedded Checkout",
		Type:          domain.WidgetTypeCheckout,
		ButtonText:    "Checkout",
		PaymentLinkID: link.LinkID,
	})
	require.NoError(t, err)
	assert.Contains(t, widget.EmbedCode, "<iframe")
	assert.Contains(t, widget.EmbedCode, "https://pay.example.com/checkout/"+link.LinkID+"?embed=true")
}

func TestCreateWidget_UnknownLink(t *testing.T) {
	s := New()
	_, err := s.CreateWidget(CreateWidgetParams{
		Name:          "Orphan",
		Type:          domain.WidgetTypeButton,
		ButtonText:    "Pay",
		PaymentLinkID: "missing0",
	})
	assert.ErrorIs(t, err, models.ErrPaymentLinkNotFound)
}

func TestCreateWidget_CardAttributes(t *testing.T) {
	s := New()
	link := newTestLink(t, s)

	widget, err := s.CreateWidget(CreateWidgetParams{
		Name:          "Card",
		Type:          domain.WidgetTypeCard,
		ButtonText:    "Buy",
		Description:   "A card widget",
		ImageURL:      "https://img.example.com/p.png",
		PaymentLinkID: link.LinkID,
		ShowAmount:    true,
		ShowCurrency:  true,
	})
	require.NoError(t, err)
	assert.Contains(t, widget.EmbedCode, `data-squadgrid-widget="card"`)
	assert.Contains(t, widget.EmbedCode, `data-description="A card widget"`)
	assert.Contains(t, widget.EmbedCode, `data-amount="100.00"`)
	assert.Contains(t, widget.EmbedCode, `data-currency="USDC"`)
	assert.True(t, strings.HasSuffix(widget.EmbedCode, "</script>"))
}

func TestCreateVirtualAccount_Defaults(t *testing.T) {
	s := New()

	account, err := s.CreateVirtualAccount(CreateVirtualAccountParams{
		AccountName: "Savings",
		AccountType: domain.AccountTypeSavings,
		EnableYield: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusActive, account.Status)
	assert.Equal(t, 5.1, account.YieldRate)
	assert.Equal(t, "0.00", account.TotalBalance)
	for _, c := range domain.Currencies {
		assert.Equal(t, "0.00", account.Balances[c])
	}

	_, err = s.CreateVirtualAccount(CreateVirtualAccountParams{AccountName: "", AccountType: domain.AccountTypeBusiness})
	assert.Error(t, err)

	_, err = s.CreateVirtualAccount(CreateVirtualAccountParams{AccountName: "X", AccountType: "checking"})
	assert.Error(t, err)
}

func TestAccountSnapshotIsolation(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	got, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	got.Balances[domain.CurrencyUSDC] = "999.99"

	again, err := s.VirtualAccountByAccountID(account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", again.Balances[domain.CurrencyUSDC])
}

func TestCreateYieldEarning(t *testing.T) {
	s := New()
	account := newTestAccount(t, s)

	earning, err := s.CreateYieldEarning(CreateYieldEarningParams{
		AccountID:   account.AccountID,
		Currency:    domain.CurrencyUSDC,
		Principal:   "1000.00",
		Earned:      "0.00",
		CurrentRate: 4.2,
		Period:      domain.YieldPeriodMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, earning.LastPayment.Add(domain.YieldPeriodDuration(domain.YieldPeriodMonthly)), earning.NextPayment)

	_, err = s.CreateYieldEarning(CreateYieldEarningParams{
		AccountID: "missing0",
		Currency:  domain.CurrencyUSDC,
		Period:    domain.YieldPeriodMonthly,
	})
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestDeleteOperations(t *testing.T) {
	s := NewSeeded()

	links := s.AllPaymentLinks()
	require.NotEmpty(t, links)
	assert.True(t, s.DeletePaymentLink(links[0].LinkID))
	assert.False(t, s.DeletePaymentLink(links[0].LinkID))

	accounts := s.AllVirtualAccounts()
	require.NotEmpty(t, accounts)
	assert.True(t, s.DeleteVirtualAccount(accounts[0].AccountID))
	assert.False(t, s.DeleteVirtualAccount(accounts[0].AccountID))

	widgets := s.AllWidgets()
	require.NotEmpty(t, widgets)
	assert.True(t, s.DeleteWidget(widgets[0].ID))
	assert.False(t, s.DeleteWidget(widgets[0].ID))
}

func TestAllTransactions_NewestFirst(t *testing.T) {
	s := NewSeeded()
	txs := s.AllTransactions()
	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i-1].CreatedAt.Before(txs[i].CreatedAt))
	}
}

func TestCrossBorderTransactions(t *testing.T) {
	s := NewSeeded()
	txs := s.CrossBorderTransactions()
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TransferTypeCrossBorder, txs[0].TransferType)
}
