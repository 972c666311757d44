package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/models"
)

func TestWalletService_TopupPreset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	u := h.newUser(t, "topup@growdice.test", "125.50")

	tx, err := h.wallet.Topup(ctx, u.ID, money("25"))
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTopup, tx.Type)
	assert.True(t, tx.BalanceAfter.Equal(money("150.50")))
	assert.True(t, h.balance(t, u).Equal(money("150.50")))

	sum, err := h.wallet.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, sum.DepositPresets, 3)
	assert.True(t, sum.Balance.Equal(money("150.50")))
}

func TestWalletService_TopupValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	u := h.newUser(t, "val@growdice.test", "0.00")

	for _, amt := range []string{"0", "-5", "10.001", "500.01"} {
		_, err := h.wallet.Topup(ctx, u.ID, money(amt))
		assert.ErrorIs(t, err, ErrInvalidTopup, amt)
	}

	_, err := h.wallet.Topup(ctx, u.ID, money("7.77"))
	require.NoError(t, err)

	off := false
	_, err = h.settings.UpdateSettings(ctx, &models.SettingsUpdateRequest{AllowCustomTopup: &off}, "admin")
	require.NoError(t, err)
	_, err = h.wallet.Topup(ctx, u.ID, money("7.77"))
	assert.ErrorIs(t, err, ErrInvalidTopup)
	_, err = h.wallet.Topup(ctx, u.ID, money("10.00"))
	assert.NoError(t, err)

	assert.True(t, h.balance(t, u).Equal(money("17.77")))
}

func TestWalletService_BlockedAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	u := h.newUser(t, "blk@growdice.test", "5.00")
	require.NoError(t, h.store.Users.SetBlocked(ctx, u.ID, true))

	_, err := h.wallet.Topup(ctx, u.ID, money("10"))
	assert.ErrorIs(t, err, ErrAccountBlocked)
	_, err = h.wallet.Purchase(ctx, u.ID, "gems")
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestWalletService_Purchase(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	u := h.newUser(t, "buy@growdice.test", "0.75")

	tx, err := h.wallet.Purchase(ctx, u.ID, "gems")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionPurchase, tx.Type)
	assert.Equal(t, "gems", tx.Reference)
	assert.True(t, tx.Amount.Equal(money("-0.50")))
	assert.True(t, h.balance(t, u).Equal(money("0.25")))

	_, err = h.wallet.Purchase(ctx, u.ID, "gems")
	assert.ErrorIs(t, err, engine.ErrInsufficientFunds)

	_, err = h.wallet.Purchase(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestWalletService_TopupRetriesVersionConflict(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	u := h.newUser(t, "retry@growdice.test", "1.00")
	h.wallet.ledger = &racingLedger{LedgerRepository: h.store.Ledger}

	_, err := h.wallet.Topup(ctx, u.ID, money("10"))
	require.NoError(t, err)
	// the racing +5 and the top-up both land
	assert.True(t, h.balance(t, u).Equal(money("16.00")))
}

func TestNotifier_SubscribeAndCancel(t *testing.T) {
	n := NewBalanceNotifier()
	u := newID()
	ch, cancel := n.Subscribe(u)
	assert.Equal(t, 1, n.Subscribers(u))

	n.Publish(BalanceEvent{UserID: u, Balance: decimal.NewFromInt(3)})
	evt := <-ch
	assert.True(t, evt.Balance.Equal(decimal.NewFromInt(3)))

	cancel()
	cancel()
	assert.Zero(t, n.Subscribers(u))
	_, open := <-ch
	assert.False(t, open)

	// publishing with no subscribers is a no-op
	n.Publish(BalanceEvent{UserID: u})
}

func TestNotifier_DropsWhenSubscriberIsSlow(t *testing.T) {
	n := NewBalanceNotifier()
	u := newID()
	ch, cancel := n.Subscribe(u)
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		n.Publish(BalanceEvent{UserID: u, Balance: decimal.NewFromInt(int64(i))})
	}
	assert.Len(t, ch, subscriberBuffer)
}
