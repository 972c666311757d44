package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArowuTest/growdice-backend/internal/logger"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/repositories/memory"
	"github.com/ArowuTest/growdice-backend/pkg/jwt"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

// fixedRandom always draws index i (mod n).
type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

type harness struct {
	store    *repositories.Store
	notifier *BalanceNotifier
	settings *SystemSettingsService
	catalog  *CatalogService
	wallet   *WalletService
	boxes    *BoxService
	auth     *AuthService
	users    *UserService
	chat     *ChatService
}

func defaultTestSettings() models.SystemSettings {
	return models.SystemSettings{
		ID:               models.SettingsID,
		BettingEnabled:   true,
		MaxBet:           money("50.00"),
		DepositPresets:   []decimal.Decimal{money("10.00"), money("25.00"), money("50.00")},
		AllowCustomTopup: true,
		MaxTopup:         money("500.00"),
	}
}

func newHarness(t *testing.T, rng fixedRandom) *harness {
	t.Helper()
	log := logger.Discard()
	store := memory.NewStore()
	h := &harness{store: store, notifier: NewBalanceNotifier()}
	h.settings = NewSystemSettingsService(store.Settings, defaultTestSettings())
	h.catalog = NewCatalogService(store.Boxes, log)
	h.wallet = NewWalletService(store.Ledger, store.Transactions, h.catalog, h.settings, h.notifier, log)
	h.boxes = NewBoxService(h.catalog, store.Settlements, h.wallet, rng, log)
	h.auth = NewAuthService(store.Users, jwt.NewTokenService("test-secret", time.Hour), money("125.50"),
		func(e string) bool { return e == "admin@growdice.test" }, log)
	h.auth.bcryptCost = bcrypt.MinCost
	h.users = NewUserService(store.Users, store.Settlements, log)
	h.chat = NewChatService(store.Chat, store.Users)

	ctx := context.Background()
	_, err := h.catalog.CreateBox(ctx, &models.BoxRequest{
		ID:    "gems",
		Name:  "Gem Box",
		Price: money("0.50"),
		Rewards: []models.RewardDocument{
			{Symbol: "💎", Value: moneyPtr("0.10")},
			{Symbol: "🔮", Value: moneyPtr("0.20")},
			{Symbol: "👑", Value: moneyPtr("0.90")},
			{Symbol: "🏆", Value: moneyPtr("0.80")},
		},
	})
	require.NoError(t, err)
	return h
}

func (h *harness) newUser(t *testing.T, email, balance string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Role: models.RoleUser, Balance: money(balance)}
	require.NoError(t, h.store.Users.Create(context.Background(), u))
	return u
}

func (h *harness) balance(t *testing.T, u *models.User) decimal.Decimal {
	t.Helper()
	acc, err := h.store.Ledger.GetAccount(context.Background(), u.ID)
	require.NoError(t, err)
	return acc.Balance
}

func newID() primitive.ObjectID { return primitive.NewObjectID() }
