package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/logger"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories/memory"
)

func init() { gin.SetMode(gin.TestMode) }

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{AllowedOrigins: []string{"*"}},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
		Auth:    config.AuthConfig{AdminEmails: []string{"admin@growdice.test"}, StartingBalance: "125.50"},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Game: config.GameConfig{
			BettingEnabled:   true,
			MaxBet:           "100.00",
			DepositPresets:   []string{"10.00", "25.00", "50.00"},
			AllowCustomTopup: false,
			MaxTopup:         "500.00",
		},
	}
}

type client struct {
	t *testing.T
	h http.Handler
}

func newApp(t *testing.T, rng fixedRandom) (*App, *client) {
	t.Helper()
	a, err := New(testConfig(), memory.NewStore(), rng, logger.Discard())
	require.NoError(t, err)
	return a, &client{t: t, h: a.Handler}
}

func (c *client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (c *client) register(email string) models.AuthResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": "hunter22"})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.AuthResponse](c.t, rec)
}

var gemBox = gin.H{
	"id":    "gems",
	"name":  "Gem Box",
	"price": "0.50",
	"rewards": []gin.H{
		{"symbol": "💎", "value": "0.10"},
		{"symbol": "🔮", "value": "0.20"},
		{"symbol": "👑", "value": "0.90"},
		{"symbol": "🏆", "value": "0.80"},
	},
}

func TestHealth(t *testing.T) {
	_, c := newApp(t, 0)
	rec := c.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterLoginAndProfile(t *testing.T) {
	_, c := newApp(t, 0)
	reg := c.register("Player@GrowDice.test")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "player@growdice.test", reg.User.Email)
	assert.True(t, reg.User.Balance.Equal(money("125.50")))

	rec := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "player@growdice.test", "password": "hunter22"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "player@growdice.test", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "player@growdice.test", "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[models.AuthResponse](t, rec)

	rec = c.do(http.MethodGet, "/api/v1/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[models.UserProfile](t, rec)
	assert.Equal(t, "P", profile.Initial)
	assert.Zero(t, profile.BoxesOpened)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/me", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "nope"}).Code)
}

func TestOpenBoxWithBet(t *testing.T) {
	_, c := newApp(t, 2) // 👑 0.90 beats the 0.50 average
	admin := c.register("admin@growdice.test")
	player := c.register("player@growdice.test")

	require.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/admin/boxes", player.Token, gemBox).Code)
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token, gemBox).Code)

	rec := c.do(http.MethodPost, "/api/v1/boxes/gems/open", player.Token, gin.H{"bet": gin.H{"amount": "1.00", "active": true}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decode[models.Settlement](t, rec)
	assert.Equal(t, "👑", st.RewardSymbol)
	assert.True(t, st.NewBalance.Equal(money("126.90")), st.NewBalance.String())
	assert.True(t, st.Delta.Equal(money("1.40")), st.Delta.String())
	require.NotNil(t, st.Bet)
	assert.True(t, st.Bet.Won)

	rec = c.do(http.MethodGet, "/api/v1/wallet", player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.WalletSummary](t, rec)
	assert.True(t, summary.Balance.Equal(money("126.90")))

	rec = c.do(http.MethodGet, "/api/v1/me/settlements", player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[models.Page[*models.Settlement]](t, rec)
	assert.EqualValues(t, 1, history.Total)

	rec = c.do(http.MethodGet, "/api/v1/wallet/transactions", player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txs := decode[models.Page[*models.Transaction]](t, rec)
	require.Len(t, txs.Items, 1)
	assert.Equal(t, models.TransactionOpen, txs.Items[0].Type)
}

func TestOpenBoxErrors(t *testing.T) {
	a, c := newApp(t, 0)
	admin := c.register("admin@growdice.test")
	player := c.register("player@growdice.test")
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token, gemBox).Code)
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token,
		gin.H{"id": "empty", "name": "Empty", "price": "1.00"}).Code)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/boxes/gems/open", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/boxes/nope/open", player.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/boxes/empty/open", player.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/boxes/gems/open", player.Token,
		gin.H{"bet": gin.H{"amount": "500.00", "active": true}}).Code)
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token,
		gin.H{"id": "vault", "name": "Vault", "price": "200.00", "rewards": []gin.H{{"symbol": "💰", "value": "400.00"}}}).Code)
	assert.Equal(t, http.StatusPaymentRequired, c.do(http.MethodPost, "/api/v1/boxes/vault/open", player.Token, nil).Code)

	acc, err := a.Store.Users.FindByEmail(context.Background(), "player@growdice.test")
	require.NoError(t, err)
	rec := c.do(http.MethodPut, "/api/v1/admin/users/"+acc.ID.Hex()+"/block", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/boxes/gems/open", player.Token, nil).Code)

	rec = c.do(http.MethodPut, "/api/v1/admin/users/"+acc.ID.Hex()+"/unblock", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/v1/admin/users/xyz/block", admin.Token, nil).Code)

	rec = c.do(http.MethodPut, "/api/v1/admin/settings", admin.Token, gin.H{"bettingEnabled": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/boxes/gems/open", player.Token,
		gin.H{"bet": gin.H{"amount": "1.00", "active": true}}).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/boxes/gems/open", player.Token, nil).Code)
}

func TestCatalogEndpoints(t *testing.T) {
	_, c := newApp(t, 0)
	admin := c.register("admin@growdice.test")
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token, gemBox).Code)

	rec := c.do(http.MethodGet, "/api/v1/boxes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = c.do(http.MethodGet, "/api/v1/boxes/gems/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[models.BoxStats](t, rec)
	assert.Equal(t, "0.50", stats.AverageValue)
	assert.InDelta(t, 0.5, stats.BetWinChance, 1e-9)

	update := gin.H{"name": "Gem Box II", "price": "0.75", "rewards": []gin.H{{"symbol": "💎", "value": "1.00"}}}
	rec = c.do(http.MethodPut, "/api/v1/admin/boxes/gems", admin.Token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/api/v1/admin/boxes/gems", admin.Token,
		gin.H{"name": "Bad", "price": "-1.00"}).Code)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/v1/admin/boxes/gems", admin.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/boxes/gems", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/v1/admin/boxes/gems", admin.Token, nil).Code)
}

func TestWalletTopupAndPurchase(t *testing.T) {
	_, c := newApp(t, 0)
	admin := c.register("admin@growdice.test")
	player := c.register("player@growdice.test")
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/admin/boxes", admin.Token, gemBox).Code)

	rec := c.do(http.MethodPost, "/api/v1/wallet/topup", player.Token, gin.H{"amount": "25.00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tx := decode[models.Transaction](t, rec)
	assert.True(t, tx.BalanceAfter.Equal(money("150.50")))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/wallet/topup", player.Token, gin.H{"amount": "12.00"}).Code)

	rec = c.do(http.MethodPost, "/api/v1/store/purchase/gems", player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tx = decode[models.Transaction](t, rec)
	assert.Equal(t, models.TransactionPurchase, tx.Type)
	assert.True(t, tx.BalanceAfter.Equal(money("150.00")))
}

func TestChat(t *testing.T) {
	_, c := newApp(t, 0)
	player := c.register("player@growdice.test")

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/chat/messages", "", gin.H{"text": "hi"}).Code)
	rec := c.do(http.MethodPost, "/api/v1/chat/messages", player.Token, gin.H{"text": "  gg  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/chat/messages", player.Token,
		gin.H{"text": strings.Repeat("x", 501)}).Code)

	rec = c.do(http.MethodGet, "/api/v1/chat/messages?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decode[[]models.ChatMessage](t, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "gg", msgs[0].Text)
	assert.Equal(t, "player@growdice.test", msgs[0].Author)
}

func TestResponsesAreCompressed(t *testing.T) {
	_, c := newApp(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/boxes", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestBalanceStream(t *testing.T) {
	_, c := newApp(t, 0)
	player := c.register("player@growdice.test")

	srv := httptest.NewServer(c.h)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/wallet/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+player.Token)
	req.Header.Set("Accept", "text/event-stream")
	hc := &http.Client{Timeout: 5 * time.Second}
	resp, err := hc.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := json.Marshal(gin.H{"amount": "10.00"})
	require.NoError(t, err)
	topup, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/wallet/topup", bytes.NewReader(body))
	require.NoError(t, err)
	topup.Header.Set("Authorization", "Bearer "+player.Token)
	topup.Header.Set("Content-Type", "application/json")
	topupResp, err := hc.Do(topup)
	require.NoError(t, err)
	topupResp.Body.Close()
	require.Equal(t, http.StatusOK, topupResp.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data:") {
			data = strings.TrimPrefix(line, "data:")
			break
		}
	}
	require.NotEmpty(t, data, "no balance event received")
	var evt struct {
		Balance decimal.Decimal `json:"balance"`
		Reason  string          `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &evt))
	assert.Equal(t, "TOPUP", evt.Reason)
	assert.True(t, evt.Balance.Equal(money("135.50")))
}

func TestSeedCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
boxes:
  - id: starter
    name: Starter Box
    price: "1.00"
    rewards:
      - symbol: "🍀"
        value: "0.50"
      - symbol: "🌟"
        value: "2.00"
`), 0o600))

	cfg := testConfig()
	cfg.Catalog.SeedFile = path
	a, err := New(cfg, memory.NewStore(), fixedRandom(0), logger.Discard())
	require.NoError(t, err)

	n, err := a.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = a.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
