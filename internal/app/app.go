package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ArowuTest/growdice-backend/api/routes"
	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/handlers"
	"github.com/ArowuTest/growdice-backend/internal/middleware"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/services"
	"github.com/ArowuTest/growdice-backend/pkg/jwt"
)

// App is the wired service graph behind the HTTP API.
type App struct {
	Config   *config.Config
	Store    *repositories.Store
	Tokens   *jwt.TokenService
	Settings *services.SystemSettingsService
	Catalog  *services.CatalogService
	Wallet   *services.WalletService
	Boxes    *services.BoxService
	Auth     *services.AuthService
	Users    *services.UserService
	Chat     *services.ChatService
	Handler  http.Handler
}

// New wires services and handlers over store. A nil rng selects the
// crypto-backed source, or a seeded one when Game.RandomSeed is set.
func New(cfg *config.Config, store *repositories.Store, rng engine.RandomSource, log *slog.Logger) (*App, error) {
	defaults, err := services.DefaultSettings(cfg)
	if err != nil {
		return nil, err
	}
	startingBalance, err := cfg.StartingBalance()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		if cfg.Game.RandomSeed != 0 {
			log.Warn("using a seeded random source, draws are reproducible", "seed", cfg.Game.RandomSeed)
			rng = engine.NewSeededRandom(cfg.Game.RandomSeed)
		} else {
			rng = engine.DefaultRandom()
		}
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Tokens: jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second),
	}
	notifier := services.NewBalanceNotifier()
	a.Settings = services.NewSystemSettingsService(store.Settings, defaults)
	a.Catalog = services.NewCatalogService(store.Boxes, log)
	a.Wallet = services.NewWalletService(store.Ledger, store.Transactions, a.Catalog, a.Settings, notifier, log)
	a.Boxes = services.NewBoxService(a.Catalog, store.Settlements, a.Wallet, rng, log)
	a.Auth = services.NewAuthService(store.Users, a.Tokens, startingBalance, cfg.IsAdminEmail, log)
	a.Users = services.NewUserService(store.Users, store.Settlements, log)
	a.Chat = services.NewChatService(store.Chat, store.Users)

	router := routes.SetupRouter(cfg, a.Tokens, &routes.Handlers{
		Auth:     handlers.NewAuthHandler(a.Auth),
		Box:      handlers.NewBoxHandler(a.Catalog, a.Boxes),
		Wallet:   handlers.NewWalletHandler(a.Wallet),
		User:     handlers.NewUserHandler(a.Users, a.Boxes),
		Settings: handlers.NewSystemSettingsHandler(a.Settings),
		Chat:     handlers.NewChatHandler(a.Chat),
	}, log)
	a.Handler = middleware.Compression(router)
	return a, nil
}

// SeedCatalog loads Catalog.SeedFile into an empty catalog. It is a no-op
// when no file is configured.
func (a *App) SeedCatalog(ctx context.Context) (int, error) {
	if a.Config.Catalog.SeedFile == "" {
		return 0, nil
	}
	boxes, err := services.LoadBoxFile(a.Config.Catalog.SeedFile)
	if err != nil {
		return 0, err
	}
	n, err := a.Catalog.SeedBoxes(ctx, boxes, true)
	if err != nil {
		return n, fmt.Errorf("seed catalog: %w", err)
	}
	return n, nil
}
