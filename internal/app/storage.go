package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/growdice-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/growdice-backend/pkg/mongodb"
)

// OpenStore opens the repositories selected by Storage.Driver. The returned
// close func releases the connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*repositories.Store, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, state is lost on exit")
		return memory.NewStore(), func(context.Context) error { return nil }, nil
	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info("connected to MongoDB", "database", cfg.MongoDB.Database)
		return mongorepo.NewStore(db), client.Disconnect, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
