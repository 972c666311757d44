package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

const (
	usersCollection        = "users"
	boxesCollection        = "boxes"
	settlementsCollection  = "settlements"
	transactionsCollection = "transactions"
	chatCollection         = "chat_messages"
	settingsCollection     = "system_settings"
)

// NewStore wires every Mongo repository over db.
func NewStore(db *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Users:        NewUserRepository(db),
		Ledger:       NewLedgerRepository(db),
		Boxes:        NewBoxRepository(db),
		Settlements:  NewSettlementRepository(db),
		Transactions: NewTransactionRepository(db),
		Chat:         NewChatRepository(db),
		Settings:     NewSystemSettingsRepository(db),
	}
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	byUserNewest := bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		settlementsCollection: {
			{Keys: byUserNewest},
			{Keys: bson.D{{Key: "attemptId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		transactionsCollection: {
			{Keys: byUserNewest},
		},
		chatCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
