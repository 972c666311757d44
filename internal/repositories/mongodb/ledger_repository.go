package mongodb

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository applies balance changes to user documents with an
// optimistic version check.
type LedgerRepository struct {
	collection *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository over the users collection
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{collection: db.Collection(usersCollection)}
}

// GetAccount loads the ledger state of a user.
func (r *LedgerRepository) GetAccount(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CommitBalance writes balance, inventory and version in one update filtered
// on the expected version.
func (r *LedgerRepository) CommitBalance(ctx context.Context, userID primitive.ObjectID, expectedVersion int64, newBalance decimal.Decimal, inventoryAdd []models.InventoryItem) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"balance":      newBalance,
			"updatedAt":    now,
			"lastActivity": now,
		},
		"$inc": bson.M{"version": 1},
	}
	if len(inventoryAdd) > 0 {
		update["$push"] = bson.M{"inventory": bson.M{"$each": inventoryAdd}}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID, "version": expectedVersion}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrVersionConflict
}
