package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

var _ repositories.SettlementRepository = (*SettlementRepository)(nil)

// SettlementRepository implements the repositories.SettlementRepository interface
type SettlementRepository struct {
	collection *mongo.Collection
}

// NewSettlementRepository creates a new SettlementRepository
func NewSettlementRepository(db *mongo.Database) *SettlementRepository {
	return &SettlementRepository{collection: db.Collection(settlementsCollection)}
}

// Create inserts a settlement record
func (r *SettlementRepository) Create(ctx context.Context, s *models.Settlement) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: settlement %s", repositories.ErrDuplicate, s.ID.Hex())
	}
	return err
}

// FindByUserID returns a page of a user's settlements, newest first
func (r *SettlementRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Settlement, error) {
	opts := options.Find().
		SetSkip(int64(repositories.Skip(page, limit))).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []*models.Settlement{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUserID counts a user's settlements
func (r *SettlementRepository) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
