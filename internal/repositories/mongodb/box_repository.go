package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

var _ repositories.BoxRepository = (*BoxRepository)(nil)

// BoxRepository implements the repositories.BoxRepository interface
type BoxRepository struct {
	collection *mongo.Collection
}

// NewBoxRepository creates a new BoxRepository
func NewBoxRepository(db *mongo.Database) *BoxRepository {
	return &BoxRepository{
		collection: db.Collection(boxesCollection),
	}
}

// Create inserts a box; the id must be set and unused.
func (r *BoxRepository) Create(ctx context.Context, box *models.BoxDocument) error {
	now := time.Now().UTC()
	box.CreatedAt = now
	box.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, box)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: box %s", repositories.ErrDuplicate, box.ID)
	}
	return err
}

// FindByID finds a box by ID
func (r *BoxRepository) FindByID(ctx context.Context, id string) (*models.BoxDocument, error) {
	var box models.BoxDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&box); err != nil {
		return nil, notFound(err)
	}
	return &box, nil
}

// FindAll returns every box in creation order.
func (r *BoxRepository) FindAll(ctx context.Context) ([]*models.BoxDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	boxes := []*models.BoxDocument{}
	if err := cursor.All(ctx, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

// Update replaces a box, keeping its creation time.
func (r *BoxRepository) Update(ctx context.Context, box *models.BoxDocument) error {
	box.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":      box.Name,
		"price":     box.Price,
		"rewards":   box.Rewards,
		"updatedAt": box.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": box.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a box by ID
func (r *BoxRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Count counts all boxes
func (r *BoxRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
