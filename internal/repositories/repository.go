package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrVersionConflict is returned by CommitBalance when the account changed
	// since it was read.
	ErrVersionConflict = errors.New("account version conflict")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	SetRole(ctx context.Context, id primitive.ObjectID, role string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// LedgerRepository owns the balance of an account. Every balance change goes
// through CommitBalance, which applies the new balance, the inventory
// additions and a version bump as one atomic write.
type LedgerRepository interface {
	GetAccount(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	// CommitBalance fails with ErrVersionConflict if the stored version is not
	// expectedVersion, and with ErrNotFound if the account does not exist.
	CommitBalance(ctx context.Context, userID primitive.ObjectID, expectedVersion int64, newBalance decimal.Decimal, inventoryAdd []models.InventoryItem) error
}

// BoxRepository defines the interface for catalog box storage
type BoxRepository interface {
	Create(ctx context.Context, box *models.BoxDocument) error
	FindByID(ctx context.Context, id string) (*models.BoxDocument, error)
	FindAll(ctx context.Context) ([]*models.BoxDocument, error)
	Update(ctx context.Context, box *models.BoxDocument) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SettlementRepository stores the history of box openings
type SettlementRepository interface {
	Create(ctx context.Context, settlement *models.Settlement) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Settlement, error)
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// TransactionRepository stores wallet history
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Transaction, error)
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ChatRepository stores chat room messages
type ChatRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	// FindRecent returns up to limit messages, newest first.
	FindRecent(ctx context.Context, limit int) ([]*models.ChatMessage, error)
}

// SystemSettingsRepository defines the interface for system settings operations
type SystemSettingsRepository interface {
	// GetSettings returns ErrNotFound until settings were saved once.
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings *models.SystemSettings) error
}

// Store bundles one implementation of every repository.
type Store struct {
	Users        UserRepository
	Ledger       LedgerRepository
	Boxes        BoxRepository
	Settlements  SettlementRepository
	Transactions TransactionRepository
	Chat         ChatRepository
	Settings     SystemSettingsRepository
}

// Skip converts a 1-based page into an offset. Non-positive values are
// treated as the first page.
func Skip(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	return (page - 1) * limit
}
