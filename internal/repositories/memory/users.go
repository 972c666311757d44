package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// Accounts holds user documents. It serves both UserRepository and
// LedgerRepository so balance commits and profile reads see the same data.
type Accounts struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]primitive.ObjectID
}

var (
	_ repositories.UserRepository   = (*Accounts)(nil)
	_ repositories.LedgerRepository = (*Accounts)(nil)
)

// NewAccounts returns an empty account store.
func NewAccounts() *Accounts {
	return &Accounts{
		byID:    map[primitive.ObjectID]*models.User{},
		byEmail: map[string]primitive.ObjectID{},
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Inventory = append([]models.InventoryItem{}, u.Inventory...)
	return &c
}

// Create inserts a new user.
func (a *Accounts) Create(_ context.Context, user *models.User) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, ok := a.byEmail[email]; ok {
		return fmt.Errorf("%w: email %s", repositories.ErrDuplicate, email)
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Inventory == nil {
		user.Inventory = []models.InventoryItem{}
	}
	a.byID[user.ID] = cloneUser(user)
	a.byEmail[email] = user.ID
	return nil
}

// FindByEmail finds a user by email.
func (a *Accounts) FindByEmail(_ context.Context, email string) (*models.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(a.byID[id]), nil
}

// FindByID finds a user by id.
func (a *Accounts) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	u, ok := a.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

// FindAll returns a page of users, oldest first.
func (a *Accounts) FindAll(_ context.Context, page, limit int) ([]*models.User, error) {
	a.mu.RLock()
	all := make([]*models.User, 0, len(a.byID))
	for _, u := range a.byID {
		c := cloneUser(u)
		c.Inventory = nil
		all = append(all, c)
	}
	a.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.Hex() < all[j].ID.Hex()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return paginate(all, page, limit), nil
}

// Count counts all users.
func (a *Accounts) Count(_ context.Context) (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return int64(len(a.byID)), nil
}

// SetBlocked blocks or unblocks an account.
func (a *Accounts) SetBlocked(_ context.Context, id primitive.ObjectID, blocked bool) error {
	return a.update(id, func(u *models.User) { u.IsBlocked = blocked })
}

// SetRole changes the role of an account.
func (a *Accounts) SetRole(_ context.Context, id primitive.ObjectID, role string) error {
	return a.update(id, func(u *models.User) { u.Role = role })
}

// SetPassword replaces the password hash.
func (a *Accounts) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return a.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (a *Accounts) update(id primitive.ObjectID, fn func(*models.User)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// GetAccount loads the ledger state of a user.
func (a *Accounts) GetAccount(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return a.FindByID(ctx, userID)
}

// CommitBalance applies the change if the stored version still matches.
func (a *Accounts) CommitBalance(_ context.Context, userID primitive.ObjectID, expectedVersion int64, newBalance decimal.Decimal, inventoryAdd []models.InventoryItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, ok := a.byID[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	if u.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	now := time.Now().UTC()
	u.Balance = newBalance
	u.Version++
	u.Inventory = append(u.Inventory, inventoryAdd...)
	u.UpdatedAt = now
	u.LastActivity = now
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit < 1 {
		return items
	}
	start := repositories.Skip(page, limit)
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
