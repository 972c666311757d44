package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a player account. Balance, Version and Inventory form the ledger
// state and are only changed together through the ledger repository.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Balance      decimal.Decimal    `bson:"balance" json:"balance"`
	Version      int64              `bson:"version" json:"version"`
	Inventory    []InventoryItem    `bson:"inventory" json:"inventory"`
	IsBlocked    bool               `bson:"isBlocked" json:"isBlocked"`
	LastActivity time.Time          `bson:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// InventoryItem is a reward won from a box.
type InventoryItem struct {
	Symbol       string          `bson:"symbol" json:"symbol"`
	Name         string          `bson:"name,omitempty" json:"name,omitempty"`
	Value        decimal.Decimal `bson:"value" json:"value"`
	BoxID        string          `bson:"boxId" json:"boxId"`
	SettlementID string          `bson:"settlementId,omitempty" json:"settlementId,omitempty"`
	AcquiredAt   time.Time       `bson:"acquiredAt" json:"acquiredAt"`
}

// UserProfile is the account summary shown on the profile page.
type UserProfile struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Initial        string          `json:"initial"`
	Role           string          `json:"role"`
	Balance        decimal.Decimal `json:"balance"`
	Inventory      []InventoryItem `json:"inventory"`
	InventoryCount int             `json:"inventoryCount"`
	BoxesOpened    int64           `json:"boxesOpened"`
	IsBlocked      bool            `json:"isBlocked"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewUserProfile builds the profile view of u.
func NewUserProfile(u *User, opened int64) UserProfile {
	initial := ""
	if e := strings.TrimSpace(u.Email); e != "" {
		initial = strings.ToUpper(string([]rune(e)[0]))
	}
	inv := u.Inventory
	if inv == nil {
		inv = []InventoryItem{}
	}
	return UserProfile{
		ID:             u.ID.Hex(),
		Email:          u.Email,
		Initial:        initial,
		Role:           u.Role,
		Balance:        u.Balance,
		Inventory:      inv,
		InventoryCount: len(inv),
		BoxesOpened:    opened,
		IsBlocked:      u.IsBlocked,
		CreatedAt:      u.CreatedAt,
	}
}
