package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies wallet movements.
type TransactionType string

const (
	TransactionTopup    TransactionType = "TOPUP"
	TransactionPurchase TransactionType = "PURCHASE"
	TransactionOpen     TransactionType = "OPEN"
)

// Transaction is one entry of a player's wallet history. Amount is signed:
// credits are positive, debits negative.
type Transaction struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Type         TransactionType    `bson:"type" json:"type"`
	Amount       decimal.Decimal    `bson:"amount" json:"amount"`
	BalanceAfter decimal.Decimal    `bson:"balanceAfter" json:"balanceAfter"`
	Reference    string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// TopupRequest is the body of a wallet top-up.
type TopupRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// WalletSummary is returned by the wallet endpoint.
type WalletSummary struct {
	Balance          decimal.Decimal   `json:"balance"`
	DepositPresets   []decimal.Decimal `json:"depositPresets"`
	AllowCustomTopup bool              `json:"allowCustomTopup"`
	MaxTopup         decimal.Decimal   `json:"maxTopup"`
}

// Page is a paged list response.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
