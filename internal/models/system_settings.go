package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the id of the single settings document.
const SettingsID = "global"

// SystemSettings represents platform-wide settings editable by admins.
type SystemSettings struct {
	ID               string            `bson:"_id" json:"-"`
	BettingEnabled   bool              `bson:"bettingEnabled" json:"bettingEnabled"`
	MaxBet           decimal.Decimal   `bson:"maxBet" json:"maxBet"`
	DepositPresets   []decimal.Decimal `bson:"depositPresets" json:"depositPresets"`
	AllowCustomTopup bool              `bson:"allowCustomTopup" json:"allowCustomTopup"`
	MaxTopup         decimal.Decimal   `bson:"maxTopup" json:"maxTopup"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy        string            `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// SettingsUpdateRequest changes only the fields that are present.
type SettingsUpdateRequest struct {
	BettingEnabled   *bool             `json:"bettingEnabled"`
	MaxBet           *decimal.Decimal  `json:"maxBet"`
	DepositPresets   []decimal.Decimal `json:"depositPresets"`
	AllowCustomTopup *bool             `json:"allowCustomTopup"`
	MaxTopup         *decimal.Decimal  `json:"maxTopup"`
}
