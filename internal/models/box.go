package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ArowuTest/growdice-backend/internal/engine"
)

// BoxDocument is the stored form of a catalog box.
type BoxDocument struct {
	ID        string           `bson:"_id" json:"id"`
	Name      string           `bson:"name" json:"name"`
	Price     decimal.Decimal  `bson:"price" json:"price"`
	Rewards   []RewardDocument `bson:"rewards" json:"rewards"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// RewardDocument is the stored form of a reward. A nil Value means the
// reward has no configured value.
type RewardDocument struct {
	Symbol string           `bson:"symbol" json:"symbol"`
	Name   string           `bson:"name,omitempty" json:"name,omitempty"`
	Value  *decimal.Decimal `bson:"value,omitempty" json:"value,omitempty"`
}

// ToEngine converts the document into the engine's box model.
func (b *BoxDocument) ToEngine() engine.Box {
	box := engine.Box{ID: b.ID, Name: b.Name, Price: b.Price, Rewards: make([]engine.Reward, 0, len(b.Rewards))}
	for _, r := range b.Rewards {
		er := engine.Reward{Symbol: r.Symbol, Name: r.Name}
		if r.Value != nil {
			er.Value = decimal.NewNullDecimal(*r.Value)
		}
		box.Rewards = append(box.Rewards, er)
	}
	return box
}

// BoxStats summarises the reward distribution of a box for display.
type BoxStats struct {
	BoxID         string  `json:"boxId"`
	Rewards       int     `json:"rewards"`
	ValuedRewards int     `json:"valuedRewards"`
	AverageValue  string  `json:"averageValue"`
	ExpectedValue float64 `json:"expectedValue"`
	StdDev        float64 `json:"stdDev"`
	HouseEdge     float64 `json:"houseEdge"`
	BetWinChance  float64 `json:"betWinChance"`
	BetReturn     float64 `json:"betReturn"`
}

// BoxRequest is the admin payload for creating or replacing a box.
type BoxRequest struct {
	ID      string           `json:"id"`
	Name    string           `json:"name" binding:"required"`
	Price   decimal.Decimal  `json:"price"`
	Rewards []RewardDocument `json:"rewards"`
}
