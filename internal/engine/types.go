package engine

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of fractional digits carried by every monetary amount.
const MoneyPlaces = 2

// Reward is one possible outcome of opening a box.
type Reward struct {
	Symbol string              `json:"symbol"`
	Name   string              `json:"name,omitempty"`
	Value  decimal.NullDecimal `json:"value"`
}

// Box is a purchasable catalog entry yielding one reward when opened.
type Box struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Rewards []Reward        `json:"rewards"`
}

// Openable reports whether the box can be drawn from.
func (b Box) Openable() bool {
	return len(b.Rewards) > 0
}

// Bet is an optional side wager that the drawn reward beats the box average.
type Bet struct {
	Amount decimal.Decimal `json:"amount"`
	Active bool            `json:"active"`
}

// BetResult is the resolution of an active bet.
type BetResult struct {
	Won    bool            `json:"won"`
	Payout decimal.Decimal `json:"payout"`
}

// Outcome is the immutable result of settling one draw.
type Outcome struct {
	Reward      Reward          `json:"reward"`
	RewardValue decimal.Decimal `json:"rewardValue"`
	Delta       decimal.Decimal `json:"delta"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	Bet         *BetResult      `json:"bet,omitempty"`
}

// NewReward builds a reward with a configured value.
func NewReward(symbol string, value decimal.Decimal) Reward {
	return Reward{Symbol: symbol, Value: decimal.NewNullDecimal(value)}
}

// CentPrecise reports whether d carries no more than MoneyPlaces fractional digits.
func CentPrecise(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyPlaces))
}
