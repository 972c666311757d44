package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/engine"
)

// Settlement records one completed box opening.
type Settlement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AttemptID     string             `bson:"attemptId" json:"attemptId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	BoxID         string             `bson:"boxId" json:"boxId"`
	BoxName       string             `bson:"boxName" json:"boxName"`
	Price         decimal.Decimal    `bson:"price" json:"price"`
	RewardSymbol  string             `bson:"rewardSymbol" json:"rewardSymbol"`
	RewardName    string             `bson:"rewardName,omitempty" json:"rewardName,omitempty"`
	RewardValue   decimal.Decimal    `bson:"rewardValue" json:"rewardValue"`
	BalanceBefore decimal.Decimal    `bson:"balanceBefore" json:"balanceBefore"`
	NewBalance    decimal.Decimal    `bson:"newBalance" json:"newBalance"`
	Delta         decimal.Decimal    `bson:"delta" json:"delta"`
	Bet           *SettlementBet     `bson:"bet,omitempty" json:"bet,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// SettlementBet is the resolved side bet of a settlement.
type SettlementBet struct {
	Amount decimal.Decimal `bson:"amount" json:"amount"`
	Won    bool            `bson:"won" json:"won"`
	Payout decimal.Decimal `bson:"payout" json:"payout"`
}

// NewSettlement builds the record for an outcome. balanceBefore is the ledger
// balance before escrow, so Delta is the net change of the whole opening.
func NewSettlement(attemptID string, userID primitive.ObjectID, box engine.Box, balanceBefore decimal.Decimal, bet *engine.Bet, out engine.Outcome, at time.Time) *Settlement {
	s := &Settlement{
		AttemptID:     attemptID,
		UserID:        userID,
		BoxID:         box.ID,
		BoxName:       box.Name,
		Price:         box.Price,
		RewardSymbol:  out.Reward.Symbol,
		RewardName:    out.Reward.Name,
		RewardValue:   out.RewardValue,
		BalanceBefore: balanceBefore,
		NewBalance:    out.NewBalance,
		Delta:         out.NewBalance.Sub(balanceBefore),
		CreatedAt:     at,
	}
	if out.Bet != nil && bet != nil {
		s.Bet = &SettlementBet{Amount: bet.Amount, Won: out.Bet.Won, Payout: out.Bet.Payout}
	}
	return s
}

// OpenBoxRequest is the body of an open call. Bet is optional.
type OpenBoxRequest struct {
	Bet *engine.Bet `json:"bet"`
}
