package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var payoutMultiplier = decimal.NewFromInt(2)

// ValueOf returns the box-local value of a reward symbol. Symbols that are
// missing from the box, or present without a configured value, are worth zero.
func ValueOf(box Box, symbol string) decimal.Decimal {
	for _, r := range box.Rewards {
		if r.Symbol == symbol && r.Value.Valid {
			return r.Value.Decimal
		}
	}
	return decimal.Zero
}

// rewardValue values the drawn reward by its own box entry. A reward that is
// not an entry of box falls back to the box-local symbol lookup.
func rewardValue(box Box, reward Reward) decimal.Decimal {
	for _, r := range box.Rewards {
		if sameReward(r, reward) {
			if r.Value.Valid {
				return r.Value.Decimal
			}
			return decimal.Zero
		}
	}
	return ValueOf(box, reward.Symbol)
}

func sameReward(a, b Reward) bool {
	if a.Symbol != b.Symbol || a.Value.Valid != b.Value.Valid {
		return false
	}
	return !a.Value.Valid || a.Value.Decimal.Equal(b.Value.Decimal)
}

// valueSum returns the sum and count of the configured reward values in box.
func valueSum(box Box) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, r := range box.Rewards {
		if !r.Value.Valid {
			continue
		}
		sum = sum.Add(r.Value.Decimal)
		n++
	}
	return sum, n
}

// AverageValue is the arithmetic mean of the configured reward values in box.
// It is meant for display; bets are resolved without dividing.
func AverageValue(box Box) decimal.Decimal {
	sum, n := valueSum(box)
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// BeatsAverage reports whether value is strictly above the box average. It is
// evaluated as value*n > sum so no division is involved.
func BeatsAverage(box Box, value decimal.Decimal) bool {
	sum, n := valueSum(box)
	if n == 0 {
		return false
	}
	return value.Mul(decimal.NewFromInt(int64(n))).GreaterThan(sum)
}

func activeBet(bet *Bet) bool {
	return bet != nil && bet.Active
}

// Escrow checks that balance covers the box price plus the stake of an active
// bet and returns the balance with the stake held back. It is called before
// the draw and applies the same bet bounds as Settle.
func Escrow(balance, price decimal.Decimal, bet *Bet) (decimal.Decimal, error) {
	stake := decimal.Zero
	if activeBet(bet) {
		if bet.Amount.IsNegative() || !CentPrecise(bet.Amount) {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidBet, bet.Amount)
		}
		if bet.Amount.GreaterThan(balance) {
			return decimal.Zero, fmt.Errorf("%w: %s exceeds balance %s", ErrInvalidBet, bet.Amount.StringFixed(MoneyPlaces), balance.StringFixed(MoneyPlaces))
		}
		stake = bet.Amount
	}
	need := price.Add(stake)
	if need.GreaterThan(balance) {
		return decimal.Zero, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, need.StringFixed(MoneyPlaces), balance.StringFixed(MoneyPlaces))
	}
	return balance.Sub(stake), nil
}

// Settle computes the balance transition for one drawn reward.
//
// newBalance = currentBalance - price + value(reward), where currentBalance
// still includes the stake; the caller holds the stake back. An active bet
// must not exceed currentBalance - price. An active positive bet
// wins when the reward value is strictly above the box average and then pays
// twice its amount; a losing bet pays nothing back and reports the forfeited
// amount. Settle has no side effects and never looks outside its arguments.
func Settle(box Box, reward Reward, currentBalance decimal.Decimal, bet *Bet) (Outcome, error) {
	if currentBalance.LessThan(box.Price) {
		return Outcome{}, fmt.Errorf("%w: price %s, balance %s", ErrInsufficientFunds, box.Price.StringFixed(MoneyPlaces), currentBalance.StringFixed(MoneyPlaces))
	}
	if activeBet(bet) {
		if bet.Amount.IsNegative() || !CentPrecise(bet.Amount) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidBet, bet.Amount)
		}
		if avail := currentBalance.Sub(box.Price); bet.Amount.GreaterThan(avail) {
			return Outcome{}, fmt.Errorf("%w: %s exceeds balance after price %s", ErrInvalidBet, bet.Amount.StringFixed(MoneyPlaces), avail.StringFixed(MoneyPlaces))
		}
	}

	value := rewardValue(box, reward)
	newBalance := currentBalance.Sub(box.Price).Add(value)

	out := Outcome{Reward: reward, RewardValue: value}
	if activeBet(bet) && bet.Amount.IsPositive() {
		res := &BetResult{Payout: bet.Amount}
		if BeatsAverage(box, value) {
			res.Won = true
			res.Payout = bet.Amount.Mul(payoutMultiplier)
			newBalance = newBalance.Add(res.Payout)
		}
		out.Bet = res
	}
	out.NewBalance = newBalance
	out.Delta = newBalance.Sub(currentBalance)
	return out, nil
}
