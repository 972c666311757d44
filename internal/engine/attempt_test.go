package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttempt_Lifecycle(t *testing.T) {
	a := NewAttempt("a1")
	assert.Equal(t, AttemptIdle, a.State())

	require.NoError(t, a.Begin())
	assert.Equal(t, AttemptDrawing, a.State())
	assert.ErrorIs(t, a.Begin(), ErrAttemptState)

	require.NoError(t, a.Complete(Outcome{NewBalance: d("1.00")}))
	assert.Equal(t, AttemptSettled, a.State())

	out, ok := a.Outcome()
	require.True(t, ok)
	assert.True(t, out.NewBalance.Equal(d("1.00")))

	assert.ErrorIs(t, a.Complete(Outcome{}), ErrAttemptState)
	assert.ErrorIs(t, a.Begin(), ErrAttemptState)
}

func TestAttempt_CompleteWithoutBegin(t *testing.T) {
	a := NewAttempt("a2")
	assert.ErrorIs(t, a.Complete(Outcome{}), ErrAttemptState)
	_, ok := a.Outcome()
	assert.False(t, ok)
}

func TestAttempt_RunEscrowsTheStake(t *testing.T) {
	box := fixtureBox()
	a := NewAttempt("a3")

	out, err := a.Run(box, d("11.00"), &Bet{Amount: d("1.00"), Active: true}, fixedRandom(2))
	require.NoError(t, err)
	assert.Equal(t, AttemptSettled, a.State())
	// 11.00 - 1.00 stake - 0.50 price + 0.90 reward + 2.00 payout
	assert.True(t, out.NewBalance.Equal(d("12.40")), "newBalance = %s", out.NewBalance)
	assert.True(t, out.Delta.Equal(d("1.40")), "delta = %s", out.Delta)
}

func TestAttempt_RunWithTightBalance(t *testing.T) {
	box := fixtureBox()

	// 1.50 covers the 0.50 price plus the 1.00 stake exactly
	out, err := NewAttempt("a6").Run(box, d("1.50"), &Bet{Amount: d("1.00"), Active: true}, fixedRandom(0))
	require.NoError(t, err)
	assert.False(t, out.Bet.Won)
	assert.True(t, out.NewBalance.Equal(d("0.10")), "newBalance = %s", out.NewBalance)

	_, err = NewAttempt("a7").Run(box, d("1.50"), &Bet{Amount: d("1.01"), Active: true}, fixedRandom(0))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAttempt_RunRejectsBeforeDrawing(t *testing.T) {
	box := Box{ID: "big", Price: d("5.00"), Rewards: []Reward{NewReward("a", d("9"))}}
	a := NewAttempt("a4")

	_, err := a.Run(box, d("2.00"), nil, fixedRandom(0))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, AttemptIdle, a.State())

	_, err = NewAttempt("a5").Run(Box{ID: "empty"}, d("2.00"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidBox)
}

func TestAttemptState_String(t *testing.T) {
	assert.Equal(t, "DRAWING", AttemptDrawing.String())
	assert.Equal(t, "AttemptState(9)", AttemptState(9).String())
}
