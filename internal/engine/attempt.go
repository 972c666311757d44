package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AttemptState is the lifecycle position of one box opening.
type AttemptState int

const (
	AttemptIdle AttemptState = iota
	AttemptDrawing
	AttemptSettled
)

func (s AttemptState) String() string {
	switch s {
	case AttemptIdle:
		return "IDLE"
	case AttemptDrawing:
		return "DRAWING"
	case AttemptSettled:
		return "SETTLED"
	default:
		return fmt.Sprintf("AttemptState(%d)", int(s))
	}
}

// Attempt tracks a single open attempt: Idle -> Drawing -> Settled.
// Settled is terminal; a new opening needs a new Attempt.
type Attempt struct {
	ID      string
	state   AttemptState
	outcome Outcome
}

// NewAttempt returns an idle attempt.
func NewAttempt(id string) *Attempt {
	return &Attempt{ID: id}
}

// State returns the current state.
func (a *Attempt) State() AttemptState { return a.state }

// Begin moves an idle attempt to Drawing.
func (a *Attempt) Begin() error {
	if a.state != AttemptIdle {
		return fmt.Errorf("%w: begin from %s", ErrAttemptState, a.state)
	}
	a.state = AttemptDrawing
	return nil
}

// Complete records the outcome and moves the attempt to Settled.
func (a *Attempt) Complete(out Outcome) error {
	if a.state != AttemptDrawing {
		return fmt.Errorf("%w: complete from %s", ErrAttemptState, a.state)
	}
	a.outcome = out
	a.state = AttemptSettled
	return nil
}

// Outcome returns the settled outcome, if any.
func (a *Attempt) Outcome() (Outcome, bool) {
	return a.outcome, a.state == AttemptSettled
}

// Run performs the whole opening against balance: escrow, draw, settle.
// The held stake is taken off the settled balance, so Delta is the net change
// against balance. Validation failures leave the attempt idle so nothing was drawn.
func (a *Attempt) Run(box Box, balance decimal.Decimal, bet *Bet, rng RandomSource) (Outcome, error) {
	if !box.Openable() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidBox, box.ID)
	}
	held, err := Escrow(balance, box.Price, bet)
	if err != nil {
		return Outcome{}, err
	}
	if err := a.Begin(); err != nil {
		return Outcome{}, err
	}
	reward, err := Draw(box, rng)
	if err != nil {
		return Outcome{}, err
	}
	out, err := Settle(box, reward, balance, bet)
	if err != nil {
		return Outcome{}, err
	}
	out.NewBalance = out.NewBalance.Sub(balance.Sub(held))
	out.Delta = out.NewBalance.Sub(balance)
	if err := a.Complete(out); err != nil {
		return Outcome{}, err
	}
	return out, nil
}
