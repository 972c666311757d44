package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

const settlementWriteAttempts = 2

// BoxService opens boxes: it draws a reward, settles the balance and
// commits the result to the ledger.
type BoxService struct {
	catalog     engine.Catalog
	settlements repositories.SettlementRepository
	wallet      *WalletService
	rng         engine.RandomSource
	log         *slog.Logger
	now         func() time.Time
}

// NewBoxService creates a new BoxService. A nil rng uses the crypto source.
func NewBoxService(catalog engine.Catalog, settlements repositories.SettlementRepository, wallet *WalletService, rng engine.RandomSource, log *slog.Logger) *BoxService {
	if rng == nil {
		rng = engine.DefaultRandom()
	}
	return &BoxService{
		catalog:     catalog,
		settlements: settlements,
		wallet:      wallet,
		rng:         rng,
		log:         log,
		now:         time.Now,
	}
}

// Open runs one opening attempt of boxID for the user. A version conflict
// abandons the attempt with ErrBalanceConflict; nothing is retried.
func (s *BoxService) Open(ctx context.Context, userID primitive.ObjectID, boxID string, bet *engine.Bet) (*models.Settlement, error) {
	unlock := s.wallet.locks.Lock(userID)
	defer unlock()

	acc, err := s.wallet.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acc.IsBlocked {
		return nil, ErrAccountBlocked
	}

	box, err := s.catalog.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	if !box.Openable() {
		return nil, fmt.Errorf("%w: %s", engine.ErrInvalidBox, box.ID)
	}

	if bet != nil && bet.Active && !bet.Amount.IsZero() {
		settings, err := s.wallet.settings.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		if !settings.BettingEnabled {
			return nil, ErrBettingDisabled
		}
		if bet.Amount.GreaterThan(settings.MaxBet) {
			return nil, fmt.Errorf("%w: %s exceeds the maximum bet of %s", engine.ErrInvalidBet, bet.Amount.StringFixed(engine.MoneyPlaces), settings.MaxBet.StringFixed(engine.MoneyPlaces))
		}
	}

	attempt := engine.NewAttempt(uuid.NewString())
	out, err := attempt.Run(box, acc.Balance, bet, s.rng)
	if err != nil {
		return nil, err
	}

	// The outcome is settled; a client abort or shutdown must not drop it.
	ctx = context.WithoutCancel(ctx)
	at := s.now().UTC()
	item := models.InventoryItem{
		Symbol:       out.Reward.Symbol,
		Name:         out.Reward.Name,
		Value:        out.RewardValue,
		BoxID:        box.ID,
		SettlementID: attempt.ID,
		AcquiredAt:   at,
	}
	err = s.wallet.ledger.CommitBalance(ctx, userID, acc.Version, out.NewBalance, []models.InventoryItem{item})
	if errors.Is(err, repositories.ErrVersionConflict) {
		s.log.Warn("open abandoned on version conflict", "user", userID.Hex(), "box", box.ID, "attempt", attempt.ID)
		return nil, ErrBalanceConflict
	}
	if err != nil {
		return nil, fmt.Errorf("commit balance: %w", err)
	}

	settlement := models.NewSettlement(attempt.ID, userID, box, acc.Balance, bet, out, at)
	s.recordSettlement(ctx, settlement)
	s.wallet.record(ctx, &models.Transaction{
		UserID:       userID,
		Type:         models.TransactionOpen,
		Amount:       settlement.Delta,
		BalanceAfter: settlement.NewBalance,
		Reference:    attempt.ID,
		Description:  "opened " + box.Name,
		CreatedAt:    at,
	})

	args := []any{
		"user", userID.Hex(),
		"box", box.ID,
		"reward", out.Reward.Symbol,
		"value", out.RewardValue.StringFixed(engine.MoneyPlaces),
		"balance", out.NewBalance.StringFixed(engine.MoneyPlaces),
	}
	if out.Bet != nil {
		args = append(args, "betWon", out.Bet.Won, "betPayout", out.Bet.Payout.StringFixed(engine.MoneyPlaces))
	}
	s.log.Info("box opened", args...)
	return settlement, nil
}

// recordSettlement writes the history record, retrying once. The balance is
// already committed, so a failure is logged and the opening still succeeds.
func (s *BoxService) recordSettlement(ctx context.Context, settlement *models.Settlement) {
	var err error
	for try := 0; try < settlementWriteAttempts; try++ {
		err = s.settlements.Create(ctx, settlement)
		if err == nil || (try > 0 && errors.Is(err, repositories.ErrDuplicate)) {
			return
		}
		s.log.Warn("settlement write failed", "user", settlement.UserID.Hex(), "attempt", settlement.AttemptID, "try", try+1, "error", err)
	}
	s.log.Error("failed to record settlement", "user", settlement.UserID.Hex(), "attempt", settlement.AttemptID, "error", err)
}

// History returns a page of the user's settlements, newest first.
func (s *BoxService) History(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.Page[*models.Settlement], error) {
	page, limit = NormalizePage(page, limit)
	items, err := s.settlements.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	total, err := s.settlements.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count settlements: %w", err)
	}
	return &models.Page[*models.Settlement]{Items: items, Page: page, Limit: limit, Total: total}, nil
}
