package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// commitAttempts bounds the retries of credit and purchase commits that lost
// a version race. Box openings never retry.
const commitAttempts = 3

// WalletService handles top-ups, direct purchases and wallet history. Every
// balance change goes through the ledger's versioned commit.
type WalletService struct {
	ledger   repositories.LedgerRepository
	txRepo   repositories.TransactionRepository
	catalog  engine.Catalog
	settings *SystemSettingsService
	notifier *BalanceNotifier
	locks    *accountLocks
	log      *slog.Logger
	now      func() time.Time
}

// NewWalletService creates a new WalletService
func NewWalletService(ledger repositories.LedgerRepository, txRepo repositories.TransactionRepository, catalog engine.Catalog, settings *SystemSettingsService, notifier *BalanceNotifier, log *slog.Logger) *WalletService {
	return &WalletService{
		ledger:   ledger,
		txRepo:   txRepo,
		catalog:  catalog,
		settings: settings,
		notifier: notifier,
		locks:    newAccountLocks(),
		log:      log,
		now:      time.Now,
	}
}

// Summary returns the balance and the top-up options.
func (s *WalletService) Summary(ctx context.Context, userID primitive.ObjectID) (*models.WalletSummary, error) {
	acc, err := s.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &models.WalletSummary{
		Balance:          acc.Balance,
		DepositPresets:   settings.DepositPresets,
		AllowCustomTopup: settings.AllowCustomTopup,
		MaxTopup:         settings.MaxTopup,
	}, nil
}

// Topup credits amount to the account. The amount must be a deposit preset
// or, when custom top-ups are allowed, any positive cent amount up to the
// configured maximum.
func (s *WalletService) Topup(ctx context.Context, userID primitive.ObjectID, amount decimal.Decimal) (*models.Transaction, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateTopup(settings, amount); err != nil {
		return nil, err
	}

	tx, err := s.commit(ctx, userID, models.TransactionTopup, "", func(acc *models.User) (decimal.Decimal, string, error) {
		return acc.Balance.Add(amount), "wallet top-up", nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("wallet topped up", "user", userID.Hex(), "amount", amount.StringFixed(engine.MoneyPlaces), "balance", tx.BalanceAfter.StringFixed(engine.MoneyPlaces))
	return tx, nil
}

func validateTopup(settings *models.SystemSettings, amount decimal.Decimal) error {
	if !amount.IsPositive() || !engine.CentPrecise(amount) {
		return fmt.Errorf("%w: %s", ErrInvalidTopup, amount)
	}
	for _, p := range settings.DepositPresets {
		if p.Equal(amount) {
			return nil
		}
	}
	if !settings.AllowCustomTopup {
		return fmt.Errorf("%w: %s is not a deposit preset", ErrInvalidTopup, amount.StringFixed(engine.MoneyPlaces))
	}
	if amount.GreaterThan(settings.MaxTopup) {
		return fmt.Errorf("%w: %s exceeds the maximum of %s", ErrInvalidTopup, amount.StringFixed(engine.MoneyPlaces), settings.MaxTopup.StringFixed(engine.MoneyPlaces))
	}
	return nil
}

// Purchase buys a box's product outright for its price, without a draw.
func (s *WalletService) Purchase(ctx context.Context, userID primitive.ObjectID, boxID string) (*models.Transaction, error) {
	box, err := s.catalog.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}

	tx, err := s.commit(ctx, userID, models.TransactionPurchase, box.ID, func(acc *models.User) (decimal.Decimal, string, error) {
		if acc.Balance.LessThan(box.Price) {
			return decimal.Zero, "", fmt.Errorf("%w: price %s, balance %s", engine.ErrInsufficientFunds, box.Price.StringFixed(engine.MoneyPlaces), acc.Balance.StringFixed(engine.MoneyPlaces))
		}
		return acc.Balance.Sub(box.Price), "purchase " + box.Name, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("box purchased", "user", userID.Hex(), "box", box.ID, "price", box.Price.StringFixed(engine.MoneyPlaces))
	return tx, nil
}

// commit applies fn's balance under the account lock, retrying lost version
// races, and records the transaction.
func (s *WalletService) commit(ctx context.Context, userID primitive.ObjectID, kind models.TransactionType, reference string, fn func(acc *models.User) (decimal.Decimal, string, error)) (*models.Transaction, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		acc, err := s.ledger.GetAccount(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load account: %w", err)
		}
		if acc.IsBlocked {
			return nil, ErrAccountBlocked
		}
		newBalance, desc, err := fn(acc)
		if err != nil {
			return nil, err
		}

		err = s.ledger.CommitBalance(ctx, userID, acc.Version, newBalance, nil)
		if errors.Is(err, repositories.ErrVersionConflict) && attempt < commitAttempts {
			s.log.Warn("ledger version conflict, retrying", "user", userID.Hex(), "kind", kind, "attempt", attempt)
			continue
		}
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, ErrBalanceConflict
		}
		if err != nil {
			return nil, fmt.Errorf("commit balance: %w", err)
		}

		tx := &models.Transaction{
			UserID:       userID,
			Type:         kind,
			Amount:       newBalance.Sub(acc.Balance),
			BalanceAfter: newBalance,
			Reference:    reference,
			Description:  desc,
			CreatedAt:    s.now().UTC(),
		}
		s.record(ctx, tx)
		return tx, nil
	}
}

// record stores the transaction and publishes the balance event. The balance
// is already committed, so failures are logged rather than returned.
func (s *WalletService) record(ctx context.Context, tx *models.Transaction) {
	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.log.Error("failed to record transaction", "user", tx.UserID.Hex(), "type", tx.Type, "error", err)
	}
	s.notifier.Publish(BalanceEvent{
		UserID:    tx.UserID,
		Balance:   tx.BalanceAfter,
		Delta:     tx.Amount,
		Reason:    tx.Type,
		Reference: tx.Reference,
		At:        tx.CreatedAt,
	})
}

// History returns a page of the user's wallet transactions, newest first.
func (s *WalletService) History(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.Page[*models.Transaction], error) {
	page, limit = NormalizePage(page, limit)
	items, err := s.txRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	total, err := s.txRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	return &models.Page[*models.Transaction]{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// Subscribe streams the user's balance events until cancel is called.
func (s *WalletService) Subscribe(userID primitive.ObjectID) (<-chan BalanceEvent, func()) {
	return s.notifier.Subscribe(userID)
}

// Paging defaults.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage clamps paging parameters to sane values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
