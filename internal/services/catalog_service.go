package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// CatalogService is the Mongo-backed box catalog. It satisfies
// engine.Catalog and adds the admin operations.
type CatalogService struct {
	boxRepo repositories.BoxRepository
	log     *slog.Logger
}

var _ engine.Catalog = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService
func NewCatalogService(boxRepo repositories.BoxRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{boxRepo: boxRepo, log: log}
}

// ListBoxes returns every box in catalog order.
func (s *CatalogService) ListBoxes(ctx context.Context) ([]engine.Box, error) {
	docs, err := s.boxRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boxes: %w", err)
	}
	boxes := make([]engine.Box, 0, len(docs))
	for _, d := range docs {
		boxes = append(boxes, d.ToEngine())
	}
	return boxes, nil
}

// GetBox returns a box or engine.ErrNotFound.
func (s *CatalogService) GetBox(ctx context.Context, id string) (engine.Box, error) {
	doc, err := s.boxRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return engine.Box{}, fmt.Errorf("%w: %s", engine.ErrNotFound, id)
	}
	if err != nil {
		return engine.Box{}, fmt.Errorf("get box %s: %w", id, err)
	}
	return doc.ToEngine(), nil
}

// CreateBox validates and stores a new box. An empty id gets a generated one.
func (s *CatalogService) CreateBox(ctx context.Context, req *models.BoxRequest) (*models.BoxDocument, error) {
	doc := &models.BoxDocument{
		ID:      strings.TrimSpace(req.ID),
		Name:    strings.TrimSpace(req.Name),
		Price:   req.Price,
		Rewards: req.Rewards,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := ValidateBox(doc); err != nil {
		return nil, err
	}
	if err := s.boxRepo.Create(ctx, doc); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: box id %q already exists", ErrInvalidInput, doc.ID)
		}
		return nil, fmt.Errorf("create box: %w", err)
	}
	s.log.Info("box created", "box", doc.ID, "rewards", len(doc.Rewards))
	return doc, nil
}

// UpdateBox replaces the name, price and rewards of a box.
func (s *CatalogService) UpdateBox(ctx context.Context, id string, req *models.BoxRequest) (*models.BoxDocument, error) {
	doc := &models.BoxDocument{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Price:   req.Price,
		Rewards: req.Rewards,
	}
	if err := ValidateBox(doc); err != nil {
		return nil, err
	}
	if err := s.boxRepo.Update(ctx, doc); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", engine.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update box: %w", err)
	}
	s.log.Info("box updated", "box", id)
	return s.boxRepo.FindByID(ctx, id)
}

// DeleteBox removes a box from the catalog.
func (s *CatalogService) DeleteBox(ctx context.Context, id string) error {
	if err := s.boxRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", engine.ErrNotFound, id)
		}
		return fmt.Errorf("delete box: %w", err)
	}
	s.log.Info("box deleted", "box", id)
	return nil
}

// ValidateBox checks the fields that settlement depends on. Reward symbols are
// unique within a box. A box without rewards is valid; it is listed but cannot
// be opened.
func ValidateBox(b *models.BoxDocument) error {
	if b.Name == "" {
		return fmt.Errorf("%w: box name is required", ErrInvalidInput)
	}
	if err := checkMoney("price", b.Price); err != nil {
		return err
	}
	seen := make(map[string]int, len(b.Rewards))
	for i, r := range b.Rewards {
		if strings.TrimSpace(r.Symbol) == "" {
			return fmt.Errorf("%w: reward %d has no symbol", ErrInvalidInput, i)
		}
		if j, dup := seen[r.Symbol]; dup {
			return fmt.Errorf("%w: rewards %d and %d share symbol %q", ErrInvalidInput, j, i, r.Symbol)
		}
		seen[r.Symbol] = i
		if r.Value != nil {
			if err := checkMoney(fmt.Sprintf("rewards[%d].value", i), *r.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats describes the reward distribution of a box. Values are floats for
// display only.
func (s *CatalogService) Stats(ctx context.Context, id string) (*models.BoxStats, error) {
	box, err := s.GetBox(ctx, id)
	if err != nil {
		return nil, err
	}
	return BoxStats(box), nil
}

// BoxStats computes the display statistics of box. Every reward is drawn
// with equal probability; unvalued rewards are worth zero.
func BoxStats(box engine.Box) *models.BoxStats {
	st := &models.BoxStats{
		BoxID:        box.ID,
		Rewards:      len(box.Rewards),
		AverageValue: engine.AverageValue(box).StringFixed(engine.MoneyPlaces),
	}
	if len(box.Rewards) == 0 {
		return st
	}

	values := make([]float64, len(box.Rewards))
	wins := 0
	for i, r := range box.Rewards {
		v := decimal.Zero
		if r.Value.Valid {
			v = r.Value.Decimal
			st.ValuedRewards++
		}
		values[i] = v.InexactFloat64()
		if engine.BeatsAverage(box, v) {
			wins++
		}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	price := box.Price.InexactFloat64()

	st.ExpectedValue = mean
	st.StdDev = std
	st.HouseEdge = price - mean
	st.BetWinChance = float64(wins) / float64(len(box.Rewards))
	// a unit bet returns 2 on a win and 0 on a loss
	st.BetReturn = 2 * st.BetWinChance
	return st
}
