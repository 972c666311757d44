package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ArowuTest/growdice-backend/internal/models"
)

// boxFile is the YAML layout of a catalog seed file. Money is written as
// strings so no value passes through a float.
type boxFile struct {
	Boxes []struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Price   string `yaml:"price"`
		Rewards []struct {
			Symbol string  `yaml:"symbol"`
			Name   string  `yaml:"name"`
			Value  *string `yaml:"value"`
		} `yaml:"rewards"`
	} `yaml:"boxes"`
}

// LoadBoxFile reads and validates a catalog seed file.
func LoadBoxFile(path string) ([]*models.BoxDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read box file: %w", err)
	}
	return ParseBoxFile(raw)
}

// ParseBoxFile decodes catalog seed YAML.
func ParseBoxFile(raw []byte) ([]*models.BoxDocument, error) {
	var f boxFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse box file: %w", err)
	}

	seen := map[string]bool{}
	out := make([]*models.BoxDocument, 0, len(f.Boxes))
	for i, b := range f.Boxes {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: boxes[%d] has no id", ErrInvalidInput, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate box id %q", ErrInvalidInput, id)
		}
		seen[id] = true

		price, err := decimal.NewFromString(strings.TrimSpace(b.Price))
		if err != nil {
			return nil, fmt.Errorf("%w: box %s price: %v", ErrInvalidInput, id, err)
		}
		doc := &models.BoxDocument{ID: id, Name: strings.TrimSpace(b.Name), Price: price}
		for _, r := range b.Rewards {
			rd := models.RewardDocument{Symbol: r.Symbol, Name: r.Name}
			if r.Value != nil {
				v, err := decimal.NewFromString(strings.TrimSpace(*r.Value))
				if err != nil {
					return nil, fmt.Errorf("%w: box %s reward %s value: %v", ErrInvalidInput, id, r.Symbol, err)
				}
				rd.Value = &v
			}
			doc.Rewards = append(doc.Rewards, rd)
		}
		if err := ValidateBox(doc); err != nil {
			return nil, fmt.Errorf("box %s: %w", id, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// SeedBoxes inserts boxes that are not in the catalog yet and returns how
// many were added. With onlyIfEmpty it does nothing when any box exists.
func (s *CatalogService) SeedBoxes(ctx context.Context, boxes []*models.BoxDocument, onlyIfEmpty bool) (int, error) {
	if onlyIfEmpty {
		n, err := s.boxRepo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("count boxes: %w", err)
		}
		if n > 0 {
			return 0, nil
		}
	}

	added := 0
	for _, b := range boxes {
		if _, err := s.boxRepo.FindByID(ctx, b.ID); err == nil {
			s.log.Debug("seed box exists, skipping", "box", b.ID)
			continue
		}
		if err := s.boxRepo.Create(ctx, b); err != nil {
			return added, fmt.Errorf("seed box %s: %w", b.ID, err)
		}
		added++
	}
	s.log.Info("catalog seeded", "added", added, "total", len(boxes))
	return added, nil
}
