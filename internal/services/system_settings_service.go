package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/engine"
	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// SystemSettingsService reads and updates the platform settings. Until an
// admin saves settings, the configured defaults apply.
type SystemSettingsService struct {
	settingsRepo repositories.SystemSettingsRepository
	defaults     models.SystemSettings
}

// NewSystemSettingsService creates a new SystemSettingsService
func NewSystemSettingsService(settingsRepo repositories.SystemSettingsRepository, defaults models.SystemSettings) *SystemSettingsService {
	return &SystemSettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// DefaultSettings builds the initial settings from the game configuration.
func DefaultSettings(cfg *config.Config) (models.SystemSettings, error) {
	maxBet, err := cfg.MaxBet()
	if err != nil {
		return models.SystemSettings{}, err
	}
	maxTopup, err := cfg.MaxTopup()
	if err != nil {
		return models.SystemSettings{}, err
	}
	presets, err := cfg.DepositPresets()
	if err != nil {
		return models.SystemSettings{}, err
	}
	return models.SystemSettings{
		ID:               models.SettingsID,
		BettingEnabled:   cfg.Game.BettingEnabled,
		MaxBet:           maxBet,
		DepositPresets:   presets,
		AllowCustomTopup: cfg.Game.AllowCustomTopup,
		MaxTopup:         maxTopup,
	}, nil
}

// GetSettings retrieves the current system settings
func (s *SystemSettingsService) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		d := s.defaults
		d.DepositPresets = append([]decimal.Decimal(nil), s.defaults.DepositPresets...)
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies the fields present in req and saves the result.
func (s *SystemSettingsService) UpdateSettings(ctx context.Context, req *models.SettingsUpdateRequest, updatedBy string) (*models.SystemSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if req.BettingEnabled != nil {
		settings.BettingEnabled = *req.BettingEnabled
	}
	if req.MaxBet != nil {
		if err := checkMoney("maxBet", *req.MaxBet); err != nil {
			return nil, err
		}
		settings.MaxBet = *req.MaxBet
	}
	if req.MaxTopup != nil {
		if err := checkMoney("maxTopup", *req.MaxTopup); err != nil {
			return nil, err
		}
		settings.MaxTopup = *req.MaxTopup
	}
	if req.DepositPresets != nil {
		for _, p := range req.DepositPresets {
			if err := checkMoney("depositPresets", p); err != nil {
				return nil, err
			}
			if !p.IsPositive() {
				return nil, fmt.Errorf("%w: depositPresets must be positive", ErrInvalidInput)
			}
		}
		settings.DepositPresets = req.DepositPresets
	}
	if req.AllowCustomTopup != nil {
		settings.AllowCustomTopup = *req.AllowCustomTopup
	}
	settings.UpdatedBy = updatedBy

	if err := s.settingsRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

// checkMoney rejects negative amounts and amounts finer than a cent.
func checkMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() || !engine.CentPrecise(d) {
		return fmt.Errorf("%w: %s must be a non-negative cent amount, got %s", ErrInvalidInput, field, d)
	}
	return nil
}
