package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo       repositories.UserRepository
	settlementRepo repositories.SettlementRepository
	log            *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, settlementRepo repositories.SettlementRepository, log *slog.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		settlementRepo: settlementRepo,
		log:            log,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// Profile returns the profile view of a user.
func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	opened, err := s.settlementRepo.CountByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count settlements: %w", err)
	}
	p := models.NewUserProfile(user, opened)
	return &p, nil
}

// GetAllUsers retrieves all users with pagination
func (s *UserService) GetAllUsers(ctx context.Context, page, limit int) (*models.Page[*models.User], error) {
	page, limit = NormalizePage(page, limit)
	users, err := s.userRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &models.Page[*models.User]{Items: users, Page: page, Limit: limit, Total: total}, nil
}

// SetBlocked blocks or unblocks a user. Admins cannot block themselves.
func (s *UserService) SetBlocked(ctx context.Context, actor, id primitive.ObjectID, blocked bool) (*models.User, error) {
	if blocked && actor == id {
		return nil, fmt.Errorf("%w: cannot block your own account", ErrInvalidInput)
	}
	if err := s.userRepo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, fmt.Errorf("set blocked: %w", err)
	}
	s.log.Info("account block changed", "user", id.Hex(), "blocked", blocked, "by", actor.Hex())
	return s.userRepo.FindByID(ctx, id)
}
