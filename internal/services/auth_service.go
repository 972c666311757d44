package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArowuTest/growdice-backend/internal/models"
	"github.com/ArowuTest/growdice-backend/internal/repositories"
	"github.com/ArowuTest/growdice-backend/pkg/jwt"
)

// AuthService registers accounts and issues access tokens.
type AuthService struct {
	userRepo        repositories.UserRepository
	tokens          *jwt.TokenService
	startingBalance decimal.Decimal
	isAdminEmail    func(string) bool
	bcryptCost      int
	log             *slog.Logger
}

// NewAuthService creates a new AuthService. isAdminEmail decides which
// registrations get the admin role; nil means none.
func NewAuthService(userRepo repositories.UserRepository, tokens *jwt.TokenService, startingBalance decimal.Decimal, isAdminEmail func(string) bool, log *slog.Logger) *AuthService {
	if isAdminEmail == nil {
		isAdminEmail = func(string) bool { return false }
	}
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		startingBalance: startingBalance,
		isAdminEmail:    isAdminEmail,
		bcryptCost:      bcrypt.DefaultCost,
		log:             log,
	}
}

// Register creates an account with the starting balance and logs it in.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if s.isAdminEmail(email) {
		role = models.RoleAdmin
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Balance:      s.startingBalance,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("account registered", "user", user.ID.Hex(), "role", role)
	return s.issue(user)
}

// Login checks the password and issues a token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn("login failed", "user", user.ID.Hex())
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, exp, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: exp, User: user}, nil
}

// EnsureAdmin creates an admin account, or promotes an existing one and
// resets its password. It returns true when a new account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if len(password) < 6 {
		return false, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Balance:      s.startingBalance,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return false, fmt.Errorf("create admin: %w", err)
		}
		s.log.Info("admin account created", "user", user.ID.Hex())
		return true, nil
	case err != nil:
		return false, fmt.Errorf("find user: %w", err)
	}

	if err := s.userRepo.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return false, fmt.Errorf("promote admin: %w", err)
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return false, fmt.Errorf("set admin password: %w", err)
	}
	s.log.Info("account promoted to admin", "user", user.ID.Hex())
	return false, nil
}
