package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

type userService struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	verifier    domain.TokenVerifier
	revoker     domain.TokenRevoker
	notifier    domain.NotificationService
	tokenExpiry time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserService creates a UserService. revoker and notifier may be nil.
func NewUserService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	revoker domain.TokenRevoker,
	notifier domain.NotificationService,
	tokenExpiry time.Duration,
	logger *slog.Logger,
) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		verifier:    verifier,
		revoker:     revoker,
		notifier:    notifier,
		tokenExpiry: tokenExpiry,
		logger:      logger,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: first name, last name, email and password are required", domain.ErrValidation)
	}

	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    s.now(),
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(ctx, &domain.WelcomeEmailData{Email: user.Email, FirstName: user.FirstName}); err != nil {
			s.logger.WarnContext(ctx, "welcome email not sent", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

// Login returns domain.ErrInvalidCredentials for an unknown email or a wrong password.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	token, claims, err := s.tokenIssuer.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt,
		User:      user,
	}, nil
}

// Logout revokes the token for the rest of its lifetime. An invalid token is
// already logged out.
func (s *userService) Logout(ctx context.Context, token string) error {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (int64, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return 0, err
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return 0, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return 0, fmt.Errorf("%w: session revoked", domain.ErrUnauthorized)
		}
	}
	return claims.UserID, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}
