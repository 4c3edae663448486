package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/pkg/utils"
)

type accountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id string, email string, role string) error
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
	List(ctx context.Context) ([]models.User, error)
}

// AccountService covers identity glue: registration/login stand in for the
// external identity provider, and role selection follows the original
// upsert-by-email contract (setting a role for an unseen email creates the
// account row).
type AccountService struct {
	userRepo  accountStore
	jwtSecret string
}

func NewAccountService(userRepo accountStore, jwtSecret string) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

func (s *AccountService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, "", ErrInvalidInput
	}

	user := &models.User{
		ID:    uuid.NewString(),
		Email: email,
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetRole returns the stored role for an email, or "" when the email is
// unknown or no role has been selected yet.
func (s *AccountService) GetRole(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return user.Role, nil
}

// SetRole selects client or coach for an email and returns a token carrying
// the new role.
func (s *AccountService) SetRole(ctx context.Context, email, role string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !models.ValidRole(role) {
		return "", ErrInvalidInput
	}

	userID := uuid.NewString()
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		userID = existing.ID
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	if err := s.userRepo.SetRole(ctx, userID, email, role); err != nil {
		return "", err
	}
	return utils.GenerateToken(userID, role, s.jwtSecret)
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	if profile.WeightKG < 0 {
		return ErrInvalidInput
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ListUsers backs the coach's client picker.
func (s *AccountService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	return s.userRepo.List(ctx)
}
