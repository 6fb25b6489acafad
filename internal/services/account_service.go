package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/repository"
	"github.com/F0gboy/DiscGolfCoachingSite/pkg/utils"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AccountService struct {
	db *pgxpool.Pool
}

func NewAccountService(db *pgxpool.Pool) *AccountService {
	return &AccountService{db: db}
}

const minPasswordLength = 8

// Register creates the user and its profile in one transaction. The
// profile is an explicit step of registration, not a save hook: role is
// fixed here (defaulting to athlete) and never changes afterwards. The
// admin flag is not assignable through registration.
func (s *AccountService) Register(
	ctx context.Context,
	username string,
	password string,
	role models.Role,
) (*models.User, *models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLength {
		return nil, nil, ErrInvalidInput
	}
	if role == "" {
		role = models.RoleAthlete
	}
	if !role.Valid() {
		return nil, nil, ErrInvalidInput
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txProfileRepo := repository.NewProfileRepository(tx)

	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
	}
	if err := txUserRepo.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, ErrUsernameTaken
		}
		return nil, nil, err
	}

	if err := txProfileRepo.Create(ctx, user.ID, role); err != nil {
		return nil, nil, err
	}

	profile, err := txProfileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}

// Login verifies credentials and returns the user with its profile. The
// same error covers unknown usernames and wrong passwords.
func (s *AccountService) Login(
	ctx context.Context,
	username string,
	password string,
) (*models.User, *models.Profile, error) {
	userRepo := repository.NewUserRepository(s.db)
	profileRepo := repository.NewProfileRepository(s.db)

	user, err := userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}

// Account returns the current user and profile for the "me" endpoint.
func (s *AccountService) Account(ctx context.Context, userID int64) (*models.User, *models.Profile, error) {
	userRepo := repository.NewUserRepository(s.db)
	profileRepo := repository.NewProfileRepository(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}
