package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akosenkov/fleetdesk/internal/common"
	"github.com/akosenkov/fleetdesk/internal/server/auth"
	"github.com/akosenkov/fleetdesk/internal/server/coherency"
	"github.com/akosenkov/fleetdesk/internal/server/lifecycle"
	"github.com/akosenkov/fleetdesk/internal/server/mailer"
	"github.com/akosenkov/fleetdesk/internal/server/models"
	"github.com/akosenkov/fleetdesk/internal/server/passwords"
	"github.com/akosenkov/fleetdesk/internal/server/recovery"
	"github.com/akosenkov/fleetdesk/internal/server/repositories/repomanager"
)

const sessionTTL = 24 * time.Hour

const minPasswordLength = 8

// UserService manages login credentials and the password-recovery flow.
type UserService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	coherency     *coherency.Service
	rules         *lifecycle.Rules
	recovery      *recovery.Service
	hasher        passwords.Hasher
	mailer        mailer.Mailer
	secretKey     string
	resetLinkBase string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, ch *coherency.Service, rules *lifecycle.Rules,
	rec *recovery.Service, hasher passwords.Hasher, ml mailer.Mailer, secretKey, resetLinkBase string) *UserService {
	return &UserService{
		db:            db,
		repos:         m,
		coherency:     ch,
		rules:         rules,
		recovery:      rec,
		hasher:        hasher,
		mailer:        ml,
		secretKey:     secretKey,
		resetLinkBase: resetLinkBase,
	}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

// Register creates a new credential record. The password is hashed before it
// touches the repository; the plaintext is never stored or logged.
func (s *UserService) Register(ctx context.Context, principal string, u *models.User, password string) (*models.User, string, error) {
	if err := validateUser(u); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}
	if err := s.rules.Create(u, principal); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}
	u.PasswordHash = hash

	id, err := s.repos.Users(s.db).Insert(ctx, u)
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}
	u.ID = id

	tableHash, err := s.coherency.Invalidate(TableUsers)
	if err != nil {
		return nil, "", err
	}
	return u, tableHash, nil
}

// Login verifies the credentials and returns a signed session token. Unknown
// email and wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}
	token, err := auth.GenerateToken(u.ID, u.UserName, []byte(s.secretKey), sessionTTL)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

func (s *UserService) SoftDelete(ctx context.Context, principal string, id int64) (string, error) {
	repo := s.repos.Users(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.rules.SoftDelete(current, principal); err != nil {
		return "", err
	}

	applied, err := repo.MarkDeleted(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return "", fmt.Errorf("error deleting user: %w", err)
	}
	if !applied {
		return "", common.ErrorAlreadyDeleted
	}

	return s.coherency.Invalidate(TableUsers)
}

func (s *UserService) Recover(ctx context.Context, principal string, id int64) (*models.User, string, error) {
	repo := s.repos.Users(s.db)
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := s.rules.Recover(current, principal); err != nil {
		return nil, "", err
	}

	applied, err := repo.MarkRecovered(ctx, id, *current.WhoChanged, *current.WhenChanged)
	if err != nil {
		return nil, "", fmt.Errorf("error recovering user: %w", err)
	}
	if !applied {
		return nil, "", common.ErrorAlreadyActive
	}

	hash, err := s.coherency.Invalidate(TableUsers)
	if err != nil {
		return nil, "", err
	}
	return current, hash, nil
}

// RequestRecovery issues a reset token for the account with this email and
// hands the reset link to the mailer. When no active account matches, it
// returns nil without issuing anything, so the endpoint responds identically
// for known and unknown addresses.
func (s *UserService) RequestRecovery(ctx context.Context, email string) error {
	u, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	token, err := s.recovery.Issue(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("error issuing recovery token: %w", err)
	}

	link := s.resetLinkBase + "?token=" + token
	if err := s.mailer.SendPasswordReset(ctx, u.Email, link); err != nil {
		return fmt.Errorf("error sending recovery mail: %w", err)
	}
	return nil
}

// ValidateResetToken reports whether token currently grants a password reset.
// It is read-only: probing does not consume the token.
func (s *UserService) ValidateResetToken(ctx context.Context, token string) (bool, error) {
	_, ok, err := s.recovery.Validate(ctx, token)
	return ok, err
}

// ResetPassword consumes token and replaces the password of the account it
// was issued for. The token is invalidated only after the new hash is stored,
// so a failed write leaves the token usable for a retry.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	userID, ok, err := s.recovery.Validate(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	applied, err := s.repos.Users(s.db).UpdatePassword(ctx, userID, hash, "recovery", now)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if !applied {
		// Account was soft-deleted after the token was issued.
		return common.ErrInvalidToken
	}

	if err := s.recovery.Invalidate(ctx, token); err != nil {
		return err
	}

	if _, err := s.coherency.Invalidate(TableUsers); err != nil {
		return err
	}
	return nil
}

func validateUser(u *models.User) error {
	if err := requireField("userName", u.UserName); err != nil {
		return err
	}
	return validateEmail(u.Email)
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return nil
}
