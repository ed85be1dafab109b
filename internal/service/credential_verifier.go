package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
)

type CredentialFailure string

const (
	CredentialNotFound      CredentialFailure = "not_found"
	CredentialNoPasswordSet CredentialFailure = "no_password_set"
	CredentialInactive      CredentialFailure = "inactive"
	CredentialLocked        CredentialFailure = "locked"
	CredentialBadPassword   CredentialFailure = "bad_password"
)

// CredentialError carries the internal reason a login was refused. Callers
// outside the service layer only ever see errs.ErrInvalidCredentials.
type CredentialError struct {
	Reason   CredentialFailure
	Username string
	UserID   int64
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential check failed for %q: %s", e.Username, e.Reason)
}

func (e *CredentialError) Unwrap() error {
	return errs.ErrInvalidCredentials
}

type CredentialVerifier struct {
	userRepo repository.UserRepository
	hasher   utils.PasswordHasher
	now      func() time.Time
}

func CreateCredentialVerifier(userRepo repository.UserRepository, hasher utils.PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{
		userRepo: userRepo,
		hasher:   hasher,
		now:      time.Now,
	}
}

// Verify is read-only: it never updates the account, whatever the outcome.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (domain.User, error) {
	user, err := v.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}

	if user.ID == 0 {
		return domain.User{}, v.fail(ctx, CredentialNotFound, username, 0)
	}

	if user.HashedPassword == nil || *user.HashedPassword == "" {
		return domain.User{}, v.fail(ctx, CredentialNoPasswordSet, username, user.ID)
	}

	if !user.IsActive {
		return domain.User{}, v.fail(ctx, CredentialInactive, username, user.ID)
	}

	if user.LockedUntil != nil && v.now().UnixMilli() < *user.LockedUntil {
		return domain.User{}, v.fail(ctx, CredentialLocked, username, user.ID)
	}

	if !v.hasher.Verify(password, *user.HashedPassword) {
		return domain.User{}, v.fail(ctx, CredentialBadPassword, username, user.ID)
	}

	return user, nil
}

func (v *CredentialVerifier) fail(ctx context.Context, reason CredentialFailure, username string, userID int64) error {
	log.Ctx(ctx).Warn().Str("component", "CredentialVerifier").Str("username", username).Str("reason", string(reason)).Msg("login rejected")
	return &CredentialError{Reason: reason, Username: username, UserID: userID}
}
