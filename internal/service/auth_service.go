package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/internal/dto"
	"github.com/avjabalpur/cian-erp-sub002/internal/repository"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/avjabalpur/cian-erp-sub002/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type AuthServiceImpl struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	verifier  *CredentialVerifier
	tokens    *TokenIssuer
	hasher    utils.PasswordHasher
	publisher EventPublisher
	config    config.AuthConfig
	now       func() time.Time
}

func CreateAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *TokenIssuer, hasher utils.PasswordHasher, publisher EventPublisher, config config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		verifier:  CreateCredentialVerifier(userRepo, hasher),
		tokens:    tokens,
		hasher:    hasher,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (res dto.AuthResponse, err error) {
	if payload.Username == "" || payload.Password == "" {
		return res, errs.ErrClient
	}

	user, err := s.verifier.Verify(ctx, payload.Username, payload.Password)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			if credErr.Reason == CredentialBadPassword {
				s.recordFailedLogin(ctx, credErr.UserID)
			}
			return res, errs.ErrInvalidCredentials
		}
		return res, err
	}

	roles, err := s.resolveRoleNames(ctx, user.ID)
	if err != nil {
		return res, err
	}

	tokens, err := s.tokens.Issue(user, roles)
	if err != nil {
		return res, err
	}

	now := s.now().UnixMilli()
	refreshExpiry := tokens.RefreshTokenExpiry.UnixMilli()
	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.RefreshToken = &tokens.RefreshToken
	user.RefreshTokenExpiryTime = &refreshExpiry
	user.UpdatedAt = now

	err = s.userRepo.UpdateLoginInfo(ctx, user)
	if err != nil {
		return res, err
	}

	log.Ctx(ctx).Info().Str("component", "Login").Int64("user_id", user.ID).Msg("user logged in")

	return buildAuthResponse(user, roles, tokens), nil
}

func (s *AuthServiceImpl) recordFailedLogin(ctx context.Context, userID int64) {
	now := s.now()
	lockedUntil := now.Add(s.config.LockoutDuration).UnixMilli()

	err := s.userRepo.RecordFailedLogin(ctx, userID, s.config.MaxFailedLoginAttempts, lockedUntil, now.UnixMilli())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "recordFailedLogin").Msg("")
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, payload dto.RegisterRequest) (registered bool, err error) {
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.FirstName = strings.TrimSpace(payload.FirstName)
	payload.LastName = strings.TrimSpace(payload.LastName)

	if payload.Username == "" || payload.Email == "" || payload.Password == "" || payload.FirstName == "" {
		return false, errs.ErrClient
	}

	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return false, errs.ErrClient
	}

	if len(payload.Password) > utils.MaxPasswordBytes {
		return false, errs.ErrClient
	}

	byUsername, err := s.userRepo.GetUserByUsername(ctx, payload.Username)
	if err != nil {
		return false, err
	}

	byEmail, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return false, err
	}

	if byUsername.ID != 0 || byEmail.ID != 0 {
		return false, errs.ErrUserAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(payload.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return false, errs.ErrClient
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Register").Msg("")
		return false, errs.ErrInternalServer
	}

	timestamp := s.now().UnixMilli()
	user := domain.User{
		ExternalID:      ulid.Make().String(),
		Username:        payload.Username,
		Email:           payload.Email,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		PhoneNumber:     optionalString(payload.PhoneNumber),
		Designation:     optionalString(payload.Designation),
		HashedPassword:  &hashedPassword,
		IsActive:        true,
		IsEmailVerified: false,
		IsPhoneVerified: false,
		CreatedAt:       timestamp,
		UpdatedAt:       timestamp,
	}

	user.ID, err = s.userRepo.AddUser(ctx, user)
	if err != nil {
		return false, err
	}

	publishEvent(ctx, s.publisher, EventUserRegistered, user.ExternalID, dto.UserRegisteredEvent{
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		Username:   user.Username,
		Email:      user.Email,
	})

	return user.ID != 0, nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, payload dto.RefreshTokenRequest) (res dto.AuthResponse, err error) {
	principal, err := s.tokens.Decode(payload.AccessToken)
	if err != nil {
		log.Ctx(ctx).Info().Err(err).Str("component", "Refresh").Msg("")
		return res, errs.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByUsername(ctx, principal.Username)
	if err != nil {
		return res, err
	}

	if user.ID == 0 || user.RefreshToken == nil || user.RefreshTokenExpiryTime == nil {
		return res, errs.ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(payload.RefreshToken)) != 1 {
		return res, errs.ErrInvalidToken
	}

	now := s.now().UnixMilli()
	if *user.RefreshTokenExpiryTime <= now {
		return res, errs.ErrInvalidToken
	}

	roles, err := s.resolveRoleNames(ctx, user.ID)
	if err != nil {
		return res, err
	}

	tokens, err := s.tokens.Issue(user, roles)
	if err != nil {
		return res, err
	}

	refreshExpiry := tokens.RefreshTokenExpiry.UnixMilli()
	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, *user.RefreshToken, tokens.RefreshToken, refreshExpiry, now)
	if err != nil {
		return res, err
	}
	if !rotated {
		return res, errs.ErrInvalidToken
	}

	user.RefreshToken = &tokens.RefreshToken
	user.RefreshTokenExpiryTime = &refreshExpiry

	return buildAuthResponse(user, roles, tokens), nil
}

func (s *AuthServiceImpl) Validate(token string) bool {
	return s.tokens.IsValid(token)
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID int64) (res dto.UserProfile, err error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return res, err
	}

	if user.ID == 0 {
		return res, errs.ErrAccountNotFound
	}

	roles, err := s.resolveRoleNames(ctx, user.ID)
	if err != nil {
		return res, err
	}

	return buildUserProfile(user, roles), nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, userID int64) (err error) {
	return s.userRepo.ClearRefreshToken(ctx, userID, s.now().UnixMilli())
}

func (s *AuthServiceImpl) SweepExpiredSessions(ctx context.Context) (cleared int64, err error) {
	log.Ctx(ctx).Info().Str("component", "SweepExpiredSessions").Msg("cron starts")

	cleared, err = s.userRepo.ClearExpiredRefreshTokens(ctx, s.now().UnixMilli())
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().Str("component", "SweepExpiredSessions").Int64("cleared", cleared).Msg("cron ends")

	return cleared, nil
}

// resolveRoleNames returns the names of the user's active role assignments.
func (s *AuthServiceImpl) resolveRoleNames(ctx context.Context, userID int64) ([]string, error) {
	userRoles, err := s.roleRepo.GetUserRolesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var roleIDs []int64
	for _, ur := range userRoles {
		if ur.IsActive {
			roleIDs = append(roleIDs, ur.RoleID)
		}
	}

	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	roles, err := s.roleRepo.GetRolesByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	return names, nil
}

func buildAuthResponse(user domain.User, roles []string, tokens IssuedTokens) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:           tokens.AccessToken,
		RefreshToken:          tokens.RefreshToken,
		AccessTokenExpiresAt:  tokens.AccessTokenExpiry.UnixMilli(),
		RefreshTokenExpiresAt: tokens.RefreshTokenExpiry.UnixMilli(),
		User:                  buildUserProfile(user, roles),
	}
}

func buildUserProfile(user domain.User, roles []string) dto.UserProfile {
	return dto.UserProfile{
		ID:              user.ID,
		ExternalID:      user.ExternalID,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		PhoneNumber:     user.PhoneNumber,
		Designation:     user.Designation,
		IsEmailVerified: user.IsEmailVerified,
		IsPhoneVerified: user.IsPhoneVerified,
		LastLogin:       user.LastLogin,
		Roles:           roles,
	}
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func entityKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
