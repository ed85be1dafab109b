package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const refreshTokenBytes = 32

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Principal is the identity carried by a verified access token.
type Principal struct {
	UserID    int64
	Username  string
	Email     string
	TokenID   string
	Roles     []string
	ExpiresAt time.Time
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

type accessClaims struct {
	UserID int64    `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.StandardClaims
}

type IssuedTokens struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type TokenIssuer struct {
	config config.JWTConfig
	now    func() time.Time
}

func CreateTokenIssuer(config config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		config: config,
		now:    time.Now,
	}
}

func (t *TokenIssuer) Issue(user domain.User, roles []string) (res IssuedTokens, err error) {
	now := t.now()
	accessExpiry := now.Add(time.Duration(t.config.DurationInMinutes) * time.Minute)

	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  append([]string{}, roles...),
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Username,
			Id:        uuid.NewString(),
			Issuer:    t.config.Issuer,
			Audience:  t.config.Audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: accessExpiry.Unix(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.config.Key))
	if err != nil {
		log.Error().Err(err).Str("component", "Issue").Msg("")
		return res, errs.ErrInternalServer
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		log.Error().Err(err).Str("component", "Issue").Msg("")
		return res, errs.ErrInternalServer
	}

	return IssuedTokens{
		AccessToken:        accessToken,
		AccessTokenExpiry:  time.Unix(claims.ExpiresAt, 0),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: now.Add(t.config.RefreshTokenTTL),
	}, nil
}

// Decode verifies signature, algorithm, issuer and audience but not expiry,
// so that an expired access token can still be presented for refresh.
func (t *TokenIssuer) Decode(token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.ErrInvalidToken
	}

	claims := &accessClaims{}
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	parsed, err := parser.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errUnexpectedSigningMethod
		}
		return []byte(t.config.Key), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, errs.ErrInvalidToken
	}

	if !claims.VerifyIssuer(t.config.Issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", errs.ErrInvalidToken)
	}
	if !claims.VerifyAudience(t.config.Audience, true) {
		return nil, fmt.Errorf("%w: audience mismatch", errs.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", errs.ErrInvalidToken)
	}

	return &Principal{
		UserID:    claims.UserID,
		Username:  claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.Id,
		Roles:     claims.Roles,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// Authorize is Decode plus the expiry check, for guarding requests.
func (t *TokenIssuer) Authorize(token string) (*Principal, error) {
	principal, err := t.Decode(token)
	if err != nil {
		return nil, err
	}

	if !t.now().Before(principal.ExpiresAt) {
		return nil, errs.ErrExpiredToken
	}

	return principal, nil
}

// IsValid has Decode semantics and never returns an error; failures are only logged.
func (t *TokenIssuer) IsValid(token string) bool {
	_, err := t.Decode(token)
	if err != nil {
		log.Info().Err(err).Str("component", "IsValid").Msg("token rejected")
		return false
	}
	return true
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
