package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"
)

const (
	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "et_session"
	// SessionTTL is how long a session stays valid
	SessionTTL = 30 * 24 * time.Hour

	sessionIssuer   = "budget-backend"
	sessionAudience = "budget-backend"
)

// SessionClaims are the custom claims of a session token
type SessionClaims struct {
	Admin bool `json:"admin"`
}

// Validate implements validator.CustomClaims
func (c *SessionClaims) Validate(ctx context.Context) error {
	if !c.Admin {
		return errors.New("not an admin session")
	}
	return nil
}

// Session is an issued session token
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService verifies the admin password and issues and validates HS256 session tokens
type AuthService struct {
	userRepo  domain.UserRepository
	secret    []byte
	validator *validator.Validator
	now       func() time.Time
}

// NewAuthService creates a new AuthService signing sessions with secret
func NewAuthService(userRepo domain.UserRepository, secret string) (*AuthService, error) {
	key := []byte(secret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return key, nil
	}

	v, err := validator.New(
		keyFunc,
		validator.HS256,
		sessionIssuer,
		[]string{sessionAudience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &SessionClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("create session validator: %w", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		secret:    key,
		validator: v,
		now:       time.Now,
	}, nil
}

// Login checks the admin password and issues a session
func (s *AuthService) Login(ctx context.Context, password string) (*Session, error) {
	if password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(ctx, domain.AdminUsername)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn().Msg("Login attempted but no admin user exists")
			return nil, domain.ErrInvalidPassword
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidPassword
	}

	return s.IssueSession(user.Username)
}

// IssueSession signs a session token for subject
func (s *AuthService) IssueSession(subject string) (*Session, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(SessionTTL)
	token, err := jwt.Signed(signer).
		Claims(jwt.Claims{
			Issuer:   sessionIssuer,
			Subject:  subject,
			Audience: jwt.Audience{sessionAudience},
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(expiresAt),
		}).
		Claims(SessionClaims{Admin: true}).
		CompactSerialize()
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateSession returns the subject of a valid session token
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	claims, err := s.validator.ValidateToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Session validation failed")
		return "", domain.ErrUnauthorized
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return validated.RegisteredClaims.Subject, nil
}

// SetPassword stores a new bcrypt hash for the admin user, creating it if needed
func (s *AuthService) SetPassword(ctx context.Context, password string) error {
	if len(password) < 8 {
		return domain.ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.userRepo.UpsertPasswordHash(ctx, domain.AdminUsername, string(hash))
	return err
}
