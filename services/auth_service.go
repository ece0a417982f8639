package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/utils"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the session token payload.
type Claims struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.StandardClaims
}

// AuthService issues and revokes session tokens and resolves the user behind
// a verified token.
type AuthService struct {
	users  repositories.UserRepository
	tokens TokenStore
	secret []byte
	ttl    time.Duration
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, tokens TokenStore, secret string, ttl time.Duration, log logrus.FieldLogger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// SigningKey is the HS256 key shared with the JWT middleware.
func (a *AuthService) SigningKey() []byte {
	return a.secret
}

func (a *AuthService) Tokens() TokenStore {
	return a.tokens
}

func (a *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := a.users.GetUserByUsername(ctx, utils.NormalizeUsername(req.Username))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		a.log.WithField("username", user.Username).Warn("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, expiresAt, err := a.IssueToken(user)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"userId": user.ID, "role": user.Role}).Info("user logged in")
	return &models.LoginResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// IssueToken signs a fresh HS256 token for user.
func (a *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	issuedAt := a.now()
	expiresAt := issuedAt.Add(a.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.UTC(), nil
}

// Logout revokes the token until its natural expiry.
func (a *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims.Id == "" {
		return nil
	}
	if err := a.tokens.Revoke(ctx, claims.Id, time.Unix(claims.ExpiresAt, 0)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	a.log.WithField("userId", claims.UserID).Info("user logged out")
	return nil
}

// Authenticate loads the user behind verified claims. Revoked tokens and
// deleted or deactivated accounts are refused.
func (a *AuthService) Authenticate(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims.Id != "" {
		revoked, err := a.tokens.IsRevoked(ctx, claims.Id)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	user, err := a.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}
