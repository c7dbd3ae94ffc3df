package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/model"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrInvalidIssuer    = errors.New("token issuer is invalid")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// Token types.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token lifetimes used when the configuration leaves them unset.
const (
	DefaultAccessExpiry  = 60 * time.Minute
	DefaultRefreshExpiry = 7 * 24 * time.Hour
)

// TokenClaims are the JWT claims issued to users.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
	Type   string `json:"type,omitempty"`
}

// TokenPair is an access token with its refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RevocationStore records revoked token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type TokenService interface {
	GenerateAccessToken(ctx context.Context, claims *TokenClaims) (string, error)
	GenerateRefreshToken(ctx context.Context, claims *TokenClaims) (string, error)
	// IssuePair signs a fresh access and refresh token for user.
	IssuePair(ctx context.Context, user *model.User) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error)
	// Refresh exchanges a refresh token for a new pair and revokes the old one.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *TokenClaims, error)
	RevokeToken(ctx context.Context, tokenString string) error
	GetPublicKey() *rsa.PublicKey
	GetKeyID() string
}

type tokenService struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	keyID         string
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	revocations   RevocationStore
}

type TokenServiceConfig struct {
	PrivateKey    *rsa.PrivateKey
	PublicKey     *rsa.PublicKey
	KeyID         string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	// Revocations may be nil, in which case logout cannot revoke tokens
	// and they stay valid until they expire.
	Revocations RevocationStore
}

func NewTokenService(cfg *TokenServiceConfig) TokenService {
	access := cfg.AccessExpiry
	if access <= 0 {
		access = DefaultAccessExpiry
	}
	refresh := cfg.RefreshExpiry
	if refresh <= 0 {
		refresh = DefaultRefreshExpiry
	}
	publicKey := cfg.PublicKey
	if publicKey == nil && cfg.PrivateKey != nil {
		publicKey = &cfg.PrivateKey.PublicKey
	}
	return &tokenService{
		privateKey:    cfg.PrivateKey,
		publicKey:     publicKey,
		keyID:         cfg.KeyID,
		issuer:        cfg.Issuer,
		accessExpiry:  access,
		refreshExpiry: refresh,
		revocations:   cfg.Revocations,
	}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, claims *TokenClaims) (string, error) {
	return s.sign(claims, TokenTypeAccess, s.accessExpiry)
}

func (s *tokenService) GenerateRefreshToken(ctx context.Context, claims *TokenClaims) (string, error) {
	return s.sign(claims, TokenTypeRefresh, s.refreshExpiry)
}

func (s *tokenService) sign(claims *TokenClaims, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Type = tokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID

	return token.SignedString(s.privateKey)
}

func (s *tokenService) IssuePair(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.GenerateAccessToken(ctx, &TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.GenerateRefreshToken(ctx, &TokenClaims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *tokenService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *tokenService) parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidSignature
		}
		return s.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != s.issuer {
		return nil, ErrInvalidIssuer
	}
	return claims, nil
}

func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *TokenClaims, error) {
	claims, err := s.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, nil, ErrWrongTokenType
	}

	user := &model.User{BaseModel: model.BaseModel{ID: claims.UserID}, Email: claims.Email}
	pair, err := s.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// RevokeToken deny-lists the token until its expiry. Tokens that no longer
// parse are already unusable and are ignored.
func (s *tokenService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil
	}
	return s.revoke(ctx, claims)
}

func (s *tokenService) revoke(ctx context.Context, claims *TokenClaims) error {
	if s.revocations == nil {
		logger.L().Warn("token revocation skipped, no revocation store configured",
			zap.String("jti", claims.ID))
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *tokenService) GetPublicKey() *rsa.PublicKey {
	return s.publicKey
}

func (s *tokenService) GetKeyID() string {
	return s.keyID
}

// LoadPrivateKey reads a PEM encoded RSA private key (PKCS#1 or PKCS#8). An
// empty path yields a freshly generated 2048-bit key, which invalidates every
// token on restart.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	if path == "" {
		return rsa.GenerateKey(rand.Reader, 2048)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("private key is not PEM encoded")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not an RSA key")
	}
	return key, nil
}
