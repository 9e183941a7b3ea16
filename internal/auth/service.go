package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/abduss/imgdrive/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer   = "imgdrive"
	audience = "imgdrive-ui"
)

// Service guards the application behind a single shared secret.
type Service struct {
	cfg        config.AuthConfig
	secretHash []byte
	signingKey []byte
	nowFunc    func() time.Time
	parser     *jwt.Parser
}

// NewService hashes the configured secret and derives the session signing key.
func NewService(cfg config.AuthConfig) (*Service, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("auth: secret key is required")
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword(digest(cfg.SecretKey), cost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	key := sha256.Sum256([]byte("session:" + cfg.SecretKey))
	s := &Service{
		cfg:        cfg,
		secretHash: hash,
		signingKey: key[:],
		nowFunc:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)
	return s, nil
}

// Login compares key with the configured secret and issues a session token.
func (s *Service) Login(key string) (Session, error) {
	if key == "" {
		return Session{}, ErrInvalidSecret
	}
	if err := bcrypt.CompareHashAndPassword(s.secretHash, digest(key)); err != nil {
		return Session{}, ErrInvalidSecret
	}

	now := s.nowFunc()
	expiresAt := now.Add(s.sessionTTL())
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateSession verifies the token signature and expiry.
func (s *Service) ValidateSession(tokenString string) (SessionClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return SessionClaims{}, ErrUnauthorized
	}

	out := SessionClaims{ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.cfg.SessionTTL <= 0 {
		return 24 * time.Hour
	}
	return s.cfg.SessionTTL
}

// digest keeps secrets of any length under bcrypt's 72 byte input limit.
func digest(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(hex.EncodeToString(sum[:]))
}
