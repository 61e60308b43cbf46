package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const issuer = "dragdom"

// Service mints and verifies the HS256 bearer tokens that guard the HTTP
// API and the websocket. There is no user store: the subject is whatever
// the operator minted the token for.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewService(secret string, lifetime time.Duration) *Service {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// Claims is what a valid token says about its bearer.
type Claims struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Service) IssueToken(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}
	issued := s.now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.lifetime)),
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", subject, err)
	}
	return signed, nil
}

func (s *Service) ValidateToken(raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &rc,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if rc.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return &Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}, nil
}
