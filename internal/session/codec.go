package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"paygate-console/internal/model"
)

const keyInfo = "paygate-console session v1"

type claims struct {
	UserID                string   `json:"userId"`
	UID                   string   `json:"uid"`
	Token                 string   `json:"token"`
	RefreshToken          string   `json:"refreshToken,omitempty"`
	Username              string   `json:"username"`
	Name                  string   `json:"name"`
	Email                 string   `json:"email"`
	Roles                 []string `json:"roles"`
	UserType              string   `json:"userType,omitempty"`
	RequirePasswordChange bool     `json:"requirePasswordChange,omitempty"`
	ExpiresAt             int64    `json:"expiresAt"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session payloads as HS256 tokens.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(strings.TrimSpace(secret)) == 0 {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime given to sessions encoded without an explicit expiry.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode signs s. A zero ExpiresAt is filled in as now plus the codec TTL.
func (c *Codec) Encode(s model.Session) (string, error) {
	token, _, err := c.Issue(s)
	return token, err
}

// Issue is Encode that also returns the session as stored, with its expiry set.
func (c *Codec) Issue(s model.Session) (string, model.Session, error) {
	now := c.now().UTC()
	if s.ExpiresAt == 0 {
		s.ExpiresAt = now.Add(c.ttl).UnixMilli()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:                s.UserID,
		UID:                   s.UID,
		Token:                 s.Token,
		RefreshToken:          s.RefreshToken,
		Username:              s.Username,
		Name:                  s.Name,
		Email:                 s.Email,
		Roles:                 s.Roles,
		UserType:              s.UserType,
		RequirePasswordChange: s.RequirePasswordChange,
		ExpiresAt:             s.ExpiresAt,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(time.UnixMilli(s.ExpiresAt)),
		},
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", model.Session{}, fmt.Errorf("sign session: %w", err)
	}

	return signed, s, nil
}

// Decode verifies a session token. Any failure yields (nil, false).
func (c *Codec) Decode(raw string) (*model.Session, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	parsed := &claims{}
	token, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	if parsed.UserID == "" || parsed.Token == "" {
		return nil, false
	}

	if parsed.ExpiresAt <= c.now().UnixMilli() {
		return nil, false
	}

	return &model.Session{
		UserID:                parsed.UserID,
		UID:                   parsed.UID,
		Token:                 parsed.Token,
		RefreshToken:          parsed.RefreshToken,
		Username:              parsed.Username,
		Name:                  parsed.Name,
		Email:                 parsed.Email,
		Roles:                 parsed.Roles,
		UserType:              parsed.UserType,
		RequirePasswordChange: parsed.RequirePasswordChange,
		ExpiresAt:             parsed.ExpiresAt,
	}, true
}

func deriveKey(secret string) ([]byte, error) {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}
