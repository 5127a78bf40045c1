package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/surdiana/todoapi/config"
	"github.com/surdiana/todoapi/internal/constants"
	apperrors "github.com/surdiana/todoapi/internal/errors"
	"github.com/surdiana/todoapi/internal/model"
)

// Claims is the decoded content of an access or refresh token. Instances
// are never mutated after issuance; a new token means new claims.
type Claims struct {
	UserID          uint   `json:"userId"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. Access and refresh tokens live in
// independent signing domains: distinct secrets, distinct lifetimes. A token
// signed for one domain never verifies in the other.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(cfg config.TokenConfig) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// AccessTTL reports the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

func (c *Codec) claimsFor(user *model.User, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		UserID:          user.ID,
		Name:            user.Username,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.TokenIssuer,
			Audience:  jwt.ClaimStrings{constants.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// IssueAccess signs a short-lived access token for the user.
func (c *Codec) IssueAccess(user *model.User) (string, error) {
	return c.sign(c.claimsFor(user, c.accessTTL), c.accessSecret)
}

// IssueRefresh signs a refresh token for the user. Refresh tokens always
// carry an expiry; store-side revocation is an additional gate, not the
// only one. Each token gets a random jti: claims are otherwise
// deterministic to the second, and token values are stored under a unique
// index, so two issuances for the same user must never produce the same
// string.
func (c *Codec) IssueRefresh(user *model.User) (string, error) {
	claims := c.claimsFor(user, c.refreshTTL)

	jti, err := randomTokenID()
	if err != nil {
		return "", err
	}
	claims.ID = jti

	return c.sign(claims, c.refreshSecret)
}

func randomTokenID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (c *Codec) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks signature integrity and expiry of an access token.
// Issuer/audience checks are layered above, in the auth middleware.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.accessSecret)
}

// VerifyRefresh checks signature integrity and expiry of a refresh token.
func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.refreshSecret)
}

func (c *Codec) verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.WrapError(apperrors.ErrTokenExpired, err)
		default:
			return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
		}
	}

	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
