package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AgentTarik/payments-dashboard/internal/config"
)

// Subject identifies the dashboard in the tokens it sends to the transaction API.
const Subject = "payments-dashboard"

// JWTIssuer signs short-lived HS256 service tokens for outbound calls.
type JWTIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewJWTIssuer(cfg config.JWT) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &JWTIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (j *JWTIssuer) Issue(subject string) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-30 * time.Second)), // small skew
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	return signed, exp, err
}

// Token issues a token for the dashboard subject. It satisfies the client's
// token source.
func (j *JWTIssuer) Token() (string, error) {
	tok, _, err := j.Issue(Subject)
	return tok, err
}
