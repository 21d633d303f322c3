// Package token issues and validates the signed tokens that carry an
// authenticated account's identity and authorities between requests.
// Tokens are stateless: nothing is stored server-side, trust comes from
// the HMAC signature alone.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer       = "ProfileService"
	subjectLabel = "JWT Token"

	// validityWindow is the fixed token lifetime from issuance.
	validityWindow = 30_000_000 * time.Millisecond
)

// Validation failure classes. All of them must surface as a single
// "authentication rejected" outcome at the HTTP boundary.
var (
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrMalformed        = errors.New("token malformed")
)

// Claims is the decoded token payload.
type Claims struct {
	jwt.RegisteredClaims

	// Username is the authenticated account's email.
	Username string `json:"username"`

	// Authorities is the comma-joined list of grant names.
	Authorities string `json:"authorities"`
}

// AuthorityNames splits the comma-joined authorities claim.
func (c Claims) AuthorityNames() []string {
	if c.Authorities == "" {
		return nil
	}
	parts := strings.Split(c.Authorities, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// Codec signs and verifies tokens with a shared symmetric secret.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec. The secret is required: there is no
// fallback value.
func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue signs a token for the given account email and authority names,
// valid from now until now plus the fixed validity window.
func (c *Codec) Issue(username string, authorities []string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subjectLabel,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityWindow)),
		},
		Username:    username,
		Authorities: strings.Join(authorities, ","),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate verifies the token's signature and expiry against now and
// returns its claims. Failures are classified as ErrExpired,
// ErrInvalidSignature, or ErrMalformed.
func (c *Codec) Validate(tokenString string, now time.Time) (Claims, error) {
	claims := Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return Claims{}, ErrInvalidSignature
		default:
			return Claims{}, ErrMalformed
		}
	}
	if !tok.Valid {
		return Claims{}, ErrMalformed
	}
	if strings.TrimSpace(claims.Username) == "" {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
