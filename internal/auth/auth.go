// Package auth issues and verifies the signed credentials carried in the
// "token" cookie.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie the credential travels in.
	CookieName = "token"
	// DefaultTTL is how long a credential stays valid.
	DefaultTTL = time.Hour
)

var (
	ErrEmptySecret  = errors.New("empty token signing secret")
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the signed payload: the identity presented at issuance plus
// the registered iat/exp claims.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Credential is a freshly signed token.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Tokens signs and verifies credentials with one shared HMAC secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Tokens)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(t *Tokens) {
		t.now = now
	}
}

// NewTokens returns a signer/verifier. A non-positive ttl means DefaultTTL.
func NewTokens(secret string, ttl time.Duration, opts ...Option) (*Tokens, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	t := &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a credential for any identity claim. The claim is not
// inspected.
func (t *Tokens) Issue(identity Identity) (Credential, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := &Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("error signing token: %w", err)
	}

	return Credential{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry and returns the identity the token
// was issued for.
func (t *Tokens) Verify(token string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	return claims.User, nil
}

// Cookie wraps a credential for delivery: HTTP-only, secure and sendable
// cross-site.
func Cookie(c Credential) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    c.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// ClearCookie expires the credential cookie in the browser.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// Identity is the raw claim a credential was issued for.
type Identity json.RawMessage

func (i Identity) MarshalJSON() ([]byte, error) {
	if len(i) == 0 {
		return []byte("null"), nil
	}
	return i, nil
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	*i = append((*i)[0:0], data...)
	return nil
}

// Email returns the "email" field of an object claim, if any.
func (i Identity) Email() string {
	var claim struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(i, &claim); err != nil {
		return ""
	}
	return claim.Email
}
