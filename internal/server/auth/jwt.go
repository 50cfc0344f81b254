package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Typed decode failures. HTTP callers collapse all of them into a single
// authentication failure, but the distinction is kept for telemetry and for a
// possible future denylist.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrNoSubject        = errors.New("token has no subject")
)

// TokenCodec builds and parses signed, time-bound identity tokens. The
// subject of a token is the user's email. Issuer and audience are embedded
// on encode but deliberately not enforced on decode; expiry is enforced with
// no leeway.
type TokenCodec struct {
	secret   []byte
	method   jwt.SigningMethod
	issuer   string
	audience string
	validity time.Duration
}

// NewTokenCodec constructs a codec from an explicit configuration. Unknown
// algorithm names fall back to HS256.
func NewTokenCodec(secret []byte, algorithm, issuer, audience string, validity time.Duration) *TokenCodec {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenCodec{
		secret:   secret,
		method:   method,
		issuer:   issuer,
		audience: audience,
		validity: validity,
	}
}

// Encode mints a signed token for the given subject. The expiry is
// now + the configured validity. An empty subject is a programmer error.
func (c *TokenCodec) Encode(subject string, now time.Time) (string, error) {
	if subject == "" {
		return "", ErrNoSubject
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		Issuer:    c.issuer,
		Audience:  jwt.ClaimStrings{c.audience},
	}

	tokenString, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Decode verifies signature, structure and expiry of a token and returns its
// claims. Issuer and audience are NOT verified here; tokens minted with a
// different issuer/audience but the same key still decode.
func (c *TokenCodec) Decode(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return nil, ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}

	return claims, nil
}
