package auth

import (
	"errors"
	"fmt"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks HS256 bearer tokens issued by the identity provider and
// returns the principal carried in the subject claim.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// OwnerID validates tokenString and returns its subject.
func (v *Verifier) OwnerID(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("%w: token verification is not configured", customerrors.ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.Join(customerrors.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", customerrors.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// IssueToken signs a token for ownerID valid for ttl. Used by the CLI to mint
// development tokens; production tokens come from the identity provider.
func IssueToken(secret, ownerID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	if ownerID == "" {
		return "", customerrors.NewValidationError("owner_id", "is required")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
