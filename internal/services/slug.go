package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
)

// charset defines the character set used for generating short codes.
// 62 symbols give 62^6 (about 56 billion) codes at the minimum length.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	MinSlugLength  = 6
	MaxAliasLength = 64
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedAliases collide with fixed routes of the HTTP server.
var reservedAliases = map[string]struct{}{
	"api":    {},
	"health": {},
}

// GenerateSlug returns a random code of length characters drawn from charset
// with crypto/rand. Lengths below MinSlugLength are raised to it.
func GenerateSlug(length int) (string, error) {
	if length < MinSlugLength {
		length = MinSlugLength
	}

	code := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range code {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// ValidateAlias trims alias and rejects it unless it is 1 to 64 characters of
// letters, digits, '-' or '_'. Offending characters are never stripped.
func ValidateAlias(alias string) (string, error) {
	alias = strings.TrimSpace(alias)
	switch {
	case alias == "":
		return "", customerrors.NewValidationError("alias", "must not be empty")
	case len(alias) > MaxAliasLength:
		return "", customerrors.NewValidationError("alias", fmt.Sprintf("must be at most %d characters", MaxAliasLength))
	case !aliasPattern.MatchString(alias):
		return "", customerrors.NewValidationError("alias", "may only contain letters, digits, '-' and '_'")
	}
	if _, reserved := reservedAliases[alias]; reserved {
		return "", customerrors.NewValidationError("alias", fmt.Sprintf("%q is reserved", alias))
	}
	return alias, nil
}

// ValidateOriginalURL trims raw and requires an absolute http(s) URL with a host.
func ValidateOriginalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", customerrors.NewValidationError("original_url", "is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", customerrors.NewValidationError("original_url", "is not a valid URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return "", customerrors.NewValidationError("original_url", "must be an absolute URL with a host")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", customerrors.NewValidationError("original_url", "scheme must be http or https")
	}
	return raw, nil
}

// ShortURL joins the public base URL and slug with exactly one '/'.
func ShortURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(slug)
}
