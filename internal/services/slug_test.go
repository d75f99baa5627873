package services

import (
	"strings"
	"testing"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateSlug(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(charset, c), "unexpected character %q", c)
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)

	short, err := GenerateSlug(3)
	require.NoError(t, err)
	assert.Len(t, short, MinSlugLength)

	long, err := GenerateSlug(10)
	require.NoError(t, err)
	assert.Len(t, long, 10)
}

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		want    string
		wantErr bool
	}{
		{name: "simple", alias: "launch", want: "launch"},
		{name: "trimmed", alias: "  my-link_2  ", want: "my-link_2"},
		{name: "single char", alias: "x", want: "x"},
		{name: "max length", alias: strings.Repeat("a", MaxAliasLength), want: strings.Repeat("a", MaxAliasLength)},
		{name: "too long", alias: strings.Repeat("a", MaxAliasLength+1), wantErr: true},
		{name: "blank", alias: "   ", wantErr: true},
		{name: "space inside", alias: "my link", wantErr: true},
		{name: "slash", alias: "a/b", wantErr: true},
		{name: "unicode", alias: "café", wantErr: true},
		{name: "reserved api", alias: "api", wantErr: true},
		{name: "reserved health", alias: "health", wantErr: true},
		{name: "reserved check is case-sensitive", alias: "API", want: "API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAlias(tt.alias)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, customerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateOriginalURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "https", raw: "https://example.com/a?b=c", want: "https://example.com/a?b=c"},
		{name: "trimmed", raw: "  http://example.com  ", want: "http://example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "relative", raw: "/just/a/path", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
		{name: "mailto", raw: "mailto:someone@example.com", wantErr: true},
		{name: "javascript", raw: "javascript://example.com/%0Aalert(1)", wantErr: true},
		{name: "garbage", raw: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateOriginalURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, customerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortURL(t *testing.T) {
	assert.Equal(t, "https://sho.rt/abc", ShortURL("https://sho.rt", "abc"))
	assert.Equal(t, "https://sho.rt/abc", ShortURL("https://sho.rt/", "abc"))
	assert.Equal(t, "https://sho.rt/abc", ShortURL("https://sho.rt//", "abc"))
	assert.Equal(t, "http://localhost:8080/x", ShortURL("http://localhost:8080", "x"))
}
