package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ayse@example.com", normalizeEmail("  Ayse@Example.COM "))
	assert.Equal(t, "", normalizeEmail("   "))
}

func TestDefaultLanguage(t *testing.T) {
	assert.Equal(t, "tr", defaultLanguage(""))
	assert.Equal(t, "tr", defaultLanguage("hu"))
	assert.Equal(t, "en", defaultLanguage("en"))
	assert.Equal(t, "tr", defaultLanguage("tr"))
}

func TestGenerateResetCode_SixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	seen := make(map[string]bool)

	for i := 0; i < 20; i++ {
		code, err := generateResetCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}

	// 20 draws from a million values colliding down to one would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 1)
}
