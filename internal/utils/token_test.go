package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{6}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
		seen[code] = struct{}{}
	}
	// 200 draws from a million-value space should not collapse to a handful.
	assert.Greater(t, len(seen), 150)
}

func TestNewProjectUID(t *testing.T) {
	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]{22}$`)
	a := NewProjectUID()
	b := NewProjectUID()
	assert.Regexp(t, urlSafe, a)
	assert.Regexp(t, urlSafe, b)
	assert.NotEqual(t, a, b)
}
