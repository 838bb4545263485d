// internal/utils/keygen_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyFormat = regexp.MustCompile(`^[A-Z0-9]{5}-[A-Z0-9]{5}-[A-Z0-9]{5}$`)

func TestGenerateLicenseKeyFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		key, err := GenerateLicenseKey()
		require.NoError(t, err)
		assert.Regexp(t, keyFormat, key)
	}
}

func TestGenerateLicenseKeyUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key, err := GenerateLicenseKey()
		require.NoError(t, err)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}
