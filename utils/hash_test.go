package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hashed)

	assert.True(t, ComparePassword("s3cret-pass", hashed))
	assert.False(t, ComparePassword("wrong-pass", hashed))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("shopper@example.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail(""))
}
