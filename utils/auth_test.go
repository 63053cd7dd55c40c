package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateJWT("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.ID)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	token, err := GenerateJWT("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	original := JwtKey
	JwtKey = []byte("a different secret")
	defer func() { JwtKey = original }()

	_, err = ParseToken(token)
	assert.Error(t, err)
}
