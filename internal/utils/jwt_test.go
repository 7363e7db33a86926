package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftsocial/internal/utils"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseTokenInvalid(t *testing.T) {
	_, err := utils.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	utils.Init("secret-one")
	token, err := utils.GenerateToken(1)
	require.NoError(t, err)

	utils.Init("secret-two")
	_, err = utils.ParseToken(token)
	assert.Error(t, err)
}
