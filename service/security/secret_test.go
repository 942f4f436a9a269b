package security

import (
	"testing"

	"gatepass/util"

	"github.com/stretchr/testify/require"
)

// Test Bcrypt hash and compare logic
func TestBcryptHash(t *testing.T) {
	str := util.RandomString(10)

	hashed, err := BcryptHash(str)
	require.NoError(t, err)

	require.True(t, BcryptCompare(hashed, str))
	require.False(t, BcryptCompare(hashed, str+"x"))
}

func TestHashIsStable(t *testing.T) {
	require.Equal(t, Hash("gate"), Hash("gate"))
	require.NotEqual(t, Hash("gate"), Hash("gate2"))
	require.Len(t, Hash("gate"), 64)
}

func TestNewRefreshToken(t *testing.T) {
	token, hash, err := NewRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, Hash(token), hash)

	other, _, err := NewRefreshToken()
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}
