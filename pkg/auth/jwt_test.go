package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	a := New("test-secret")

	token, err := a.GenerateToken("alice")
	req.NoError(err)

	claims, err := a.ValidateToken(token)
	req.NoError(err)
	req.Equal("alice", claims.UserID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := New("secret-one").GenerateToken("alice")
	req.NoError(err)

	_, err = New("secret-two").ValidateToken(token)
	req.Error(err)
}

func TestStripBearer(t *testing.T) {
	req := require.New(t)
	req.Equal("abc", StripBearer("Bearer abc"))
	req.Equal("abc", StripBearer("abc"))
}
