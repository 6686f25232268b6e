package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCredential(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@b.c",
		"exp": exp.Unix(),
	}).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)

	info := InspectCredential(tok)
	assert.False(t, info.Opaque)
	assert.Equal(t, "a@b.c", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestInspectCredential_Opaque(t *testing.T) {
	info := InspectCredential("just-a-random-string")
	assert.True(t, info.Opaque)
	assert.Empty(t, info.Subject)
	assert.False(t, info.Expired(time.Now()))
}
