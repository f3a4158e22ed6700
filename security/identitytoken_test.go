package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock.app/timeclock/core"
)

var testSecret = []byte("IxrAjDoa2FqElO7IhrSrUJELhUckePEPVpaePlS")

func TestIdentityTokenRoundTrip(t *testing.T) {
	identity := Identity{ID: "u1", Username: "alice", Role: core.RoleAdmin}

	token, err := CreateIdentityToken(identity, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseIdentityToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity)
	assert.Equal(t, core.UserRef{ID: "u1", Username: "alice", Role: core.RoleAdmin}, claims.UserRef())
}

func TestIdentityTokenWrongSecret(t *testing.T) {
	token, err := CreateIdentityToken(Identity{ID: "u1", Username: "alice", Role: core.RoleUser}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, []byte("some-other-secret"))
	assert.Error(t, err)
}

func TestIdentityTokenExpired(t *testing.T) {
	token, err := CreateIdentityToken(Identity{ID: "u1", Username: "alice", Role: core.RoleUser}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseIdentityToken(token, testSecret)
	assert.Error(t, err)
}

func TestIdentityTokenGarbage(t *testing.T) {
	_, err := ParseIdentityToken("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
