package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpos/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", time.Hour, 24*time.Hour)
}

func TestGenerateAndValidate(t *testing.T) {
	tm := newTestManager()
	roles := []domain.BusinessRole{{BusinessID: "biz-1", Role: domain.RoleOwner}}

	access, refresh, err := tm.Generate("user-1", roles)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := tm.Validate(access, "access")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, roles, claims.Roles)

	claims, err = tm.Validate(refresh, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidateRejectsWrongUse(t *testing.T) {
	tm := newTestManager()
	_, refresh, err := tm.Generate("user-1", nil)
	require.NoError(t, err)

	// A refresh token must not pass as a bearer credential.
	_, err = tm.Validate(refresh, "access")
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	access, _, err := newTestManager().Generate("user-1", nil)
	require.NoError(t, err)

	other := NewTokenManager("different-secret", time.Hour, time.Hour)
	_, err = other.Validate(access, "access")
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, time.Hour)
	access, _, err := tm.Generate("user-1", nil)
	require.NoError(t, err)

	_, err = tm.Validate(access, "access")
	assert.Error(t, err)
}

func TestHasBusinessRole(t *testing.T) {
	claims := &Claims{Roles: []domain.BusinessRole{
		{BusinessID: "biz-1", Role: domain.RoleStaff},
	}}
	assert.True(t, HasBusinessRole(claims, "biz-1"))
	assert.False(t, HasBusinessRole(claims, "biz-2"))
	assert.False(t, HasBusinessRole(nil, "biz-1"))
}
