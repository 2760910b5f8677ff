package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/entities"
)

func TestIssueAndParseToken(t *testing.T) {
	familyID := uint(7)
	user := &entities.User{
		ID:       42,
		Username: "sarah",
		Role:     entities.UserRoleParent,
		FamilyID: &familyID,
	}

	token, err := IssueToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, entities.UserRoleParent, claims.Role)
	require.NotNil(t, claims.FamilyID)
	assert.Equal(t, uint(7), *claims.FamilyID)
	assert.Equal(t, "sarah", claims.Subject)
}

func TestParseToken_NoFamily(t *testing.T) {
	user := &entities.User{ID: 1, Username: "solo", Role: entities.UserRoleChild}

	token, err := IssueToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Nil(t, claims.FamilyID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &entities.User{ID: 1, Username: "u", Role: entities.UserRoleChild}

	token, err := IssueToken(user, "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	user := &entities.User{ID: 1, Username: "u", Role: entities.UserRoleChild}

	token, err := IssueToken(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
