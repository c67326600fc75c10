package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/token"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	issuer := token.Issuer{Secret: "test-secret", TTL: time.Hour}

	raw, err := issuer.Issue(models.User{ID: "u-1", Role: models.RoleOrganizer})
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "organizer", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := token.Issuer{Secret: "right", TTL: time.Hour}.Issue(models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = token.Issuer{Secret: "wrong", TTL: time.Hour}.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := token.Issuer{Secret: "test-secret", TTL: -time.Minute}

	raw, err := issuer.Issue(models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := token.Issuer{Secret: "test-secret", TTL: time.Hour}.Parse("not.a.jwt")
	assert.Error(t, err)
}
