package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, err := m.Issue("awdeorio")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	username, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "awdeorio", username)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m1 := NewManager("secret-one", time.Hour)
	m2 := NewManager("secret-two", time.Hour)

	tok, err := m1.Issue("awdeorio")
	require.NoError(t, err)

	_, err = m2.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Millisecond)

	tok, err := m.Issue("awdeorio")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
