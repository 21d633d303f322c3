package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_TagsStoredForm(t *testing.T) {
	v := NewVerifier()

	stored, err := v.Hash("password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "{bcrypt}"))
	assert.NotContains(t, stored, "password")
}

func TestHash_EmptyPassword(t *testing.T) {
	v := NewVerifier()

	_, err := v.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerify(t *testing.T) {
	v := NewVerifier()

	stored, err := v.Hash("password")
	require.NoError(t, err)

	assert.True(t, v.Verify("password", stored))
	assert.False(t, v.Verify("wrong", stored))
}

func TestVerify_UntaggedBcrypt(t *testing.T) {
	v := NewVerifier()

	stored, err := v.Hash("password")
	require.NoError(t, err)

	untagged := strings.TrimPrefix(stored, "{bcrypt}")
	assert.True(t, v.Verify("password", untagged))
}

func TestVerify_MalformedStoredForm(t *testing.T) {
	v := NewVerifier()

	// Unknown tags and garbage are a plain "no match", never an error.
	assert.False(t, v.Verify("password", ""))
	assert.False(t, v.Verify("password", "{argon2}whatever"))
	assert.False(t, v.Verify("password", "{bcrypt}not-a-hash"))
	assert.False(t, v.Verify("password", "plaintext-on-disk"))
}
