package credential

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolvePrefersEnv(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, Set("gemini", "from-keyring"))
	t.Setenv(EnvVar, "  from-env  ")

	key, src, err := Resolve("gemini")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
	assert.Equal(t, SourceEnv, src)
}

func TestResolveFromKeyring(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	require.NoError(t, Set("openai", "sk-test-1234"))

	key, src, err := Resolve("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-1234", key)
	assert.Equal(t, SourceKeyring, src)
}

func TestResolveMissing(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")

	_, _, err := Resolve("gemini")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"gemini"`)
}

func TestKeyringFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("locked"))
	t.Setenv(EnvVar, "")

	_, _, err := Resolve("gemini")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "locked")
}

func TestSetRejectsEmpty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, Set("gemini", "   "))
	assert.Error(t, Set("", "key"))
}

func TestDelete(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvVar, "")
	require.NoError(t, Set("gemini", "AIza-test"))

	require.NoError(t, Delete("gemini"))
	_, _, err := Resolve("gemini")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, Delete("gemini"), ErrNotFound)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "********abcd", Mask("sk-0123456789abcd"))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "", Mask(""))
}
