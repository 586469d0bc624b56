package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyRotator(t *testing.T) {
	_, err := NewKeyRotator(nil)
	assert.Error(t, err)

	rot, err := NewKeyRotator([]string{"key-a"})
	require.NoError(t, err)
	assert.Equal(t, 1, rot.Remaining())
}

func TestKeyRotator_Advance(t *testing.T) {
	rot, err := NewKeyRotator([]string{"key-a", "key-b", "key-c"})
	require.NoError(t, err)

	key, err := rot.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", key)

	key, err = rot.Advance()
	require.NoError(t, err)
	assert.Equal(t, "key-b", key)

	key, err = rot.Advance()
	require.NoError(t, err)
	assert.Equal(t, "key-c", key)
	assert.Equal(t, 1, rot.Remaining())
}

func TestKeyRotator_Exhaustion(t *testing.T) {
	rot, err := NewKeyRotator([]string{"key-a"})
	require.NoError(t, err)

	_, err = rot.Advance()
	assert.ErrorIs(t, err, ErrKeysExhausted)
	assert.True(t, rot.Exhausted())
	assert.Zero(t, rot.Remaining())

	// exhaustion is sticky
	_, err = rot.Current()
	assert.ErrorIs(t, err, ErrKeysExhausted)
	_, err = rot.Advance()
	assert.ErrorIs(t, err, ErrKeysExhausted)
}

func TestKeyRotator_Reset(t *testing.T) {
	rot, err := NewKeyRotator([]string{"key-a", "key-b"})
	require.NoError(t, err)

	_, _ = rot.Advance()
	_, err = rot.Advance()
	require.ErrorIs(t, err, ErrKeysExhausted)

	rot.Reset()
	assert.False(t, rot.Exhausted())

	key, err := rot.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", key)
}
