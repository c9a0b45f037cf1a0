package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNoopCipher_PassesThrough(t *testing.T) {
	c := NoopCipher{}

	enc, err := c.Encrypt("my_access_token")
	require.NoError(t, err)
	assert.Equal(t, "my_access_token", enc)

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "my_access_token", dec)
}

func TestAesGcmCipher_RoundTrip(t *testing.T) {
	c, err := NewAesGcmCipher(testKey)
	require.NoError(t, err)

	enc, err := c.Encrypt("my_access_token")
	require.NoError(t, err)
	assert.NotEqual(t, "my_access_token", enc)

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "my_access_token", dec)
}

func TestAesGcmCipher_UniqueNonces(t *testing.T) {
	c, err := NewAesGcmCipher(testKey)
	require.NoError(t, err)

	enc1, err := c.Encrypt("token")
	require.NoError(t, err)
	enc2, err := c.Encrypt("token")
	require.NoError(t, err)

	assert.NotEqual(t, enc1, enc2)
}

func TestAesGcmCipher_InvalidKey(t *testing.T) {
	_, err := NewAesGcmCipher("not-hex")
	assert.Error(t, err)

	_, err = NewAesGcmCipher("deadbeef")
	assert.Error(t, err)
}

func TestAesGcmCipher_TamperedCiphertext(t *testing.T) {
	c, err := NewAesGcmCipher(testKey)
	require.NoError(t, err)

	enc, err := c.Encrypt("token")
	require.NoError(t, err)

	tampered := enc[:len(enc)-2] + "00"
	_, err = c.Decrypt(tampered)
	assert.Error(t, err)
}

func TestAesGcmCipher_CiphertextTooShort(t *testing.T) {
	c, err := NewAesGcmCipher(testKey)
	require.NoError(t, err)

	_, err = c.Decrypt("abcd")
	assert.Error(t, err)
}
