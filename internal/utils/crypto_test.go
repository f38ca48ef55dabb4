package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "00112233445566778899aabbccddeeff"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	for _, plain := range []string{"ABCDE1234F", "x", "a longer value spanning multiple AES blocks for padding"} {
		enc, err := Encrypt(plain, testKey)
		require.NoError(t, err)
		assert.NotEqual(t, plain, enc)

		dec, err := Decrypt(enc, testKey)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestEncryptRandomIV(t *testing.T) {
	a, err := Encrypt("ABCDE1234F", testKey)
	require.NoError(t, err)
	b, err := Encrypt("ABCDE1234F", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryptRejectsBadKey(t *testing.T) {
	_, err := Encrypt("data", "not-hex")
	assert.Error(t, err)

	_, err = Encrypt("data", "0011")
	assert.Error(t, err)

	_, err = Encrypt("", testKey)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := Decrypt("", testKey)
	assert.Error(t, err)

	_, err = Decrypt("zz", testKey)
	assert.Error(t, err)

	_, err = Decrypt("00112233", testKey)
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	data := []byte("model state payload")
	tag := Sign(data, "secret")

	assert.True(t, VerifySignature(data, "secret", tag))
	assert.False(t, VerifySignature(data, "other", tag))
	assert.False(t, VerifySignature([]byte("tampered"), "secret", tag))
	assert.False(t, VerifySignature(data, "secret", "not-hex"))
}

func TestMaskPAN(t *testing.T) {
	assert.Equal(t, "XXXXXX234F", MaskPAN("ABCDE1234F"))
	assert.Equal(t, "234F", MaskPAN("234F"))
	assert.Equal(t, "", MaskPAN(""))
}
