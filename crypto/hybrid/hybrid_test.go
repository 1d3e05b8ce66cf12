package hybrid

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedText = "datag허ㅜㅏ니ㅜ2#@_!##ㅏ!~2ㅡ₩ㅡ1    ㅁAl;;A;;:{}()[]"

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	alice, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)

	cases := map[symmetric.Encoding]string{
		symmetric.UTF8:   mixedText,
		symmetric.Hex:    hex.EncodeToString([]byte(mixedText)),
		symmetric.Base64: base64.StdEncoding.EncodeToString([]byte(mixedText)),
	}
	for enc, text := range cases {
		env, err := EncryptHex(text, enc, alice.PublicKey().Hex())
		require.NoError(t, err)
		assert.Equal(alice.PublicKey().Hex(), env.PubkeyTo)
		assert.NotEqual(alice.PublicKey().Hex(), env.PubkeyFrom)

		out, err := DecryptHex(env, alice.Hex(), enc)
		assert.NoError(err)
		assert.Equal(text, out)
	}
}

func TestEphemeralKeys(t *testing.T) {
	assert := assert.New(t)

	bob, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)

	a, err := Encrypt("hi", symmetric.UTF8, bob.PublicKey())
	require.NoError(t, err)
	b, err := Encrypt("hi", symmetric.UTF8, bob.PublicKey())
	require.NoError(t, err)
	assert.NotEqual(a.PubkeyFrom, b.PubkeyFrom)
	assert.NotEqual(a.Ciphertext, b.Ciphertext)
}

func TestWrongRecipient(t *testing.T) {
	assert := assert.New(t)

	bob, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	eve, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)

	env, err := Encrypt("for bob only", symmetric.UTF8, bob.PublicKey())
	require.NoError(t, err)
	_, err = Decrypt(env, eve, symmetric.UTF8)
	assert.Equal(crypto.ErrAuthenticationFailure, err)
}

func flipHexChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}
	return string(b)
}

func TestTamperDetection(t *testing.T) {
	assert := assert.New(t)

	bob, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	env, err := Encrypt("transfer 100 to carol", symmetric.UTF8, bob.PublicKey())
	require.NoError(t, err)

	for i := range env.Ciphertext {
		tampered := *env
		tampered.Ciphertext = flipHexChar(env.Ciphertext, i)
		out, err := Decrypt(&tampered, bob, symmetric.UTF8)
		assert.Equal(crypto.ErrAuthenticationFailure, err)
		assert.Empty(out)
	}
	for i := range env.Nonce {
		tampered := *env
		tampered.Nonce = flipHexChar(env.Nonce, i)
		_, err := Decrypt(&tampered, bob, symmetric.UTF8)
		assert.Equal(crypto.ErrAuthenticationFailure, err)
	}
}

func TestMalformedKeys(t *testing.T) {
	assert := assert.New(t)

	_, err := EncryptHex("hi", symmetric.UTF8, "02abcd")
	assert.ErrorIs(err, crypto.ErrMalformedKey)
	_, err = EncryptHex("hi", symmetric.UTF8, "not hex")
	assert.ErrorIs(err, crypto.ErrMalformedKey)

	bob, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	env, err := Encrypt("hi", symmetric.UTF8, bob.PublicKey())
	require.NoError(t, err)

	_, err = DecryptHex(env, "00", symmetric.UTF8)
	assert.ErrorIs(err, crypto.ErrMalformedKey)

	bad := *env
	bad.PubkeyFrom = "04"
	_, err = Decrypt(&bad, bob, symmetric.UTF8)
	assert.ErrorIs(err, crypto.ErrMalformedKey)

	_, err = Decrypt(nil, bob, symmetric.UTF8)
	assert.ErrorIs(err, crypto.ErrMalformedInput)
}

func TestInvalidEncoding(t *testing.T) {
	assert := assert.New(t)

	bob, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	_, err = Encrypt("xyz", symmetric.Hex, bob.PublicKey())
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
}
