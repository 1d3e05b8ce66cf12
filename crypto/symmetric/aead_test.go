package symmetric

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/hippo-protocol/hippo-protocol/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedText = "datag허ㅜㅏ니ㅜ2#@_!##ㅏ!~2ㅡ₩ㅡ1    ㅁAl;;A;;:{}()[]"

func TestRoundTripEncodings(t *testing.T) {
	assert := assert.New(t)

	key, err := GenerateKey()
	require.NoError(t, err)

	cases := map[Encoding]string{
		UTF8:   mixedText,
		Hex:    hex.EncodeToString([]byte(mixedText)),
		Base64: base64.StdEncoding.EncodeToString([]byte(mixedText)),
	}
	for enc, text := range cases {
		env, err := Encrypt(text, enc, key)
		require.NoError(t, err, enc.String())

		assert.Equal(NonceLength*2, len(env.Nonce))
		raw, err := enc.Decode(text)
		require.NoError(t, err)
		assert.Equal((len(raw)+TagLength)*2, len(env.Ciphertext))

		out, err := Decrypt(env, enc, key)
		assert.NoError(err)
		assert.Equal(text, out, enc.String())
	}
}

func TestFreshNonces(t *testing.T) {
	assert := assert.New(t)

	key, err := GenerateKey()
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		env, err := Encrypt("same message", UTF8, key)
		require.NoError(t, err)
		assert.False(seen[env.Nonce])
		seen[env.Nonce] = true
	}
}

func TestKeyLength(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := Encrypt("hello", UTF8, make([]byte, n))
		assert.ErrorIs(err, crypto.ErrInvalidKeyLength)
		_, err = Decrypt(&Envelope{}, UTF8, make([]byte, n))
		assert.ErrorIs(err, crypto.ErrInvalidKeyLength)
	}

	_, err := ParseKeyHex("abcd")
	assert.ErrorIs(err, crypto.ErrInvalidKeyLength)
	_, err = ParseKeyHex("zz")
	assert.ErrorIs(err, crypto.ErrInvalidKeyLength)
	key, err := ParseKeyHex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	assert.NoError(err)
	assert.Equal(KeyLength, len(key))
}

func TestInvalidPlaintextEncoding(t *testing.T) {
	assert := assert.New(t)

	key, err := GenerateKey()
	require.NoError(t, err)

	_, err = Encrypt("not hex!", Hex, key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
	_, err = Encrypt("abc", Hex, key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
	_, err = Encrypt("***", Base64, key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
	_, err = Encrypt(string([]byte{0xff, 0xfe}), UTF8, key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
	_, err = Encrypt("hello", Encoding(7), key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)

	// bytes which are not UTF-8 can be encrypted as hex, but not decrypted as UTF8
	env, err := Encrypt("fffe", Hex, key)
	require.NoError(t, err)
	_, err = Decrypt(env, UTF8, key)
	assert.ErrorIs(err, crypto.ErrInvalidEncoding)
	out, err := Decrypt(env, Base64, key)
	assert.NoError(err)
	assert.Equal("//4=", out)
}

func flipHexChar(s string, i int) string {
	b := []byte(s)
	if b[i] == '0' {
		b[i] = '1'
	} else {
		b[i] = '0'
	}
	return string(b)
}

func TestTamperDetection(t *testing.T) {
	assert := assert.New(t)

	key, err := GenerateKey()
	require.NoError(t, err)
	env, err := Encrypt("attack at dawn", UTF8, key)
	require.NoError(t, err)

	for i := range env.Ciphertext {
		tampered := &Envelope{Ciphertext: flipHexChar(env.Ciphertext, i), Nonce: env.Nonce}
		out, err := Decrypt(tampered, UTF8, key)
		assert.Equal(crypto.ErrAuthenticationFailure, err)
		assert.Empty(out)
	}
	for i := range env.Nonce {
		tampered := &Envelope{Ciphertext: env.Ciphertext, Nonce: flipHexChar(env.Nonce, i)}
		_, err := Decrypt(tampered, UTF8, key)
		assert.Equal(crypto.ErrAuthenticationFailure, err)
	}

	otherKey, err := GenerateKey()
	require.NoError(t, err)
	_, err = Decrypt(env, UTF8, otherKey)
	assert.Equal(crypto.ErrAuthenticationFailure, err)

	// malformed envelopes get the same opaque error
	for _, bad := range []*Envelope{
		nil,
		{Ciphertext: "zz", Nonce: env.Nonce},
		{Ciphertext: env.Ciphertext, Nonce: "00"},
		{Ciphertext: env.Ciphertext[:10], Nonce: env.Nonce},
		{Ciphertext: env.Ciphertext + "0", Nonce: env.Nonce},
	} {
		_, err := Decrypt(bad, UTF8, key)
		assert.Equal(crypto.ErrAuthenticationFailure, err)
	}
}
