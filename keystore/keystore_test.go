package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hippo-protocol/hippo-protocol/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap KDF parameters, so tests run quickly
var testConfig = &Config{Time: 1, MemoryKiB: 64, Threads: 1}

func TestPutGet(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ks, err := New(dir, []byte("correct horse"), testConfig)
	require.NoError(t, err)

	priv, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)

	has, err := ks.Has("alice")
	assert.NoError(err)
	assert.False(has)

	require.NoError(t, ks.Put("alice", priv))
	has, err = ks.Has("alice")
	assert.NoError(err)
	assert.True(has)

	got, err := ks.Get("alice")
	require.NoError(t, err)
	assert.True(priv.Equal(got))

	pub, err := ks.PublicKey("alice")
	assert.NoError(err)
	assert.True(priv.PublicKey().Equal(pub))

	// no overwrite
	other, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	assert.ErrorIs(ks.Put("alice", other), ErrKeyExists)
	got, err = ks.Get("alice")
	require.NoError(t, err)
	assert.True(priv.Equal(got))
}

func TestNoPlaintextOnDisk(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ks, err := New(dir, []byte("pw"), testConfig)
	require.NoError(t, err)
	priv, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	require.NoError(t, ks.Put("k1", priv))

	b, err := os.ReadFile(filepath.Join(dir, "k1.key.json"))
	require.NoError(t, err)
	assert.NotContains(string(b), priv.Hex())
	assert.NotContains(string(b), string(priv.Bytes()))
	assert.Contains(string(b), priv.PublicKey().Hex())
	assert.Contains(string(b), "argon2id")

	info, err := os.Stat(filepath.Join(dir, "k1.key.json"))
	require.NoError(t, err)
	assert.Equal(os.FileMode(0600), info.Mode().Perm())
}

func TestWrongPassphrase(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ks, err := New(dir, []byte("right"), testConfig)
	require.NoError(t, err)
	priv, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)
	require.NoError(t, ks.Put("k", priv))

	wrong, err := New(dir, []byte("wrong"), testConfig)
	require.NoError(t, err)
	_, err = wrong.Get("k")
	assert.ErrorIs(err, ErrInvalidPassphrase)

	// public half is readable regardless
	_, err = wrong.PublicKey("k")
	assert.NoError(err)

	_, err = New(dir, nil, testConfig)
	assert.ErrorIs(err, ErrInvalidPassphrase)
}

func TestListDelete(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ks, err := New(dir, []byte("pw"), testConfig)
	require.NoError(t, err)

	ids, err := ks.List()
	assert.NoError(err)
	assert.Empty(ids)

	for _, id := range []string{"zed", "alpha", "mid.key-2"} {
		priv, err := crypto.GeneratePrivateKeyK256()
		require.NoError(t, err)
		require.NoError(t, ks.Put(id, priv))
	}
	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600))

	ids, err = ks.List()
	assert.NoError(err)
	assert.Equal([]string{"alpha", "mid.key-2", "zed"}, ids)

	assert.NoError(ks.Delete("alpha"))
	assert.ErrorIs(ks.Delete("alpha"), ErrKeyNotFound)
	_, err = ks.Get("alpha")
	assert.ErrorIs(err, ErrKeyNotFound)

	ids, err = ks.List()
	assert.NoError(err)
	assert.Equal([]string{"mid.key-2", "zed"}, ids)
}

func TestInvalidIDs(t *testing.T) {
	assert := assert.New(t)

	ks, err := New(t.TempDir(), []byte("pw"), testConfig)
	require.NoError(t, err)
	priv, err := crypto.GeneratePrivateKeyK256()
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", "a/b", ".hidden", "sp ace", strings.Repeat("x", 200)} {
		assert.ErrorIs(ks.Put(id, priv), ErrInvalidKeyID, id)
		_, err := ks.Get(id)
		assert.ErrorIs(err, ErrInvalidKeyID, id)
	}
}

func TestCorruptFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	ks, err := New(dir, []byte("pw"), testConfig)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.key.json"), []byte("{"), 0600))
	_, err = ks.Get("bad")
	assert.ErrorIs(err, ErrInvalidKeyFile)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2.key.json"), []byte(`{"version":2}`), 0600))
	_, err = ks.Get("v2")
	assert.ErrorIs(err, ErrInvalidKeyFile)
}
