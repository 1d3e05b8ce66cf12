// Passphrase-protected storage of K-256 private keys in a local directory.
//
// Each key is one JSON file, `<id>.key.json`, holding an argon2id salt and parameters, and an AES-256-GCM envelope of the raw private key. Plaintext key material never touches disk.
package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"
)

var (
	ErrKeyNotFound       = errors.New("key not found in keystore")
	ErrKeyExists         = errors.New("key already exists in keystore")
	ErrInvalidPassphrase = errors.New("invalid keystore passphrase")
	ErrInvalidKeyID      = errors.New("invalid key identifier")
	ErrInvalidKeyFile    = errors.New("invalid key file")
)

const (
	fileVersion = 1
	fileSuffix  = ".key.json"
	saltSize    = 16
)

var keyIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-][a-zA-Z0-9._-]{0,127}$`)

// Argon2id cost parameters.
type Config struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

func DefaultConfig() *Config {
	return &Config{
		Time:      1,
		MemoryKiB: 64 * 1024,
		Threads:   4,
	}
}

type kdfParams struct {
	Name      string `json:"name"`
	Salt      string `json:"salt"`
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory"`
	Threads   uint8  `json:"threads"`
}

type keyFile struct {
	Version  int                `json:"version"`
	Pubkey   string             `json:"pubkey"`
	KDF      kdfParams          `json:"kdf"`
	Envelope symmetric.Envelope `json:"envelope"`
}

// A keystore bound to a directory and a passphrase. Safe for concurrent reads; concurrent writers to the same ID race at the filesystem level.
type Keystore struct {
	dir        string
	passphrase []byte
	config     Config
	logger     *slog.Logger
}

// Opens (creating if needed) a keystore directory.
func New(dir string, passphrase []byte, config *Config) (*Keystore, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrInvalidPassphrase)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating keystore directory: %w", err)
	}
	pass := make([]byte, len(passphrase))
	copy(pass, passphrase)
	return &Keystore{
		dir:        dir,
		passphrase: pass,
		config:     *config,
		logger:     slog.Default().With("system", "keystore"),
	}, nil
}

func (ks *Keystore) path(id string) (string, error) {
	if !keyIDRegex.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKeyID, id)
	}
	return filepath.Join(ks.dir, id+fileSuffix), nil
}

func (ks *Keystore) deriveKey(kdf *kdfParams) ([]byte, error) {
	if kdf.Name != "argon2id" {
		return nil, fmt.Errorf("%w: unsupported KDF %q", ErrInvalidKeyFile, kdf.Name)
	}
	salt, err := hex.DecodeString(kdf.Salt)
	if err != nil || len(salt) != saltSize {
		return nil, fmt.Errorf("%w: bad salt", ErrInvalidKeyFile)
	}
	if kdf.Time == 0 || kdf.Threads == 0 {
		return nil, fmt.Errorf("%w: bad KDF parameters", ErrInvalidKeyFile)
	}
	return argon2.IDKey(ks.passphrase, salt, kdf.Time, kdf.MemoryKiB, kdf.Threads, symmetric.KeyLength), nil
}

func (ks *Keystore) Has(id string) (bool, error) {
	p, err := ks.path(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Encrypts and stores the key under id. Fails with [ErrKeyExists] rather than overwriting.
func (ks *Keystore) Put(id string, key *crypto.PrivateKeyK256) error {
	err := ks.put(id, key)
	observe("put", err)
	return err
}

func (ks *Keystore) put(id string, key *crypto.PrivateKeyK256) error {
	p, err := ks.path(id)
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("salt generation failed: %w", err)
	}
	kf := keyFile{
		Version: fileVersion,
		Pubkey:  key.PublicKey().Hex(),
		KDF: kdfParams{
			Name:      "argon2id",
			Salt:      hex.EncodeToString(salt),
			Time:      ks.config.Time,
			MemoryKiB: ks.config.MemoryKiB,
			Threads:   ks.config.Threads,
		},
	}
	wrapKey, err := ks.deriveKey(&kf.KDF)
	if err != nil {
		return err
	}
	defer clear(wrapKey)

	raw := key.Bytes()
	defer clear(raw)
	env, err := symmetric.Seal(raw, wrapKey)
	if err != nil {
		return err
	}
	kf.Envelope = *env

	b, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}

	// link, unlike rename, refuses to replace an existing key file
	tmp, err := os.CreateTemp(ks.dir, ".tmp-"+id+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Link(tmp.Name(), p); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeyExists, id)
		}
		return err
	}
	ks.logger.Debug("stored key", "id", id, "pubkey", kf.Pubkey)
	return nil
}

func (ks *Keystore) readFile(id string) (*keyFile, error) {
	p, err := ks.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var kf keyFile
	if err := json.Unmarshal(b, &kf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyFile, err)
	}
	if kf.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidKeyFile, kf.Version)
	}
	return &kf, nil
}

// Decrypts and returns the key stored under id. A wrong passphrase fails with [ErrInvalidPassphrase].
func (ks *Keystore) Get(id string) (*crypto.PrivateKeyK256, error) {
	key, err := ks.get(id)
	observe("get", err)
	return key, err
}

func (ks *Keystore) get(id string) (*crypto.PrivateKeyK256, error) {
	kf, err := ks.readFile(id)
	if err != nil {
		return nil, err
	}
	wrapKey, err := ks.deriveKey(&kf.KDF)
	if err != nil {
		return nil, err
	}
	defer clear(wrapKey)

	raw, err := symmetric.Open(&kf.Envelope, wrapKey)
	if errors.Is(err, crypto.ErrAuthenticationFailure) {
		return nil, ErrInvalidPassphrase
	}
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	key, err := crypto.ParsePrivateBytesK256(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyFile, err)
	}
	if key.PublicKey().Hex() != kf.Pubkey {
		key.Zero()
		return nil, fmt.Errorf("%w: public key does not match private key", ErrInvalidKeyFile)
	}
	return key, nil
}

// Public key recorded alongside the key; does not need the passphrase.
func (ks *Keystore) PublicKey(id string) (*crypto.PublicKeyK256, error) {
	kf, err := ks.readFile(id)
	if err != nil {
		return nil, err
	}
	return crypto.ParsePublicHexK256(kf.Pubkey)
}

func (ks *Keystore) Delete(id string) error {
	err := ks.delete(id)
	observe("delete", err)
	return err
}

func (ks *Keystore) delete(id string) error {
	p, err := ks.path(id)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	if err == nil {
		ks.logger.Debug("deleted key", "id", id)
	}
	return err
}

// Sorted IDs of all stored keys.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.dir)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, fileSuffix)
		if keyIDRegex.MatchString(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
