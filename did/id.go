package did

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

// Literal prefix of every hippo identifier.
const Prefix = "did:hp:"

// Method name of hippo identifiers, the segment between "did:" and the key.
const Method = "hp"

// Identifier text does not start with [Prefix].
var ErrMalformedIdentifier = errors.New("malformed identifier")

// A hippo decentralized identifier: [Prefix] followed by the hex encoding of a compressed K-256 public key.
//
// Always use [ParseID] instead of wrapping strings directly, especially when working with input. Note that the key portion is not validated as a curve point until [ID.PublicKey] is called.
type ID string

// Builds an identifier from public key text. This is pure concatenation: the key text is not validated.
func FromPublicKeyHex(pub string) ID {
	didConversions.WithLabelValues("encode", "ok").Inc()
	return ID(Prefix + pub)
}

// Builds an identifier from a parsed public key, using its canonical hex encoding.
func FromPublicKey(pub *crypto.PublicKeyK256) ID {
	return FromPublicKeyHex(pub.Hex())
}

// Parses identifier text. Fails with [ErrMalformedIdentifier] if the prefix is absent.
func ParseID(raw string) (ID, error) {
	if !strings.HasPrefix(raw, Prefix) {
		didConversions.WithLabelValues("decode", "malformed").Inc()
		return "", fmt.Errorf("%w: expected %q prefix", ErrMalformedIdentifier, Prefix)
	}
	didConversions.WithLabelValues("decode", "ok").Inc()
	return ID(raw), nil
}

// Strips the prefix from identifier text, returning the public key text unchanged.
func PublicKeyHexFromString(raw string) (string, error) {
	id, err := ParseID(raw)
	if err != nil {
		return "", err
	}
	return id.PublicKeyHex(), nil
}

// The public key text following the prefix, still unvalidated.
func (d ID) PublicKeyHex() string {
	return strings.TrimPrefix(string(d), Prefix)
}

// Parses the key portion as a K-256 public key.
func (d ID) PublicKey() (*crypto.PublicKeyK256, error) {
	return crypto.ParsePublicHexK256(d.PublicKeyHex())
}

// Equivalent did:key form of this identifier, for interop with generic DID tooling.
func (d ID) DIDKey() (string, error) {
	pub, err := d.PublicKey()
	if err != nil {
		return "", err
	}
	return pub.DIDKey(), nil
}

func (d ID) String() string {
	return string(d)
}

func (d ID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *ID) UnmarshalText(text []byte) error {
	id, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*d = id
	return nil
}
