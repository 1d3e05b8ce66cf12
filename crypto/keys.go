package crypto

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Parses a public key in multibase encoding, with a multicodec indicator prefix, as would be found in a DID Document `verificationMethod` section. This does not handle the many possible multibase variations.
func ParsePublicMultibase(encoded string) (*PublicKeyK256, error) {
	if len(encoded) < 2 || encoded[0] != 'z' {
		return nil, fmt.Errorf("%w: unexpected multibase encoding", ErrMalformedKey)
	}
	data, err := base58.Decode(encoded[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58 in multibase: %w", ErrMalformedKey, err)
	}
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: multibase key was too short", ErrMalformedKey)
	}
	if data[0] != 0xE7 || data[1] != 0x01 {
		return nil, fmt.Errorf("%w: unsupported multicodec type in public multibase", ErrMalformedKey)
	}
	return ParsePublicBytesK256(data[2:])
}

// Loads a [PublicKeyK256] from did:key string serialization.
//
// The did:key format encodes the key type.
func ParsePublicDIDKey(didKey string) (*PublicKeyK256, error) {
	if !strings.HasPrefix(didKey, "did:key:") {
		return nil, fmt.Errorf("%w: string is not a DID key: %s", ErrMalformedKey, didKey)
	}
	mb := strings.TrimPrefix(didKey, "did:key:")
	return ParsePublicMultibase(mb)
}

// Parses a private key in multibase encoding, with a multicodec indicator prefix, as exported by [PrivateKeyK256.Multibase].
func ParsePrivateMultibase(encoded string) (*PrivateKeyK256, error) {
	if len(encoded) < 2 || encoded[0] != 'z' {
		return nil, fmt.Errorf("%w: unexpected multibase encoding", ErrMalformedKey)
	}
	data, err := base58.Decode(encoded[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58 in multibase: %w", ErrMalformedKey, err)
	}
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: multibase key was too short", ErrMalformedKey)
	}
	if data[0] != 0x81 || data[1] != 0x26 {
		return nil, fmt.Errorf("%w: unsupported multicodec type in private multibase", ErrMalformedKey)
	}
	return ParsePrivateBytesK256(data[2:])
}

// Parses a public key from any of the supported string syntaxes: hex, multibase, or did:key.
func ParsePublicAny(s string) (*PublicKeyK256, error) {
	switch {
	case strings.HasPrefix(s, "did:key:"):
		return ParsePublicDIDKey(s)
	case strings.HasPrefix(s, "z"):
		return ParsePublicMultibase(s)
	default:
		return ParsePublicHexK256(s)
	}
}
