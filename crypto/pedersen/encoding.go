package pedersen

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

// Parses a commitment from the 33-byte compressed point encoding.
func ParseCommitmentBytes(data []byte) (*Commitment, error) {
	if len(data) != secp256k1.PubKeyBytesLenCompressed {
		return nil, fmt.Errorf("%w: commitment must be %d bytes, got %d", crypto.ErrMalformedInput, secp256k1.PubKeyBytesLenCompressed, len(data))
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: commitment is not a curve point: %w", crypto.ErrMalformedInput, err)
	}
	c := &Commitment{}
	pub.AsJacobian(&c.point)
	return c, nil
}

func ParseCommitmentHex(s string) (*Commitment, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: commitment is not hex: %w", crypto.ErrMalformedInput, err)
	}
	return ParseCommitmentBytes(data)
}

func (c *Commitment) Bytes() []byte {
	return secp256k1.NewPublicKey(&c.point.X, &c.point.Y).SerializeCompressed()
}

func (c *Commitment) Hex() string {
	return hex.EncodeToString(c.Bytes())
}

func (c *Commitment) String() string {
	return c.Hex()
}

func (c *Commitment) Equal(other *Commitment) bool {
	if other == nil {
		return false
	}
	return c.point.X.Equals(&other.point.X) && c.point.Y.Equals(&other.point.Y)
}

func (c Commitment) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Commitment) UnmarshalText(text []byte) error {
	parsed, err := ParseCommitmentHex(string(text))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// Parses a blinding factor from a 32-byte big-endian scalar in [1, N-1].
func ParseBlindingFactorBytes(data []byte) (*BlindingFactor, error) {
	if len(data) != 32 {
		return nil, fmt.Errorf("%w: blinding factor must be 32 bytes, got %d", crypto.ErrMalformedInput, len(data))
	}
	bf := &BlindingFactor{}
	if overflow := bf.scalar.SetByteSlice(data); overflow || bf.scalar.IsZero() {
		bf.Zero()
		return nil, fmt.Errorf("%w: blinding factor out of range", crypto.ErrMalformedInput)
	}
	return bf, nil
}

func ParseBlindingFactorHex(s string) (*BlindingFactor, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: blinding factor is not hex", crypto.ErrMalformedInput)
	}
	defer clear(data)
	return ParseBlindingFactorBytes(data)
}

func (bf *BlindingFactor) Bytes() []byte {
	b := bf.scalar.Bytes()
	return b[:]
}

func (bf *BlindingFactor) Hex() string {
	b := bf.scalar.Bytes()
	defer clear(b[:])
	return hex.EncodeToString(b[:])
}

func (bf *BlindingFactor) Equal(other *BlindingFactor) bool {
	if other == nil {
		return false
	}
	return bf.scalar.Equals(&other.scalar)
}

// Clears the secret scalar from memory.
func (bf *BlindingFactor) Zero() {
	bf.scalar.Zero()
}
