// Pedersen commitments to unsigned 64-bit values over secp256k1, with tag-derived generators.
//
// A commitment is C = v·G_tag + r·H, where H is the curve base point and G_tag is derived from a domain separation tag by hashing to the curve. Since nobody knows the discrete log of G_tag with respect to H, a commitment is hiding (C reveals nothing about v without r) and binding (no other (v', r') opens C).
//
// The public [Commitment] and the secret [BlindingFactor] are distinct types. Only the commitment may be published; the blinding factor should go to the verifier alone.
package pedersen

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/minio/sha256-simd"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

const generatorDomain = "hippo/pedersen/generator"

// Public half of a commitment: a curve point, safe to publish.
type Commitment struct {
	point secp256k1.JacobianPoint
}

// Secret half of a commitment: the blinding scalar which opens it.
type BlindingFactor struct {
	scalar secp256k1.ModNScalar
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

// Deterministically derives the value generator for a tag, by try-and-increment over SHA-256.
//
// Candidate x coordinates are SHA-256(domain || SHA-256(tag) || counter), with a big-endian 32-bit counter; the first valid one is used, with the even y coordinate.
func generatorForTag(tag string) secp256k1.JacobianPoint {
	tagHash := sha256.Sum256([]byte(tag))
	buf := make([]byte, 0, len(generatorDomain)+len(tagHash)+4)
	buf = append(buf, generatorDomain...)
	buf = append(buf, tagHash[:]...)
	buf = append(buf, 0, 0, 0, 0)

	var x, y secp256k1.FieldVal
	for counter := uint32(0); ; counter++ {
		binary.BigEndian.PutUint32(buf[len(buf)-4:], counter)
		candidate := sha256.Sum256(buf)
		if overflow := x.SetByteSlice(candidate[:]); overflow {
			continue
		}
		if !secp256k1.DecompressY(&x, false, &y) {
			continue
		}
		y.Normalize()
		var g secp256k1.JacobianPoint
		g.X.Set(&x)
		g.Y.Set(&y)
		g.Z.SetInt(1)
		return g
	}
}

// Compressed hex encoding of the value generator derived from the tag.
func GeneratorHex(tag string) string {
	g := generatorForTag(tag)
	return hex.EncodeToString(secp256k1.NewPublicKey(&g.X, &g.Y).SerializeCompressed())
}

func valueScalar(value uint64) secp256k1.ModNScalar {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	var s secp256k1.ModNScalar
	s.SetByteSlice(buf[:])
	return s
}

// Computes value·G_tag + r·H, in affine coordinates.
func commitPoint(value uint64, tag string, r *secp256k1.ModNScalar) secp256k1.JacobianPoint {
	var rH, result secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(r, &rH)
	if value == 0 {
		rH.ToAffine()
		return rH
	}
	g := generatorForTag(tag)
	v := valueScalar(value)
	var vG secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&v, &g, &vG)
	secp256k1.AddNonConst(&vG, &rH, &result)
	result.ToAffine()
	return result
}

// Commits to a value under a tag, with a fresh random blinding factor.
//
// Fails only if the system entropy source fails.
func Commit(value uint64, tag string) (*Commitment, *BlindingFactor, error) {
	for {
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, nil, fmt.Errorf("blinding factor generation failed: %w", err)
		}
		bf := &BlindingFactor{}
		bf.scalar.Set(&key.Key)
		key.Zero()

		point := commitPoint(value, tag, &bf.scalar)
		if isInfinity(&point) {
			// v·G_tag == -r·H; only reachable with knowledge of the generator's discrete log
			bf.Zero()
			continue
		}
		return &Commitment{point: point}, bf, nil
	}
}

// Checks that the commitment opens to the claimed value under the tag, using the blinding factor.
//
// The claimed commitment is rebuilt from the inputs, and the check is that C_stored - C_claimed is the point at infinity. Any mismatch (wrong value, wrong tag, or a blinding factor belonging to another commitment) results in false.
func Reveal(c *Commitment, bf *BlindingFactor, value uint64, tag string) bool {
	if c == nil || bf == nil {
		pedersenReveals.WithLabelValues("invalid").Inc()
		return false
	}
	claimed := commitPoint(value, tag, &bf.scalar)
	claimed.Y.Negate(1).Normalize()

	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&c.point, &claimed, &sum)
	ok := isInfinity(&sum) && !isInfinity(&c.point)
	if ok {
		pedersenReveals.WithLabelValues("valid").Inc()
	} else {
		pedersenReveals.WithLabelValues("invalid").Inc()
	}
	return ok
}

// Homomorphic sum: Add(Commit(a), Commit(b)) opens to a+b with the sum of the blinding factors, provided both used the same tag.
func Add(a, b *Commitment) (*Commitment, error) {
	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a.point, &b.point, &sum)
	if isInfinity(&sum) {
		return nil, fmt.Errorf("%w: commitments sum to the point at infinity", crypto.ErrMalformedInput)
	}
	sum.ToAffine()
	return &Commitment{point: sum}, nil
}

// Sum of two blinding factors, for opening the output of [Add].
func AddBlindingFactors(a, b *BlindingFactor) (*BlindingFactor, error) {
	out := &BlindingFactor{}
	out.scalar.Add2(&a.scalar, &b.scalar)
	if out.scalar.IsZero() {
		return nil, fmt.Errorf("%w: blinding factors sum to zero", crypto.ErrMalformedInput)
	}
	return out, nil
}
