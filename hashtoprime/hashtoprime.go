// Package hashtoprime implements the HashToPrime interface (C7): a
// pluggable capability set {mode, prove, verify} for proving that an
// EC-Commitment opens to a value in [0, 2^l) and, depending on the
// backend, that the value is prime. The composer in package membership
// is generic over Backend and never inspects a backend's internals, the
// same way voteproof.Prove/Verify never inspects how the vote
// ciphertext it operates on was constructed.
package hashtoprime

import (
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/transcript"
)

// Mode tags what guarantee a Backend's proof carries.
type Mode int

const (
	// RangeOnlyElementIsAlreadyPrime proves only 0 <= x < 2^l; the
	// caller is responsible for supplying a prime x.
	RangeOnlyElementIsAlreadyPrime Mode = iota
	// RangeAndHashToPrime additionally outputs a public, deterministically
	// derived prime y = HashToPrime(x, nonce) together with its nonce. The
	// membership composer does not substitute y for x: the Modeq and
	// Root/Coprime statements are still made about x itself.
	RangeAndHashToPrime
)

func (m Mode) String() string {
	switch m {
	case RangeOnlyElementIsAlreadyPrime:
		return "RANGE_ONLY_ELEMENT_IS_ALREADY_PRIME"
	case RangeAndHashToPrime:
		return "RANGE_AND_HASH_TO_PRIME"
	default:
		return "unknown"
	}
}

// Proof is the opaque result of a Backend's Prove call. Exactly one of
// Range or Hash is populated, matching the backend's Mode.
type Proof struct {
	Mode  Mode
	Range *RangeProof
	Hash  *HashProof
}

// RangeProof carries a range-only proof blob; its internal shape is
// backend-specific (e.g. a Bulletproofs transcript or a SNARK proof),
// the composer only forwards it.
type RangeProof struct {
	Blob []byte
}

// HashProof additionally carries the public nonce HashToPrime iterated
// to reach a prime, and the prime itself, both of which the backend
// absorbs into the shared Fiat-Shamir transcript per §4.6.
type HashProof struct {
	Nonce *big.Int
	Prime *big.Int
	Range RangeProof
}

// Backend realizes one concrete HashToPrime construction.
type Backend interface {
	Mode() Mode
	// Prove builds a proof that cEC = G^x + s*H with 0 <= x < 2^ell,
	// absorbing its own public outputs into tr before returning.
	Prove(rng io.Reader, tr *transcript.Transcript, ell int, x, s *big.Int, cEC group.Element) (*Proof, error)
	// Verify recomputes the same transcript absorptions and checks the
	// proof.
	Verify(tr *transcript.Transcript, ell int, cEC group.Element, proof *Proof) bool
}
