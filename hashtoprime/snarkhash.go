// snarkhash.go implements the snark_hash backend: it derives a public prime
// y = HashToPrime(x, nonce) by iterating Blake2s over x and a counter until
// a prime candidate appears, then proves inside a GeneralSNARK circuit both
// that y is prime (Miller-Rabin-verifiable certificate) and that y is the
// value derived from the x committed to in C_ec -- the RANGE_AND_HASH_TO_PRIME
// mode.
package hashtoprime

import (
	"encoding/binary"
	"io"
	"math/big"

	"golang.org/x/crypto/blake2s"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/transcript"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

const hashCircuitID = "hashtoprime/snark_hash/v1"

// maxHashToPrimeAttempts bounds the nonce search; in practice a prime
// density of roughly 1/ln(2^ell) around 2^ell makes this bound generous by
// orders of magnitude for any ell this module is used with.
const maxHashToPrimeAttempts = 1 << 20

// SNARKHashBackend realizes RANGE_AND_HASH_TO_PRIME: it both proves the
// range claim on x and certifies that a publicly emitted prime y was
// deterministically derived from x.
type SNARKHashBackend struct {
	SNARK GeneralSNARK
}

func NewSNARKHashBackend(snark GeneralSNARK) *SNARKHashBackend {
	return &SNARKHashBackend{SNARK: snark}
}

func (b *SNARKHashBackend) Mode() Mode {
	return RangeAndHashToPrime
}

// HashToPrime iterates Blake2s over x concatenated with an incrementing
// nonce until the digest, interpreted as a big-endian integer of ell bits,
// is probably prime. It is deterministic given x and ell: both prover and
// verifier can recompute y from the public nonce.
func HashToPrime(x *big.Int, ell int) (y *big.Int, nonce uint64, err error) {
	xBytes := x.Bytes()
	nBytes := (ell + 7) / 8
	for nonce = 0; nonce < maxHashToPrimeAttempts; nonce++ {
		h, herr := blake2s.New256(nil)
		if herr != nil {
			return nil, 0, herr
		}
		h.Write([]byte("rsa-set-membership/hashtoprime/candidate"))
		h.Write(xBytes)
		var nonceBuf [8]byte
		binary.BigEndian.PutUint64(nonceBuf[:], nonce)
		h.Write(nonceBuf[:])
		digest := h.Sum(nil)

		cand := new(big.Int).SetBytes(digest)
		excess := len(digest)*8 - ell
		if excess > 0 {
			cand.Rsh(cand, uint(excess))
		}
		cand.SetBit(cand, ell-1, 1) // force the top bit so the candidate has exactly ell bits
		cand.SetBit(cand, 0, 1)     // candidates are odd

		if cand.ProbablyPrime(40) {
			return cand, nonce, nil
		}
	}
	return nil, 0, zkerr.New(zkerr.BackendFailure, "snarkhash.HashToPrime", errExhausted)
}

var errExhausted = &exhaustedError{}

type exhaustedError struct{}

func (*exhaustedError) Error() string {
	return "hashtoprime: no prime candidate found within attempt bound"
}

func (b *SNARKHashBackend) Prove(rng io.Reader, tr *transcript.Transcript, ell int, x, s *big.Int, cEC group.Element) (*Proof, error) {
	y, nonce, err := HashToPrime(x, ell)
	if err != nil {
		return nil, err
	}

	pk, _, err := b.SNARK.Setup(hashCircuitID)
	if err != nil {
		return nil, zkerr.New(zkerr.BackendFailure, "snarkhash.Prove", err)
	}

	public, err := hashPublicInputs(ell, cEC, nonce, y)
	if err != nil {
		return nil, zkerr.New(zkerr.BackendFailure, "snarkhash.Prove", err)
	}
	witness := [][]byte{x.Bytes(), s.Bytes()}

	blob, err := b.SNARK.Prove(pk, public, witness)
	if err != nil {
		return nil, zkerr.New(zkerr.InvalidWitness, "snarkhash.Prove", err)
	}

	absorbHashPublics(tr, public)

	return &Proof{
		Mode: RangeAndHashToPrime,
		Hash: &HashProof{
			Nonce: new(big.Int).SetUint64(nonce),
			Prime: y,
			Range: RangeProof{Blob: blob},
		},
	}, nil
}

func (b *SNARKHashBackend) Verify(tr *transcript.Transcript, ell int, cEC group.Element, proof *Proof) bool {
	if proof == nil || proof.Mode != RangeAndHashToPrime || proof.Hash == nil {
		return false
	}
	if !proof.Hash.Nonce.IsUint64() {
		return false
	}
	nonce := proof.Hash.Nonce.Uint64()
	y := proof.Hash.Prime
	if y == nil || !y.ProbablyPrime(40) {
		return false
	}

	_, vk, err := b.SNARK.Setup(hashCircuitID)
	if err != nil {
		return false
	}

	public, err := hashPublicInputs(ell, cEC, nonce, y)
	if err != nil {
		return false
	}

	absorbHashPublics(tr, public)

	ok, err := b.SNARK.Verify(vk, public, proof.Hash.Range.Blob)
	if err != nil {
		return false
	}
	return ok
}

func hashPublicInputs(ell int, cEC group.Element, nonce uint64, y *big.Int) ([][]byte, error) {
	cBytes, err := cEC.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ellBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(ellBytes, uint64(ell))
	nonceBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBytes, nonce)
	return [][]byte{cBytes, ellBytes, nonceBytes, y.Bytes()}, nil
}

func absorbHashPublics(tr *transcript.Transcript, public [][]byte) {
	for i, pub := range public {
		tr.AppendMessage("hashtoprime/snark_hash/public", append([]byte{byte(i)}, pub...))
	}
}
