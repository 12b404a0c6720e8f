// Package snarkstub is a deterministic, in-memory implementation of
// hashtoprime.GeneralSNARK, standing in for the external committed-input
// zkSNARK toolchain that the snark_range and snark_hash back-ends are
// written against. The real collaborator is explicitly out of scope; this
// stub only needs to satisfy the interface's contract (Setup is
// deterministic per circuitID, Prove/Verify agree with each other) so tests
// can exercise the backend composition logic without a real proving system.
//
// It is not a SNARK: it has no circuit representation at all, so it cannot
// enforce the constraint a real circuit would (e.g. 0 <= x < 2^l). Prove
// computes a Blake2s MAC over the public inputs only, keyed by a per-circuit
// secret, and Verify recomputes the same MAC; this validates the plumbing
// (each backend threads the right public inputs through Setup/Prove/Verify)
// without attempting to model constraint satisfaction, which is explicitly
// out of scope for this stand-in.
package snarkstub

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"sync"

	"golang.org/x/crypto/blake2s"
)

// Stub is a GeneralSNARK implementation keyed by circuit ID.
type Stub struct {
	mu   sync.Mutex
	keys map[string][]byte
}

// New returns an empty stub; keys are generated lazily per circuitID on
// first Setup so that repeated Setup calls for the same circuit are stable
// within one Stub instance.
func New() *Stub {
	return &Stub{keys: make(map[string][]byte)}
}

func (s *Stub) keyFor(circuitID string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.keys[circuitID]; ok {
		return k
	}
	k := make([]byte, 32)
	if _, err := rand.Read(k); err != nil {
		panic("snarkstub: rng failure: " + err.Error())
	}
	s.keys[circuitID] = k
	return k
}

// Setup returns (pk, vk) for circuitID; in this stub both are the same MAC
// key, since there is no asymmetry between proving and verifying a MAC.
func (s *Stub) Setup(circuitID string) (pk, vk []byte, err error) {
	k := s.keyFor(circuitID)
	out := make([]byte, len(k))
	copy(out, k)
	return out, out, nil
}

func tag(key []byte, public [][]byte) ([]byte, error) {
	h, err := blake2s.New256(key)
	if err != nil {
		return nil, err
	}
	h.Write([]byte("snarkstub/tag"))
	for _, p := range public {
		h.Write(p)
	}
	return h.Sum(nil), nil
}

// Prove computes a MAC over public under pk, standing in for a SNARK proof.
// witness is accepted (matching the GeneralSNARK contract) but unused: this
// stub has no circuit to check it against.
func (s *Stub) Prove(pk []byte, public, witness [][]byte) ([]byte, error) {
	_ = witness
	return tag(pk, public)
}

// Verify recomputes the same MAC under vk and compares.
func (s *Stub) Verify(vk []byte, public [][]byte, proof []byte) (bool, error) {
	expected, err := tag(vk, public)
	if err != nil {
		return false, err
	}
	if len(expected) != len(proof) {
		return false, errors.New("snarkstub: malformed proof length")
	}
	return subtle.ConstantTimeCompare(expected, proof) == 1, nil
}
