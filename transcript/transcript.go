// Package transcript implements the Fiat-Shamir transcript shared by every
// subprotocol (root, coprime, modeq, hashtoprime) so that a single
// composed proof (membership.CPMemRSA / membership.CPNonMemRSA) binds all
// of its sub-proofs to the same statement and the same randomness, the way
// voteproof.getFSChallenge binds a single Sigma proof to its commitments,
// generalized to a running, labelled absorb/squeeze API instead of a
// one-shot sha256 over a concatenated buffer.
package transcript

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/blake2s"

	"github.com/cpsnarks/rsa-set-membership/group"
)

// Transcript is not safe for concurrent use; each proof uses its own
// instance, per the single-threaded-per-proof resource model.
type Transcript struct {
	state []byte
}

// New seeds a fresh transcript with a domain separation tag.
func New(domainTag string) *Transcript {
	t := &Transcript{state: nil}
	t.absorb("domain", []byte(domainTag))
	return t
}

// Clone forks the transcript's state without advancing the original. Useful
// when a composer needs to explore "what would the challenge be" without
// committing the absorption (e.g. speculative back-end selection).
func (t *Transcript) Clone() *Transcript {
	c := &Transcript{state: make([]byte, len(t.state))}
	copy(c.state, t.state)
	return c
}

func (t *Transcript) absorb(label string, data []byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint32(lenBuf[0:4], uint32(len(label)))
	binary.BigEndian.PutUint32(lenBuf[4:8], uint32(len(data)))

	h, _ := blake2s.New256(nil)
	h.Write(t.state)
	h.Write(lenBuf[:])
	h.Write([]byte(label))
	h.Write(data)
	t.state = h.Sum(nil)
}

// AppendMessage absorbs an arbitrary labelled byte string.
func (t *Transcript) AppendMessage(label string, data []byte) {
	t.absorb(label, data)
}

// AppendInt absorbs a big-endian, unsigned representation of x. The sign is
// absorbed separately so that negative integers (e.g. the coprime
// subprotocol's Bezout exponent b) are bound unambiguously.
func (t *Transcript) AppendInt(label string, x *big.Int) {
	sign := byte(0)
	if x.Sign() < 0 {
		sign = 1
	}
	t.absorb(label+"/sign", []byte{sign})
	t.absorb(label, new(big.Int).Abs(x).Bytes())
}

// AppendElement absorbs a group element's canonical byte representation.
func (t *Transcript) AppendElement(label string, e group.Element) {
	b, err := e.MarshalBinary()
	if err != nil {
		// Elements always marshal; a failure here means a broken Element
		// implementation, which is a programmer error, not a runtime one.
		panic("transcript: element failed to marshal: " + err.Error())
	}
	t.absorb(label, b)
}

// challengeBytes squeezes n bytes of challenge material labelled label,
// without mutating state further than absorbing the request itself (so
// repeated squeezes under different labels are domain separated).
func (t *Transcript) challengeBytes(label string, n int) []byte {
	t.absorb("challenge/"+label, nil)
	out := make([]byte, 0, n)
	counter := uint32(0)
	for len(out) < n {
		var ctr [4]byte
		binary.BigEndian.PutUint32(ctr[:], counter)
		h, _ := blake2s.New256(nil)
		h.Write(t.state)
		h.Write(ctr[:])
		out = append(out, h.Sum(nil)...)
		counter++
	}
	return out[:n]
}

// ChallengeInt squeezes a uniform integer in [0, 2^bits).
func (t *Transcript) ChallengeInt(label string, bits int) *big.Int {
	nBytes := (bits + 7) / 8
	raw := t.challengeBytes(label, nBytes)
	c := new(big.Int).SetBytes(raw)
	excess := nBytes*8 - bits
	if excess > 0 {
		c.Rsh(c, uint(excess))
	}
	return c
}

// ChallengePrime squeezes a challenge in [0, 2^bits) that is additionally
// prime, by rejection sampling within the squeeze: subprotocols that need a
// prime challenge (e.g. some Root variants against malicious moduli) ask
// for one here rather than post-processing a ChallengeInt result, so that
// every rejected candidate is still bound into the transcript.
func (t *Transcript) ChallengePrime(label string, bits int) *big.Int {
	for attempt := 0; ; attempt++ {
		c := t.ChallengeInt(label, bits)
		if c.ProbablyPrime(40) {
			return c
		}
	}
}
