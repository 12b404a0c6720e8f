// bprange.go implements the bp_range backend: a Bulletproofs range proof
// bound directly to an externally supplied EC-Commitment, the way
// bulletproofs.MultiProve binds a batch of Pedersen commitments it builds
// internally, generalized here to a commitment the caller already holds
// the opening of.
package hashtoprime

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/bulletproofs"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/transcript"
)

// BPRangeBackend proves 0 <= x < 2^ell for an EC-Commitment cEC = G^x + s*H
// via a Bulletproofs range proof, and leaves primality of x to the caller
// (RangeOnlyElementIsAlreadyPrime): it does not itself hash x to a prime.
type BPRangeBackend struct {
	Grp group.Group
	H   group.Element
}

// NewBPRangeBackend builds a backend sharing the group and blinding
// generator H of an eccommit.Params instance, so that the Bulletproofs
// Pedersen commitment it reconstructs is bit-for-bit the caller's cEC.
func NewBPRangeBackend(grp group.Group, h group.Element) *BPRangeBackend {
	return &BPRangeBackend{Grp: grp, H: h}
}

func (b *BPRangeBackend) Mode() Mode {
	return RangeOnlyElementIsAlreadyPrime
}

func (b *BPRangeBackend) setupParams(ell int) (bulletproofs.BulletProofSetupParams, error) {
	rangeEnd := int64(1) << uint(ell)
	base, err := bulletproofs.Setup(rangeEnd, b.Grp)
	if err != nil {
		return base, err
	}
	// Setup derives its own H via MapToGroup(SEEDH); override it with the
	// caller's H so that PedersenCommit(x, s, params.H, ...) reconstructs
	// exactly cEC = G^x + s*H rather than a second, differently-blinded
	// commitment under an unrelated generator.
	base.H = b.H
	return base, nil
}

func (b *BPRangeBackend) Prove(rng io.Reader, tr *transcript.Transcript, ell int, x, s *big.Int, cEC group.Element) (*Proof, error) {
	params, err := b.setupParams(ell)
	if err != nil {
		return nil, err
	}

	bp, err := bulletproofs.ProveWithBlinder(x, s, params)
	if err != nil {
		return nil, err
	}
	if !bp.V.IsEqual(cEC) {
		return nil, errors.New("hashtoprime: bp_range opening does not match supplied commitment")
	}

	blob, err := json.Marshal(bp)
	if err != nil {
		return nil, err
	}

	tr.AppendMessage("hashtoprime/bp_range/blob", blob)

	return &Proof{
		Mode:  RangeOnlyElementIsAlreadyPrime,
		Range: &RangeProof{Blob: blob},
	}, nil
}

func (b *BPRangeBackend) Verify(tr *transcript.Transcript, ell int, cEC group.Element, proof *Proof) bool {
	if proof == nil || proof.Mode != RangeOnlyElementIsAlreadyPrime || proof.Range == nil {
		return false
	}

	params, err := b.setupParams(ell)
	if err != nil {
		return false
	}

	// group.Element and group.Group are interfaces, so a bare
	// json.Unmarshal cannot know which concrete type to instantiate for
	// each field; BulletProofUnmarshalJSON resolves that against the
	// already-known params, the same way its own callers in bulletproofs
	// do.
	bp, err := bulletproofs.BulletProofUnmarshalJSON(proof.Range.Blob, params)
	if err != nil {
		return false
	}

	if bp.Params.N != int64(ell) {
		return false
	}
	if !bp.V.IsEqual(cEC) {
		return false
	}

	tr.AppendMessage("hashtoprime/bp_range/blob", proof.Range.Blob)

	ok, err := bp.Verify()
	if err != nil {
		return false
	}
	return ok
}
