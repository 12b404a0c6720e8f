// snarkrange.go implements the snark_range backend: a general-purpose
// committed-input zkSNARK proving 0 <= x < 2^ell for an externally supplied
// EC-Commitment, routed through the GeneralSNARK collaborator the same way
// bp_range routes through the bulletproofs package -- the composer treats
// both identically, only the collaborator differs.
package hashtoprime

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/transcript"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

const rangeCircuitID = "hashtoprime/snark_range/v1"

// SNARKRangeBackend proves the RANGE_ONLY_ELEMENT_IS_ALREADY_PRIME claim via
// an injected GeneralSNARK rather than Bulletproofs, for deployments that
// already operate a preprocessing SNARK toolchain and want one proof system
// shared across circuits instead of also carrying Bulletproofs.
type SNARKRangeBackend struct {
	SNARK GeneralSNARK
}

func NewSNARKRangeBackend(snark GeneralSNARK) *SNARKRangeBackend {
	return &SNARKRangeBackend{SNARK: snark}
}

func (b *SNARKRangeBackend) Mode() Mode {
	return RangeOnlyElementIsAlreadyPrime
}

func rangePublicInputs(ell int, cEC group.Element) ([][]byte, error) {
	cBytes, err := cEC.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ellBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(ellBytes, uint64(ell))
	return [][]byte{cBytes, ellBytes}, nil
}

func (b *SNARKRangeBackend) Prove(rng io.Reader, tr *transcript.Transcript, ell int, x, s *big.Int, cEC group.Element) (*Proof, error) {
	pk, _, err := b.SNARK.Setup(rangeCircuitID)
	if err != nil {
		return nil, zkerr.New(zkerr.BackendFailure, "snarkrange.Prove", err)
	}

	public, err := rangePublicInputs(ell, cEC)
	if err != nil {
		return nil, zkerr.New(zkerr.BackendFailure, "snarkrange.Prove", err)
	}

	witness := [][]byte{x.Bytes(), s.Bytes()}

	blob, err := b.SNARK.Prove(pk, public, witness)
	if err != nil {
		return nil, zkerr.New(zkerr.InvalidWitness, "snarkrange.Prove", err)
	}

	for i, pub := range public {
		tr.AppendMessage("hashtoprime/snark_range/public", append([]byte{byte(i)}, pub...))
	}
	tr.AppendMessage("hashtoprime/snark_range/blob", blob)

	return &Proof{
		Mode:  RangeOnlyElementIsAlreadyPrime,
		Range: &RangeProof{Blob: blob},
	}, nil
}

func (b *SNARKRangeBackend) Verify(tr *transcript.Transcript, ell int, cEC group.Element, proof *Proof) bool {
	if proof == nil || proof.Mode != RangeOnlyElementIsAlreadyPrime || proof.Range == nil {
		return false
	}

	_, vk, err := b.SNARK.Setup(rangeCircuitID)
	if err != nil {
		return false
	}

	public, err := rangePublicInputs(ell, cEC)
	if err != nil {
		return false
	}

	for i, pub := range public {
		tr.AppendMessage("hashtoprime/snark_range/public", append([]byte{byte(i)}, pub...))
	}
	tr.AppendMessage("hashtoprime/snark_range/blob", proof.Range.Blob)

	ok, err := b.SNARK.Verify(vk, public, proof.Range.Blob)
	if err != nil {
		return false
	}
	return ok
}
