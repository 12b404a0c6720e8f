// membership.go composes Root (C5), Modeq (C4), and HashToPrime (C7) into
// CPMemRSA (C9): the top-level membership statement "the same x underlies
// C_int, C_ec, and the accumulator witness W, and x is in the accumulator".
// The composition pattern -- seed one transcript with the statement, invoke
// each subprotocol against it in a fixed order, bundle the sub-proofs --
// mirrors how main.go/server.go/voter.go drive castVote/verifyVote as a
// single flow over elgamal.go's ciphertext and voteproof.Prove/Verify,
// generalized from one Sigma proof to three subprotocols sharing one
// Fiat-Shamir instance.
package membership

import (
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/accum"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/modeq"
	"github.com/cpsnarks/rsa-set-membership/transcript"
)

// Proof bundles the four wire components of §6: the Integer-Commitment and
// the three sub-proofs, in the order they were produced.
type Proof struct {
	CInt  group.Element
	HTP   *hashtoprime.Proof
	Modeq *modeq.Proof
	Root  *accum.RootProof
}

func seedTranscript(domain string, a, cEC, cInt group.Element) *transcript.Transcript {
	tr := transcript.New(domain)
	tr.AppendElement("stmt/A", a)
	tr.AppendElement("stmt/c_ec", cEC)
	tr.AppendElement("stmt/c_int", cInt)
	return tr
}

// ProveMembership builds a CPMemRSA proof that x -- committed to in cEC --
// is accumulated in a, given the accumulator witness w with w^x = a.
//
// Per §4.7: (1) sample r and compute C_int, (2) seed the transcript with
// the statement, (3) invoke HashToPrime, (4) invoke Modeq, (5) invoke Root,
// absorbing each sub-proof's public outputs into the shared transcript as
// it is produced.
func ProveMembership(rng io.Reader, p *Params, a, cEC group.Element, x, s *big.Int, w group.Element) (*Proof, error) {
	r, err := p.Int.SampleBlinder(rng, p.LambdaS)
	if err != nil {
		return nil, err
	}
	cInt := p.Int.Commit(x, r)

	tr := seedTranscript("CPMemRSA", a, cEC, cInt)

	htpProof, err := p.HTP.Prove(rng, tr, p.Ell, x, s, cEC)
	if err != nil {
		return nil, err
	}

	ell, lambdaS, lambdaC, intp, ecp := p.modeqParams().toModeq()
	meqProof, err := modeq.Prove(rng, tr, modeq.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp, EC: ecp},
		modeq.Statement{CInt: cInt, CEC: cEC}, modeq.Witness{X: x, R: r, S: s})
	if err != nil {
		return nil, err
	}

	rootProof, err := accum.ProveRoot(rng, tr, p.rootParams().toRoot(),
		accum.RootStatement{A: a, CInt: cInt}, accum.RootWitness{X: x, R: r, W: w})
	if err != nil {
		return nil, err
	}

	return &Proof{CInt: cInt, HTP: htpProof, Modeq: meqProof, Root: rootProof}, nil
}

// VerifyMembership recomputes the transcript identically to ProveMembership
// and verifies every sub-proof. It returns a single boolean: per §4.8/§7, a
// failed sub-proof is never distinguished from a malformed one.
func VerifyMembership(p *Params, a, cEC group.Element, proof *Proof) bool {
	if proof == nil || proof.CInt == nil || proof.HTP == nil || proof.Modeq == nil || proof.Root == nil {
		return false
	}

	tr := seedTranscript("CPMemRSA", a, cEC, proof.CInt)

	if !p.HTP.Verify(tr, p.Ell, cEC, proof.HTP) {
		return false
	}

	ell, lambdaS, lambdaC, intp, ecp := p.modeqParams().toModeq()
	if !modeq.Verify(tr, modeq.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp, EC: ecp},
		modeq.Statement{CInt: proof.CInt, CEC: cEC}, proof.Modeq) {
		return false
	}

	return accum.VerifyRoot(tr, p.rootParams().toRoot(), accum.RootStatement{A: a, CInt: proof.CInt}, proof.Root)
}
