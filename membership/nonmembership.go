// nonmembership.go composes Coprime (C6), Modeq (C4), and HashToPrime (C7)
// into CPNonMemRSA (C10): the same three-subprotocol composition as
// membership.go, with Root replaced by Coprime and the Bezout exponent b
// threaded through as additional witness material (§4.5).
package membership

import (
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/accum"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/modeq"
)

// NonMembershipProof bundles the CPNonMemRSA wire components.
type NonMembershipProof struct {
	CInt    group.Element
	HTP     *hashtoprime.Proof
	Modeq   *modeq.Proof
	Coprime *accum.CoprimeProof
}

// ProveNonMembership builds a CPNonMemRSA proof that x -- committed to in
// cEC -- is absent from the accumulator a, given the Bezout witness (w, b)
// with w^x * a^b = g.
func ProveNonMembership(rng io.Reader, p *Params, a, cEC group.Element, x, s *big.Int, w group.Element, b *big.Int) (*NonMembershipProof, error) {
	r, err := p.Int.SampleBlinder(rng, p.LambdaS)
	if err != nil {
		return nil, err
	}
	cInt := p.Int.Commit(x, r)

	tr := seedTranscript("CPNonMemRSA", a, cEC, cInt)

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

	coprimeProof, err := accum.ProveCoprime(rng, tr, p.coprimeParams().toCoprime(),
		accum.CoprimeStatement{A: a, CInt: cInt, G: p.G}, accum.CoprimeWitness{X: x, R: r, W: w, B: b})
	if err != nil {
		return nil, err
	}

	return &NonMembershipProof{CInt: cInt, HTP: htpProof, Modeq: meqProof, Coprime: coprimeProof}, nil
}

// VerifyNonMembership recomputes the transcript and verifies every
// sub-proof, returning a single boolean (§4.8).
func VerifyNonMembership(p *Params, a, cEC group.Element, proof *NonMembershipProof) bool {
	if proof == nil || proof.CInt == nil || proof.HTP == nil || proof.Modeq == nil || proof.Coprime == nil {
		return false
	}

	tr := seedTranscript("CPNonMemRSA", a, cEC, proof.CInt)

	if !p.HTP.Verify(tr, p.Ell, cEC, proof.HTP) {
		return false
	}

	ell, lambdaS, lambdaC, intp, ecp := p.modeqParams().toModeq()
	if !modeq.Verify(tr, modeq.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp, EC: ecp},
		modeq.Statement{CInt: proof.CInt, CEC: cEC}, proof.Modeq) {
		return false
	}

	return accum.VerifyCoprime(tr, p.coprimeParams().toCoprime(),
		accum.CoprimeStatement{A: a, CInt: proof.CInt, G: p.G}, proof.Coprime)
}
