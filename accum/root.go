// Package accum implements the Root (C5, membership) and Coprime (C6,
// non-membership) subprotocols.
//
// Both are blinded-witness Sigma protocols whose "fold the cross term into
// one linear response" trick is the same one
// other_examples/7a127776_awsong-crypto__df-multiplication_commitment.go.go
// uses to prove c3 = c1^x2 * H^(r3 - x2*r1) without a separate proof that
// the exponent of H is really that product: the blinder for x (rho_x) is
// reused as the exponent of the blinded witness commitment C_W, and a single
// extra response folds in the cross term rW*x, exactly like df's
// MultiplicationProver folds a2*r1 into v3. Everything else (abort-free
// Sigma shape, integer responses, transcript-driven challenge) follows
// voteproof.Prove/Verify and modeq.Prove/Verify.
package accum

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/transcript"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

// Params holds the security parameters shared with modeq (Ell, LambdaS,
// LambdaC describe the same x) plus the Integer-Commit parameters needed to
// re-derive the C_int opening equation.
type Params struct {
	Ell     int
	LambdaS int
	LambdaC int
	Int     *intcommit.Params
}

// RootStatement is the public input to the membership subprotocol: the
// accumulator value and the commitment to the member.
type RootStatement struct {
	A    group.Element
	CInt group.Element
}

// RootWitness is the prover's secret: x is the accumulated element, r is
// C_int's opening randomness, and W is the accumulator witness with
// W^x = A.
type RootWitness struct {
	X *big.Int
	R *big.Int
	W group.Element
}

// RootProof is the non-interactive Root proof.
type RootProof struct {
	CW       group.Element // blinded witness W * h^rW
	AlphaInt group.Element // g^rho_x h^rho_r
	D3       group.Element // C_W^rho_x * h^rho_y
	Zx       *big.Int
	Zr       *big.Int
	Zy       *big.Int
}

// yBound bounds the blinder rhoY for the folded cross term y = rW*x. rW is
// drawn below floor(N/4)*2^(LambdaS+LambdaC), so y is at most
// bitlen(N)+Ell+LambdaS+LambdaC bits, and the challenge c contributes up
// to LambdaC more, so rhoY must exceed that by a full LambdaS-bit
// statistical margin to make c*y's distribution indistinguishable from
// rhoY's: bitlen(N)+Ell+2*LambdaS+2*LambdaC.
func yBound(params Params) *big.Int {
	bits := params.Int.N.BitLen() + params.Ell + 2*params.LambdaS + 2*params.LambdaC
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}

func rhoXBoundRoot(p Params) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.Ell+p.LambdaS+p.LambdaC))
}

func rhoRBoundRoot(p Params) *big.Int {
	quarterN := new(big.Int).Rsh(p.Int.N, 2)
	shift := new(big.Int).Lsh(big.NewInt(1), uint(p.LambdaS+p.LambdaC))
	return new(big.Int).Mul(quarterN, shift)
}

// ProveRoot builds a Root proof. It pre-checks W^x = A and returns
// zkerr.InvalidWitness if the witness does not actually satisfy the
// accumulator relation, per §4.8's failure semantics.
func ProveRoot(rng io.Reader, tr *transcript.Transcript, params Params, stmt RootStatement, w RootWitness) (*RootProof, error) {
	grp := params.Int.Grp
	check := grp.Element().Scale(w.W, w.X)
	if !check.IsEqual(stmt.A) {
		return nil, zkerr.New(zkerr.InvalidWitness, "accum.ProveRoot", errWitness("W^x != A"))
	}

	rW, err := rand.Int(rng, rhoRBoundRoot(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveRoot", err)
	}
	cw := grp.Element().Add(w.W, grp.Element().Scale(params.Int.H, rW))

	rhoX, err := rand.Int(rng, rhoXBoundRoot(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveRoot", err)
	}
	rhoR, err := rand.Int(rng, rhoRBoundRoot(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveRoot", err)
	}
	rhoY, err := rand.Int(rng, yBound(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveRoot", err)
	}

	alphaInt := params.Int.Commit(rhoX, rhoR)
	d3 := grp.Element().Add(
		grp.Element().Scale(cw, rhoX),
		grp.Element().Scale(params.Int.H, rhoY),
	)

	tr.AppendElement("root/cw", cw)
	tr.AppendElement("root/alpha_int", alphaInt)
	tr.AppendElement("root/d3", d3)
	c := tr.ChallengeInt("root/c", params.LambdaC)

	y := new(big.Int).Mul(rW, w.X)
	zx := new(big.Int).Add(rhoX, new(big.Int).Mul(c, w.X))
	zr := new(big.Int).Add(rhoR, new(big.Int).Mul(c, w.R))
	zy := new(big.Int).Sub(rhoY, new(big.Int).Mul(c, y))

	tr.AppendInt("root/zx", zx)
	tr.AppendInt("root/zr", zr)
	tr.AppendInt("root/zy", zy)

	return &RootProof{CW: cw, AlphaInt: alphaInt, D3: d3, Zx: zx, Zr: zr, Zy: zy}, nil
}

// VerifyRoot recomputes the transcript and both verification equations.
func VerifyRoot(tr *transcript.Transcript, params Params, stmt RootStatement, proof *RootProof) bool {
	grp := params.Int.Grp

	tr.AppendElement("root/cw", proof.CW)
	tr.AppendElement("root/alpha_int", proof.AlphaInt)
	tr.AppendElement("root/d3", proof.D3)
	c := tr.ChallengeInt("root/c", params.LambdaC)

	tr.AppendInt("root/zx", proof.Zx)
	tr.AppendInt("root/zr", proof.Zr)
	tr.AppendInt("root/zy", proof.Zy)

	boundX := new(big.Int).Lsh(big.NewInt(1), uint(params.Ell+params.LambdaS+params.LambdaC+1))
	if new(big.Int).Abs(proof.Zx).Cmp(boundX) >= 0 {
		return false
	}
	boundY := new(big.Int).Lsh(big.NewInt(1), uint(params.Int.N.BitLen()+params.Ell+2*params.LambdaS+2*params.LambdaC+1))
	if new(big.Int).Abs(proof.Zy).Cmp(boundY) >= 0 {
		return false
	}

	negC := new(big.Int).Neg(c)

	lhsInt := params.Int.Commit(proof.Zx, proof.Zr)
	rhsInt := grp.Element().Add(lhsInt, grp.Element().Scale(stmt.CInt, negC))
	if !rhsInt.IsEqual(proof.AlphaInt) {
		return false
	}

	lhsAcc := grp.Element().Add(
		grp.Element().Scale(proof.CW, proof.Zx),
		grp.Element().Scale(params.Int.H, proof.Zy),
	)
	rhsAcc := grp.Element().Add(lhsAcc, grp.Element().Scale(stmt.A, negC))
	return rhsAcc.IsEqual(proof.D3)
}

type witnessError string

func (e witnessError) Error() string { return string(e) }
func errWitness(s string) error      { return witnessError(s) }
