// Package modeq implements the Modeq subprotocol (C4): proof of knowledge
// of (x, r, s) such that C_int = g^x h^r mod N and C_ec = x*G + s*H, with
// 0 <= x < 2^l.
//
// It is the three-move Sigma protocol voteproof.Prove/Verify already
// implements for the vote-correctness statement (there, "c1/c2" in the
// ElGamal group versus "Xq1/Xq2" bulletproof commitments), generalized from
// that fixed two-statement shape to the spec's single Integer-commitment /
// EC-commitment equality statement, and ported from voteproof's
// sha256-over-a-buffer Fiat-Shamir derivation to the shared
// transcript.Transcript so it composes with Root/Coprime/HashToPrime under
// one Fiat-Shamir instance (§4.7).
package modeq

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/eccommit"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/transcript"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

// Params bundles the security parameters and the two commitment schemes
// being bridged.
type Params struct {
	Ell     int // range bound: 0 <= x < 2^Ell
	LambdaS int // statistical security parameter
	LambdaC int // computational security parameter (challenge bit length)
	Int     *intcommit.Params
	EC      *eccommit.Params
}

// Statement is the public input: the two commitments claimed to open to the
// same x.
type Statement struct {
	CInt group.Element
	CEC  group.Element
}

// Witness is the prover's secret opening.
type Witness struct {
	X *big.Int
	R *big.Int
	S *big.Int
}

// Proof is the non-interactive Sigma proof.
type Proof struct {
	AlphaInt group.Element
	AlphaEC  group.Element
	Zx       *big.Int
	Zr       *big.Int
	Zs       *big.Int
}

func rhoXBound(p Params) *big.Int {
	e := p.Ell + p.LambdaS + p.LambdaC
	return new(big.Int).Lsh(big.NewInt(1), uint(e))
}

func rhoRBound(p Params) *big.Int {
	quarterN := new(big.Int).Rsh(p.Int.N, 2)
	shift := new(big.Int).Lsh(big.NewInt(1), uint(p.LambdaS+p.LambdaC))
	return new(big.Int).Mul(quarterN, shift)
}

// Prove runs the three-move Sigma protocol, absorbing its commitments and
// responses into tr, which must already be seeded with the statement by the
// caller (per §4.1, every subprotocol receives a pre-seeded transcript).
func Prove(rng io.Reader, tr *transcript.Transcript, params Params, stmt Statement, w Witness) (*Proof, error) {
	if w.X.Sign() < 0 || w.X.Cmp(new(big.Int).Lsh(big.NewInt(1), uint(params.Ell))) >= 0 {
		return nil, zkerr.New(zkerr.InvalidWitness, "modeq.Prove", errNotInRange(params.Ell))
	}

	rhoX, err := rand.Int(rng, rhoXBound(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "modeq.Prove", err)
	}
	rhoR, err := rand.Int(rng, rhoRBound(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "modeq.Prove", err)
	}
	rhoS, err := rand.Int(rng, params.EC.Grp.N())
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "modeq.Prove", err)
	}

	alphaInt := params.Int.Commit(rhoX, rhoR)
	alphaEC := params.EC.Commit(rhoX, rhoS)

	tr.AppendElement("modeq/alpha_int", alphaInt)
	tr.AppendElement("modeq/alpha_ec", alphaEC)
	c := tr.ChallengeInt("modeq/c", params.LambdaC)

	zx := new(big.Int).Add(rhoX, new(big.Int).Mul(c, w.X))
	zr := new(big.Int).Add(rhoR, new(big.Int).Mul(c, w.R))
	zs := new(big.Int).Mod(new(big.Int).Add(rhoS, new(big.Int).Mul(c, w.S)), params.EC.Grp.N())

	tr.AppendInt("modeq/zx", zx)
	tr.AppendInt("modeq/zr", zr)
	tr.AppendInt("modeq/zs", zs)

	return &Proof{AlphaInt: alphaInt, AlphaEC: alphaEC, Zx: zx, Zr: zr, Zs: zs}, nil
}

// Verify recomputes the transcript identically to Prove and checks both
// commitment equations plus the bound on Zx that bridges the unbounded RSA
// side to the bounded EC side (§4.3).
func Verify(tr *transcript.Transcript, params Params, stmt Statement, proof *Proof) bool {
	tr.AppendElement("modeq/alpha_int", proof.AlphaInt)
	tr.AppendElement("modeq/alpha_ec", proof.AlphaEC)
	c := tr.ChallengeInt("modeq/c", params.LambdaC)

	tr.AppendInt("modeq/zx", proof.Zx)
	tr.AppendInt("modeq/zr", proof.Zr)
	tr.AppendInt("modeq/zs", proof.Zs)

	bound := new(big.Int).Lsh(big.NewInt(1), uint(params.Ell+params.LambdaS+params.LambdaC+1))
	if new(big.Int).Abs(proof.Zx).Cmp(bound) >= 0 {
		return false
	}

	// alpha_int =? g^zx h^zr * C_int^-c
	lhsInt := params.Int.Commit(proof.Zx, proof.Zr)
	negC := new(big.Int).Neg(c)
	shiftInt := params.Int.Grp.Element().Scale(stmt.CInt, negC)
	rhsInt := params.Int.Grp.Element().Add(lhsInt, shiftInt)
	if !rhsInt.IsEqual(proof.AlphaInt) {
		return false
	}

	// alpha_ec =? zx*G + zs*H - c*C_ec
	lhsEC := params.EC.Commit(proof.Zx, proof.Zs)
	shiftEC := params.EC.Grp.Element().Scale(stmt.CEC, negC)
	rhsEC := params.EC.Grp.Element().Add(lhsEC, shiftEC)
	return rhsEC.IsEqual(proof.AlphaEC)
}

type rangeError struct{ ell int }

func (e rangeError) Error() string { return "x not in [0, 2^l)" }

func errNotInRange(ell int) error { return rangeError{ell: ell} }
