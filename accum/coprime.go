package accum

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/transcript"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

// CoprimeParams extends Params with the bit-length bound on the Bezout
// exponent b (§4.5: "|b| < 2^l_acc where l_acc is an upper bound on the bit
// length of the accumulator's implicit product").
type CoprimeParams struct {
	Params
	LAcc int
}

// CoprimeStatement is the public input to the non-membership subprotocol.
type CoprimeStatement struct {
	A    group.Element
	CInt group.Element
	G    group.Element // the RSA group's distinguished generator, g
}

// CoprimeWitness is the prover's secret: x is the element proven absent
// from the accumulated set, (W, b) is the Bezout witness with
// W^x * A^b = g.
type CoprimeWitness struct {
	X *big.Int
	R *big.Int
	W group.Element
	B *big.Int
}

// CoprimeProof is the non-interactive Coprime proof.
type CoprimeProof struct {
	CW       group.Element
	AlphaInt group.Element
	D3       group.Element
	Zx       *big.Int
	Zr       *big.Int
	Zb       *big.Int
	Zy       *big.Int
}

func rhoBBound(p CoprimeParams) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.LAcc+p.LambdaS+p.LambdaC))
}

// ProveCoprime builds a Coprime (non-membership) proof. It pre-checks
// W^x * A^b = g and returns zkerr.InvalidWitness otherwise.
func ProveCoprime(rng io.Reader, tr *transcript.Transcript, params CoprimeParams, stmt CoprimeStatement, w CoprimeWitness) (*CoprimeProof, error) {
	grp := params.Int.Grp

	lhs := grp.Element().Add(
		grp.Element().Scale(w.W, w.X),
		grp.Element().Scale(stmt.A, w.B),
	)
	if !lhs.IsEqual(stmt.G) {
		return nil, zkerr.New(zkerr.InvalidWitness, "accum.ProveCoprime", errWitness("W^x * A^b != g"))
	}

	rW, err := rand.Int(rng, rhoRBoundRoot(params.Params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveCoprime", err)
	}
	cw := grp.Element().Add(w.W, grp.Element().Scale(params.Int.H, rW))

	rhoX, err := rand.Int(rng, rhoXBoundRoot(params.Params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveCoprime", err)
	}
	rhoR, err := rand.Int(rng, rhoRBoundRoot(params.Params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveCoprime", err)
	}
	rhoB, err := rand.Int(rng, rhoBBound(params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveCoprime", err)
	}
	rhoY, err := rand.Int(rng, yBound(params.Params))
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "accum.ProveCoprime", err)
	}

	alphaInt := params.Int.Commit(rhoX, rhoR)
	d3 := grp.Element().Add(
		grp.Element().Add(
			grp.Element().Scale(cw, rhoX),
			grp.Element().Scale(stmt.A, rhoB),
		),
		grp.Element().Scale(params.Int.H, rhoY),
	)

	tr.AppendElement("coprime/cw", cw)
	tr.AppendElement("coprime/alpha_int", alphaInt)
	tr.AppendElement("coprime/d3", d3)
	c := tr.ChallengeInt("coprime/c", params.LambdaC)

	y := new(big.Int).Mul(rW, w.X)
	zx := new(big.Int).Add(rhoX, new(big.Int).Mul(c, w.X))
	zr := new(big.Int).Add(rhoR, new(big.Int).Mul(c, w.R))
	zb := new(big.Int).Add(rhoB, new(big.Int).Mul(c, w.B))
	zy := new(big.Int).Sub(rhoY, new(big.Int).Mul(c, y))

	tr.AppendInt("coprime/zx", zx)
	tr.AppendInt("coprime/zr", zr)
	tr.AppendInt("coprime/zb", zb)
	tr.AppendInt("coprime/zy", zy)

	return &CoprimeProof{CW: cw, AlphaInt: alphaInt, D3: d3, Zx: zx, Zr: zr, Zb: zb, Zy: zy}, nil
}

// VerifyCoprime recomputes the transcript and both verification equations.
func VerifyCoprime(tr *transcript.Transcript, params CoprimeParams, stmt CoprimeStatement, proof *CoprimeProof) bool {
	grp := params.Int.Grp

	tr.AppendElement("coprime/cw", proof.CW)
	tr.AppendElement("coprime/alpha_int", proof.AlphaInt)
	tr.AppendElement("coprime/d3", proof.D3)
	c := tr.ChallengeInt("coprime/c", params.LambdaC)

	tr.AppendInt("coprime/zx", proof.Zx)
	tr.AppendInt("coprime/zr", proof.Zr)
	tr.AppendInt("coprime/zb", proof.Zb)
	tr.AppendInt("coprime/zy", proof.Zy)

	boundX := new(big.Int).Lsh(big.NewInt(1), uint(params.Ell+params.LambdaS+params.LambdaC+1))
	if new(big.Int).Abs(proof.Zx).Cmp(boundX) >= 0 {
		return false
	}
	boundB := new(big.Int).Lsh(big.NewInt(1), uint(params.LAcc+params.LambdaS+params.LambdaC+1))
	if new(big.Int).Abs(proof.Zb).Cmp(boundB) >= 0 {
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
		grp.Element().Add(
			grp.Element().Scale(proof.CW, proof.Zx),
			grp.Element().Scale(stmt.A, proof.Zb),
		),
		grp.Element().Scale(params.Int.H, proof.Zy),
	)
	rhsAcc := grp.Element().Add(lhsAcc, grp.Element().Scale(stmt.G, negC))
	return rhsAcc.IsEqual(proof.D3)
}
