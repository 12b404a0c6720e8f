// Package membership composes the Integer-Commit, EC-Commit, Modeq,
// Root/Coprime, and HashToPrime subprotocols into the two top-level
// statements this module exists to prove: CPMemRSA (set membership) and
// CPNonMemRSA (set non-membership), the way main.go/server.go/voter.go
// compose elgamal.go's primitives and voteproof.Prove/Verify into a single
// castVote/verifyVote flow for the voting application. The composer here
// never inspects a HashToPrime backend's internals; it only routes C_ec in
// and a proof blob out, and binds the backend's public outputs into the
// same transcript the other subprotocols share.
package membership

import (
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/accum"
	"github.com/cpsnarks/rsa-set-membership/eccommit"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/modeq"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
)

// Params bundles every public parameter needed to prove or verify either
// statement: the security parameters shared by every subprotocol, the two
// commitment schemes, the distinguished RSA generator g (needed by
// Coprime's w^x * A^b = g relation), and the selected HashToPrime backend.
type Params struct {
	Ell     int // range bound: accumulated elements satisfy 0 <= x < 2^Ell
	LambdaS int // statistical security parameter
	LambdaC int // computational security parameter (challenge bit length)
	LAcc    int // bit-length bound on the accumulator's implicit product, for Coprime's b

	Int *intcommit.Params
	EC  *eccommit.Params
	G   group.Element // the RSA group's distinguished generator

	HTP hashtoprime.Backend
}

// NewParams derives the Integer-Commit and EC-Commit parameters from an RSA
// modulus and an EC group, and stores the caller-selected HashToPrime
// backend as given. It does not rebind htp to the EC-Commit generators: a
// bp_range backend authenticates against the EC-Commit H only if it was
// built from the returned Params' EC.Grp and EC.H.
func NewParams(N *big.Int, ecGroup group.Group, ell, lambdaS, lambdaC, lAcc int, htp hashtoprime.Backend) (*Params, error) {
	rp, err := rsagroup.NewParams(N)
	if err != nil {
		return nil, err
	}
	intParams := intcommit.NewParams(rp)
	ecParams := eccommit.NewParams(ecGroup)

	return &Params{
		Ell:     ell,
		LambdaS: lambdaS,
		LambdaC: lambdaC,
		LAcc:    lAcc,
		Int:     intParams,
		EC:      ecParams,
		G:       intParams.Grp.Generator(),
		HTP:     htp,
	}, nil
}

func (p *Params) modeqParams() modeqParamsView {
	return modeqParamsView{Ell: p.Ell, LambdaS: p.LambdaS, LambdaC: p.LambdaC, Int: p.Int, EC: p.EC}
}

func (p *Params) rootParams() rootParamsView {
	return rootParamsView{Ell: p.Ell, LambdaS: p.LambdaS, LambdaC: p.LambdaC, Int: p.Int}
}

func (p *Params) coprimeParams() coprimeParamsView {
	return coprimeParamsView{Ell: p.Ell, LambdaS: p.LambdaS, LambdaC: p.LambdaC, LAcc: p.LAcc, Int: p.Int}
}

// The view types exist only to avoid importing modeq/accum's exact struct
// literals at every call site; they convert 1:1.
type modeqParamsView struct {
	Ell, LambdaS, LambdaC int
	Int                   *intcommit.Params
	EC                    *eccommit.Params
}

type rootParamsView struct {
	Ell, LambdaS, LambdaC int
	Int                   *intcommit.Params
}

type coprimeParamsView struct {
	Ell, LambdaS, LambdaC, LAcc int
	Int                         *intcommit.Params
}

func (v modeqParamsView) toModeq() (ell, lambdaS, lambdaC int, intp *intcommit.Params, ecp *eccommit.Params) {
	return v.Ell, v.LambdaS, v.LambdaC, v.Int, v.EC
}

func (v rootParamsView) toRoot() accum.Params {
	return accum.Params{Ell: v.Ell, LambdaS: v.LambdaS, LambdaC: v.LambdaC, Int: v.Int}
}

func (v coprimeParamsView) toCoprime() accum.CoprimeParams {
	return accum.CoprimeParams{Params: accum.Params{Ell: v.Ell, LambdaS: v.LambdaS, LambdaC: v.LambdaC, Int: v.Int}, LAcc: v.LAcc}
}
