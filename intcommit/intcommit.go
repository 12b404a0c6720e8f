// Package intcommit implements the Integer (Fujisaki-Okamoto / Pedersen)
// commitment over the RSA hidden-order group (C2): C = g^x * h^r mod N.
//
// The committer/opener split mirrors the df package's Committer/Receiver
// pattern (other_examples/7a127776_awsong-crypto__df-multiplication_commitment.go.go:
// ComputeCommit(a, r) = G^a * H^r, GetDecommitMsg() returning (a, r)), but
// collapsed into a single stateless Params/Commit/Open API since this
// module never needs the two-party commit/decommit handshake that df's
// Committer/Receiver types exist for -- only the openable commitment
// itself, shared directly between prover-held witness and the composed
// Sigma protocols in modeq/accum.
package intcommit

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

// Params holds the public bases of the commitment scheme.
type Params struct {
	Grp group.Group
	G   group.Element // bound to the secret x
	H   group.Element // blinding base, log_G(H) unknown to every party
	N   *big.Int      // the modulus, exposed for blinder-bound computations
}

// NewParams derives G and H deterministically from the RSA group
// parameters, the way bulletproofs.Setup derives its vector generators from
// a fixed seed via p256.MapToGroup.
func NewParams(rp *rsagroup.Params) *Params {
	grp := rp.Group()
	h, err := grp.Element().MapToGroup("intcommit/h")
	if err != nil {
		panic("intcommit: MapToGroup failed: " + err.Error())
	}
	return &Params{
		Grp: grp,
		G:   grp.Generator(),
		H:   h,
		N:   rp.N,
	}
}

// Commit computes C = g^x * h^r mod N, canonicalized by the underlying
// group element implementation.
func (p *Params) Commit(x, r *big.Int) group.Element {
	gx := p.Grp.Element().Scale(p.G, x)
	hr := p.Grp.Element().Scale(p.H, r)
	return p.Grp.Element().Add(gx, hr)
}

// Open recomputes the commitment from the claimed opening and compares by
// canonical representative.
func (p *Params) Open(c group.Element, x, r *big.Int) bool {
	return p.Commit(x, r).IsEqual(c)
}

// BlinderBound returns the exclusive upper bound floor(N/4) * 2^lambdaS for
// the randomness r, per §3: "sampled uniformly in [0, floor(N/4)*2^{lambda_s})
// ... so the distribution statistically hides x mod ord(g)".
func (p *Params) BlinderBound(lambdaS int) *big.Int {
	quarter := new(big.Int).Rsh(p.N, 2)
	shift := new(big.Int).Lsh(big.NewInt(1), uint(lambdaS))
	return new(big.Int).Mul(quarter, shift)
}

// SampleBlinder draws r uniformly from [0, BlinderBound(lambdaS)) using the
// caller-supplied RNG, surfacing zkerr.RngFailure on read failure per §7.
func (p *Params) SampleBlinder(rng io.Reader, lambdaS int) (*big.Int, error) {
	bound := p.BlinderBound(lambdaS)
	r, err := rand.Int(rng, bound)
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "intcommit.SampleBlinder", err)
	}
	return r, nil
}
