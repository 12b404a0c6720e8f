// Package eccommit implements the prime-order EC Pedersen commitment (C3):
// P = G^x + s*H (additive notation). It is the direct generalization of
// util.PedersenCommit and voteproof.pedersenCommit, lifted out of the
// voting-specific voteproof package so that modeq, accum, and hashtoprime
// can all share one commitment implementation instead of each re-deriving
// it, the way the teacher's util package centralizes the one formula
// bulletproofs and voteproof both need.
package eccommit

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

// Params holds the public generators of the commitment scheme over a
// prime-order group of order q.
type Params struct {
	Grp group.Group
	G   group.Element
	H   group.Element
}

// NewParams derives H by hashing the fixed label "eccommit/h" into grp via
// MapToGroup, keeping G as the
// group's canonical generator, mirroring main.go's setup() deriving
// curveGroupParams.H from a fixed seed so that no party knows log_G(H).
func NewParams(grp group.Group) *Params {
	h, err := grp.Element().MapToGroup("eccommit/h")
	if err != nil {
		panic("eccommit: MapToGroup failed: " + err.Error())
	}
	return &Params{Grp: grp, G: grp.Generator(), H: h}
}

// Commit computes G^x + s*H.
func (p *Params) Commit(x, s *big.Int) group.Element {
	gx := p.Grp.Element().BaseScale(x)
	hs := p.Grp.Element().Scale(p.H, s)
	return p.Grp.Element().Add(gx, hs)
}

// Open recomputes the commitment and compares for equality.
func (p *Params) Open(c group.Element, x, s *big.Int) bool {
	return p.Commit(x, s).IsEqual(c)
}

// SampleBlinder draws s uniformly from [0, q).
func (p *Params) SampleBlinder(rng io.Reader) (*big.Int, error) {
	s, err := rand.Int(rng, p.Grp.N())
	if err != nil {
		return nil, zkerr.New(zkerr.RngFailure, "eccommit.SampleBlinder", err)
	}
	return s, nil
}
