package group

import (
	"crypto/rand"
	"encoding/json"
	"math/big"

	"github.com/cloudflare/circl/ecc/bls12381"
)

// bls12381 is not offered by github.com/cloudflare/circl/group (that
// package only covers Ristretto255 and the NIST curves), so this file
// wraps github.com/cloudflare/circl/ecc/bls12381's G1 type directly, the
// same way rsagroup wraps math/big directly instead of going through a
// generic-group library, because none of this module's dependencies
// offer bls12381's G1 as an abstract prime-order group.Group.
type bls12381Group struct {
	fieldOrder *big.Int
	curveOrder *big.Int
	name       string
}

type bls12381Point struct {
	curve *bls12381Group
	val   *bls12381.G1
}

func (g *bls12381Group) Name() string {
	return g.name
}

func (g *bls12381Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(&GroupId{g.name})
}

func (g *bls12381Group) P() *big.Int {
	return g.fieldOrder
}

func (g *bls12381Group) N() *big.Int {
	return g.curveOrder
}

func (g *bls12381Group) Generator() Element {
	p := new(bls12381.G1)
	p.SetGenerator()
	return &bls12381Point{curve: g, val: p}
}

func (g *bls12381Group) Identity() Element {
	p := new(bls12381.G1)
	p.SetIdentity()
	return &bls12381Point{curve: g, val: p}
}

func (g *bls12381Group) Random() Element {
	s, err := rand.Int(rand.Reader, g.curveOrder)
	if err != nil {
		panic("bls12381: random sampling failed: " + err.Error())
	}
	e := g.Generator().(*bls12381Point)
	return e.BaseScale(s)
}

func (g *bls12381Group) Element() Element {
	p := new(bls12381.G1)
	p.SetIdentity()
	return &bls12381Point{curve: g, val: p}
}

func (e *bls12381Point) check(a Element) *bls12381Point {
	ea, ok := a.(*bls12381Point)
	if !ok {
		panic("incompatible group element type")
	}
	return ea
}

func scalarFromBigInt(s *big.Int, order *big.Int) *bls12381.Scalar {
	reduced := new(big.Int).Mod(s, order)
	buf := make([]byte, 32)
	reduced.FillBytes(buf)
	sc := new(bls12381.Scalar)
	if err := sc.SetBytes(buf); err != nil {
		panic("bls12381: scalar out of range: " + err.Error())
	}
	return sc
}

func (e *bls12381Point) Add(a, b Element) Element {
	ca := e.check(a)
	cb := e.check(b)
	p := new(bls12381.G1)
	p.Add(ca.val, cb.val)
	e.val = p
	return e
}

func (e *bls12381Point) Subtract(a, b Element) Element {
	tmp := e.curve.Identity()
	tmp.Negate(b)
	e.Add(a, tmp)
	return e
}

func (e *bls12381Point) Negate(a Element) Element {
	ca := e.check(a)
	p := new(bls12381.G1)
	p.Neg(ca.val)
	e.val = p
	return e
}

func (e *bls12381Point) IsEqual(b Element) bool {
	cb := e.check(b)
	return e.val.IsEqual(cb.val)
}

func (e *bls12381Point) Set(x Element) Element {
	ca := e.check(x)
	p := new(bls12381.G1)
	*p = *ca.val
	e.val = p
	return e
}

func (e *bls12381Point) SetBytes(b []byte) Element {
	p := new(bls12381.G1)
	if err := p.SetBytes(b); err != nil {
		panic("bls12381: SetBytes failed: " + err.Error())
	}
	e.val = p
	return e
}

func (e *bls12381Point) Scale(x Element, s *big.Int) Element {
	ex := e.check(x)
	sc := scalarFromBigInt(s, e.curve.curveOrder)
	p := new(bls12381.G1)
	p.ScalarMult(sc, ex.val)
	e.val = p
	return e
}

func (e *bls12381Point) BaseScale(s *big.Int) Element {
	gen := e.curve.Generator().(*bls12381Point)
	return e.Scale(gen, s)
}

func (e *bls12381Point) GroupOrder() *big.Int {
	return e.curve.curveOrder
}

func (e *bls12381Point) FieldOrder() *big.Int {
	return e.curve.fieldOrder
}

func (e *bls12381Point) MapToGroup(s string) (Element, error) {
	p := new(bls12381.G1)
	p.Hash([]byte(s), []byte("rsa-set-membership/bls12381/G1"))
	e.val = p
	return e, nil
}

func (e *bls12381Point) String() string {
	return e.val.String()
}

func (e *bls12381Point) IsIdentity() bool {
	return e.val.IsIdentity()
}

func (e *bls12381Point) MarshalBinary() ([]byte, error) {
	return e.val.BytesCompressed(), nil
}

func (e *bls12381Point) UnmarshalBinary(data []byte) error {
	p := new(bls12381.G1)
	if err := p.SetBytes(data); err != nil {
		return err
	}
	e.val = p
	return nil
}

func (e *bls12381Point) MarshalJSON() ([]byte, error) {
	b, err := e.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(b)
}

func (e *bls12381Point) UnmarshalJSON(data []byte) error {
	var b []byte
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	return e.UnmarshalBinary(b)
}

// BLS12381G1 returns the prime-order group formed by the G1 subgroup of
// the BLS12-381 pairing curve, used where a larger group order than
// Ristretto255/P-256 offer is wanted for the EC side of Modeq.
func BLS12381G1() Group {
	g := new(bls12381Group)
	g.name = "BLS12-381-G1"
	g.curveOrder = bls12381.Order()
	g.fieldOrder = new(big.Int).Set(bls12381.P)
	return g
}
