/*
 * Copyright (C) 2019 ING BANK N.V.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// This file, together with ip.go, vector.go and multibp.go, ports the
// ing-bank/zkrp Bulletproofs range proof from its original fixed-curve
// (p256) form to an arbitrary group.Group, the same generalization
// util.PedersenCommit already applies to Pedersen commitments and
// voteproof applies to the Sigma protocol it runs over the vote
// ciphertext. In this file and ip.go, errors with HashBP are passed up
// through error returns instead of the ignored blank identifier the
// original uses, since a hash-to-scalar failure here is as fatal to
// soundness as an RNG failure elsewhere in this module; multibp.go still
// discards them.
package bulletproofs

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"

	"golang.org/x/crypto/blake2s"

	"github.com/cpsnarks/rsa-set-membership/group"
	. "github.com/cpsnarks/rsa-set-membership/util"
)

var SEEDH = "BulletproofsDoesNotNeedTrustedSetupH"
var MAX_RANGE_END_EXPONENT = 32

// BulletProofSetupParams holds the public generators for the range proof
// system, the same role p256-based BulletProofSetupParams played in the
// original package.
type BulletProofSetupParams struct {
	N  int64
	G  group.Element
	H  group.Element
	Gg []group.Element
	Hh []group.Element
	GP group.Group
}

// BulletProof is a single-value range proof: secret in [0, 2^N).
type BulletProof struct {
	V                 group.Element
	A                 group.Element
	S                 group.Element
	T1                group.Element
	T2                group.Element
	Taux              *big.Int
	Mu                *big.Int
	Tprime            *big.Int
	InnerProductProof InnerProductProof
	Commit            group.Element
	Params            BulletProofSetupParams
}

// IsPowerOfTwo reports whether n is an exact power of two.
func IsPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// Setup derives the generators for proving membership in [0, rangeEnd),
// where rangeEnd must be a power of two no larger than 2^32.
func Setup(rangeEnd int64, GP group.Group) (BulletProofSetupParams, error) {
	if !IsPowerOfTwo(rangeEnd) {
		return BulletProofSetupParams{}, errors.New("range end is not a power of 2")
	}

	params := BulletProofSetupParams{GP: GP}
	params.G = GP.Generator()

	h, err := GP.Element().MapToGroup(SEEDH)
	if err != nil {
		return params, err
	}
	params.H = h

	params.N = int64(math.Log2(float64(rangeEnd)))
	if params.N > int64(MAX_RANGE_END_EXPONENT) {
		return params, fmt.Errorf("range end can not be greater than 2**%d", MAX_RANGE_END_EXPONENT)
	}

	params.Gg = make([]group.Element, params.N)
	params.Hh = make([]group.Element, params.N)
	for i := int64(0); i < params.N; i++ {
		g, err := GP.Element().MapToGroup(SEEDH + "g" + fmt.Sprint(i))
		if err != nil {
			return params, err
		}
		params.Gg[i] = g
		hh, err := GP.Element().MapToGroup(SEEDH + "h" + fmt.Sprint(i))
		if err != nil {
			return params, err
		}
		params.Hh[i] = hh
	}
	return params, nil
}

// Prove computes a Bulletproof that secret lies in [0, 2^params.N),
// committing to it under a freshly sampled blinder.
func Prove(secret *big.Int, params BulletProofSetupParams) (BulletProof, *big.Int, error) {
	mod := params.GP.N()
	gamma, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return BulletProof{}, nil, err
	}
	proof, err := ProveWithBlinder(secret, gamma, params)
	return proof, gamma, err
}

// ProveWithBlinder computes a Bulletproof for a commitment the caller
// already holds the opening of (secret, gamma), so that the resulting
// proof.V is literally the caller's existing commitment rather than a
// fresh one -- needed by hashtoprime's bp_range backend, which must
// prove a range statement about the very C_ec already bound into the
// Modeq and Root/Coprime subprotocols, not a second, unrelated one.
func ProveWithBlinder(secret, gamma *big.Int, params BulletProofSetupParams) (BulletProof, error) {
	var proof BulletProof
	mod := params.GP.N()

	V := PedersenCommit(secret, gamma, params.H, params.GP)

	aL := Decompose(secret, 2, params.N)
	aR, err := computeAR(aL)
	if err != nil {
		return proof, err
	}
	alpha, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return proof, err
	}
	A := commitVector(aL, aR, alpha, params.H, params.Gg, params.Hh, params.N, params.GP)

	sL := sampleRandomVector(params.N, params.GP.N())
	sR := sampleRandomVector(params.N, params.GP.N())
	rho, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return proof, err
	}
	S := commitVectorBig(sL, sR, rho, params.H, params.Gg, params.Hh, params.N, params.GP)

	y, z, err := HashBP(A, S)
	if err != nil {
		return proof, err
	}

	tau1, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return proof, err
	}
	tau2, err := rand.Int(rand.Reader, mod)
	if err != nil {
		return proof, err
	}

	yPow := powerOf(y, params.N, mod)
	aLb, _ := VectorConvertToBig(aL, params.N)
	aRb, _ := VectorConvertToBig(aR, params.N)

	l0 := VectorAddConst(aLb, new(big.Int).Neg(z), mod)
	l1 := sL

	vecZ, _ := VectorCopy(z, params.N)
	aRzn, _ := VectorAdd(vecZ, aRb, mod)

	powersOf2 := powerOf(big.NewInt(2), params.N, mod)
	zSquared := new(big.Int).Mod(new(big.Int).Mul(z, z), mod)
	z22n, _ := VectorScalarMul(powersOf2, zSquared, mod)

	r0, _ := VectorMul(yPow, aRzn, mod)
	r0, _ = VectorAdd(r0, z22n, mod)
	r1, _ := VectorMul(yPow, sR, mod)

	t1left := VectorInnerProduct(l1, r0, mod)
	t1right := VectorInnerProduct(l0, r1, mod)
	t1 := new(big.Int).Mod(new(big.Int).Add(t1left, t1right), mod)
	t2 := VectorInnerProduct(l1, r1, mod)

	T1 := PedersenCommit(t1, tau1, params.H, params.GP)
	T2 := PedersenCommit(t2, tau2, params.H, params.GP)

	x, _, err := HashBP(T1, T2)
	if err != nil {
		return proof, err
	}

	sLx, _ := VectorScalarMul(sL, x, mod)
	bl, _ := VectorAdd(l0, sLx, mod)

	sRx, _ := VectorScalarMul(sR, x, mod)
	tmp, _ := VectorAdd(aRzn, sRx, mod)
	tmp, _ = VectorMul(yPow, tmp, mod)
	br, _ := VectorAdd(tmp, z22n, mod)

	th := VectorInnerProduct(bl, br, mod)

	tauX := new(big.Int).Mul(tau2, new(big.Int).Mul(x, x))
	tauX.Add(tauX, new(big.Int).Mul(tau1, x))
	tauX.Add(tauX, new(big.Int).Mul(zSquared, gamma))
	tauX.Mod(tauX, mod)

	mu := new(big.Int).Mul(rho, x)
	mu.Add(mu, alpha)
	mu.Mod(mu, mod)

	hp := updateGenerators(params.Hh, y, params.N, params.GP)

	ipParams, err := setupInnerProduct(params.Gg, hp, th, params.N, params.GP)
	if err != nil {
		return proof, err
	}
	commit, err := commitInnerProduct(params.Gg, hp, bl, br, params.GP)
	if err != nil {
		return proof, err
	}
	ipProof, err := proveInnerProduct(bl, br, commit, ipParams)
	if err != nil {
		return proof, err
	}

	proof.V = V
	proof.A = A
	proof.S = S
	proof.T1 = T1
	proof.T2 = T2
	proof.Taux = tauX
	proof.Mu = mu
	proof.Tprime = th
	proof.InnerProductProof = ipProof
	proof.Commit = commit
	proof.Params = params

	return proof, nil
}

// Verify returns true if and only if the proof is valid.
func (proof *BulletProof) Verify() (bool, error) {
	params := proof.Params
	mod := params.GP.N()

	x, _, err := HashBP(proof.T1, proof.T2)
	if err != nil {
		return false, err
	}
	y, z, err := HashBP(proof.A, proof.S)
	if err != nil {
		return false, err
	}

	zSquared := new(big.Int).Mod(new(big.Int).Mul(z, z), mod)
	xSquared := new(big.Int).Mod(new(big.Int).Mul(x, x), mod)

	hp := updateGenerators(params.Hh, y, params.N, params.GP)

	lhs := PedersenCommit(proof.Tprime, proof.Taux, params.H, params.GP)

	rhs := params.GP.Element().Scale(proof.V, zSquared)
	delta := params.delta(y, z)
	gDelta := params.GP.Element().BaseScale(delta)
	rhs = params.GP.Element().Add(rhs, gDelta)
	rhs = params.GP.Element().Add(rhs, params.GP.Element().Scale(proof.T1, x))
	rhs = params.GP.Element().Add(rhs, params.GP.Element().Scale(proof.T2, xSquared))

	c65 := rhs.IsEqual(lhs)

	Sx := params.GP.Element().Scale(proof.S, x)
	ASx := params.GP.Element().Add(proof.A, Sx)

	mz := new(big.Int).Sub(mod, z)
	vmz, _ := VectorCopy(mz, params.N)
	gpmz, err := VectorExp(params.Gg, vmz, params.GP)
	if err != nil {
		return false, err
	}

	vz, _ := VectorCopy(z, params.N)
	vy := powerOf(y, params.N, mod)
	zyn, _ := VectorMul(vy, vz, mod)

	powersOf2 := powerOf(big.NewInt(2), params.N, mod)
	z22n, _ := VectorScalarMul(powersOf2, zSquared, mod)
	zynz22n, _ := VectorAdd(zyn, z22n, mod)
	hpExp, err := VectorExp(hp, zynz22n, params.GP)
	if err != nil {
		return false, err
	}

	lP := params.GP.Element().Add(ASx, gpmz)
	lP = params.GP.Element().Add(lP, hpExp)

	rP := params.GP.Element().Scale(params.H, proof.Mu)
	rP = params.GP.Element().Add(rP, proof.Commit)
	rP = params.GP.Element().Subtract(rP, lP)
	c67 := rP.IsIdentity()

	ok, err := proof.InnerProductProof.Verify()
	if err != nil {
		return false, err
	}

	return c65 && c67 && ok, nil
}

func (params *BulletProofSetupParams) delta(y, z *big.Int) *big.Int {
	mod := params.GP.N()
	z2 := new(big.Int).Mod(new(big.Int).Mul(z, z), mod)
	z3 := new(big.Int).Mod(new(big.Int).Mul(z2, z), mod)

	onePow, _ := VectorCopy(big.NewInt(1), params.N)
	yPow := powerOf(y, params.N, mod)
	sp1y := VectorInnerProduct(onePow, yPow, mod)

	p2n := powerOf(big.NewInt(2), params.N, mod)
	sp12 := VectorInnerProduct(onePow, p2n, mod)

	result := new(big.Int).Sub(z, z2)
	result.Mod(result, mod)
	result.Mul(result, sp1y)
	result.Mod(result, mod)
	result.Sub(result, new(big.Int).Mul(z3, sp12))
	result.Mod(result, mod)

	return result
}

func computeAR(x []int64) ([]int64, error) {
	result := make([]int64, len(x))
	for i, xi := range x {
		switch xi {
		case 0:
			result[i] = -1
		case 1:
			result[i] = 0
		default:
			return nil, errors.New("input contains non-binary element")
		}
	}
	return result, nil
}

func sampleRandomVector(n int64, mod *big.Int) []*big.Int {
	s := make([]*big.Int, n)
	for i := int64(0); i < n; i++ {
		s[i], _ = rand.Int(rand.Reader, mod)
	}
	return s
}

// updateGenerators computes [h_1, h_2^(y^-1), ..., h_n^(y^-(n-1))], used by
// both prover and verifier to fold in the y challenge.
func updateGenerators(Hh []group.Element, y *big.Int, n int64, GP group.Group) []group.Element {
	mod := GP.N()
	hp := make([]group.Element, n)
	yinv := new(big.Int).ModInverse(y, mod)
	expy := yinv
	hp[0] = Hh[0]
	for i := int64(1); i < n; i++ {
		hp[i] = GP.Element().Scale(Hh[i], expy)
		expy = new(big.Int).Mod(new(big.Int).Mul(expy, yinv), mod)
	}
	return hp
}

func commitVector(aL, aR []int64, alpha *big.Int, H group.Element, g, h []group.Element, n int64, GP group.Group) group.Element {
	R := GP.Element().Scale(H, alpha)
	for i := int64(0); i < n; i++ {
		R = GP.Element().Add(R, GP.Element().Scale(g[i], big.NewInt(aL[i])))
		R = GP.Element().Add(R, GP.Element().Scale(h[i], big.NewInt(aR[i])))
	}
	return R
}

func commitVectorBig(aL, aR []*big.Int, alpha *big.Int, H group.Element, g, h []group.Element, n int64, GP group.Group) group.Element {
	R := GP.Element().Scale(H, alpha)
	for i := int64(0); i < n; i++ {
		R = GP.Element().Add(R, GP.Element().Scale(g[i], aL[i]))
		R = GP.Element().Add(R, GP.Element().Scale(h[i], aR[i]))
	}
	return R
}

// powerOf returns (x^0, x^1, ..., x^(n-1)) mod mod.
func powerOf(x *big.Int, n int64, mod *big.Int) []*big.Int {
	result := make([]*big.Int, n)
	cur := big.NewInt(1)
	for i := int64(0); i < n; i++ {
		result[i] = new(big.Int).Set(cur)
		cur = new(big.Int).Mod(new(big.Int).Mul(cur, x), mod)
	}
	return result
}

// VectorExp computes the product of bases[i]^exps[i].
func VectorExp(bases []group.Element, exps []*big.Int, GP group.Group) (group.Element, error) {
	if len(bases) != len(exps) {
		return nil, errors.New("VectorExp: mismatched lengths")
	}
	result := GP.Identity()
	for i := range bases {
		result = GP.Element().Add(result, GP.Element().Scale(bases[i], exps[i]))
	}
	return result, nil
}

// HashBP derives two Fiat-Shamir challenges from a pair of group
// elements by hashing their marshaled bytes with blake2s, the same
// primitive transcript.Transcript uses, rather than sha256 as the
// original ing-bank package does, so that the whole module relies on one
// hash function.
func HashBP(a, b group.Element) (*big.Int, *big.Int, error) {
	ab, err := a.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	bb, err := b.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	h1, err := blake2s.New256(nil)
	if err != nil {
		return nil, nil, err
	}
	h1.Write([]byte("bulletproofs/hashbp/x"))
	h1.Write(ab)
	h1.Write(bb)
	x := new(big.Int).SetBytes(h1.Sum(nil))

	h2, err := blake2s.New256(nil)
	if err != nil {
		return nil, nil, err
	}
	h2.Write([]byte("bulletproofs/hashbp/y"))
	h2.Write(ab)
	h2.Write(bb)
	y := new(big.Int).SetBytes(h2.Sum(nil))

	return x, y, nil
}
