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

package bulletproofs

import (
	"errors"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/group"
)

var SEEDU = "BulletproofsDoesNotNeedTrustedSetupU"

// InnerProductParams contains the generators used to compute Pedersen
// vector commitments, generalized over group instead of the fixed p256
// curve the ing-bank/zkrp package was written against.
type InnerProductParams struct {
	N  int64
	Cc *big.Int
	Uu group.Element
	Gg []group.Element
	Hh []group.Element
	P  group.Element
	GP group.Group
}

// InnerProductProof contains the elements used to verify the Inner
// Product Proof.
type InnerProductProof struct {
	N      int64
	L      []group.Element
	R      []group.Element
	Cc     *big.Int
	A      *big.Int
	B      *big.Int
	Params InnerProductParams
}

func setupInnerProduct(g, h []group.Element, c *big.Int, N int64, GP group.Group) (InnerProductParams, error) {
	var params InnerProductParams
	if N <= 0 {
		return params, errors.New("N must be greater than zero")
	}
	params.N = N

	if g == nil {
		g = make([]group.Element, N)
		for i := int64(0); i < N; i++ {
			gi, err := GP.Element().MapToGroup(SEEDH + "g" + big.NewInt(i).String())
			if err != nil {
				return params, err
			}
			g[i] = gi
		}
	}
	params.Gg = g

	if h == nil {
		h = make([]group.Element, N)
		for i := int64(0); i < N; i++ {
			hi, err := GP.Element().MapToGroup(SEEDH + "h" + big.NewInt(i).String())
			if err != nil {
				return params, err
			}
			h[i] = hi
		}
	}
	params.Hh = h

	params.Cc = c
	u, err := GP.Element().MapToGroup(SEEDU)
	if err != nil {
		return params, err
	}
	params.Uu = u
	params.P = GP.Identity()
	params.GP = GP

	return params, nil
}

func commitInnerProduct(g, h []group.Element, a, b []*big.Int, GP group.Group) (group.Element, error) {
	ga, err := VectorExp(g, a, GP)
	if err != nil {
		return nil, err
	}
	hb, err := VectorExp(h, b, GP)
	if err != nil {
		return nil, err
	}
	return GP.Element().Add(ga, hb), nil
}

// proveInnerProduct computes the logarithmic-size inner product argument
// for <a, b> = c over the generators in params.
func proveInnerProduct(a, b []*big.Int, P group.Element, params InnerProductParams) (InnerProductProof, error) {
	if len(a) != len(b) {
		return InnerProductProof{}, errors.New("size of first array argument must be equal to the second")
	}

	GP := params.GP
	x, err := hashIP(params.Gg, params.Hh, P, params.Cc, params.N, GP)
	if err != nil {
		return InnerProductProof{}, err
	}
	ux := GP.Element().Scale(params.Uu, x)
	uxc := GP.Element().Scale(ux, params.Cc)
	PP := GP.Element().Add(P, uxc)

	proof, err := computeBipRecursive(a, b, params.Gg, params.Hh, ux, PP, int64(len(a)), nil, nil, GP)
	if err != nil {
		return InnerProductProof{}, err
	}
	proof.N = params.N
	proof.Params = params
	proof.Params.P = PP
	proof.Params.Uu = ux
	return proof, nil
}

func computeBipRecursive(a, b []*big.Int, g, h []group.Element, u, P group.Element, n int64, Ls, Rs []group.Element, GP group.Group) (InnerProductProof, error) {
	var proof InnerProductProof

	if n == 1 {
		proof.A = a[0]
		proof.B = b[0]
		proof.L = Ls
		proof.R = Rs
		proof.N = n
		return proof, nil
	}

	nprime := n / 2

	cL := VectorInnerProduct(a[:nprime], b[nprime:], GP.N())
	cR := VectorInnerProduct(a[nprime:], b[:nprime], GP.N())

	L, err := VectorExp(g[nprime:], a[:nprime], GP)
	if err != nil {
		return proof, err
	}
	Lh, err := VectorExp(h[:nprime], b[nprime:], GP)
	if err != nil {
		return proof, err
	}
	L = GP.Element().Add(L, Lh)
	L = GP.Element().Add(L, GP.Element().Scale(u, cL))

	R, err := VectorExp(g[:nprime], a[nprime:], GP)
	if err != nil {
		return proof, err
	}
	Rh, err := VectorExp(h[nprime:], b[:nprime], GP)
	if err != nil {
		return proof, err
	}
	R = GP.Element().Add(R, Rh)
	R = GP.Element().Add(R, GP.Element().Scale(u, cR))

	x, _, err := HashBP(L, R)
	if err != nil {
		return proof, err
	}
	xinv := new(big.Int).ModInverse(x, GP.N())
	if xinv == nil {
		return proof, errors.New("challenge not invertible modulo group order")
	}

	gprime1 := vectorScalarExp(g[:nprime], xinv, GP)
	gprime2 := vectorScalarExp(g[nprime:], x, GP)
	gprime, err := VectorECAdd(gprime1, gprime2, GP)
	if err != nil {
		return proof, err
	}

	hprime1 := vectorScalarExp(h[:nprime], x, GP)
	hprime2 := vectorScalarExp(h[nprime:], xinv, GP)
	hprime, err := VectorECAdd(hprime1, hprime2, GP)
	if err != nil {
		return proof, err
	}

	x2 := new(big.Int).Mod(new(big.Int).Mul(x, x), GP.N())
	x2inv := new(big.Int).ModInverse(x2, GP.N())
	if x2inv == nil {
		return proof, errors.New("challenge square not invertible modulo group order")
	}
	Pprime := GP.Element().Scale(L, x2)
	Pprime = GP.Element().Add(Pprime, P)
	Pprime = GP.Element().Add(Pprime, GP.Element().Scale(R, x2inv))

	aprime1, err := VectorScalarMul(a[:nprime], x, GP.N())
	if err != nil {
		return proof, err
	}
	aprime2, err := VectorScalarMul(a[nprime:], xinv, GP.N())
	if err != nil {
		return proof, err
	}
	aprime, err := VectorAdd(aprime1, aprime2, GP.N())
	if err != nil {
		return proof, err
	}

	bprime1, err := VectorScalarMul(b[:nprime], xinv, GP.N())
	if err != nil {
		return proof, err
	}
	bprime2, err := VectorScalarMul(b[nprime:], x, GP.N())
	if err != nil {
		return proof, err
	}
	bprime, err := VectorAdd(bprime1, bprime2, GP.N())
	if err != nil {
		return proof, err
	}

	Ls = append(Ls, L)
	Rs = append(Rs, R)
	return computeBipRecursive(aprime, bprime, gprime, hprime, u, Pprime, nprime, Ls, Rs, GP)
}

// Verify checks the inner product proof against its embedded parameters.
func (proof InnerProductProof) Verify() (bool, error) {
	GP := proof.Params.GP
	gprime := proof.Params.Gg
	hprime := proof.Params.Hh
	Pprime := proof.Params.P
	nprime := proof.N

	for i := range proof.L {
		nprime = nprime / 2
		x, _, err := HashBP(proof.L[i], proof.R[i])
		if err != nil {
			return false, err
		}
		xinv := new(big.Int).ModInverse(x, GP.N())
		if xinv == nil {
			return false, errors.New("challenge not invertible modulo group order")
		}

		ngprime1 := vectorScalarExp(gprime[:nprime], xinv, GP)
		ngprime2 := vectorScalarExp(gprime[nprime:], x, GP)
		var err2 error
		gprime, err2 = VectorECAdd(ngprime1, ngprime2, GP)
		if err2 != nil {
			return false, err2
		}

		nhprime1 := vectorScalarExp(hprime[:nprime], x, GP)
		nhprime2 := vectorScalarExp(hprime[nprime:], xinv, GP)
		hprime, err2 = VectorECAdd(nhprime1, nhprime2, GP)
		if err2 != nil {
			return false, err2
		}

		x2 := new(big.Int).Mod(new(big.Int).Mul(x, x), GP.N())
		x2inv := new(big.Int).ModInverse(x2, GP.N())
		if x2inv == nil {
			return false, errors.New("challenge square not invertible modulo group order")
		}
		Pprime = GP.Element().Add(Pprime, GP.Element().Scale(proof.L[i], x2))
		Pprime = GP.Element().Add(Pprime, GP.Element().Scale(proof.R[i], x2inv))
	}

	ab := new(big.Int).Mod(new(big.Int).Mul(proof.A, proof.B), GP.N())
	rhs := GP.Element().Scale(gprime[0], proof.A)
	hb := GP.Element().Scale(hprime[0], proof.B)
	rhs = GP.Element().Add(rhs, hb)
	rhs = GP.Element().Add(rhs, GP.Element().Scale(proof.Params.Uu, ab))

	nP := GP.Element().Negate(Pprime)
	nP = GP.Element().Add(nP, rhs)

	return nP.IsIdentity(), nil
}

func hashIP(g, h []group.Element, P group.Element, c *big.Int, n int64, GP group.Group) (*big.Int, error) {
	x, _, err := HashBP(P, GP.Element().Scale(P, c))
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		xi, _, err := HashBP(g[i], h[i])
		if err != nil {
			return nil, err
		}
		x = new(big.Int).Mod(new(big.Int).Add(x, xi), GP.N())
	}
	return x, nil
}

func vectorScalarExp(a []group.Element, b *big.Int, GP group.Group) []group.Element {
	result := make([]group.Element, len(a))
	for i := range a {
		result[i] = GP.Element().Scale(a[i], b)
	}
	return result
}
