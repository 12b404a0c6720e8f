package accum_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/accum"
	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
	"github.com/cpsnarks/rsa-set-membership/transcript"
)

const (
	ell     = 32
	lambdaS = 40
	lambdaC = 40
	lAcc    = 96
)

func testModulus(t *testing.T) *big.Int {
	t.Helper()
	p, err := rand.Prime(rand.Reader, 520)
	require.NoError(t, err)
	q, err := rand.Prime(rand.Reader, 520)
	require.NoError(t, err)
	return new(big.Int).Mul(p, q)
}

func testIntParams(t *testing.T) *intcommit.Params {
	t.Helper()
	rp, err := rsagroup.NewParams(testModulus(t))
	require.NoError(t, err)
	return intcommit.NewParams(rp)
}

func TestRootCompleteness(t *testing.T) {
	intp := testIntParams(t)
	grp := intp.Grp
	params := accum.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp}

	x := big.NewInt(1_000_003)
	r, err := intp.SampleBlinder(rand.Reader, lambdaS)
	require.NoError(t, err)
	cInt := intp.Commit(x, r)

	// Build an accumulator directly: a = g^(x * 15) so w = g^15 satisfies w^x = a.
	rest := big.NewInt(15)
	w := grp.Element().BaseScale(rest)
	a := grp.Element().Scale(w, x)

	stmt := accum.RootStatement{A: a, CInt: cInt}
	witness := accum.RootWitness{X: x, R: r, W: w}

	tr := transcript.New("test/root")
	proof, err := accum.ProveRoot(rand.Reader, tr, params, stmt, witness)
	require.NoError(t, err)

	trV := transcript.New("test/root")
	require.True(t, accum.VerifyRoot(trV, params, stmt, proof))
}

func TestRootRejectsBadWitness(t *testing.T) {
	intp := testIntParams(t)
	grp := intp.Grp
	params := accum.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp}

	x := big.NewInt(1_000_003)
	r, err := intp.SampleBlinder(rand.Reader, lambdaS)
	require.NoError(t, err)
	cInt := intp.Commit(x, r)

	// w does not satisfy w^x = a for this a.
	w := grp.Element().BaseScale(big.NewInt(7))
	a := grp.Element().BaseScale(big.NewInt(999))

	tr := transcript.New("test/root")
	_, err = accum.ProveRoot(rand.Reader, tr, params, accum.RootStatement{A: a, CInt: cInt}, accum.RootWitness{X: x, R: r, W: w})
	require.Error(t, err)
}

func TestCoprimeCompleteness(t *testing.T) {
	intp := testIntParams(t)
	grp := intp.Grp
	params := accum.CoprimeParams{Params: accum.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp}, LAcc: lAcc}

	g := grp.Generator()
	product := big.NewInt(3 * 5 * 7)
	x := big.NewInt(101) // coprime to product

	gcd := new(big.Int)
	bezA := new(big.Int)
	bezB := new(big.Int)
	gcd.GCD(bezA, bezB, x, product)
	require.Equal(t, 0, gcd.Cmp(big.NewInt(1)))

	a := grp.Element().BaseScale(product)
	w := grp.Element().BaseScale(bezA)

	r, err := intp.SampleBlinder(rand.Reader, lambdaS)
	require.NoError(t, err)
	cInt := intp.Commit(x, r)

	stmt := accum.CoprimeStatement{A: a, CInt: cInt, G: g}
	witness := accum.CoprimeWitness{X: x, R: r, W: w, B: bezB}

	tr := transcript.New("test/coprime")
	proof, err := accum.ProveCoprime(rand.Reader, tr, params, stmt, witness)
	require.NoError(t, err)

	trV := transcript.New("test/coprime")
	require.True(t, accum.VerifyCoprime(trV, params, stmt, proof))
}

func TestCoprimeRejectsBadWitness(t *testing.T) {
	intp := testIntParams(t)
	grp := intp.Grp
	params := accum.CoprimeParams{Params: accum.Params{Ell: ell, LambdaS: lambdaS, LambdaC: lambdaC, Int: intp}, LAcc: lAcc}

	g := grp.Generator()
	x := big.NewInt(101)
	r, err := intp.SampleBlinder(rand.Reader, lambdaS)
	require.NoError(t, err)
	cInt := intp.Commit(x, r)

	a := grp.Element().BaseScale(big.NewInt(3 * 5 * 7))
	w := grp.Element().BaseScale(big.NewInt(2)) // wrong Bezout witness
	b := big.NewInt(1)

	tr := transcript.New("test/coprime")
	_, err = accum.ProveCoprime(rand.Reader, tr, params, accum.CoprimeStatement{A: a, CInt: cInt, G: g}, accum.CoprimeWitness{X: x, R: r, W: w, B: b})
	require.Error(t, err)
}
