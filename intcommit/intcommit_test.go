package intcommit_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
)

func testParams(t *testing.T) *intcommit.Params {
	t.Helper()
	p, err := rand.Prime(rand.Reader, 520)
	require.NoError(t, err)
	q, err := rand.Prime(rand.Reader, 520)
	require.NoError(t, err)
	n := new(big.Int).Mul(p, q)

	rp, err := rsagroup.NewParams(n)
	require.NoError(t, err)
	return intcommit.NewParams(rp)
}

func TestCommitOpenRoundTrip(t *testing.T) {
	params := testParams(t)

	x := big.NewInt(123456789)
	r, err := params.SampleBlinder(rand.Reader, 40)
	require.NoError(t, err)

	c := params.Commit(x, r)
	require.True(t, params.Open(c, x, r))
}

func TestOpenRejectsWrongOpening(t *testing.T) {
	params := testParams(t)

	x := big.NewInt(123456789)
	r, err := params.SampleBlinder(rand.Reader, 40)
	require.NoError(t, err)
	c := params.Commit(x, r)

	require.False(t, params.Open(c, big.NewInt(987654321), r))
}

func TestBlinderBoundScalesWithLambdaS(t *testing.T) {
	params := testParams(t)

	small := params.BlinderBound(10)
	large := params.BlinderBound(80)
	require.Equal(t, -1, small.Cmp(large))
}
