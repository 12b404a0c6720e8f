package eccommit_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/eccommit"
	"github.com/cpsnarks/rsa-set-membership/group"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	params := eccommit.NewParams(group.Ristretto255())

	x := big.NewInt(42)
	s, err := params.SampleBlinder(rand.Reader)
	require.NoError(t, err)

	c := params.Commit(x, s)
	require.True(t, params.Open(c, x, s))
}

func TestOpenRejectsWrongOpening(t *testing.T) {
	params := eccommit.NewParams(group.Ristretto255())

	x := big.NewInt(42)
	s, err := params.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	c := params.Commit(x, s)

	require.False(t, params.Open(c, big.NewInt(43), s))
}

func TestDistinctBlindersYieldDistinctCommitments(t *testing.T) {
	params := eccommit.NewParams(group.Ristretto255())

	x := big.NewInt(7)
	s1, err := params.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	s2, err := params.SampleBlinder(rand.Reader)
	require.NoError(t, err)

	c1 := params.Commit(x, s1)
	c2 := params.Commit(x, s2)
	require.False(t, c1.IsEqual(c2))
}
