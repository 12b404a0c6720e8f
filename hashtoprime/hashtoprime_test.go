package hashtoprime_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/eccommit"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/snarkstub"
	"github.com/cpsnarks/rsa-set-membership/transcript"
)

const ell = 32

func testECParams(t *testing.T) *eccommit.Params {
	t.Helper()
	return eccommit.NewParams(group.Ristretto255())
}

func TestBPRangeBackendCompleteness(t *testing.T) {
	ecp := testECParams(t)
	backend := hashtoprime.NewBPRangeBackend(ecp.Grp, ecp.H)

	x := big.NewInt(12345)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/bp_range")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)
	require.Equal(t, hashtoprime.RangeOnlyElementIsAlreadyPrime, proof.Mode)

	trV := transcript.New("test/bp_range")
	require.True(t, backend.Verify(trV, ell, cEC, proof))
}

func TestBPRangeBackendRejectsMismatchedCommitment(t *testing.T) {
	ecp := testECParams(t)
	backend := hashtoprime.NewBPRangeBackend(ecp.Grp, ecp.H)

	x := big.NewInt(12345)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/bp_range")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)

	otherS, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	wrongCEC := ecp.Commit(big.NewInt(999), otherS)

	trV := transcript.New("test/bp_range")
	require.False(t, backend.Verify(trV, ell, wrongCEC, proof))
}

func TestSNARKRangeBackendCompleteness(t *testing.T) {
	ecp := testECParams(t)
	stub := snarkstub.New()
	backend := hashtoprime.NewSNARKRangeBackend(stub)

	x := big.NewInt(42)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/snark_range")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)

	trV := transcript.New("test/snark_range")
	require.True(t, backend.Verify(trV, ell, cEC, proof))
}

func TestSNARKRangeBackendRejectsTamperedBlob(t *testing.T) {
	ecp := testECParams(t)
	stub := snarkstub.New()
	backend := hashtoprime.NewSNARKRangeBackend(stub)

	x := big.NewInt(42)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/snark_range")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)

	proof.Range.Blob[0] ^= 0xFF

	trV := transcript.New("test/snark_range")
	require.False(t, backend.Verify(trV, ell, cEC, proof))
}

func TestSNARKHashBackendCompleteness(t *testing.T) {
	ecp := testECParams(t)
	stub := snarkstub.New()
	backend := hashtoprime.NewSNARKHashBackend(stub)

	x := big.NewInt(2024)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/snark_hash")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)
	require.Equal(t, hashtoprime.RangeAndHashToPrime, proof.Mode)
	require.True(t, proof.Hash.Prime.ProbablyPrime(40))

	trV := transcript.New("test/snark_hash")
	require.True(t, backend.Verify(trV, ell, cEC, proof))
}

func TestSNARKHashBackendRejectsNonPrimeClaim(t *testing.T) {
	ecp := testECParams(t)
	stub := snarkstub.New()
	backend := hashtoprime.NewSNARKHashBackend(stub)

	x := big.NewInt(2024)
	s, err := ecp.SampleBlinder(rand.Reader)
	require.NoError(t, err)
	cEC := ecp.Commit(x, s)

	tr := transcript.New("test/snark_hash")
	proof, err := backend.Prove(rand.Reader, tr, ell, x, s, cEC)
	require.NoError(t, err)

	// Substitute an even (non-prime) value for the claimed prime.
	tampered := new(big.Int).Add(proof.Hash.Prime, big.NewInt(1))
	proof.Hash.Prime = tampered

	trV := transcript.New("test/snark_hash")
	require.False(t, backend.Verify(trV, ell, cEC, proof))
}

func TestHashToPrimeDeterministic(t *testing.T) {
	x := big.NewInt(777)
	y1, n1, err := hashtoprime.HashToPrime(x, ell)
	require.NoError(t, err)
	y2, n2, err := hashtoprime.HashToPrime(x, ell)
	require.NoError(t, err)
	require.Equal(t, 0, y1.Cmp(y2))
	require.Equal(t, n1, n2)
	require.True(t, y1.ProbablyPrime(40))
}
