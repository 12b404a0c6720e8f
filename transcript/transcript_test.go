package transcript_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/transcript"
)

func TestChallengeIntDeterministic(t *testing.T) {
	t1 := transcript.New("test")
	t1.AppendMessage("msg", []byte("hello"))
	c1 := t1.ChallengeInt("c", 128)

	t2 := transcript.New("test")
	t2.AppendMessage("msg", []byte("hello"))
	c2 := t2.ChallengeInt("c", 128)

	require.Equal(t, 0, c1.Cmp(c2))
	require.True(t, c1.BitLen() <= 128)
}

func TestChallengeIntDivergesOnDifferentAbsorptions(t *testing.T) {
	t1 := transcript.New("test")
	t1.AppendMessage("msg", []byte("hello"))
	c1 := t1.ChallengeInt("c", 128)

	t2 := transcript.New("test")
	t2.AppendMessage("msg", []byte("world"))
	c2 := t2.ChallengeInt("c", 128)

	require.NotEqual(t, 0, c1.Cmp(c2))
}

func TestChallengePrimeIsPrime(t *testing.T) {
	tr := transcript.New("test")
	p := tr.ChallengePrime("p", 64)
	require.True(t, p.ProbablyPrime(40))
}

func TestAppendIntBindsSign(t *testing.T) {
	t1 := transcript.New("test")
	t1.AppendInt("x", big.NewInt(5))
	c1 := t1.ChallengeInt("c", 64)

	t2 := transcript.New("test")
	t2.AppendInt("x", big.NewInt(-5))
	c2 := t2.ChallengeInt("c", 64)

	require.NotEqual(t, 0, c1.Cmp(c2))
}

func TestCloneDoesNotAdvanceParent(t *testing.T) {
	tr := transcript.New("test")
	tr.AppendMessage("msg", []byte("a"))

	clone := tr.Clone()
	clone.AppendMessage("extra", []byte("b"))

	c1 := tr.ChallengeInt("c", 64)
	c2 := clone.ChallengeInt("c", 64)
	require.NotEqual(t, 0, c1.Cmp(c2))

	// The parent is unaffected by the clone's extra absorption: a fresh
	// transcript replaying only the parent's own absorptions agrees with it.
	fresh := transcript.New("test")
	fresh.AppendMessage("msg", []byte("a"))
	c3 := fresh.ChallengeInt("c", 64)
	require.Equal(t, 0, c1.Cmp(c3))
}
