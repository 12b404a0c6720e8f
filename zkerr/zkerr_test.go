package zkerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	cause := errors.New("boom")
	err := zkerr.New(zkerr.RngFailure, "pkg.Op", cause)

	require.True(t, zkerr.Is(err, zkerr.RngFailure))
	require.False(t, zkerr.Is(err, zkerr.BackendFailure))
}

func TestIsFalseForPlainError(t *testing.T) {
	require.False(t, zkerr.Is(errors.New("plain"), zkerr.InvalidWitness))
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := zkerr.New(zkerr.VerificationFailed, "pkg.Op", cause)

	require.Equal(t, cause, errors.Unwrap(err))
	require.ErrorIs(t, err, cause)
}

func TestErrorMessageIncludesOpAndKind(t *testing.T) {
	err := zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", nil)
	require.Equal(t, "membership.DeserializeParams: invalid_parameter", err.Error())
}

func TestErrorMessageIncludesWrappedCause(t *testing.T) {
	cause := errors.New("modulus too small")
	err := zkerr.New(zkerr.InvalidParameter, "rsagroup.NewParams", cause)
	require.Equal(t, "rsagroup.NewParams: invalid_parameter: modulus too small", err.Error())
}
