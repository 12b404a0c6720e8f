package bulletproofs

import (
	"math"
	"math/big"
	"testing"

	"github.com/cpsnarks/rsa-set-membership/group"
)

func setupRange(t *testing.T, rangeEnd int64) BulletProofSetupParams {
	t.Helper()
	params, err := Setup(rangeEnd, group.SecP256k1())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return params
}

func TestXYWithinRange(t *testing.T) {
	rangeEnd := int64(math.Pow(2, 8))
	x := new(big.Int).SetInt64(3)
	y := new(big.Int).SetInt64(15)

	vals := []*big.Int{x, y}

	params := setupRange(t, rangeEnd)
	if proveAndVerifyRanges(vals, params) != true {
		t.Errorf("x within range should verify successfully")
	}
}

func proveAndVerifyRanges(vals []*big.Int, params BulletProofSetupParams) bool {
	proof, _, _ := MultiProve(vals, params)
	ok, _ := proof.Verify()
	return ok
}
