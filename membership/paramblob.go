// paramblob.go implements the §6 parameter blob: version tag, N, g, h, the
// EC group identifier byte, and the security parameters as two-byte
// big-endian integers. g and h are re-derived deterministically from N and
// the EC group (rsagroup.DeriveGenerator / MapToGroup) rather than carried
// as independent trusted-setup secrets, so this module's g/h fields are
// redundant with N on the wire; they are still emitted and checked against
// the re-derivation on load, so a tampered blob that swaps in a
// maliciously chosen h is rejected rather than silently accepted.
package membership

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/eccommit"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/intcommit"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
	"github.com/cpsnarks/rsa-set-membership/zkerr"
)

const paramBlobVersion = 1

// CurveTag identifies the EC group backing a serialized Params blob, per
// §6: "BLS12-381 G1 = 0x01, Ristretto255 = 0x02".
type CurveTag byte

const (
	CurveBLS12381     CurveTag = 0x01
	CurveRistretto255 CurveTag = 0x02
)

func put16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func get16(r *bytes.Reader) (int, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errors.New("membership: truncated parameter blob")
	}
	return int(binary.BigEndian.Uint16(b[:])), nil
}

// SerializeParams encodes p's public parameters per §6. tag names the EC
// group p.EC was built over, since group.Group carries no self-describing
// tag of its own.
func SerializeParams(p *Params, tag CurveTag) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(paramBlobVersion)
	putLP(&buf, p.Int.N.Bytes())
	if err := putElement(&buf, p.Int.G); err != nil {
		return nil, err
	}
	if err := putElement(&buf, p.Int.H); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(tag))
	put16(&buf, p.LambdaS)
	put16(&buf, p.LambdaC)
	put16(&buf, p.Ell)
	put16(&buf, p.LAcc)
	return buf.Bytes(), nil
}

// DeserializeParams decodes a blob produced by SerializeParams. ecGroup
// must be the EC group matching the tag the blob declares (the caller picks
// the constructor, e.g. group.BLS12381G1() or group.Ristretto255(), since
// this package does not hardcode a curve registry), and htp is the
// HashToPrime backend to wire into the reconstructed Params, matching
// NewParams's signature.
func DeserializeParams(data []byte, ecGroup group.Group, htp hashtoprime.Backend) (*Params, CurveTag, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil || version != paramBlobVersion {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", errors.New("bad version tag"))
	}

	nBytes, err := getLP(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	n := new(big.Int).SetBytes(nBytes)

	gBytes, err := getLP(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	hBytes, err := getLP(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}

	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	tag := CurveTag(tagByte)

	lambdaS, err := get16(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	lambdaC, err := get16(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	ell, err := get16(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	lAcc, err := get16(r)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}

	rp, err := rsagroup.NewParams(n)
	if err != nil {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", err)
	}
	intParams := intcommit.NewParams(rp)

	// g/h must match the deterministic re-derivation, or the blob was
	// tampered with or produced against a different setup.
	gotG, _ := intParams.G.MarshalBinary()
	gotH, _ := intParams.H.MarshalBinary()
	if !bytes.Equal(gotG, gBytes) || !bytes.Equal(gotH, hBytes) {
		return nil, 0, zkerr.New(zkerr.InvalidParameter, "membership.DeserializeParams", errors.New("g/h do not match re-derivation from N"))
	}

	ecParams := eccommit.NewParams(ecGroup)

	params := &Params{
		Ell:     ell,
		LambdaS: lambdaS,
		LambdaC: lambdaC,
		LAcc:    lAcc,
		Int:     intParams,
		EC:      ecParams,
		G:       intParams.Grp.Generator(),
		HTP:     htp,
	}
	return params, tag, nil
}
