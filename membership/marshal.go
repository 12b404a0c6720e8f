// marshal.go implements the canonical proof wire format (§6): a fixed
// concatenation of length-prefixed fields, in the same length-prefixed
// style transcript.Transcript already uses for absorption, so the on-wire
// encoding and the Fiat-Shamir encoding agree on one convention instead of
// inventing a second one.
package membership

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/cpsnarks/rsa-set-membership/accum"
	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/hashtoprime"
	"github.com/cpsnarks/rsa-set-membership/modeq"
)

func putLP(buf *bytes.Buffer, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf.Write(lenBuf[:])
	buf.Write(data)
}

func getLP(r *bytes.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.New("membership: truncated length prefix")
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.New("membership: truncated field")
	}
	return data, nil
}

// putBigInt encodes a sign byte followed by the length-prefixed magnitude,
// matching transcript.AppendInt's sign/magnitude split so that a negative
// Bezout exponent (Coprime's b) round-trips exactly.
func putBigInt(buf *bytes.Buffer, x *big.Int) {
	sign := byte(0)
	if x.Sign() < 0 {
		sign = 1
	}
	buf.WriteByte(sign)
	putLP(buf, new(big.Int).Abs(x).Bytes())
}

func getBigInt(r *bytes.Reader) (*big.Int, error) {
	sign, err := r.ReadByte()
	if err != nil {
		return nil, errors.New("membership: truncated integer sign")
	}
	mag, err := getLP(r)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(mag)
	if sign == 1 {
		v.Neg(v)
	}
	return v, nil
}

func putElement(buf *bytes.Buffer, e group.Element) error {
	b, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	putLP(buf, b)
	return nil
}

func getElement(r *bytes.Reader, fresh group.Element) (group.Element, error) {
	b, err := getLP(r)
	if err != nil {
		return nil, err
	}
	return fresh.SetBytes(b), nil
}

func putHTPProof(buf *bytes.Buffer, p *hashtoprime.Proof) {
	buf.WriteByte(byte(p.Mode))
	switch p.Mode {
	case hashtoprime.RangeOnlyElementIsAlreadyPrime:
		putLP(buf, p.Range.Blob)
	case hashtoprime.RangeAndHashToPrime:
		putBigInt(buf, p.Hash.Nonce)
		putBigInt(buf, p.Hash.Prime)
		putLP(buf, p.Hash.Range.Blob)
	}
}

func getHTPProof(r *bytes.Reader) (*hashtoprime.Proof, error) {
	modeByte, err := r.ReadByte()
	if err != nil {
		return nil, errors.New("membership: truncated htp mode")
	}
	mode := hashtoprime.Mode(modeByte)
	switch mode {
	case hashtoprime.RangeOnlyElementIsAlreadyPrime:
		blob, err := getLP(r)
		if err != nil {
			return nil, err
		}
		return &hashtoprime.Proof{Mode: mode, Range: &hashtoprime.RangeProof{Blob: blob}}, nil
	case hashtoprime.RangeAndHashToPrime:
		nonce, err := getBigInt(r)
		if err != nil {
			return nil, err
		}
		prime, err := getBigInt(r)
		if err != nil {
			return nil, err
		}
		blob, err := getLP(r)
		if err != nil {
			return nil, err
		}
		return &hashtoprime.Proof{Mode: mode, Hash: &hashtoprime.HashProof{Nonce: nonce, Prime: prime, Range: hashtoprime.RangeProof{Blob: blob}}}, nil
	default:
		return nil, errors.New("membership: unknown htp mode tag")
	}
}

func putModeqProof(buf *bytes.Buffer, p *modeq.Proof) error {
	if err := putElement(buf, p.AlphaInt); err != nil {
		return err
	}
	if err := putElement(buf, p.AlphaEC); err != nil {
		return err
	}
	putBigInt(buf, p.Zx)
	putBigInt(buf, p.Zr)
	putBigInt(buf, p.Zs)
	return nil
}

func getModeqProof(r *bytes.Reader, p *Params) (*modeq.Proof, error) {
	alphaInt, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	alphaEC, err := getElement(r, p.EC.Grp.Element())
	if err != nil {
		return nil, err
	}
	zx, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zr, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zs, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	return &modeq.Proof{AlphaInt: alphaInt, AlphaEC: alphaEC, Zx: zx, Zr: zr, Zs: zs}, nil
}

func putRootProof(buf *bytes.Buffer, p *accum.RootProof) error {
	for _, e := range []group.Element{p.CW, p.AlphaInt, p.D3} {
		if err := putElement(buf, e); err != nil {
			return err
		}
	}
	putBigInt(buf, p.Zx)
	putBigInt(buf, p.Zr)
	putBigInt(buf, p.Zy)
	return nil
}

func getRootProof(r *bytes.Reader, p *Params) (*accum.RootProof, error) {
	cw, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	alphaInt, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	d3, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	zx, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zr, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zy, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	return &accum.RootProof{CW: cw, AlphaInt: alphaInt, D3: d3, Zx: zx, Zr: zr, Zy: zy}, nil
}

func putCoprimeProof(buf *bytes.Buffer, p *accum.CoprimeProof) error {
	for _, e := range []group.Element{p.CW, p.AlphaInt, p.D3} {
		if err := putElement(buf, e); err != nil {
			return err
		}
	}
	putBigInt(buf, p.Zx)
	putBigInt(buf, p.Zr)
	putBigInt(buf, p.Zb)
	putBigInt(buf, p.Zy)
	return nil
}

func getCoprimeProof(r *bytes.Reader, p *Params) (*accum.CoprimeProof, error) {
	cw, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	alphaInt, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	d3, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	zx, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zr, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zb, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	zy, err := getBigInt(r)
	if err != nil {
		return nil, err
	}
	return &accum.CoprimeProof{CW: cw, AlphaInt: alphaInt, D3: d3, Zx: zx, Zr: zr, Zb: zb, Zy: zy}, nil
}

// MarshalProof encodes a CPMemRSA proof per §6: C_int, then length-prefixed
// π_htp, π_modeq, π_root.
func MarshalProof(proof *Proof) ([]byte, error) {
	var buf bytes.Buffer
	if err := putElement(&buf, proof.CInt); err != nil {
		return nil, err
	}
	putHTPProof(&buf, proof.HTP)
	if err := putModeqProof(&buf, proof.Modeq); err != nil {
		return nil, err
	}
	if err := putRootProof(&buf, proof.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalProof decodes a CPMemRSA proof produced by MarshalProof. p must
// be the same Params the proof was produced under, since group elements
// cannot be reconstructed without knowing which group they belong to.
func UnmarshalProof(p *Params, data []byte) (*Proof, error) {
	r := bytes.NewReader(data)
	cInt, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	htp, err := getHTPProof(r)
	if err != nil {
		return nil, err
	}
	meq, err := getModeqProof(r, p)
	if err != nil {
		return nil, err
	}
	root, err := getRootProof(r, p)
	if err != nil {
		return nil, err
	}
	return &Proof{CInt: cInt, HTP: htp, Modeq: meq, Root: root}, nil
}

// MarshalNonMembershipProof encodes a CPNonMemRSA proof per §6.
func MarshalNonMembershipProof(proof *NonMembershipProof) ([]byte, error) {
	var buf bytes.Buffer
	if err := putElement(&buf, proof.CInt); err != nil {
		return nil, err
	}
	putHTPProof(&buf, proof.HTP)
	if err := putModeqProof(&buf, proof.Modeq); err != nil {
		return nil, err
	}
	if err := putCoprimeProof(&buf, proof.Coprime); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalNonMembershipProof decodes a CPNonMemRSA proof produced by
// MarshalNonMembershipProof.
func UnmarshalNonMembershipProof(p *Params, data []byte) (*NonMembershipProof, error) {
	r := bytes.NewReader(data)
	cInt, err := getElement(r, p.Int.Grp.Element())
	if err != nil {
		return nil, err
	}
	htp, err := getHTPProof(r)
	if err != nil {
		return nil, err
	}
	meq, err := getModeqProof(r, p)
	if err != nil {
		return nil, err
	}
	coprime, err := getCoprimeProof(r, p)
	if err != nil {
		return nil, err
	}
	return &NonMembershipProof{CInt: cInt, HTP: htp, Modeq: meq, Coprime: coprime}, nil
}
