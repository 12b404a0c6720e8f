// Package rsagroup implements the hidden-order RSA group Z_N* / {±1} that
// backs the Integer-Commit (C2), Root (C5), and Coprime (C6) subprotocols.
//
// It follows the shape of group.ModPGroup (group/modsafeprime.go): the same
// multiplicative-group-mod-a-modulus element algebra, generalized from a
// safe prime p (public, known order (p-1)/2) to a composite RSA modulus N
// whose order is unknown to every party once the trusted setup discards the
// factorization. Every element is canonicalized to its representative in
// [1, N/2] on construction, which is how this package enforces "stay inside
// the quadratic-residue subgroup" (§3 invariant, §9 design note) without
// ever needing to test quadratic residuosity directly: squaring a random
// unit already lands in QR_N, and min(x, N-x) collapses the {±1} quotient.
package rsagroup

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"

	"golang.org/x/crypto/blake2s"

	"github.com/cpsnarks/rsa-set-membership/group"
)

// Params is the hidden-order group Z_N* / {±1}.
type Params struct {
	N   *big.Int // RSA modulus; its factorization is not retained anywhere.
	gen *big.Int // a canonical generator of the QR subgroup, used by BaseScale.
}

// RSAGroup is the group.Group implementation over Params.
type RSAGroup struct {
	p *Params
}

// RSAElement is a canonical representative in [1, N/2] of a class in
// Z_N* / {±1}.
type RSAElement struct {
	g   *RSAGroup
	val *big.Int
}

var _ group.Group = (*RSAGroup)(nil)
var _ group.Element = (*RSAElement)(nil)

// canonical reduces x mod N and then folds it into [1, N/2] to quotient by
// {±1}, matching spec §4.2's "reduced to |.|" rule.
func canonical(x, N *big.Int) *big.Int {
	c := new(big.Int).Mod(x, N)
	if c.Sign() == 0 {
		// N shares a factor with x; should never happen for a well-formed
		// RSA modulus and a unit input, but fall back to N itself rather
		// than returning the additive identity of Z_N, which is not a unit.
		return c.Set(N)
	}
	half := new(big.Int).Rsh(new(big.Int).Set(N), 1)
	neg := new(big.Int).Sub(N, c)
	if neg.Cmp(c) < 0 {
		return neg
	}
	_ = half
	return c
}

// hashToUnit derives a deterministic element of Z_N* from a label, by
// hashing with blake2s (matching the paper's hash-to-prime primitive,
// reused here for hash-to-group so the whole module leans on one hash)
// and retrying on collision with a multiple of N, which has negligible
// probability for a cryptographic N.
func hashToUnit(N *big.Int, label string) *big.Int {
	counter := 0
	for {
		h, _ := blake2s.New256(nil)
		h.Write([]byte("rsagroup/hash-to-unit/"))
		h.Write([]byte(label))
		var ctr [4]byte
		ctr[0] = byte(counter)
		ctr[1] = byte(counter >> 8)
		h.Write(ctr[:])
		sum := h.Sum(nil)

		// Expand to a value comfortably larger than N before reducing, so
		// the reduction is close to uniform over Z_N.
		buf := make([]byte, 0, 4*len(sum))
		for i := 0; i < 4; i++ {
			h2, _ := blake2s.New256(nil)
			h2.Write(sum)
			h2.Write([]byte{byte(i)})
			buf = append(buf, h2.Sum(nil)...)
		}
		cand := new(big.Int).SetBytes(buf)
		cand.Mod(cand, N)
		if cand.Sign() != 0 && new(big.Int).GCD(nil, nil, cand, N).Cmp(big.NewInt(1)) == 0 {
			return cand
		}
		counter++
	}
}

// DeriveGenerator derives a quadratic-residue generator from label by
// squaring a hash-derived unit, so that no party (including the deriver)
// learns its discrete log relative to any other derived generator. This is
// the RSA-group analogue of bulletproofs.Setup's use of p256.MapToGroup
// with a fixed seed string to obtain generators with unknown relative
// discrete logs.
func DeriveGenerator(N *big.Int, label string) *big.Int {
	u := hashToUnit(N, label)
	sq := new(big.Int).Exp(u, big.NewInt(2), N)
	return canonical(sq, N)
}

// NewParams builds the group parameters for modulus N, deriving the
// generator g from the label "rsagroup/g". h (the Integer-Commit blinding
// base) is derived separately by the caller via DeriveGenerator, mirroring
// the paper's requirement that log_g(h) be unknown to every party,
// including whichever party ran setup.
func NewParams(N *big.Int) (*Params, error) {
	if N == nil || N.Sign() <= 0 || N.BitLen() < 1024 {
		return nil, errors.New("rsagroup: modulus too small or nil")
	}
	return &Params{N: N, gen: DeriveGenerator(N, "rsagroup/g")}, nil
}

// Group returns the group.Group view over p.
func (p *Params) Group() group.Group {
	return &RSAGroup{p: p}
}

func (g *RSAGroup) Name() string { return "rsagroup/Z_N*/{+-1}" }

func (g *RSAGroup) Element() group.Element {
	return &RSAElement{g: g, val: big.NewInt(1)}
}

func (g *RSAGroup) Generator() group.Element {
	return &RSAElement{g: g, val: new(big.Int).Set(g.p.gen)}
}

func (g *RSAGroup) Identity() group.Element {
	return &RSAElement{g: g, val: big.NewInt(1)}
}

// Random samples a uniform exponent in [0, N) and scales the generator by
// it. Because the group's true order is hidden, N itself stands in as an
// upper bound on the exponent space; no subprotocol in this module relies
// on Random for its soundness-critical blinding (those sample from the
// explicit bounds in §4.3-§4.5), so the approximation is safe.
func (g *RSAGroup) Random() group.Element {
	r, _ := rand.Int(rand.Reader, g.p.N)
	e := g.Generator()
	return e.Scale(e, r)
}

func (g *RSAGroup) P() *big.Int { return g.p.N }
func (g *RSAGroup) N() *big.Int { return g.p.N }

func (e *RSAElement) check(x group.Element) *RSAElement {
	ex, ok := x.(*RSAElement)
	if !ok {
		panic("rsagroup: incompatible element type")
	}
	if ex.g.p.N.Cmp(e.g.p.N) != 0 {
		panic("rsagroup: incompatible modulus")
	}
	return ex
}

func (e *RSAElement) Add(x, y group.Element) group.Element {
	ex := e.check(x)
	ey := e.check(y)
	prod := new(big.Int).Mul(ex.val, ey.val)
	e.val = canonical(prod, e.g.p.N)
	return e
}

func (e *RSAElement) Subtract(x, y group.Element) group.Element {
	neg := e.g.Element()
	neg.Negate(y)
	return e.Add(x, neg)
}

func (e *RSAElement) Negate(x group.Element) group.Element {
	ex := e.check(x)
	inv := new(big.Int).ModInverse(ex.val, e.g.p.N)
	e.val = canonical(inv, e.g.p.N)
	return e
}

func (e *RSAElement) Scale(x group.Element, s *big.Int) group.Element {
	ex := e.check(x)
	exp := s
	base := ex.val
	if s.Sign() < 0 {
		base = new(big.Int).ModInverse(ex.val, e.g.p.N)
		exp = new(big.Int).Neg(s)
	}
	e.val = canonical(new(big.Int).Exp(base, exp, e.g.p.N), e.g.p.N)
	return e
}

func (e *RSAElement) BaseScale(s *big.Int) group.Element {
	return e.Scale(e.g.Generator(), s)
}

func (e *RSAElement) Set(x group.Element) group.Element {
	ex := e.check(x)
	e.val = new(big.Int).Set(ex.val)
	return e
}

func (e *RSAElement) SetBytes(b []byte) group.Element {
	e.val = canonical(new(big.Int).SetBytes(b), e.g.p.N)
	return e
}

func (e *RSAElement) MapToGroup(s string) (group.Element, error) {
	e.val = DeriveGenerator(e.g.p.N, s)
	return e, nil
}

func (e *RSAElement) IsEqual(x group.Element) bool {
	ex := e.check(x)
	return e.val.Cmp(ex.val) == 0
}

func (e *RSAElement) IsIdentity() bool {
	return e.val.Cmp(big.NewInt(1)) == 0
}

func (e *RSAElement) GroupOrder() *big.Int { return e.g.p.N }
func (e *RSAElement) FieldOrder() *big.Int { return e.g.p.N }

func (e *RSAElement) String() string { return e.val.String() }

// byteLen is the canonical fixed width (matching N's byte length) used for
// the wire format in §6 ("384 bytes, big-endian, zero-padded").
func (e *RSAElement) byteLen() int {
	return (e.g.p.N.BitLen() + 7) / 8
}

func (e *RSAElement) MarshalBinary() ([]byte, error) {
	raw := e.val.Bytes()
	out := make([]byte, e.byteLen())
	copy(out[len(out)-len(raw):], raw)
	return out, nil
}

func (e *RSAElement) UnmarshalBinary(data []byte) error {
	e.val = canonical(new(big.Int).SetBytes(data), e.g.p.N)
	return nil
}

func (e *RSAElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.val.String())
}

func (e *RSAElement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.New("rsagroup: invalid element JSON")
	}
	e.val = canonical(v, e.g.p.N)
	return nil
}
