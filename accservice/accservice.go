// Package accservice is a thin in-memory stand-in for the RSA accumulator
// maintenance collaborator (AccumulatorService): the real service that owns
// add/delete and persists A across epochs is out of scope here, the way the
// external interfaces section describes AccumulatorService as "pre-existing
// ... consumed only". This package exists so tests and examples have
// something concrete to prove membership/non-membership statements against,
// grounded on the same rsagroup element algebra the Root and Coprime
// subprotocols already use.
package accservice

import (
	"errors"
	"math/big"
	"sync"

	"github.com/cpsnarks/rsa-set-membership/group"
	"github.com/cpsnarks/rsa-set-membership/rsagroup"
)

// Service maintains A = g^(product of accumulated elements) mod N over a
// fixed modulus, and answers membership/non-membership witness queries for
// it. The mutex serializes Add against witness queries so a query always
// sees a consistent product; this mirrors the accumulator's mutable state
// being owned by one collaborator, scoped down to a single process.
type Service struct {
	mu      sync.RWMutex
	grp     group.Group
	g       group.Element
	n       *big.Int
	product *big.Int // product of all accumulated elements, tracked in the clear
	members map[string]*big.Int
}

// New builds a Service over the hidden-order group derived from N, seeded
// with an empty accumulator (A = g).
func New(N *big.Int) (*Service, error) {
	params, err := rsagroup.NewParams(N)
	if err != nil {
		return nil, err
	}
	grp := params.Group()
	return &Service{
		grp:     grp,
		g:       grp.Generator(),
		n:       N,
		product: big.NewInt(1),
		members: make(map[string]*big.Int),
	}, nil
}

func (s *Service) valueLocked() group.Element {
	return s.grp.Element().BaseScale(s.product)
}

// Value returns the current accumulator value A.
func (s *Service) Value() *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return elementToBigInt(s.valueLocked())
}

// ValueElement returns the current accumulator value as a group.Element,
// for callers (e.g. membership.CPMemRSA) that work directly in rsagroup
// rather than round-tripping through big.Int encoding.
func (s *Service) ValueElement() group.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueLocked()
}

func elementToBigInt(e group.Element) *big.Int {
	b, err := e.MarshalBinary()
	if err != nil {
		panic("accservice: element failed to marshal: " + err.Error())
	}
	return new(big.Int).SetBytes(b)
}

// Add accumulates a prime x into the set, provided it is not already a
// member. Elements are required to be prime (and coprime to N, which
// ProbablyPrime combined with a non-trivial modulus guarantees with
// overwhelming probability) because membership witnesses here use the
// classical product-of-primes accumulator construction.
func (s *Service) Add(x *big.Int) error {
	if !x.ProbablyPrime(40) {
		return errors.New("accservice: element must be prime")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := x.String()
	if _, ok := s.members[key]; ok {
		return nil
	}
	s.members[key] = new(big.Int).Set(x)
	s.product.Mul(s.product, x)
	return nil
}

// MembershipWitness returns w = g^(product / x) mod N for an accumulated x,
// satisfying w^x = A -- the Root subprotocol's witness relation.
func (s *Service) MembershipWitness(x *big.Int) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.members[x.String()]; !ok {
		return nil, errors.New("accservice: element is not a member")
	}

	rest := big.NewInt(1)
	for _, m := range s.members {
		if m.Cmp(x) == 0 {
			continue
		}
		rest.Mul(rest, m)
	}

	w := s.grp.Element().BaseScale(rest)
	return elementToBigInt(w), nil
}

// MembershipWitnessElement is MembershipWitness returning a group.Element
// directly, avoiding a round trip through big.Int encoding for callers
// already working in rsagroup.
func (s *Service) MembershipWitnessElement(x *big.Int) (group.Element, error) {
	raw, err := s.MembershipWitness(x)
	if err != nil {
		return nil, err
	}
	return s.grp.Element().SetBytes(raw.Bytes()), nil
}

// NonMembershipWitness returns the Bezout witness (w, a, b) for an x not
// currently accumulated: given gcd(x, product) = 1, extended Euclid yields
// integers (a, b) with a*x + b*product = 1, so g = (g^a)^x * A^b; w := g^a
// satisfies the Coprime subprotocol's relation w^x * A^b = g.
func (s *Service) NonMembershipWitness(x *big.Int) (w, a, b *big.Int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.members[x.String()]; ok {
		return nil, nil, nil, errors.New("accservice: element is already a member")
	}

	gcd := new(big.Int)
	bez := new(big.Int)
	aOut := new(big.Int)
	gcd.GCD(aOut, bez, x, s.product)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, nil, nil, errors.New("accservice: element is not coprime to the accumulated product")
	}

	wElem := s.grp.Element().BaseScale(aOut)
	return elementToBigInt(wElem), aOut, bez, nil
}

// NonMembershipWitnessElement is NonMembershipWitness returning w as a
// group.Element directly.
func (s *Service) NonMembershipWitnessElement(x *big.Int) (w group.Element, a, b *big.Int, err error) {
	raw, a, b, err := s.NonMembershipWitness(x)
	if err != nil {
		return nil, nil, nil, err
	}
	return s.grp.Element().SetBytes(raw.Bytes()), a, b, nil
}
