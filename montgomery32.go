package modn

import "math/bits"

// Montgomery32 is the R = 2^32 engine for moduli that fit in 32 bits. The
// double-width REDC input is a plain uint64.
type Montgomery32 struct {
	n    uint32
	nInv uint32 // -n^-1 mod 2^32
	r2   uint32 // 2^64 mod n
}

// Residue32 is a value in Montgomery form for a Montgomery32.
type Residue32 struct {
	v uint32
}

// NewMontgomery32 precomputes the reduction constants for the modulus n.
func NewMontgomery32(n uint32) (*Montgomery32, error) {
	if err := checkMontgomeryModulus(uint64(n)); err != nil {
		return nil, err
	}
	return &Montgomery32{
		n:    n,
		nInv: negInverse32(n),
		r2:   rSquared32(n),
	}, nil
}

// MustMontgomery32 is like NewMontgomery32 but panics on an invalid modulus.
func MustMontgomery32(n uint32) *Montgomery32 {
	m, err := NewMontgomery32(n)
	if err != nil {
		panic(err)
	}
	return m
}

// 3, 6, 12, 24, 48 correct bits
func negInverse32(n uint32) uint32 {
	x := n
	for i := 0; i < 4; i++ {
		x *= 2 - n*x
	}
	return -x
}

func rSquared32(n uint32) uint32 {
	if n == 1 {
		return 0
	}
	// 2r < 2^33 fits a uint64, no carry tracking needed
	r, mod := uint64(1), uint64(n)
	for i := 0; i < 64; i++ {
		r <<= 1
		if r >= mod {
			r -= mod
		}
	}
	return uint32(r)
}

// reduce is REDC for t < n*2^32. t + q*n can exceed 64 bits when n > 2^31.
func (m *Montgomery32) reduce(t uint64) uint32 {
	q := uint32(t) * m.nInv
	s, carry := bits.Add64(t, uint64(q)*uint64(m.n), 0)
	r := s>>32 | carry<<32
	if r >= uint64(m.n) {
		r -= uint64(m.n)
	}
	return uint32(r)
}

// Modulus returns n.
func (m *Montgomery32) Modulus() uint32 {
	return m.n
}

// ToMontgomery converts x, which may be >= n, into Montgomery form.
func (m *Montgomery32) ToMontgomery(x uint32) Residue32 {
	return Residue32{m.reduce(uint64(x) * uint64(m.r2))}
}

// FromMontgomery converts r back to a plain value in [0, n).
func (m *Montgomery32) FromMontgomery(r Residue32) uint32 {
	return m.reduce(uint64(r.v))
}

// One returns R mod n.
func (m *Montgomery32) One() Residue32 {
	return m.ToMontgomery(1)
}

func (m *Montgomery32) Mul(a, b Residue32) Residue32 {
	return Residue32{m.reduce(uint64(a.v) * uint64(b.v))}
}

func (m *Montgomery32) Square(a Residue32) Residue32 {
	return m.Mul(a, a)
}

func (m *Montgomery32) Add(a, b Residue32) Residue32 {
	s := uint64(a.v) + uint64(b.v)
	if s >= uint64(m.n) {
		s -= uint64(m.n)
	}
	return Residue32{uint32(s)}
}

func (m *Montgomery32) Sub(a, b Residue32) Residue32 {
	d := a.v - b.v
	if a.v < b.v {
		d += m.n
	}
	return Residue32{d}
}

// Exp returns x^e in Montgomery form.
func (m *Montgomery32) Exp(x Residue32, e uint64) Residue32 {
	acc := m.One()
	for e > 0 {
		if e&1 == 1 {
			acc = m.Mul(acc, x)
		}
		e >>= 1
		if e > 0 {
			x = m.Square(x)
		}
	}
	return acc
}

// PowMod returns base^exp mod n. The exponent is 64 bits wide.
func (m *Montgomery32) PowMod(base uint32, exp uint64) uint32 {
	return m.FromMontgomery(m.Exp(m.ToMontgomery(base), exp))
}

// MulMod returns a*b mod n.
func (m *Montgomery32) MulMod(a, b uint32) uint32 {
	return m.reduce(uint64(m.ToMontgomery(a).v) * uint64(b))
}

// MulPowMod returns a * base^exp mod n.
func (m *Montgomery32) MulPowMod(a, base uint32, exp uint64) uint32 {
	p := m.Exp(m.ToMontgomery(base), exp)
	return m.reduce(uint64(p.v) * uint64(a))
}
