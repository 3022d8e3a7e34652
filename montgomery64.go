package modn

import "math/bits"

// Montgomery64 performs modular multiplication and exponentiation under a
// fixed odd modulus n using Montgomery reduction with R = 2^64.
//
// All fields are fixed at construction, so a Montgomery64 is safe for
// concurrent use by multiple goroutines.
type Montgomery64 struct {
	n    uint64 // odd modulus
	nInv uint64 // n * nInv = -1 mod 2^64
	r2   uint64 // 2^128 mod n
}

// Residue64 is a value in Montgomery form, x*R mod n, for the Montgomery64
// that produced it. The zero value is the Montgomery form of 0.
//
// A Residue64 only has meaning relative to its engine: mixing residues from
// engines with different moduli gives meaningless results.
type Residue64 struct {
	v uint64
}

// NewMontgomery64 precomputes the reduction constants for the modulus n.
// It returns ErrZeroModulus or ErrEvenModulus if n is not odd.
func NewMontgomery64(n uint64) (*Montgomery64, error) {
	if err := checkMontgomeryModulus(n); err != nil {
		return nil, err
	}
	return &Montgomery64{
		n:    n,
		nInv: negInverse64(n),
		r2:   rSquared64(n),
	}, nil
}

// MustMontgomery64 is like NewMontgomery64 but panics on an invalid modulus.
func MustMontgomery64(n uint64) *Montgomery64 {
	m, err := NewMontgomery64(n)
	if err != nil {
		panic(err)
	}
	return m
}

// negInverse64 returns -n^-1 mod 2^64 for odd n.
//
// Newton's iteration x' = x*(2 - n*x) doubles the number of correct low
// bits. The seed x = n is already correct to 3 bits, since n*n = 1 mod 8 for
// every odd n, so five steps reach 96 >= 64 bits.
func negInverse64(n uint64) uint64 {
	x := n
	for i := 0; i < 5; i++ {
		x *= 2 - n*x
	}
	return -x
}

// rSquared64 returns 2^128 mod n by doubling 1 modulo n 128 times.
func rSquared64(n uint64) uint64 {
	if n == 1 {
		return 0
	}
	r := uint64(1)
	for i := 0; i < 128; i++ {
		s, carry := bits.Add64(r, r, 0)
		if carry != 0 || s >= n {
			s -= n
		}
		r = s
	}
	return r
}

// reduce is REDC: for hi:lo < n*2^64 it returns hi:lo * 2^-64 mod n.
//
// q = lo*nInv mod 2^64 makes hi:lo + q*n divisible by 2^64. The quotient is
// below 2n but may need 65 bits when n > 2^63, so the top carry joins the
// final conditional subtraction.
func (m *Montgomery64) reduce(hi, lo uint64) uint64 {
	q := lo * m.nInv
	qnHi, qnLo := bits.Mul64(q, m.n)
	_, c := bits.Add64(lo, qnLo, 0)
	t, c := bits.Add64(hi, qnHi, c)
	if c != 0 || t >= m.n {
		t -= m.n
	}
	return t
}

// Modulus returns n.
func (m *Montgomery64) Modulus() uint64 {
	return m.n
}

// ToMontgomery converts x into Montgomery form. x may be >= n: since
// x*r2 < 2^64*n for any x, REDC reduces it without a division.
func (m *Montgomery64) ToMontgomery(x uint64) Residue64 {
	return Residue64{m.reduce(bits.Mul64(x, m.r2))}
}

// FromMontgomery converts r back to a plain value in [0, n).
func (m *Montgomery64) FromMontgomery(r Residue64) uint64 {
	return m.reduce(0, r.v)
}

// One returns the Montgomery form of 1, which is R mod n.
func (m *Montgomery64) One() Residue64 {
	return m.ToMontgomery(1)
}

// Mul returns the Montgomery form of the product of a and b.
func (m *Montgomery64) Mul(a, b Residue64) Residue64 {
	return Residue64{m.reduce(bits.Mul64(a.v, b.v))}
}

// Square returns a*a in Montgomery form.
func (m *Montgomery64) Square(a Residue64) Residue64 {
	return m.Mul(a, a)
}

// Add returns a+b. Montgomery form is linear, so residues add like plain values.
func (m *Montgomery64) Add(a, b Residue64) Residue64 {
	s, carry := bits.Add64(a.v, b.v, 0)
	if carry != 0 || s >= m.n {
		s -= m.n
	}
	return Residue64{s}
}

// Sub returns a-b.
func (m *Montgomery64) Sub(a, b Residue64) Residue64 {
	d, borrow := bits.Sub64(a.v, b.v, 0)
	if borrow != 0 {
		d += m.n
	}
	return Residue64{d}
}

// Exp returns x^e in Montgomery form.
func (m *Montgomery64) Exp(x Residue64, e uint64) Residue64 {
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

// PowMod returns base^exp mod n. base may be >= n. PowMod(x, 0) is 1 % n.
func (m *Montgomery64) PowMod(base, exp uint64) uint64 {
	return m.FromMontgomery(m.Exp(m.ToMontgomery(base), exp))
}

// MulMod returns a*b mod n.
func (m *Montgomery64) MulMod(a, b uint64) uint64 {
	// aR * b < n*2^64 for any b, and REDC strips the R.
	return m.reduce(bits.Mul64(m.ToMontgomery(a).v, b))
}

// MulPowMod returns a * base^exp mod n.
func (m *Montgomery64) MulPowMod(a, base, exp uint64) uint64 {
	p := m.Exp(m.ToMontgomery(base), exp)
	return m.reduce(bits.Mul64(p.v, a))
}
