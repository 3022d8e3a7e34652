// Package modn provides overflow-safe modular arithmetic over fixed-width
// unsigned integers, and Montgomery engines for repeated multiplication and
// exponentiation under a fixed odd modulus.
//
// The generic functions (AddMod, SubMod, MulMod, PowMod, MulPowMod) accept
// any unsigned type and reduce through a 128-bit intermediate, so they never
// overflow. They divide on every call. When many products are taken against
// the same odd modulus, build a Montgomery64 (or Montgomery32) once and use
// its methods instead; those never divide by the modulus.
package modn

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// mustModulus panics if m is zero
func mustModulus(m uint64) {
	if m == 0 {
		panic(ErrZeroModulus)
	}
}

// AddMod returns (a + b) mod m. The operands need not be reduced.
// It panics with ErrZeroModulus if m is 0.
func AddMod[T constraints.Unsigned](a, b, m T) T {
	return T(addMod64(uint64(a), uint64(b), uint64(m)))
}

// SubMod returns (a - b) mod m as a value in [0, m), also when a < b.
// It panics with ErrZeroModulus if m is 0.
func SubMod[T constraints.Unsigned](a, b, m T) T {
	return T(subMod64(uint64(a), uint64(b), uint64(m)))
}

// MulMod returns (a * b) mod m, computed from the full 128-bit product.
// It panics with ErrZeroModulus if m is 0.
func MulMod[T constraints.Unsigned](a, b, m T) T {
	mustModulus(uint64(m))
	return T(mulMod64(uint64(a), uint64(b), uint64(m)))
}

// PowMod returns base^exp mod m by square-and-multiply. The exponent may be
// of a different (typically wider) unsigned type than the base and modulus.
// PowMod(x, 0, m) is 1 % m, so it is 0 when m is 1.
// It panics with ErrZeroModulus if m is 0.
func PowMod[T, E constraints.Unsigned](base T, exp E, m T) T {
	return T(mulPowMod64(1, uint64(base), uint64(exp), uint64(m)))
}

// MulPowMod returns a * base^exp mod m. It is PowMod with the accumulator
// seeded by a instead of 1.
func MulPowMod[T, E constraints.Unsigned](a, base T, exp E, m T) T {
	return T(mulPowMod64(uint64(a), uint64(base), uint64(exp), uint64(m)))
}

func addMod64(a, b, m uint64) uint64 {
	mustModulus(m)
	a %= m
	b %= m
	// a, b < m, so a single subtraction is enough. On carry the wrapped
	// difference is exactly 2^64 + s - m.
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}
	return s
}

func subMod64(a, b, m uint64) uint64 {
	mustModulus(m)
	a %= m
	b %= m
	d, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		d += m
	}
	return d
}

// mulMod64 expects m != 0. Rem64 accepts a high word >= m.
func mulMod64(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// mulPowMod64 scans exp from the least significant bit, multiplying the
// accumulator by the running square of base on every set bit.
func mulPowMod64(acc, base, exp, m uint64) uint64 {
	mustModulus(m)
	acc %= m
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			acc = mulMod64(acc, base, m)
		}
		exp >>= 1
		if exp > 0 {
			base = mulMod64(base, base, m)
		}
	}
	return acc
}
