package modn

import (
	"errors"
	"math/big"
	"testing"

	"modn.mleku.dev/internal/drbg"
)

var moduli32 = []uint32{3, 31, 77, 89, 65521, 1<<31 - 1, 1<<31 + 11, 4294967291, ^uint32(0)}

func TestMontgomery32Small(t *testing.T) {
	testCases := []struct {
		n, base uint32
		exp     uint64
		want    uint32
	}{
		{31, 3, 53, 11},
		{31, 5, 9, 1},
		{77, 6, 12, 36},
		{77, 17, 9, 13},
		{89, 3, 57, 23},
		{57, 5, 42, 7},
		{^uint32(0), ^uint32(0) - 1, ^uint64(0), ^uint32(0) - 1},
	}
	for _, tc := range testCases {
		m := MustMontgomery32(tc.n)
		if got := m.PowMod(tc.base, tc.exp); got != tc.want {
			t.Errorf("mod %d: PowMod(%d, %d) = %d, want %d", tc.n, tc.base, tc.exp, got, tc.want)
		}
	}
}

func TestNewMontgomery32Rejects(t *testing.T) {
	if _, err := NewMontgomery32(0); !errors.Is(err, ErrZeroModulus) {
		t.Errorf("NewMontgomery32(0): got %v, want ErrZeroModulus", err)
	}
	for _, n := range []uint32{2, 88, 1 << 31, ^uint32(0) - 1} {
		if _, err := NewMontgomery32(n); !errors.Is(err, ErrEvenModulus) {
			t.Errorf("NewMontgomery32(%d): got %v, want ErrEvenModulus", n, err)
		}
	}
}

func TestMontgomery32Constants(t *testing.T) {
	r2 := new(big.Int).Lsh(big.NewInt(1), 64)
	for _, n := range append([]uint32{1}, moduli32...) {
		m := MustMontgomery32(n)
		if n*m.nInv != ^uint32(0) {
			t.Errorf("n=%d: n*nInv = %#x, want -1 mod 2^32", n, n*m.nInv)
		}
		if want := new(big.Int).Mod(r2, big.NewInt(int64(n))).Uint64(); uint64(m.r2) != want {
			t.Errorf("n=%d: r2 = %d, want %d", n, m.r2, want)
		}
	}
}

func TestMontgomery32MatchesPowMod(t *testing.T) {
	d := drbg.New([]byte("montgomery32 powmod"))
	for _, n := range moduli32 {
		m := MustMontgomery32(n)
		bases := []uint32{0, 1, n - 1, n, ^uint32(0)}
		exps := []uint64{0, 1, 2, uint64(n), ^uint64(0)}
		for i := 0; i < 20; i++ {
			bases = append(bases, d.Uint32())
			exps = append(exps, d.Uint64())
		}
		for _, base := range bases {
			if got := m.FromMontgomery(m.ToMontgomery(base)); got != base%n {
				t.Fatalf("n=%d: round trip of %d gave %d", n, base, got)
			}
			for _, exp := range exps {
				if got, want := m.PowMod(base, exp), PowMod(base, exp, n); got != want {
					t.Fatalf("n=%d: PowMod(%d, %d) = %d, want %d", n, base, exp, got, want)
				}
			}
		}

		a, b := d.Uint32(), d.Uint32()
		ra, rb := m.ToMontgomery(a), m.ToMontgomery(b)
		if got, want := m.FromMontgomery(m.Add(ra, rb)), AddMod(a, b, n); got != want {
			t.Errorf("n=%d: Add(%d, %d) = %d, want %d", n, a, b, got, want)
		}
		if got, want := m.FromMontgomery(m.Sub(ra, rb)), SubMod(a, b, n); got != want {
			t.Errorf("n=%d: Sub(%d, %d) = %d, want %d", n, a, b, got, want)
		}
		if got, want := m.MulMod(a, b), MulMod(a, b, n); got != want {
			t.Errorf("n=%d: MulMod(%d, %d) = %d, want %d", n, a, b, got, want)
		}
		exp := d.Uint64()
		if got, want := m.MulPowMod(a, b, exp), MulPowMod(a, b, exp, n); got != want {
			t.Errorf("n=%d: MulPowMod(%d, %d, %d) = %d, want %d", n, a, b, exp, got, want)
		}
	}
}

func TestMontgomery32Fermat(t *testing.T) {
	const p = 4294967291
	m := MustMontgomery32(p)
	d := drbg.New([]byte("montgomery32 fermat"))
	for i := 0; i < 1000; i++ {
		a := d.Uint32() % p
		if got := m.PowMod(a, uint64(p)); got != a {
			t.Fatalf("%d^p = %d", a, got)
		}
	}
}

func TestMontgomery32ModulusOne(t *testing.T) {
	m := MustMontgomery32(1)
	if got := m.PowMod(7, 0); got != 0 {
		t.Errorf("PowMod(7, 0) mod 1 = %d, want 0", got)
	}
	if got := m.MulPowMod(3, 7, 9); got != 0 {
		t.Errorf("MulPowMod mod 1 = %d, want 0", got)
	}
}

func BenchmarkMontgomery32PowMod(b *testing.B) {
	m := MustMontgomery32(4294967291)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.PowMod(uint32(i), 4294967289)
	}
}
