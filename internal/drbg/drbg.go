// Package drbg provides a deterministic HMAC-SHA256 byte stream (the RFC 6979
// section 3.2 generator) used to derive reproducible operands for
// cross-checks and benchmarks. It is not a key generator.
package drbg

import (
	"crypto/hmac"
	"encoding/binary"
	"hash"
	"math/bits"

	sha256simd "github.com/minio/sha256-simd"
)

// DRBG is an HMAC-SHA256 deterministic random bit generator. Two DRBGs
// created from the same seed produce the same stream. Not safe for
// concurrent use.
type DRBG struct {
	v     [32]byte
	k     [32]byte
	retry bool
	buf   [32]byte
	off   int // unread bytes start at buf[off:]
}

// New instantiates a generator from seed.
func New(seed []byte) *DRBG {
	d := &DRBG{off: 32}

	// V = 0x01 0x01 ... 0x01, K = 0x00 0x00 ... 0x00
	for i := range d.v {
		d.v[i] = 0x01
	}

	// K = HMAC_K(V || 0x00 || seed), V = HMAC_K(V)
	d.update(0x00, seed)
	// K = HMAC_K(V || 0x01 || seed), V = HMAC_K(V)
	d.update(0x01, seed)
	return d
}

func (d *DRBG) mac() hash.Hash {
	return hmac.New(sha256simd.New, d.k[:])
}

func (d *DRBG) update(sep byte, seed []byte) {
	h := d.mac()
	h.Write(d.v[:])
	h.Write([]byte{sep})
	h.Write(seed)
	h.Sum(d.k[:0])

	h = d.mac()
	h.Write(d.v[:])
	h.Sum(d.v[:0])
}

// generate fills out with the next output blocks.
func (d *DRBG) generate(out []byte) {
	if d.retry {
		h := d.mac()
		h.Write(d.v[:])
		h.Write([]byte{0x00})
		h.Sum(d.k[:0])

		h = d.mac()
		h.Write(d.v[:])
		h.Sum(d.v[:0])
	}
	for len(out) > 0 {
		h := d.mac()
		h.Write(d.v[:])
		h.Sum(d.v[:0])
		out = out[copy(out, d.v[:]):]
	}
	d.retry = true
}

// Read fills p from the stream. It never fails.
func (d *DRBG) Read(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		if d.off == len(d.buf) {
			d.generate(d.buf[:])
			d.off = 0
		}
		c := copy(p, d.buf[d.off:])
		d.off += c
		p = p[c:]
	}
	return n, nil
}

// Uint64 returns the next 8 bytes of the stream as a big-endian integer.
func (d *DRBG) Uint64() uint64 {
	var b [8]byte
	d.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// Uint32 returns the next 4 bytes of the stream as a big-endian integer.
func (d *DRBG) Uint32() uint32 {
	var b [4]byte
	d.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}

// Uint64n returns a uniform value in [0, n). It panics if n is 0.
func (d *DRBG) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("drbg: Uint64n with n == 0")
	}
	// mask rejection sampling, no modulo bias
	mask := ^uint64(0) >> bits.LeadingZeros64(n-1)
	for {
		x := d.Uint64() & mask
		if x < n {
			return x
		}
	}
}

// Odd64 returns an odd value greater than 1.
func (d *DRBG) Odd64() uint64 {
	for {
		if x := d.Uint64() | 1; x > 1 {
			return x
		}
	}
}

// Odd32 returns an odd 32-bit value greater than 1.
func (d *DRBG) Odd32() uint32 {
	for {
		if x := d.Uint32() | 1; x > 1 {
			return x
		}
	}
}
