// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package sha1 implements the SHA-1 hash algorithm of RFC 3174 with an
// explicitly terminal finalize step.
//
// The standard library's hash.Hash keeps digests resumable: Sum copies the
// internal state and Reset rewinds it. A breach-corpus lookup wants the
// opposite guarantee, a stream that is finished exactly once and can never
// absorb another byte afterwards. This package therefore separates the open
// stream (Hash) from the finished value (Digest) and panics on any use of a
// stream after Finish.
//
// SHA-1 is cryptographically broken. It is implemented here because the
// published breach corpora are keyed by it, not for new designs.
package sha1

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	// Size is the length of a digest in bytes.
	Size = 20
	// BlockSize is the length of one compression block in bytes.
	BlockSize = 64
	// HexLen is the length of a digest rendered as hexadecimal text.
	HexLen = 2 * Size
)

// round constants and initial accumulator values, RFC 3174 sections 5 and 6.1
const (
	k0 = 0x5A827999
	k1 = 0x6ED9EBA1
	k2 = 0x8F1BBCDC
	k3 = 0xCA62C1D6

	init0 = 0x67452301
	init1 = 0xEFCDAB89
	init2 = 0x98BADCFE
	init3 = 0x10325476
	init4 = 0xC3D2E1F0
)

// HexCase selects the letter case used when rendering a digest as text.
// It affects rendering only, never the digest value.
type HexCase int

const (
	Lower HexCase = iota
	Upper
)

const (
	hexLower = "0123456789abcdef"
	hexUpper = "0123456789ABCDEF"
)

// Digest is a finished 160-bit SHA-1 value.
type Digest [Size]byte

// Hex renders the digest as 40 hexadecimal characters.
func (d Digest) Hex(c HexCase) string {
	return string(d.AppendHex(make([]byte, 0, HexLen), c))
}

// AppendHex appends the 40-character hexadecimal rendering of d to dst and
// returns the extended slice.
func (d Digest) AppendHex(dst []byte, c HexCase) []byte {
	digits := hexLower
	if c == Upper {
		digits = hexUpper
	}
	for _, b := range d {
		dst = append(dst, digits[b>>4], digits[b&0xf])
	}
	return dst
}

// String renders the digest as lowercase hexadecimal text.
func (d Digest) String() string {
	return d.Hex(Lower)
}

// ParseDigest parses a 40-character hexadecimal digest, accepting either
// letter case.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != HexLen {
		return d, fmt.Errorf("sha1: digest text is %d characters, want %d", len(s), HexLen)
	}
	for i := 0; i < Size; i++ {
		hi := hexVal(s[2*i])
		lo := hexVal(s[2*i+1])
		if hi < 0 || lo < 0 {
			return Digest{}, fmt.Errorf("sha1: invalid hex byte %q at offset %d", s[2*i:2*i+2], 2*i)
		}
		d[i] = byte(hi<<4 | lo)
	}
	return d, nil
}

func hexVal(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Hash is an open SHA-1 stream. The zero value is not usable; create one
// with New. A Hash must not be written to concurrently.
type Hash struct {
	h      [5]uint32
	block  [BlockSize]byte // unprocessed tail of the input
	length uint64          // total bytes written; length%BlockSize is the tail size
	blocks uint32          // full blocks compressed, diagnostic only
	done   bool
}

// New returns a Hash in the standard initial state.
func New() *Hash {
	return &Hash{h: [5]uint32{init0, init1, init2, init3, init4}}
}

// Write absorbs p into the stream. Input may be fragmented arbitrarily:
// the digest depends only on the concatenation of all writes. Write never
// fails; the error return satisfies io.Writer. It panics if the stream is
// already finished.
func (h *Hash) Write(p []byte) (int, error) {
	if h.done {
		panic("sha1: Write after Finish")
	}
	n := len(p)
	staged := int(h.length % BlockSize)
	h.length += uint64(n)
	if staged > 0 {
		filled := copy(h.block[staged:], p)
		if staged+filled < BlockSize {
			return n, nil
		}
		h.compress(h.block[:])
		p = p[filled:]
	}
	for len(p) >= BlockSize {
		h.compress(p[:BlockSize])
		p = p[BlockSize:]
	}
	copy(h.block[:], p)
	return n, nil
}

// Finish pads the stream and returns its digest: a single 1 bit, zeros
// until exactly eight bytes remain in the block, then the total input
// length in bits as a big-endian 64-bit integer. The stream is terminal
// afterwards; any further Write or Finish panics.
func (h *Hash) Finish() Digest {
	if h.done {
		panic("sha1: Finish called twice")
	}
	h.done = true

	used := int(h.length % BlockSize)
	h.block[used] = 0x80
	used++
	if used > BlockSize-8 {
		for i := used; i < BlockSize; i++ {
			h.block[i] = 0
		}
		h.compress(h.block[:])
		used = 0
	}
	for i := used; i < BlockSize-8; i++ {
		h.block[i] = 0
	}
	binary.BigEndian.PutUint64(h.block[BlockSize-8:], h.length*8)
	h.compress(h.block[:])

	var d Digest
	for i, w := range h.h {
		binary.BigEndian.PutUint32(d[i*4:], w)
	}
	return d
}

// Blocks reports how many 64-byte blocks have been compressed so far,
// including padding blocks once Finish has run.
func (h *Hash) Blocks() uint32 {
	return h.blocks
}

// compress runs the eighty SHA-1 rounds over one 64-byte block and folds
// the result into the accumulator.
func (h *Hash) compress(block []byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[4*i:])
	}
	for i := 16; i < 80; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, e := h.h[0], h.h[1], h.h[2], h.h[3], h.h[4]
	for i := 0; i < 80; i++ {
		var f, k uint32
		switch {
		case i < 20:
			f = (b & c) | (^b & d)
			k = k0
		case i < 40:
			f = b ^ c ^ d
			k = k1
		case i < 60:
			f = (b & c) | (b & d) | (c & d)
			k = k2
		default:
			f = b ^ c ^ d
			k = k3
		}
		t := bits.RotateLeft32(a, 5) + f + e + k + w[i]
		a, b, c, d, e = t, a, bits.RotateLeft32(b, 30), c, d
	}

	h.h[0] += a
	h.h[1] += b
	h.h[2] += c
	h.h[3] += d
	h.h[4] += e
	h.blocks++
}

// Sum returns the SHA-1 digest of p in one call.
func Sum(p []byte) Digest {
	h := New()
	_, _ = h.Write(p)
	return h.Finish()
}

// HexSum returns the SHA-1 digest of p as 40 hexadecimal characters.
func HexSum(p []byte, c HexCase) string {
	return Sum(p).Hex(c)
}
