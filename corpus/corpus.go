// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package corpus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pwnedpass/pwnedpass/sha1"
)

// Format identifies one of the two record encodings a corpus file can use.
// It is fixed when a Table or Reader is created; the search loops are
// monomorphic per format.
type Format int

const (
	// Binary is 24 bytes per record: 20 raw hash bytes, then the count.
	Binary Format = iota
	// Text is 63 bytes per record: 40 hex characters, a colon, the count.
	Text
)

const (
	binaryRecordWidth = 24
	textRecordWidth   = 63

	binaryCountOff = sha1.Size
	textColonOff   = sha1.HexLen
	textCountOff   = textColonOff + 1
)

// RecordWidth returns the fixed byte width of one record in this format.
func (f Format) RecordWidth() int {
	if f == Text {
		return textRecordWidth
	}
	return binaryRecordWidth
}

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps the names "binary" and "text" to their Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary":
		return Binary, nil
	case "text":
		return Text, nil
	default:
		return 0, fmt.Errorf("corpus: unknown format %q (want binary or text)", s)
	}
}

// Table is a searchable view of a corpus held in memory. The bytes are
// borrowed and never written; any number of Find calls may run against
// the same Table concurrently.
type Table struct {
	data   []byte
	format Format
	n      int64
}

// NewTable wraps data, which must hold a whole, non-zero number of
// records in the given format. Anything else is a configuration error,
// rejected here so no search ever runs over a misaligned file.
func NewTable(data []byte, f Format) (*Table, error) {
	if err := checkSize(int64(len(data)), f); err != nil {
		return nil, err
	}
	return &Table{data: data, format: f, n: int64(len(data)) / int64(f.RecordWidth())}, nil
}

func checkSize(size int64, f Format) error {
	width := int64(f.RecordWidth())
	if size == 0 || size%width != 0 {
		return fmt.Errorf("corpus: bad %s corpus size %d: want a positive multiple of %d", f, size, width)
	}
	return nil
}

// Len returns the number of records.
func (t *Table) Len() int64 {
	return t.n
}

// Format returns the record encoding the table was built with.
func (t *Table) Format() Format {
	return t.format
}

// Find binary-searches for target and returns its occurrence count.
// Absent hashes return (0, false, nil). A non-nil error means a matched
// record's count field could not be decoded, voiding the trust placed in
// the file when its size was validated; counts of unmatched records are
// never decoded.
func (t *Table) Find(target sha1.Digest) (count uint64, found bool, err error) {
	if t.format == Text {
		return findText(t.data, t.n, target)
	}
	return findBinary(t.data, t.n, target)
}

func findBinary(data []byte, n int64, target sha1.Digest) (uint64, bool, error) {
	lo, hi := int64(0), n-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		off := mid * binaryRecordWidth
		rec := data[off : off+binaryRecordWidth]
		cmp := bytes.Compare(target[:], rec[:sha1.Size])
		switch {
		case cmp == 0:
			return uint64(binary.LittleEndian.Uint32(rec[binaryCountOff:])), true, nil
		case cmp < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, false, nil
}

func findText(data []byte, n int64, target sha1.Digest) (uint64, bool, error) {
	var needle [sha1.HexLen]byte
	target.AppendHex(needle[:0], sha1.Upper)

	lo, hi := int64(0), n-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		off := mid * textRecordWidth
		rec := data[off : off+textRecordWidth]
		cmp := compareFold(needle[:], rec[:textColonOff])
		switch {
		case cmp == 0:
			c, err := textCount(rec)
			if err != nil {
				return 0, false, fmt.Errorf("corpus: record %d: %w", mid, err)
			}
			return c, true, nil
		case cmp < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, false, nil
}

// compareFold is a byte-wise unsigned comparison with ASCII letters
// folded to uppercase, so dumps in either hex case order identically.
func compareFold(a, b []byte) int {
	for i := range a {
		ca, cb := foldUpper(a[i]), foldUpper(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func foldUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c
}

// textCount decodes the decimal count of a matched text record. The
// colon separator is required; space padding and the line terminator are
// tolerated on either side of the digits.
func textCount(rec []byte) (uint64, error) {
	if rec[textColonOff] != ':' {
		return 0, fmt.Errorf("missing count separator at offset %d", textColonOff)
	}
	field := rec[textCountOff:]
	start := 0
	for start < len(field) && field[start] == ' ' {
		start++
	}
	end := start
	var count uint64
	for end < len(field) && '0' <= field[end] && field[end] <= '9' {
		d := uint64(field[end] - '0')
		if count > (math.MaxUint64-d)/10 {
			return 0, fmt.Errorf("count field %q overflows", field)
		}
		count = count*10 + d
		end++
	}
	if end == start {
		return 0, fmt.Errorf("no digits in count field %q", field)
	}
	for _, c := range field[end:] {
		if c != ' ' && c != '\r' && c != '\n' {
			return 0, fmt.Errorf("malformed count field %q", field)
		}
	}
	return count, nil
}
