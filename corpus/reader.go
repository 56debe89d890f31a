// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package corpus

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/pwnedpass/pwnedpass/internal/mmap"
	"github.com/pwnedpass/pwnedpass/sha1"
)

// Reader is a corpus file mapped into memory for the lifetime of a run.
// Lookups may run concurrently. Close releases the mapping; the Reader
// must not be used afterwards.
type Reader struct {
	mm  *mmap.File
	tab *Table
}

// Open validates and maps the corpus at path. A file whose size is zero
// or not an exact multiple of the format's record width is rejected
// before anything is mapped.
func Open(path string, f Format) (*Reader, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("os.Stat(%s): %w", path, err)
	}
	if err := checkSize(st.Size(), f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	// binary-search probes are random access as far as readahead goes
	if err := unix.Madvise(m.Data(), unix.MADV_RANDOM); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("madvise: %w", err)
	}
	tab, err := NewTable(m.Data(), f)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return &Reader{mm: m, tab: tab}, nil
}

// Find reports the occurrence count for target, or (0, false) if absent.
func (r *Reader) Find(target sha1.Digest) (count uint64, found bool, err error) {
	return r.tab.Find(target)
}

// Len returns the number of records in the corpus.
func (r *Reader) Len() int64 {
	return r.tab.Len()
}

// Format returns the record encoding the corpus was opened with.
func (r *Reader) Format() Format {
	return r.tab.Format()
}

// Size returns the mapped size of the corpus in bytes.
func (r *Reader) Size() int64 {
	return int64(r.mm.Len())
}

// Close releases the mapping. Closing twice is harmless.
func (r *Reader) Close() error {
	return r.mm.Close()
}
