// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package pwnedpass answers one question: how many times has a password
// (or its SHA-1 digest) appeared in published breach corpora?
//
// A DB wraps a memory-mapped corpus file. Queries hash and search in
// place, and a DB may serve any number of goroutines at once:
//
//	db, err := pwnedpass.Open("pwned-passwords-ordered-by-hash.bin", corpus.Binary)
//	if err != nil {
//		// ...
//	}
//	defer db.Close()
//	count, found, err := db.CheckPasswordString("hunter2")
package pwnedpass

import (
	"fmt"

	"github.com/pwnedpass/pwnedpass/corpus"
	"github.com/pwnedpass/pwnedpass/internal/unsafestring"
	"github.com/pwnedpass/pwnedpass/sha1"
)

// DB is an open, read-only view of a breach corpus.
type DB struct {
	r *corpus.Reader
}

// Open maps the corpus at path in the given record format.
func Open(path string, f corpus.Format) (*DB, error) {
	r, err := corpus.Open(path, f)
	if err != nil {
		return nil, fmt.Errorf("corpus.Open(%s): %w", path, err)
	}
	return &DB{r: r}, nil
}

// CheckHash looks a digest up in the corpus.
func (db *DB) CheckHash(d sha1.Digest) (count uint64, found bool, err error) {
	return db.r.Find(d)
}

// CheckHashHex looks up a digest given as 40 hexadecimal characters in
// either letter case. A malformed digest is a per-query error; the DB
// stays usable for further queries.
func (db *DB) CheckHashHex(s string) (count uint64, found bool, err error) {
	d, err := sha1.ParseDigest(s)
	if err != nil {
		return 0, false, err
	}
	return db.r.Find(d)
}

// CheckPassword hashes pw and looks the digest up. The password bytes
// are read once and never retained.
func (db *DB) CheckPassword(pw []byte) (count uint64, found bool, err error) {
	return db.r.Find(sha1.Sum(pw))
}

// CheckPasswordString is CheckPassword without copying the password onto
// the heap.
func (db *DB) CheckPasswordString(pw string) (count uint64, found bool, err error) {
	return db.r.Find(sha1.Sum(unsafestring.ToBytes(pw)))
}

// Len returns the number of records in the corpus.
func (db *DB) Len() int64 {
	return db.r.Len()
}

// Size returns the corpus size in bytes.
func (db *DB) Size() int64 {
	return db.r.Size()
}

// Format returns the corpus record encoding.
func (db *DB) Format() corpus.Format {
	return db.r.Format()
}

// Close releases the mapped corpus. Closing twice is harmless.
func (db *DB) Close() error {
	return db.r.Close()
}
