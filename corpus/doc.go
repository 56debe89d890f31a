// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package corpus reads and searches the published dumps of breached
// password hashes ("pwned passwords" files).
//
// A corpus is one flat file of fixed-width records sorted ascending by
// hash value, with no header and no index; lookups binary-search the file
// in place, touching O(log n) records. The same logical record exists in
// two on-disk encodings, chosen by whoever produced the file.
//
// The text encoding is the ordered-by-hash dump as published: 63 bytes
// per record, hex in either letter case, counts padded with spaces,
// CR LF terminated.
//
//	 0                                       40   41
//	+----+----+----+-//-+----+----+----+----+----+----+-//-+----+----+----+
//	| hash, 40 hex characters               | :  | count + padding   |\r|\n|
//	+----+----+----+-//-+----+----+----+----+----+----+-//-+----+----+----+
//	                                                                  61  62
//
// The binary encoding packs the same record into 24 bytes:
//
//	 0    1    2    3                        20   21   22   23
//	+----+----+----+----+----+----+----+-//-+----+----+----+----+
//	| hash, 20 raw bytes                    | count, u32 LE     |
//	+----+----+----+----+----+----+----+-//-+----+----+----+----+
//
// Records sort by their hash bytes under unsigned byte-wise comparison;
// the text encoding compares case-insensitively, since hex case carries
// no meaning. File length must be a positive exact multiple of the
// record width, checked before any search is allowed to run.
package corpus
