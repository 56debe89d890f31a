// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package secret holds passwords in memory that is locked against swapping
// and excluded from core dumps, and that is zeroed when released.
package secret

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Zero overwrites b with zero bytes.
func Zero(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}

// Buffer owns a fixed region of locked memory. Access goes through methods
// so a closed (already zeroed) buffer cannot hand out stale secrets.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// NewFromBytes copies src into a new locked buffer and zeroes src. The
// source must not be empty; there is nothing to protect in a zero-length
// secret.
func NewFromBytes(src []byte) (*Buffer, error) {
	b, err := alloc(len(src))
	if err != nil {
		return nil, err
	}
	copy(b.data, src)
	Zero(src)
	return b, nil
}

func alloc(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: invalid buffer size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap(%d): %w", size, err)
	}
	if err := unix.Mlock(data); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("unix.Mlock: %w", err)
	}
	// Locked pages still land in core dumps unless told otherwise.
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		_ = unix.Munlock(data)
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("unix.Madvise: %w", err)
	}
	return &Buffer{data: data}, nil
}

// Bytes returns the buffer contents. The slice aliases locked memory owned
// by the buffer; callers must not retain it past Close. Panics if the
// buffer is closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: Bytes called on closed buffer")
	}
	return b.data
}

// String copies the contents into a regular string, outside locked memory.
// Prefer Bytes where a copy is avoidable. Panics if the buffer is closed.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: String called on closed buffer")
	}
	return string(b.data)
}

// Len returns the buffer length in bytes, or 0 once closed.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Close zeroes the contents and releases the memory. Closing twice is
// harmless.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	data := b.data
	b.data = nil
	Zero(data)
	if err := unix.Munlock(data); err != nil {
		_ = unix.Munmap(data)
		return fmt.Errorf("unix.Munlock: %w", err)
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unix.Munmap: %w", err)
	}
	return nil
}
