// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap maps whole files into memory for read-only access.
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a private, read-only memory mapping of an entire file.
type File struct {
	data []byte
}

// Open maps the file at path and closes the underlying descriptor; the
// mapping stays valid until Close. Empty files cannot be mapped and are
// rejected.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := st.Size()
	if size == 0 {
		return nil, fmt.Errorf("mmap(%s): cannot map an empty file", path)
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("mmap(%s): file size %d overflows the address space", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap(%s, %d): %w", path, size, err)
	}
	return &File{data: data}, nil
}

// Data returns the mapped bytes. The slice must only be read, and only
// before Close.
func (m *File) Data() []byte {
	return m.data
}

// Len returns the length of the mapping in bytes.
func (m *File) Len() int {
	return len(m.data)
}

// Close releases the mapping, invalidating the slice returned by Data.
// Closing twice is harmless.
func (m *File) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unix.Munmap: %w", err)
	}
	return nil
}
