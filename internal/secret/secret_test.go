// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromBytes(t *testing.T) {
	src := []byte("hunter2")
	b, err := NewFromBytes(src)
	require.NoError(t, err)
	defer func() {
		_ = b.Close()
	}()

	assert.Equal(t, "hunter2", b.String())
	assert.Equal(t, []byte("hunter2"), b.Bytes())
	assert.Equal(t, 7, b.Len())

	// the source is zeroed so the secret lives only in locked memory
	assert.Equal(t, make([]byte, 7), src)
}

func TestNewFromBytesEmpty(t *testing.T) {
	_, err := NewFromBytes(nil)
	require.Error(t, err)
	_, err = NewFromBytes([]byte{})
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	b, err := NewFromBytes([]byte("swordfish"))
	require.NoError(t, err)

	require.NoError(t, b.Close())

	// the mapping is gone and the accessors refuse to hand anything out
	assert.Equal(t, 0, b.Len())
	assert.Panics(t, func() { b.Bytes() })
	assert.Panics(t, func() { _ = b.String() })

	require.NoError(t, b.Close())
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	Zero(b)
	assert.Equal(t, make([]byte, 5), b)

	Zero(nil) // must not panic
}
