// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwnedpass/pwnedpass/sha1"
)

func writeCorpus(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	entries := sortedEntries(passwords(100))

	for _, tc := range []struct {
		name   string
		data   []byte
		format Format
	}{
		{"binary", encodeBinary(entries), Binary},
		{"text", encodeText(entries, sha1.Upper), Text},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Open(writeCorpus(t, tc.data), tc.format)
			require.NoError(t, err)
			defer func() {
				_ = r.Close()
			}()

			assert.Equal(t, int64(100), r.Len())
			assert.Equal(t, int64(len(tc.data)), r.Size())
			assert.Equal(t, tc.format, r.Format())

			for _, e := range entries {
				count, found, err := r.Find(e.digest)
				require.NoError(t, err)
				require.True(t, found)
				require.Equal(t, e.count, count)
			}
			for _, d := range absentDigests(entries) {
				_, found, err := r.Find(d)
				require.NoError(t, err)
				require.False(t, found)
			}

			require.NoError(t, r.Close())
			require.NoError(t, r.Close())
		})
	}
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), Binary)
	require.Error(t, err)

	_, err = Open(writeCorpus(t, nil), Binary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive multiple")

	_, err = Open(writeCorpus(t, make([]byte, binaryRecordWidth+1)), Binary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive multiple")

	_, err = Open(writeCorpus(t, make([]byte, textRecordWidth)), Binary)
	require.Error(t, err)
	_, err = Open(writeCorpus(t, make([]byte, binaryRecordWidth)), Text)
	require.Error(t, err)
}
