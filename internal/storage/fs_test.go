package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGetList(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key := DocumentKey("IN", "US")
	assert.True(t, strings.HasPrefix(key, "anchors/IN-US/"))
	assert.True(t, strings.HasSuffix(key, ".json"))

	got, err := s.Put(key, strings.NewReader(`[[0,0]]`))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	rc, err := s.Get(key)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, `[[0,0]]`, string(b))

	keys, err := s.List("anchors/IN-US")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	none, err := s.List("anchors/GB-US")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../secret", "a/../../b"} {
		_, err := s.Put(key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}
