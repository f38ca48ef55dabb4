package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFSStoreRequiresPath(t *testing.T) {
	_, err := NewFSStore("")
	assert.Error(t, err)
}

func TestFSStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model", "state.json")
	s, err := NewFSStore(path)
	require.NoError(t, err)

	blob, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, blob)

	require.NoError(t, s.Save([]byte(`{"v":1}`)))

	blob, found, err = s.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"v":1}`), blob)
}

func TestFSStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFSStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Save([]byte("first")))
	require.NoError(t, s.Save([]byte("second")))

	blob, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("second"), blob)

	// No temp file should survive a completed save.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
