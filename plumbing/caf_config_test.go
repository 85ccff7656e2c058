package plumbing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoConfig(t *testing.T) {
	newTestRepo(t)

	name, ok, err := GetConfig("user.name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "username", name)

	require.NoError(t, SetConfig("user.name", "Ada Lovelace"))
	require.NoError(t, SetConfig("core.editor", "vim"))

	name, ok, err = GetConfig("user.name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", name)

	editor, ok, err := GetConfig("core.editor")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "vim", editor)

	require.NoError(t, UnsetConfig("core.editor"))
	_, ok, err = GetConfig("core.editor")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, UnsetConfig("core.missing"))

	for _, key := range []string{"nosection", ".name", "user."} {
		_, _, err := GetConfig(key)
		assert.Error(t, err, key)
		assert.Error(t, SetConfig(key, "x"), key)
	}
}
