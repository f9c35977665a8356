//go:build linux || darwin

package xattr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/erazor-de/xtag/pkg/tagql"
)

// tempFile returns a file on a filesystem with user xattrs, or skips.
func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "item")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	if err := unix.Setxattr(path, AttrName, []byte("probe"), 0); err != nil {
		if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.EPERM) {
			t.Skipf("user xattrs unavailable in %s: %v", filepath.Dir(path), err)
		}
		require.NoError(t, err)
	}
	require.NoError(t, unix.Removexattr(path, AttrName))
	return path
}

func TestGetTagsMissingAttribute(t *testing.T) {
	path := tempFile(t)

	tags, err := GetTags(path)
	require.NoError(t, err)
	assert.Equal(t, tagql.TagSet{}, tags)
}

func TestSetGetDeleteTags(t *testing.T) {
	path := tempFile(t)
	want := tagql.TagSet{tagql.NewValueTag("genre", "rock"), tagql.NewTag("favorite")}

	require.NoError(t, SetTags(path, want))
	got, err := GetTags(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, DeleteTags(path))
	got, err = GetTags(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, DeleteTags(path), "deleting twice succeeds")
}

func TestGetTagsInvalidList(t *testing.T) {
	path := tempFile(t)
	require.NoError(t, unix.Setxattr(path, AttrName, []byte("a b"), 0))

	_, err := GetTags(path)
	assert.ErrorIs(t, err, tagql.ErrTrailingInput)
}

func TestGetTagsMissingFile(t *testing.T) {
	_, err := GetTags(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
