//go:build linux || darwin

package xattr

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/erazor-de/xtag/pkg/tagql"
)

// GetTags reads the tags of the file at path. A file without the attribute
// has no tags.
func GetTags(path string) (tagql.TagSet, error) {
	value, err := getxattr(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "reading tags of %s", path)
	}
	tags, err := decode(value)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "parsing tags of %s", path)
	}
	return tags, nil
}

// SetTags replaces the tags of the file at path.
func SetTags(path string, tags tagql.TagSet) error {
	if err := unix.Setxattr(path, AttrName, []byte(tags.String()), 0); err != nil {
		return pkgerrors.Wrapf(err, "writing tags of %s", path)
	}
	return nil
}

// DeleteTags removes all tags of the file at path. Removing from a file
// without tags succeeds.
func DeleteTags(path string) error {
	err := unix.Removexattr(path, AttrName)
	if err != nil && !errors.Is(err, errNoAttr) {
		return pkgerrors.Wrapf(err, "deleting tags of %s", path)
	}
	return nil
}

func getxattr(path string) ([]byte, error) {
	for {
		size, err := unix.Getxattr(path, AttrName, nil)
		switch {
		case errors.Is(err, errNoAttr):
			return nil, nil
		case err != nil:
			return nil, err
		case size == 0:
			return nil, nil
		}

		buf := make([]byte, size)
		n, err := unix.Getxattr(path, AttrName, buf)
		if errors.Is(err, unix.ERANGE) {
			// The attribute grew between the two calls.
			continue
		}
		if errors.Is(err, errNoAttr) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
}
