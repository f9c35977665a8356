// Package xattr stores item tags in the user.xtag extended attribute of
// files, encoded as a tag list.
package xattr

import (
	"errors"

	"github.com/erazor-de/xtag/pkg/tagql"
)

// AttrName is the extended attribute holding a file's tags.
const AttrName = "user.xtag"

// ErrUnsupported is returned on platforms without extended attributes.
var ErrUnsupported = errors.New("extended attributes are not supported on this platform")

// decode parses an attribute value. A missing attribute (nil) is an empty set.
func decode(value []byte) (tagql.TagSet, error) {
	return tagql.ParseTagList(string(value))
}
