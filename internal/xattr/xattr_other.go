//go:build !linux && !darwin

package xattr

import (
	"github.com/erazor-de/xtag/pkg/tagql"
)

func GetTags(path string) (tagql.TagSet, error) {
	return nil, ErrUnsupported
}

func SetTags(path string, tags tagql.TagSet) error {
	return ErrUnsupported
}

func DeleteTags(path string) error {
	return ErrUnsupported
}
