package model

import (
	"github.com/erazor-de/xtag/pkg/tagql"
)

// Item is a tagged object, such as a file, identified by its path.
// Tags holds the item's tags in the order they were read.
type Item struct {
	Path string
	Tags tagql.TagSet
}

// String renders the item as "path: tag-list".
func (it Item) String() string {
	return it.Path + ": " + it.Tags.String()
}
