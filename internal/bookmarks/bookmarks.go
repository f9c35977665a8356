// Package bookmarks resolves {path} query leaves. A bookmark is a symbolic
// link whose target is a query; the leaf evaluates as if that query were
// written in its place inside parentheses.
package bookmarks

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/erazor-de/xtag/internal/log"
	"github.com/erazor-de/xtag/pkg/tagql"
)

// MaxDepth bounds how deeply bookmarks may refer to other bookmarks. It
// also stops cycles.
const MaxDepth = 16

// ErrTooDeep is logged when bookmarks nest deeper than MaxDepth.
var ErrTooDeep = errors.Errorf("bookmarks nested deeper than %d levels", MaxDepth)

// Store loads and caches bookmarks from a directory. It is safe for
// concurrent use.
type Store struct {
	dir     string
	variant tagql.Variant
	logger  log.Logger

	// queries caches compiled bookmark queries by resolved path.
	queries *xsync.MapOf[string, *tagql.Query]
}

// New returns a Store resolving relative bookmark paths against dir. An
// empty dir means the working directory.
func New(dir string, v tagql.Variant, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Store{
		dir:     dir,
		variant: v,
		logger:  logger.With("module", "bookmarks"),
		queries: xsync.NewMapOf[string, *tagql.Query](),
	}
}

func (s *Store) path(name string) string {
	if s.dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// Load returns the compiled query of the bookmark name.
func (s *Store) Load(name string) (*tagql.Query, error) {
	path := s.path(name)
	if q, ok := s.queries.Load(path); ok {
		return q, nil
	}

	target, err := os.Readlink(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading bookmark %s", path)
	}
	q, err := tagql.ParseAndCompile(target, s.variant)
	if err != nil {
		return nil, errors.Wrapf(err, "bookmark %s", path)
	}

	q, _ = s.queries.LoadOrStore(path, q)
	return q, nil
}

// Save creates the bookmark name for query. The query must compile.
func (s *Store) Save(name, query string) error {
	if _, err := tagql.ParseAndCompile(query, s.variant); err != nil {
		return err
	}
	path := s.path(name)
	if err := os.Symlink(query, path); err != nil {
		return errors.Wrapf(err, "creating bookmark %s", path)
	}
	return nil
}

// Resolver returns a resolver that evaluates bookmarks against tags. Any
// failure to load a bookmark is logged and makes the leaf false.
func (s *Store) Resolver(tags tagql.TagSet) tagql.BookmarkResolver {
	return s.resolver(tags, 0)
}

func (s *Store) resolver(tags tagql.TagSet, depth int) tagql.BookmarkResolver {
	return func(name string) bool {
		if depth >= MaxDepth {
			s.logger.Error("failed to resolve bookmark", "bookmark", name, "err", ErrTooDeep)
			return false
		}
		q, err := s.Load(name)
		if err != nil {
			s.logger.Error("failed to resolve bookmark", "bookmark", name, "err", err)
			return false
		}
		return q.Matches(tags, s.resolver(tags, depth+1))
	}
}
