package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazor-de/xtag/internal/log"
	"github.com/erazor-de/xtag/internal/model"
	"github.com/erazor-de/xtag/pkg/tagql"
)

// ResolverFunc returns the bookmark resolver used while evaluating one item.
// It may be nil, in which case every bookmark leaf is false.
type ResolverFunc func(tags tagql.TagSet) tagql.BookmarkResolver

// TagSource reads the tags of the item at path.
type TagSource func(path string) (tagql.TagSet, error)

// batchesPerWorker splits the input finely enough to balance uneven items.
const batchesPerWorker = 4

// Engine evaluates compiled queries over many items concurrently.
type Engine struct {
	logger  log.Logger
	workers int
	renames []tagql.RenameRule

	stats stats
}

// New creates an Engine running at most workers evaluations at a time.
// Rename rules are applied to a copy of each item's tags before evaluation.
func New(logger log.Logger, workers int, renames ...tagql.RenameRule) *Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		logger:  logger.With("module", "engine"),
		workers: workers,
		renames: renames,
	}
}

// Filter returns the items matching q, in input order. Items are never
// modified. If ctx is cancelled the scan stops and ctx.Err() is returned.
func (e *Engine) Filter(ctx context.Context, q *tagql.Query, items []model.Item, resolvers ResolverFunc) ([]model.Item, error) {
	start := time.Now()
	matched := make([]bool, len(items))

	err := e.forEachBatch(ctx, len(items), func(i int) {
		tags := items[i].Tags
		if len(e.renames) > 0 {
			tags = tagql.ApplyRenames(tags, e.renames...)
		}
		var resolve tagql.BookmarkResolver
		if resolvers != nil {
			resolve = resolvers(tags)
		}
		matched[i] = q.Matches(tags, resolve)
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.Item, 0)
	for i, ok := range matched {
		if ok {
			result = append(result, items[i])
		}
	}

	e.stats.addScan(len(items), len(result))
	e.logger.Debug("scan finished", "query", q.Render(), "items", len(items), "matched", len(result), "took", time.Since(start))
	return result, nil
}

// Search filters items with q and returns at most limit matches. A limit
// of zero or less means no limit.
func (e *Engine) Search(ctx context.Context, q *tagql.Query, items []model.Item, resolvers ResolverFunc, limit int) ([]model.Item, error) {
	result, err := e.Filter(ctx, q, items, resolvers)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Load reads the tags of paths concurrently with src and returns the items
// in input order. Paths whose tags cannot be read are logged and skipped.
func (e *Engine) Load(ctx context.Context, paths []string, src TagSource) ([]model.Item, error) {
	items := make([]model.Item, len(paths))
	ok := make([]bool, len(paths))

	err := e.forEachBatch(ctx, len(paths), func(i int) {
		tags, err := src(paths[i])
		if err != nil {
			e.logger.Error("skipping item", "path", paths[i], "err", err)
			return
		}
		items[i] = model.Item{Path: paths[i], Tags: tags}
		ok[i] = true
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.Item, 0, len(items))
	for i := range items {
		if ok[i] {
			result = append(result, items[i])
		}
	}
	e.stats.addSkipped(len(paths) - len(result))
	return result, nil
}

// forEachBatch calls fn for every index in [0, n) on at most e.workers
// goroutines. fn must only touch state owned by its index.
func (e *Engine) forEachBatch(ctx context.Context, n int, fn func(i int)) error {
	batch := n / (e.workers * batchesPerWorker)
	if batch < 1 {
		batch = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for start := 0; start < n; start += batch {
		if gctx.Err() != nil {
			break
		}
		start, end := start, min(start+batch, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Stats returns the totals of every scan run by e.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}
