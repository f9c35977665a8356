package commands

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/erazor-de/xtag/internal/config"
	"github.com/erazor-de/xtag/internal/engine"
	"github.com/erazor-de/xtag/internal/model"
	"github.com/erazor-de/xtag/internal/storage"
	"github.com/erazor-de/xtag/internal/xattr"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY [PATH...]",
		Short: "Print the files or catalog items matching a query",
		Long: `Search prints the path of every item whose tags match QUERY, one per line.

Directories are searched recursively and without PATH the working directory
is searched. With --catalog the items of a catalog file are searched instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q, err := a.compile(args[0])
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}

			items, err := a.loadItems(ctx, e, args[1:])
			if err != nil {
				return err
			}
			result, err := e.Search(ctx, q, items, a.bookmarks().Resolver, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, it := range result {
				fmt.Fprintln(out, it.Path)
			}

			stats := e.Stats()
			a.logger.Info("search finished", "items", stats.Items, "matched", stats.Matched, "skipped", stats.Skipped)
			return nil
		},
	}
	cmd.Flags().String(config.KeyCatalog, "", "search the items of this catalog file instead of files")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many matches (0 prints all)")
	return cmd
}

func newIndexCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "index PATH...",
		Short: "Write the tags of files to a catalog",
		Long: `Index reads the tags of every file below PATH and writes them as a catalog
that search --catalog can read. Output ending in .zst is zstd compressed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			paths, err := walkFiles(args)
			if err != nil {
				return err
			}
			items, err := e.Load(cmd.Context(), paths, xattr.GetTags)
			if err != nil {
				return err
			}

			cw, err := storage.NewCatalogWriter()
			if err != nil {
				return err
			}
			defer cw.Close()

			if output == "" || output == "-" {
				return cw.Write(cmd.OutOrStdout(), items, false)
			}
			if err := cw.WriteFile(output, items); err != nil {
				return err
			}
			a.logger.Info("catalog written", "path", output, "items", len(items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "catalog file to write (default stdout)")
	return cmd
}

// loadItems returns the items to search: the configured catalog, or the
// files below roots.
func (a *app) loadItems(ctx context.Context, e *engine.Engine, roots []string) ([]model.Item, error) {
	if a.cfg.Catalog != "" {
		cr, err := storage.NewCatalogReader()
		if err != nil {
			return nil, err
		}
		defer cr.Close()

		items, err := cr.ReadFile(a.cfg.Catalog)
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, lineErr := range merr.Errors {
				a.logger.Error("skipping catalog entry", "catalog", a.cfg.Catalog, "err", lineErr)
			}
			return items, nil
		}
		return items, err
	}

	if len(roots) == 0 {
		roots = []string{"."}
	}
	paths, err := walkFiles(roots)
	if err != nil {
		return nil, err
	}
	return e.Load(ctx, paths, xattr.GetTags)
}

// walkFiles returns the regular files among roots and below the
// directories among them, in walk order.
func walkFiles(roots []string) ([]string, error) {
	var paths []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}
	return paths, nil
}
