package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazor-de/xtag/internal/model"
	"github.com/erazor-de/xtag/internal/xattr"
	"github.com/erazor-de/xtag/pkg/tagql"
)

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags LIST",
		Short: "Validate a tag list and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.variant().ParseTagList(args[0])
			if err != nil {
				return inputError("tag list", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tags.String())
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PATH...",
		Short: "Print the tags of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				tags, err := xattr.GetTags(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), model.Item{Path: path, Tags: tags})
			}
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "set LIST PATH...",
		Short: "Replace the tags of files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.variant().ParseTagList(args[0])
			if err != nil {
				return inputError("tag list", args[0], err)
			}
			for _, path := range args[1:] {
				next := tags
				if merge {
					old, err := xattr.GetTags(path)
					if err != nil {
						return err
					}
					next = mergeTags(old, tags)
				}
				if err := xattr.SetTags(path, next); err != nil {
					return err
				}
				a.logger.Debug("tags written", "path", path, "tags", next.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "keep existing tags not named in LIST")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear PATH...",
		Short: "Remove all tags of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := xattr.DeleteTags(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// mergeTags returns old without the names set in update, followed by update.
func mergeTags(old, update tagql.TagSet) tagql.TagSet {
	out := make(tagql.TagSet, 0, len(old)+len(update))
	for _, t := range old {
		if _, ok := update.Lookup(t.Name); !ok {
			out = append(out, t)
		}
	}
	return append(out, update...)
}
