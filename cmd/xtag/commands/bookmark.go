package commands

import (
	"github.com/spf13/cobra"
)

func newBookmarkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark NAME QUERY",
		Short: "Save QUERY as a bookmark usable as {NAME} in other queries",
		Long: `Bookmark creates a symbolic link NAME whose target is QUERY. Relative names
are created in the --bookmarks directory. A bookmark matches like its query
written in parentheses.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.compile(args[1]); err != nil {
				return err
			}
			if err := a.bookmarks().Save(args[0], args[1]); err != nil {
				return err
			}
			a.logger.Info("bookmark saved", "name", args[0])
			return nil
		},
	}
}
