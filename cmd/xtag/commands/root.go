package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erazor-de/xtag/internal/bookmarks"
	"github.com/erazor-de/xtag/internal/config"
	"github.com/erazor-de/xtag/internal/engine"
	"github.com/erazor-de/xtag/internal/log"
	"github.com/erazor-de/xtag/pkg/tagql"
)

const configFlag = "config"

// app holds what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger log.Logger
}

// NewRootCmd returns the xtag command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	def := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:               "xtag",
		Short:             "Tag files and search them with boolean tag queries",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	fl := cmd.PersistentFlags()
	fl.String(configFlag, "", "config file (toml, yaml or json)")
	fl.String(config.KeyVariant, def.Variant, "grammar variant: basic or extended")
	fl.String(config.KeyLogLevel, def.LogLevel, "log level: debug, info or error")
	fl.String(config.KeyLogFormat, def.LogFormat, "log format: plain or json")
	fl.String(config.KeyBookmarkDir, def.BookmarkDir, "directory that relative bookmark paths resolve against")
	fl.Int(config.KeyWorkers, def.Workers, "number of concurrent evaluations")
	fl.StringArray(config.KeyRename, nil, "rename tags before evaluation, as find=replace (repeatable)")

	cmd.AddCommand(
		newCheckCmd(a),
		newTagsCmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newClearCmd(a),
		newSearchCmd(a),
		newIndexCmd(a),
		newBookmarkCmd(a),
	)
	return cmd
}

// load binds the parsed flags and builds the config and logger.
func (a *app) load(cmd *cobra.Command, args []string) error {
	// cmd.Flags() includes the persistent flags of the parent
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := a.v.GetString(configFlag); path != "" {
		a.v.SetConfigFile(path)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	logger, err := log.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) variant() tagql.Variant {
	return a.cfg.GrammarVariant()
}

func (a *app) engine() (*engine.Engine, error) {
	rules, err := a.cfg.RenameRules()
	if err != nil {
		return nil, err
	}
	return engine.New(a.logger, a.cfg.Workers, rules...), nil
}

func (a *app) bookmarks() *bookmarks.Store {
	return bookmarks.New(a.cfg.BookmarkDir, a.variant(), a.logger)
}

// compile parses and compiles query, pointing at the offending position on
// failure.
func (a *app) compile(query string) (*tagql.Query, error) {
	q, err := tagql.ParseAndCompile(query, a.variant())
	if err != nil {
		return nil, inputError("query", query, err)
	}
	return q, nil
}

// inputError formats err with the input and a caret under the offending
// character, if err carries a position.
func inputError(what, input string, err error) error {
	var qerr *tagql.Error
	if !errors.As(err, &qerr) || qerr.Pos == tagql.NoPos || qerr.Pos > len(input) {
		return errors.Wrapf(err, "invalid %s", what)
	}
	col := utf8.RuneCountInString(input[:qerr.Pos])
	return fmt.Errorf("invalid %s: %w\n  %s\n  %s^", what, err, input, strings.Repeat(" ", col))
}
