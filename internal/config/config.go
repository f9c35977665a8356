package config

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/erazor-de/xtag/internal/log"
	"github.com/erazor-de/xtag/pkg/tagql"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// XTAG_VARIANT.
const EnvPrefix = "XTAG"

// Keys shared by flags, environment and config file.
const (
	KeyVariant     = "variant"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyBookmarkDir = "bookmarks"
	KeyCatalog     = "catalog"
	KeyWorkers     = "workers"
	KeyRename      = "rename"
)

// Config defines the configuration of the xtag command.
type Config struct {
	// Variant is the grammar variant, "basic" or "extended".
	Variant string `mapstructure:"variant"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// BookmarkDir is the directory relative bookmark paths resolve against.
	// Empty means the working directory.
	BookmarkDir string `mapstructure:"bookmarks"`

	// Catalog is a JSON lines item catalog to search instead of files.
	Catalog string `mapstructure:"catalog"`

	// Workers bounds concurrent evaluation.
	Workers int `mapstructure:"workers"`

	// Renames holds find=replace tag rename rules applied before evaluation.
	Renames []string `mapstructure:"rename"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Variant:   tagql.Extended.String(),
		LogLevel:  log.LogLevelError,
		LogFormat: log.LogFormatPlain,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if _, err := tagql.ParseVariant(cfg.Variant); err != nil {
		return errors.Wrap(err, "invalid variant")
	}
	switch strings.ToLower(cfg.LogFormat) {
	case log.LogFormatPlain, log.LogFormatText, log.LogFormatJSON:
	default:
		return errors.New("unknown log-format (must be 'plain', 'text' or 'json')")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelError:
	default:
		return errors.New("unknown log-level (must be 'debug', 'info' or 'error')")
	}
	if cfg.Workers < 1 {
		return errors.New("workers can't be less than 1")
	}
	if _, err := cfg.RenameRules(); err != nil {
		return err
	}
	return nil
}

// GrammarVariant returns the parsed grammar variant.
func (cfg *Config) GrammarVariant() tagql.Variant {
	v, err := tagql.ParseVariant(cfg.Variant)
	if err != nil {
		return tagql.Extended
	}
	return v
}

// RenameRules compiles the configured find=replace rules in order.
func (cfg *Config) RenameRules() ([]tagql.RenameRule, error) {
	rules := make([]tagql.RenameRule, 0, len(cfg.Renames))
	for _, r := range cfg.Renames {
		find, replace, ok := strings.Cut(r, "=")
		if !ok || find == "" {
			return nil, errors.Errorf("invalid rename %q (must be find=replace)", r)
		}
		rule, err := tagql.NewRenameRule(find, replace)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid rename %q", r)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Load builds a Config from v. Values not set in v keep their defaults.
// Environment variables with the XTAG_ prefix are honoured, and if
// v has a config file set it is read first.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyVariant, cfg.Variant)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyLogFormat, cfg.LogFormat)
	v.SetDefault(KeyWorkers, cfg.Workers)
	// Keys need a default to be visible to Unmarshal through AutomaticEnv.
	v.SetDefault(KeyBookmarkDir, cfg.BookmarkDir)
	v.SetDefault(KeyCatalog, cfg.Catalog)
	v.SetDefault(KeyRename, []string{})

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, errors.Wrap(err, "error in config")
	}
	return cfg, nil
}
