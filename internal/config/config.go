// Package config loads the connection settings of the definer command.
//
// Settings are resolved in increasing priority from built-in defaults, a
// .definer.yaml file, .env and .env.local files, DEFINER_* environment
// variables and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/definer/dialect"
	"github.com/syssam/definer/dialect/sql"
)

// AppFs is the filesystem configuration files are read from.
var AppFs = afero.NewOsFs()

// Config holds the connection settings.
type Config struct {
	Dialect       string
	Host          string
	Port          int
	User          string
	Password      string
	Database      string
	DSN           string
	SlowThreshold time.Duration
	Debug         bool
	// File is the configuration file used, if any.
	File string
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	fs    afero.Fs
	dir   string
	file  string
	home  bool
	flags *pflag.FlagSet
}

// WithFs reads configuration files from fs.
func WithFs(fs afero.Fs) Option {
	return func(l *loader) { l.fs = fs }
}

// WithDir sets the working directory searched for .definer.yaml and .env files.
func WithDir(dir string) Option {
	return func(l *loader) { l.dir = dir }
}

// WithFile reads the given configuration file instead of searching for one.
// A missing file is an error.
func WithFile(file string) Option {
	return func(l *loader) { l.file = file }
}

// WithoutHome disables the lookup of configuration files in the home directory.
func WithoutHome() Option {
	return func(l *loader) { l.home = false }
}

// WithFlags binds the flags of fs that share a name with a setting. Flag
// names use dashes ("slow-threshold").
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *loader) { l.flags = fs }
}

// Load resolves the configuration.
func Load(opts ...Option) (*Config, error) {
	l := &loader{fs: AppFs, dir: ".", home: true}
	for _, opt := range opts {
		opt(l)
	}

	v := viper.New()
	v.SetFs(l.fs)
	v.SetDefault("dialect", dialect.MySQL)
	v.SetDefault("slow_threshold", 100*time.Millisecond)
	v.SetDefault("debug", false)

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName(".definer")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.dir)
		if l.home {
			if home, err := homedir.Dir(); err == nil {
				v.AddConfigPath(home)
				v.AddConfigPath(filepath.Join(home, ".config", "definer"))
			}
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// .env.local overrides .env.
	for _, name := range []string{".env", ".env.local"} {
		env, err := readDotenv(l.fs, filepath.Join(l.dir, name))
		if err != nil {
			return nil, err
		}
		if len(env) == 0 {
			continue
		}
		if err := v.MergeConfigMap(env); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", name, err)
		}
	}

	v.SetEnvPrefix("DEFINER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("dsn", "DEFINER_DSN", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if l.flags != nil {
		for _, key := range []string{"dialect", "host", "port", "user", "password", "database", "dsn", "slow_threshold", "debug"} {
			if f := l.flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{
		Dialect:       v.GetString("dialect"),
		Host:          v.GetString("host"),
		Port:          v.GetInt("port"),
		User:          v.GetString("user"),
		Password:      v.GetString("password"),
		Database:      v.GetString("database"),
		DSN:           v.GetString("dsn"),
		SlowThreshold: v.GetDuration("slow_threshold"),
		Debug:         v.GetBool("debug"),
		File:          v.ConfigFileUsed(),
	}
	return cfg, nil
}

// readDotenv parses a dotenv file into settings. Keys carry the DEFINER_
// prefix, except DATABASE_URL which sets the DSN. A missing file yields no
// settings.
func readDotenv(fs afero.Fs, path string) (map[string]any, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	settings := make(map[string]any, len(env))
	for k, val := range env {
		switch {
		case k == "DATABASE_URL":
			if _, ok := settings["dsn"]; !ok {
				settings["dsn"] = val
			}
		case strings.HasPrefix(k, "DEFINER_"):
			settings[strings.ToLower(strings.TrimPrefix(k, "DEFINER_"))] = val
		}
	}
	return settings, nil
}

// Validate checks that the configuration can open a connection.
func (c *Config) Validate() error {
	switch c.Dialect {
	case dialect.MySQL, dialect.Postgres, dialect.SQLite:
	default:
		return fmt.Errorf("config: unsupported dialect %q", c.Dialect)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.SlowThreshold < 0 {
		return fmt.Errorf("config: negative slow threshold %s", c.SlowThreshold)
	}
	if c.DSN == "" && c.Dialect != dialect.SQLite && c.Database == "" {
		return errors.New("config: either dsn or database is required")
	}
	return nil
}

// DataSource returns the DSN, formatting one from the discrete settings when
// no DSN is configured.
func (c *Config) DataSource() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	return sql.DSN(c.Dialect, c.Address(), c.User, c.Password, c.Database)
}

// Address returns the host joined with the port, if one is set.
func (c *Config) Address() string {
	if c.Host == "" || c.Port == 0 {
		return c.Host
	}
	if _, _, err := net.SplitHostPort(c.Host); err == nil {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
