// Package config loads orodb settings from an optional TOML file and
// ORO_DB_* environment variables.
//
// Resolution order, later wins: built-in defaults, the config file,
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// envConfigPathKey overrides the config file path.
	envConfigPathKey = "ORO_CONFIG_PATH"

	// defaultConfigName is the config file looked up under the user's
	// home directory when no explicit path is given.
	defaultConfigName = ".orodb.toml"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type ConfigError struct {
	Opt string
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + strings.Join([]string{e.Opt, e.Err.Error()}, ": ")
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Settings holds the database and tool configuration.
//
//nolint:tagalign
type Settings struct {
	Driver        string `toml:"driver" comment:"Database driver: 'postgres' or 'sqlite' (default: 'postgres')"`
	Host          string `toml:"host" comment:"Database host (default: 'localhost')"`
	Port          int    `toml:"port" comment:"Database port (default: 5432)"`
	Name          string `toml:"name" comment:"Database name; the database file path for the sqlite driver (default: 'postgres')"`
	User          string `toml:"user" comment:"Database user (default: 'postgres')"`
	Password      string `toml:"password,commented" comment:"Database password (default: empty)"`
	PoolMin       int    `toml:"pool_min" comment:"Minimum number of idle pool connections (default: 5)"`
	PoolMax       int    `toml:"pool_max" comment:"Maximum number of open pool connections (default: 20)"`
	LogLevel      string `toml:"log_level" comment:"Log level (default: 'INFO')"`
	LogFile       string `toml:"log_file,commented" comment:"Optional log file path (default: stderr)"`
	MigrationsDir string `toml:"migrations_dir,commented" comment:"Directory holding migration artifacts (default: './migrations')"`

	path string // path of the loaded config file; empty when none was used
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Driver:        DriverPostgres,
		Host:          "localhost",
		Port:          5432,
		Name:          "postgres",
		User:          "postgres",
		PoolMin:       5,
		PoolMax:       20,
		LogLevel:      "INFO",
		MigrationsDir: "migrations",
	}
}

// Load resolves settings from the given config file path, falling back to
// the default location when path is empty. A missing file at the default
// location is not an error. Environment variables are applied last.
func Load(path string) (*Settings, error) {
	defaultPath, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}

	configPath := path
	if configPath == "" {
		configPath = defaultPath
	}

	s, err := parseFile(configPath)
	if err != nil {
		// no config file at the default location; start from defaults
		if len(path) == 0 && errors.Is(err, fs.ErrNotExist) {
			s = Default()
		} else {
			return nil, err
		}
	} else {
		s.path = configPath
	}

	s.applyEnv()

	return s, s.validate()
}

// Path returns the path of the loaded config file, or an empty string when
// no file was used.
func (s *Settings) Path() string { return s.path }

// DatabaseURL renders the settings as a connection URL. For the sqlite
// driver the database name is the file path.
func (s *Settings) DatabaseURL() string {
	if s.Driver == DriverSQLite {
		return s.Name
	}

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(s.User, s.Password),
		Host:   fmt.Sprintf("%s:%d", s.Host, s.Port),
		Path:   "/" + s.Name,
	}

	return u.String()
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: user home dir: %w", err)
	}

	path := filepath.Join(home, defaultConfigName)
	if p, ok := os.LookupEnv(envConfigPathKey); ok {
		path = p
	}

	return path, nil
}

func parseFile(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: stat file: %w", err)
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	s := Default()
	if err := toml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("config: parse file: %w", err)
	}

	return s, nil
}

// envOverrides maps environment variable keys to setting fields.
func (s *Settings) applyEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("ORO_DB_DRIVER", &s.Driver)
	setString("ORO_DB_HOST", &s.Host)
	setInt("ORO_DB_PORT", &s.Port)
	setString("ORO_DB_NAME", &s.Name)
	setString("ORO_DB_USER", &s.User)
	setString("ORO_DB_PASSWORD", &s.Password)
	setInt("ORO_DB_POOL_MIN", &s.PoolMin)
	setInt("ORO_DB_POOL_MAX", &s.PoolMax)
	setString("ORO_LOG_LEVEL", &s.LogLevel)
	setString("ORO_LOG_FILE", &s.LogFile)
	setString("ORO_MIGRATIONS_DIR", &s.MigrationsDir)
}

func (s *Settings) validate() error {
	if s == nil {
		return &ConfigError{Err: errors.New("cannot validate nil settings")}
	}

	if s.Driver != DriverPostgres && s.Driver != DriverSQLite {
		return &ConfigError{Opt: "driver", Err: fmt.Errorf("unsupported driver %q", s.Driver)}
	}

	if s.PoolMin < 0 {
		return &ConfigError{Opt: "pool_min", Err: errors.New("must be zero or a positive integer")}
	}

	if s.PoolMax < s.PoolMin {
		return &ConfigError{Opt: "pool_max", Err: errors.New("must be greater than or equal to pool_min")}
	}

	if s.Port <= 0 || s.Port > 65535 {
		return &ConfigError{Opt: "port", Err: fmt.Errorf("invalid port %d", s.Port)}
	}

	return nil
}
