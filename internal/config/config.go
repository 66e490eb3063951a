// Package config loads the application configuration. Sources are layered,
// later ones winning:
//
//	built-in defaults < YAML file (--config) < COFFEE_* env vars < command-line flags
//
// Env vars use "__" between sections: COFFEE_HTTP__PORT=9090 sets http.port.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks the environment variables read into the configuration.
const EnvPrefix = "COFFEE_"

type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Seed     SeedConfig     `koanf:"seed"`
	GitHub   GitHubConfig   `koanf:"github"`
	Log      LogConfig      `koanf:"log"`
}

type HTTPConfig struct {
	Port            int           `koanf:"port"             validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	// Path is a file path, or ":memory:" for a throwaway database.
	Path string `koanf:"path" validate:"required"`
	// ForeignKeys makes SQLite enforce the declared references. Off by
	// default, which tolerates favorites and reviews of deleted shops.
	ForeignKeys bool `koanf:"foreign_keys"`
	// AutoMigrate lets serve apply pending migrations instead of refusing
	// to start.
	AutoMigrate bool `koanf:"auto_migrate"`
}

type AuthConfig struct {
	// SessionSecret signs session tokens. Empty means a random secret per
	// process, so sessions do not survive a restart.
	SessionSecret string        `koanf:"session_secret" validate:"omitempty,min=16"`
	SessionTTL    time.Duration `koanf:"session_ttl"    validate:"gt=0"`
	CookieSecure  bool          `koanf:"cookie_secure"`
	BcryptCost    int           `koanf:"bcrypt_cost"    validate:"min=4,max=31"`
}

// SeedConfig feeds the data migrations. It only matters the first time
// they run.
type SeedConfig struct {
	DemoShops     bool   `koanf:"demo_shops"`
	AdminEmail    string `koanf:"admin_email"    validate:"omitempty,email"`
	AdminPassword string `koanf:"admin_password" validate:"required_with=AdminEmail"`
}

// GitHubConfig enables GitHub login when ClientID is set.
type GitHubConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret" validate:"required_with=ClientID"`
	CallbackURL  string `koanf:"callback_url"  validate:"omitempty,url"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// Enabled reports whether a GitHub OAuth app is configured.
func (g GitHubConfig) Enabled() bool {
	return g.ClientID != ""
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/coffee_finder.db",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
			BcryptCost: 12,
		},
		Seed: SeedConfig{
			DemoShops:     true,
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// flagKeys maps command-line flag names to configuration keys. Flags not
// listed here, such as --config, are not configuration values.
var flagKeys = map[string]string{
	"port":         "http.port",
	"db":           "database.path",
	"auto-migrate": "database.auto_migrate",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// Load builds the configuration. path names an optional YAML file; flags
// may be nil. Only flags the user actually set override other sources.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	if flags != nil {
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return Config{}, fmt.Errorf("config: loading flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey turns COFFEE_AUTH__SESSION_TTL into auth.session_ttl.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field rule and reports the first violation.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: invalid %s: failed %q rule", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadDotEnv copies variables from a .env file into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
