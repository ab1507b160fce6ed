package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/teamdex/classify"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	TeamSlugSalt string
	CSVPath      string
	TypesPath    string
	MatchOrder   classify.MatchOrder
	LogLevel     string
}

// LoadEnv reads a .env file into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags parses the serve subcommand
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	registerDatabaseFlags(fs, &cfg)

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.TeamSlugSalt, "slug-salt", "", "Team slug salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if err := resolveDatabase(&cfg); err != nil {
		return Config{}, err
	}
	resolveLogLevel(&cfg)

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.TeamSlugSalt == "" {
		cfg.TeamSlugSalt = os.Getenv("TEAM_SLUG_SALT")
	}
	if cfg.TeamSlugSalt == "" {
		return Config{}, errors.New("TEAM_SLUG_SALT required")
	}

	return cfg, nil
}

// ParseImportFlags parses the import subcommand
func ParseImportFlags(args []string) (Config, error) {
	var cfg Config
	var match string

	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	registerDatabaseFlags(fs, &cfg)
	fs.StringVar(&cfg.CSVPath, "csv", "", "Path to the pokemon CSV")
	fs.StringVar(&cfg.TypesPath, "types", "", "Type chart file (.csv or .yaml); embedded chart when empty")
	fs.StringVar(&match, "match", "", "Base name tie-break: longest or first")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.CSVPath == "" {
		cfg.CSVPath = os.Getenv("POKEMON_CSV")
	}
	if cfg.CSVPath == "" {
		return Config{}, errors.New("CSV path required (use -csv or POKEMON_CSV env)")
	}
	if cfg.TypesPath == "" {
		cfg.TypesPath = os.Getenv("TYPE_CHART")
	}

	if match == "" {
		match = os.Getenv("MATCH_ORDER")
	}
	order, err := classify.ParseMatchOrder(match)
	if err != nil {
		return Config{}, err
	}
	cfg.MatchOrder = order

	if err := resolveDatabase(&cfg); err != nil {
		return Config{}, err
	}
	resolveLogLevel(&cfg)

	return cfg, nil
}

// ParseVerifyFlags parses the verify subcommand. It needs no database.
func ParseVerifyFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.StringVar(&cfg.CSVPath, "csv", "", "Path to the pokemon CSV")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.CSVPath == "" {
		cfg.CSVPath = os.Getenv("POKEMON_CSV")
	}
	if cfg.CSVPath == "" {
		return Config{}, errors.New("CSV path required (use -csv or POKEMON_CSV env)")
	}
	resolveLogLevel(&cfg)

	return cfg, nil
}

func registerDatabaseFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
}

func resolveDatabase(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	return nil
}

func resolveLogLevel(cfg *Config) {
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
