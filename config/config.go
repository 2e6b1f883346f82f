package config

import (
	"io/fs"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	// DatabaseFilePath is the SQLite file holding the catalog. Empty keeps the
	// catalog in memory only.
	DatabaseFilePath string `koanf:"database_file_path" default:"library.db"`
	DefaultLoanDays  int    `koanf:"default_loan_days" default:"14" validate:"min=1"`
	LogLevel         string `koanf:"log_level" default:"info" validate:"oneof=debug info warn error"`
	ServerHost       string `koanf:"server_host"`
	ServerPort       int    `koanf:"server_port" default:"3690" validate:"min=0,max=65535"`
}

const (
	databaseFilePathENV = "LIBRARY_DATABASE_FILE_PATH"
	defaultLoanDaysENV  = "LIBRARY_DEFAULT_LOAN_DAYS"
	logLevelENV         = "LIBRARY_LOG_LEVEL"
	serverHostENV       = "LIBRARY_SERVER_HOST"
	serverPortENV       = "LIBRARY_SERVER_PORT"
)

// New builds the config from defaults, then the YAML file at path (if path is
// non-empty and the file exists), then LIBRARY_* environment variables.
func New(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// File doesn't exist, keep defaults
			return nil
		}
		return errors.WithStack(err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errors.Wrapf(err, "load config file %s", path)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(databaseFilePathENV); ok {
		cfg.DatabaseFilePath = v
	}
	if v := os.Getenv(defaultLoanDaysENV); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", defaultLoanDaysENV)
		}
		cfg.DefaultLoanDays = days
	}
	if v := os.Getenv(logLevelENV); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(serverHostENV); v != "" {
		cfg.ServerHost = v
	}
	if v := os.Getenv(serverPortENV); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", serverPortENV)
		}
		cfg.ServerPort = port
	}
	return nil
}
