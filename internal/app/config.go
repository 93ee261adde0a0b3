package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"

	"github.com/Flarenzy/netcollide/internal/snapshot"
)

const (
	SourceDocker  = "docker"
	SourceCapture = "capture"

	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	Source      string
	CaptureDir  string
	Concurrency int
	ExecTimeout time.Duration

	Store        string
	SnapshotPath string
	DSN          string

	LogLevel string

	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	AuthEnabled bool
	Issuer      string
	Audience    string
	JWKSURL     string
}

func DefaultConfig() Config {
	return Config{
		Source:       SourceDocker,
		Concurrency:  1,
		ExecTimeout:  10 * time.Second,
		Store:        StoreFile,
		SnapshotPath: snapshot.DefaultPath,
		LogLevel:     "info",
		Port:         "4040",
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// LoadConfig applies defaults, then the INI file at path when path is not
// empty, then the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromFile reads keys from the default section of an INI file. Key
// names are case-insensitive.
func (c *Config) LoadFromFile(path string) error {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	section := file.Section("")
	c.Source = section.Key("source").MustString(c.Source)
	c.CaptureDir = section.Key("capturedir").MustString(c.CaptureDir)
	c.Concurrency = section.Key("concurrency").MustInt(c.Concurrency)
	c.ExecTimeout = section.Key("exectimeout").MustDuration(c.ExecTimeout)
	c.Store = section.Key("store").MustString(c.Store)
	c.SnapshotPath = section.Key("snapshot").MustString(c.SnapshotPath)
	c.DSN = section.Key("dsn").MustString(c.DSN)
	c.LogLevel = section.Key("loglevel").MustString(c.LogLevel)
	c.Port = section.Key("port").MustString(c.Port)
	c.ReadTimeout = section.Key("readtimeout").MustDuration(c.ReadTimeout)
	c.WriteTimeout = section.Key("writetimeout").MustDuration(c.WriteTimeout)
	c.AuthEnabled = section.Key("authenabled").MustBool(c.AuthEnabled)
	c.Issuer = section.Key("issuer").MustString(c.Issuer)
	c.Audience = section.Key("audience").MustString(c.Audience)
	c.JWKSURL = section.Key("jwksurl").MustString(c.JWKSURL)

	return nil
}

func (c *Config) LoadFromEnv() error {
	setString(&c.Source, "NETCOLLIDE_SOURCE")
	setString(&c.CaptureDir, "NETCOLLIDE_CAPTURE_DIR")
	setString(&c.Store, "NETCOLLIDE_STORE")
	setString(&c.SnapshotPath, "NETCOLLIDE_SNAPSHOT")
	setString(&c.DSN, "DB_CONN")
	setString(&c.LogLevel, "NETCOLLIDE_LOG_LEVEL")
	setString(&c.Port, "PORT")
	setString(&c.Issuer, "NETCOLLIDE_AUTH_ISSUER")
	setString(&c.Audience, "NETCOLLIDE_AUTH_AUDIENCE")
	setString(&c.JWKSURL, "NETCOLLIDE_AUTH_JWKS_URL")

	var errs []error
	if v := os.Getenv("NETCOLLIDE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("NETCOLLIDE_CONCURRENCY: %w", err))
		}
		c.Concurrency = n
	}
	if v := os.Getenv("NETCOLLIDE_EXEC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("NETCOLLIDE_EXEC_TIMEOUT: %w", err))
		}
		c.ExecTimeout = d
	}
	if v := os.Getenv("NETCOLLIDE_AUTH_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("NETCOLLIDE_AUTH_ENABLED: %w", err))
		}
		c.AuthEnabled = b
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceDocker:
	case SourceCapture:
		if c.CaptureDir == "" {
			errs = append(errs, errors.New("capture source needs a capture directory"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}
	switch c.Store {
	case StoreFile:
		if c.SnapshotPath == "" {
			errs = append(errs, errors.New("file store needs a snapshot path"))
		}
	case StorePostgres:
		if c.DSN == "" {
			errs = append(errs, errors.New("postgres store needs a DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.ExecTimeout < 0 {
		errs = append(errs, fmt.Errorf("exec timeout must not be negative, got %s", c.ExecTimeout))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
