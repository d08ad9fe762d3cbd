// Package config provides functionality for managing configuration options
// for the application using a .env file, command-line flags, a JSON config
// file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// UploadDir is where uploaded images are stored and served from.
	UploadDir string `json:"upload_dir"`

	// LogLevel is the minimum zap level ("debug", "info", ...).
	LogLevel string `json:"log_level"`

	// SessionTTL is the fixed lifetime of a login session.
	SessionTTL Duration `json:"session_ttl"`

	// SecureCookies marks the session cookie Secure (HTTPS only).
	SecureCookies bool `json:"secure_cookies"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`
}

// Duration is a time.Duration read from JSON as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalJSON parses a Go duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		Port:        "localhost:3000",
		DatabaseDSN: "postgres://localhost:5432/portfolio?sslmode=disable",
		Config:      "config.json",
		UploadDir:   "uploads",
		LogLevel:    "info",
		SessionTTL:  Duration{24 * time.Hour},
	}
}

// Parse reads configuration in increasing order of precedence: defaults,
// command-line flags, the JSON config file, environment variables. A .env
// file in the working directory is loaded into the environment first.
func Parse(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	options := Default()
	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	fset.StringVar(&options.Port, "a", options.Port, "run on ip:port server")
	fset.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	fset.StringVar(&options.Config, "config", options.Config, "path to config file")
	fset.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
	fset.StringVar(&options.UploadDir, "u", options.UploadDir, "upload directory")
	fset.StringVar(&options.LogLevel, "l", options.LogLevel, "log level")
	fset.Var(&options.SessionTTL, "session-ttl", "session lifetime")
	fset.BoolVar(&options.SecureCookies, "secure-cookies", options.SecureCookies, "send session cookie over HTTPS only")
	fset.StringVar(&options.TLSCert, "tls-cert", "", "TLS certificate file")
	fset.StringVar(&options.TLSKey, "tls-key", "", "TLS key file")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}
	return options, nil
}

func applyEnv(options *Options) error {
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Port = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		options.UploadDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if err := options.SessionTTL.Set(v); err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECURE_COOKIES: %w", err)
		}
		options.SecureCookies = b
	}
	return nil
}
