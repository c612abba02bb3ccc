package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"go_tftp/constants"
)

// Config is the client configuration after defaults and file overrides
type Config struct {
	Server     string
	Port       int
	Timeout    time.Duration
	AckRetries int
	Linger     int
	DSCP       int
	LogLevel   string
	Compress   bool
	SHA256     bool
	OutputDir  string
	Metrics    string
}

type fileConfig struct {
	Server     string `toml:"server"`
	Port       int    `toml:"port"`
	Timeout    string `toml:"timeout"`
	TimeoutMS  int64  `toml:"timeout_ms"`
	AckRetries int    `toml:"ack_retries"`
	Linger     int    `toml:"linger"`
	DSCP       int    `toml:"dscp"`
	LogLevel   string `toml:"log_level"`
	Compress   bool   `toml:"lz4"`
	SHA256     bool   `toml:"sha256"`
	OutputDir  string `toml:"output_dir"`
	Metrics    string `toml:"metrics_file"`
}

// Default returns built-in defaults
func Default() Config {
	return Config{
		Port:       constants.DEFAULT_PORT,
		Timeout:    constants.DEFAULT_TIMEOUT_MS * time.Millisecond,
		AckRetries: constants.DEFAULT_ACK_RETRY,
		Linger:     constants.DEFAULT_LINGER,
		DSCP:       constants.DEFAULT_DSCP,
		LogLevel:   "info",
	}
}

// Load reads TOML file on top of defaults. Only keys present in the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("server") {
		cfg.Server = strings.TrimSpace(raw.Server)
	}

	if meta.IsDefined("port") {
		if raw.Port <= 0 || raw.Port > 65535 {
			return Config{}, errors.Errorf("port %d out of range", raw.Port)
		}
		cfg.Port = raw.Port
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, errors.Wrap(err, "parse timeout")
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("timeout_ms") {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}

	if cfg.Timeout <= 0 {
		return Config{}, errors.New("timeout must be positive")
	}

	if meta.IsDefined("ack_retries") {
		if raw.AckRetries < 0 {
			return Config{}, errors.New("ack_retries must not be negative")
		}
		cfg.AckRetries = raw.AckRetries
	}

	if meta.IsDefined("linger") {
		if raw.Linger < 0 {
			return Config{}, errors.New("linger must not be negative")
		}
		cfg.Linger = raw.Linger
	}

	if meta.IsDefined("dscp") {
		cfg.DSCP = raw.DSCP
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("lz4") {
		cfg.Compress = raw.Compress
	}

	if meta.IsDefined("sha256") {
		cfg.SHA256 = raw.SHA256
	}

	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}

	if meta.IsDefined("metrics_file") {
		cfg.Metrics = strings.TrimSpace(raw.Metrics)
	}

	return cfg, nil
}
