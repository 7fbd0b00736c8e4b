package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"goTrayWatch/internal/config"
	"goTrayWatch/internal/logger"
)

// Bootstrap is the loaded configuration and process logger shared by the
// console and tray hosts.
type Bootstrap struct {
	Path      string
	Config    config.Config
	Overrides *viper.Viper
	Logger    *slog.Logger
	Closer    io.Closer
}

// Load resolves and reads the config file, layers flag and environment
// overrides from fs, and builds the logger. A missing default config file
// is not an error; a missing explicit one is. logOut receives console logs.
func Load(explicitPath string, fs *pflag.FlagSet, logOut io.Writer) (*Bootstrap, error) {
	path := config.ResolvePath(explicitPath)
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicitPath != "" {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	over, err := config.NewOverrides(fs)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(&cfg, over); err != nil {
		return nil, err
	}

	l, closer, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Color:      cfg.Log.Color,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}, logOut)
	if err != nil {
		return nil, err
	}
	return &Bootstrap{Path: path, Config: cfg, Overrides: over, Logger: l, Closer: closer}, nil
}

// Reload re-reads the config file with the same overrides.
func (b *Bootstrap) Reload() (config.Config, error) {
	cfg, err := config.Load(b.Path)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyOverrides(&cfg, b.Overrides); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
