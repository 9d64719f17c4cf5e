package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/osbuild/images/pkg/arch"
	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/packages"
)

const defaultSettingsPath = "/etc/jade/jade.toml"

type metricsSettings struct {
	// Textfile is where the metrics of a run are written for
	// node_exporter's textfile collector
	Textfile string `toml:"textfile"`
}

type sentrySettings struct {
	DSN string `toml:"dsn"`
}

type settings struct {
	Root       string          `toml:"root"`
	Chroot     string          `toml:"chroot"`
	PacmanConf string          `toml:"pacman_conf"`
	LogLevel   string          `toml:"log_level"`
	Arch       string          `toml:"arch"`
	Journal    bool            `toml:"journal"`
	DryRun     bool            `toml:"dry_run"`
	Metrics    metricsSettings `toml:"metrics"`
	Sentry     sentrySettings  `toml:"sentry"`
}

func parseSettings(file string, logger logrus.FieldLogger) (*settings, error) {
	// set defaults
	s := settings{
		Root:       "/mnt",
		Chroot:     executor.DefaultChroot,
		PacmanConf: packages.DefaultPacmanConf,
		LogLevel:   "info",
		Arch:       bootloader.DefaultArch.String(),
	}

	md, err := toml.DecodeFile(file, &s)
	if err != nil {
		// Return error only when we failed to decode the file.
		// A non-existing settings file isn't an error, use defaults in this case.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("settings file %s: %w", file, err)
		}

		logger.Debugf("Settings file %s not found, using defaults", file)
	} else if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("settings file %s: unknown keys %v", file, undecoded)
	}

	if !filepath.IsAbs(s.Root) {
		return nil, fmt.Errorf("settings file %s: root must be an absolute path, got %q", file, s.Root)
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", file, err)
	}
	if _, err := arch.FromString(s.Arch); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", file, err)
	}

	return &s, nil
}
