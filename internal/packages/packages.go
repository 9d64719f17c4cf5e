// Package packages installs packages into the target root with pacstrap.
package packages

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/executor"
)

// DefaultPacmanConf is the host pacman configuration copied into the
// target before the base system is installed.
const DefaultPacmanConf = "/etc/pacman.conf"

// BasePackages is the package set every installation starts from.
var BasePackages = []string{
	"base",
	"linux",
	"linux-firmware",
	"systemd-sysvcompat",
	"networkmanager",
	"man-db",
	"man-pages",
	"texinfo",
	"micro",
	"sudo",
	"curl",
	"archlinux-keyring",
	"neofetch",
	"btrfs-progs",
	"timeshift",
	"timeshift-autosnap",
	"which",
}

type Installer struct {
	ex         executor.Executor
	logger     logrus.FieldLogger
	pacmanConf string
}

// NewInstaller returns an Installer that copies pacmanConf from the host
// into the target. An empty pacmanConf means DefaultPacmanConf.
func NewInstaller(ex executor.Executor, pacmanConf string, logger logrus.FieldLogger) *Installer {
	if pacmanConf == "" {
		pacmanConf = DefaultPacmanConf
	}
	return &Installer{
		ex:         ex,
		logger:     logger,
		pacmanConf: pacmanConf,
	}
}

// InstallBase copies the host pacman configuration into the target and
// installs BasePackages.
func (i *Installer) InstallBase() error {
	if err := i.ex.CopyFile("copy pacman.conf", i.pacmanConf, "etc/pacman.conf", 0644); err != nil {
		return err
	}

	return i.Install(BasePackages)
}

// Install installs pkgs into the target with a single pacstrap call.
// Nothing runs when pkgs is empty.
func (i *Installer) Install(pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}

	i.logger.WithField("packages", pkgs).Debug("Installing packages")

	args := append([]string{i.ex.Root()}, pkgs...)
	return i.ex.Run(fmt.Sprintf("install packages %v", pkgs), "pacstrap", args...)
}
