// Package target implements installer.System on top of an Executor: the
// machine being installed, mounted at the executor's root.
package target

import (
	"github.com/osbuild/images/pkg/arch"
	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/features"
	"github.com/crystal-linux/jade/internal/fstab"
	"github.com/crystal-linux/jade/internal/locale"
	"github.com/crystal-linux/jade/internal/network"
	"github.com/crystal-linux/jade/internal/packages"
	"github.com/crystal-linux/jade/internal/users"
)

type Options struct {
	// PacmanConf is copied from the host into the target, defaults to
	// packages.DefaultPacmanConf
	PacmanConf string
	// Arch selects the EFI grub target, bootloader.DefaultArch when unset
	Arch arch.Arch
}

type System struct {
	ex          executor.Executor
	logger      logrus.FieldLogger
	packages    *packages.Installer
	partitioner *disk.Partitioner
	bootloader  *bootloader.Installer
}

func New(ex executor.Executor, opts Options, logger logrus.FieldLogger) *System {
	pkgs := packages.NewInstaller(ex, opts.PacmanConf, logger)
	bl := bootloader.NewInstaller(ex, pkgs, logger)
	if opts.Arch != arch.ARCH_UNSET {
		bl = bl.WithArch(opts.Arch)
	}
	return &System{
		ex:          ex,
		logger:      logger,
		packages:    pkgs,
		partitioner: disk.NewPartitioner(ex, logger),
		bootloader:  bl,
	}
}

func (s *System) Partition(device string, mode disk.PartitionMode, efi bool, partitions []disk.PartitionSpec) error {
	return s.partitioner.Partition(device, mode, efi, partitions)
}

func (s *System) InstallBase() error {
	return s.packages.InstallBase()
}

func (s *System) GenFstab() error {
	return fstab.Generate(s.ex)
}

func (s *System) InstallBootloaderEFI(efiDir string) error {
	return s.bootloader.InstallEFI(efiDir)
}

func (s *System) InstallBootloaderLegacy(device string) error {
	return s.bootloader.InstallLegacy(device)
}

func (s *System) SetLocale(locales string) error {
	return locale.SetLocale(s.ex, locales)
}

func (s *System) SetKeyboard(keymap string) error {
	return locale.SetKeyboard(s.ex, keymap)
}

func (s *System) SetTimezone(timezone string) error {
	return locale.SetTimezone(s.ex, timezone)
}

func (s *System) SetHostname(hostname string) error {
	return network.SetHostname(s.ex, hostname)
}

func (s *System) CreateHosts() error {
	return network.CreateHosts(s.ex)
}

func (s *System) EnableIPv6() error {
	return network.EnableIPv6(s.ex)
}

func (s *System) NewUser(name string, hasRoot bool, password string) error {
	return users.Create(s.ex, users.NewUser(name, hasRoot, password))
}

func (s *System) SetRootPassword(password string) error {
	return users.SetRootPassword(s.ex, password)
}

func (s *System) InstallDesktop(desktop desktops.Desktop) error {
	return desktops.Install(s.ex, s.packages, desktop)
}

func (s *System) SetupTimeshift() error {
	return features.SetupTimeshift(s.ex, s.packages)
}

func (s *System) InstallFlatpak() error {
	return features.InstallFlatpak(s.ex, s.packages)
}

func (s *System) Install(pkgs []string) error {
	return s.packages.Install(pkgs)
}
