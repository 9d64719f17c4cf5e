// Package features sets up the optional features of an installation.
package features

import (
	"github.com/crystal-linux/jade/internal/executor"
)

const (
	FlathubName = "flathub"
	FlathubURL  = "https://flathub.org/repo/flathub.flatpakrepo"
)

// PackageInstaller installs packages into the target.
type PackageInstaller interface {
	Install(pkgs []string) error
}

// SetupTimeshift installs timeshift with automatic snapshots on package
// upgrades and GRUB entries for the snapshots, and switches timeshift to
// btrfs mode.
func SetupTimeshift(ex executor.Executor, packages PackageInstaller) error {
	if err := packages.Install([]string{"timeshift", "timeshift-autosnap", "grub-btrfs"}); err != nil {
		return err
	}
	return ex.RunChroot("setup timeshift", "timeshift", "--btrfs")
}

// InstallFlatpak installs flatpak and adds the flathub remote.
func InstallFlatpak(ex executor.Executor, packages PackageInstaller) error {
	if err := packages.Install([]string{"flatpak"}); err != nil {
		return err
	}
	return ex.RunChroot("add flathub remote", "flatpak", "remote-add", "--if-not-exists", FlathubName, FlathubURL)
}
