package installer

import (
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
)

// System is the target machine as seen by the installer. Every method is a
// single collaborator call that either succeeds or fails, nothing else is
// consumed by the pipeline.
type System interface {
	Partition(device string, mode disk.PartitionMode, efi bool, partitions []disk.PartitionSpec) error
	InstallBase() error
	GenFstab() error
	InstallBootloaderEFI(efiDir string) error
	InstallBootloaderLegacy(device string) error
	SetLocale(locales string) error
	SetKeyboard(keymap string) error
	SetTimezone(timezone string) error
	SetHostname(hostname string) error
	CreateHosts() error
	EnableIPv6() error
	NewUser(name string, hasRoot bool, password string) error
	SetRootPassword(password string) error
	InstallDesktop(desktop desktops.Desktop) error
	SetupTimeshift() error
	InstallFlatpak() error
	Install(pkgs []string) error
}
