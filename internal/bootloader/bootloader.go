// Package bootloader installs GRUB into the target, either as an EFI
// application or into the MBR of a disk.
package bootloader

import (
	"fmt"

	"github.com/osbuild/images/pkg/arch"
	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/executor"
)

const (
	// BootloaderID is the name of the EFI boot entry
	BootloaderID = "crystal"
	GrubConfig   = "/boot/grub/grub.cfg"
)

// PackageInstaller installs packages into the target.
type PackageInstaller interface {
	Install(pkgs []string) error
}

// DefaultArch is the architecture of the installed system unless the
// settings say otherwise.
const DefaultArch = arch.ARCH_X86_64

type Installer struct {
	ex       executor.Executor
	packages PackageInstaller
	logger   logrus.FieldLogger
	arch     arch.Arch
}

func NewInstaller(ex executor.Executor, packages PackageInstaller, logger logrus.FieldLogger) *Installer {
	return &Installer{
		ex:       ex,
		packages: packages,
		logger:   logger,
		arch:     DefaultArch,
	}
}

// WithArch returns a copy of the installer targeting a.
func (i *Installer) WithArch(a arch.Arch) *Installer {
	c := *i
	c.arch = a
	return &c
}

// EFITarget returns the grub-install target platform for EFI systems on a.
func EFITarget(a arch.Arch) (string, error) {
	switch a {
	case arch.ARCH_X86_64:
		return "x86_64-efi", nil
	case arch.ARCH_AARCH64:
		return "arm64-efi", nil
	case arch.ARCH_RISCV64:
		return "riscv64-efi", nil
	default:
		return "", fmt.Errorf("no EFI grub target for architecture %s", a)
	}
}

// InstallEFI installs GRUB as an EFI application into the EFI system
// partition mounted at efiDir inside the target.
func (i *Installer) InstallEFI(efiDir string) error {
	target, err := EFITarget(i.arch)
	if err != nil {
		return err
	}
	i.logger.WithFields(logrus.Fields{"target": target, "efi_directory": efiDir}).Debug("Installing GRUB")

	if err := i.packages.Install([]string{"grub", "efibootmgr"}); err != nil {
		return err
	}

	err = i.ex.RunChroot("install grub as efi", "grub-install",
		"--target="+target,
		"--efi-directory="+efiDir,
		"--bootloader-id="+BootloaderID,
	)
	if err != nil {
		return err
	}

	return i.mkconfig()
}

// InstallLegacy installs GRUB into the boot sector of device.
func (i *Installer) InstallLegacy(device string) error {
	i.logger.WithFields(logrus.Fields{"target": "i386-pc", "device": device}).Debug("Installing GRUB")

	if err := i.packages.Install([]string{"grub"}); err != nil {
		return err
	}

	if err := i.ex.RunChroot("install grub as legacy", "grub-install", "--target=i386-pc", device); err != nil {
		return err
	}

	return i.mkconfig()
}

func (i *Installer) mkconfig() error {
	return i.ex.RunChroot("create grub.cfg", "grub-mkconfig", "-o", GrubConfig)
}
