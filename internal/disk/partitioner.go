package disk

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/executor"
)

const (
	// Size of the EFI system partition created in auto mode
	efiPartitionEnd  = "301MiB"
	// Size of the /boot partition created in auto mode on legacy systems
	bootPartitionEnd = "513MiB"
)

// Partitioner prepares the target disk and mounts it at the executor's
// root.
type Partitioner struct {
	ex     executor.Executor
	logger logrus.FieldLogger
}

func NewPartitioner(ex executor.Executor, logger logrus.FieldLogger) *Partitioner {
	return &Partitioner{
		ex:     ex,
		logger: logger,
	}
}

// Partition lays out device according to mode. In auto mode the device is
// erased and partitions is ignored; in manual mode every partition is
// formatted and mounted and device is not touched.
func (p *Partitioner) Partition(device string, mode PartitionMode, efi bool, partitions []PartitionSpec) error {
	switch mode {
	case PartitionModeAuto:
		return p.partitionAuto(device, efi)
	case PartitionModeManual:
		return p.partitionManual(partitions)
	default:
		return fmt.Errorf("unknown partition mode %d", mode)
	}
}

func (p *Partitioner) parted(op, device string, args ...string) error {
	return p.ex.Run(op, "parted", append([]string{"-s", device}, args...)...)
}

func (p *Partitioner) partitionAuto(device string, efi bool) error {
	root := p.ex.Root()
	first := PartitionPath(device, 1)
	second := PartitionPath(device, 2)

	p.logger.Infof("Erasing %s", device)

	var steps []func() error
	if efi {
		steps = append(steps,
			func() error { return p.parted("create partition table", device, "mklabel", "gpt") },
			func() error { return p.parted("create EFI partition", device, "mkpart", "ESP", "fat32", "1MiB", efiPartitionEnd) },
			func() error { return p.parted("flag EFI partition", device, "set", "1", "esp", "on") },
			func() error { return p.parted("create root partition", device, "mkpart", "root", "btrfs", efiPartitionEnd, "100%") },
			func() error { return p.ex.Run("format EFI partition", "mkfs.vfat", "-F32", first) },
		)
	} else {
		steps = append(steps,
			func() error { return p.parted("create partition table", device, "mklabel", "msdos") },
			func() error {
				return p.parted("create boot partition", device, "mkpart", "primary", "ext4", "1MiB", bootPartitionEnd)
			},
			func() error { return p.parted("flag boot partition", device, "set", "1", "boot", "on") },
			func() error {
				return p.parted("create root partition", device, "mkpart", "primary", "btrfs", bootPartitionEnd, "100%")
			},
			func() error { return p.ex.Run("format boot partition", "mkfs.ext4", "-F", first) },
		)
	}

	steps = append(steps,
		func() error { return p.ex.Run("format root partition", "mkfs.btrfs", "-f", second) },
		func() error { return p.ex.Run("mount root partition", "mount", second, root) },
		func() error {
			return p.ex.Run("create btrfs root subvolume", "btrfs", "subvolume", "create", executor.TargetPath(root, "@"))
		},
		func() error {
			return p.ex.Run("create btrfs home subvolume", "btrfs", "subvolume", "create", executor.TargetPath(root, "@home"))
		},
		func() error { return p.ex.Run("unmount root partition", "umount", root) },
		func() error { return p.ex.Run("mount root subvolume", "mount", "-o", "subvol=@", second, root) },
		func() error { return p.mount("mount home subvolume", second, "/home", "subvol=@home") },
	)

	if efi {
		steps = append(steps, func() error { return p.mount("mount EFI partition", first, "/boot/efi", "") })
	} else {
		steps = append(steps, func() error { return p.mount("mount boot partition", first, "/boot", "") })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Partitioner) partitionManual(partitions []PartitionSpec) error {
	for _, part := range partitions {
		if err := part.Validate(); err != nil {
			return err
		}
	}

	for _, part := range SortByMountOrder(partitions) {
		device := DevicePath(part.Device)
		p.logger.WithFields(logrus.Fields{
			"device":     device,
			"mountpoint": part.Mountpoint,
			"filesystem": part.Filesystem,
		}).Info("Preparing partition")

		if part.Filesystem != FilesystemKeep {
			mkfs := Filesystems[part.Filesystem]
			args := append(append([]string{}, mkfs[1:]...), device)
			if err := p.ex.Run(fmt.Sprintf("format %s as %s", device, part.Filesystem), mkfs[0], args...); err != nil {
				return err
			}
		}

		if part.Filesystem == "swap" {
			if err := p.ex.Run(fmt.Sprintf("enable swap on %s", device), "swapon", device); err != nil {
				return err
			}
			continue
		}

		if err := p.mount(fmt.Sprintf("mount %s on %s", device, part.Mountpoint), device, part.Mountpoint, ""); err != nil {
			return err
		}
	}
	return nil
}

// mount creates the mountpoint inside the target and mounts device on it.
func (p *Partitioner) mount(op, device, mountpoint, options string) error {
	target := executor.TargetPath(p.ex.Root(), mountpoint)
	if err := p.ex.Run(op, "mkdir", "-p", target); err != nil {
		return err
	}
	args := []string{}
	if options != "" {
		args = append(args, "-o", options)
	}
	args = append(args, device, target)
	return p.ex.Run(op, "mount", args...)
}
