package config

import (
	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
)

// document is the on-disk shape of Config. Every field is a pointer so that
// a missing field can be told apart from its zero value.
type document struct {
	Version       *int           `json:"version,omitempty" validate:"omitempty,eq=1"`
	Partition     *partitionDoc  `json:"partition" validate:"required"`
	Bootloader    *bootloaderDoc `json:"bootloader" validate:"required"`
	Locale        *localeDoc     `json:"locale" validate:"required"`
	Networking    *networkingDoc `json:"networking" validate:"required"`
	Users         []userDoc      `json:"users" validate:"required,dive"`
	RootPass      *string        `json:"rootpass" validate:"required"`
	Desktop       *string        `json:"desktop" validate:"omitempty,desktop"`
	Timeshift     *bool          `json:"timeshift" validate:"required"`
	Flatpak       *bool          `json:"flatpak" validate:"required"`
	ExtraPackages []string       `json:"extra_packages" validate:"required"`
}

type partitionDoc struct {
	Device     *string             `json:"device" validate:"required"`
	Mode       *disk.PartitionMode `json:"mode" validate:"required"`
	EFI        *bool               `json:"efi" validate:"required"`
	Partitions []string            `json:"partitions" validate:"required"`
}

type bootloaderDoc struct {
	Type     *string `json:"type" validate:"required,bootloader"`
	Location *string `json:"location" validate:"required"`
}

type localeDoc struct {
	Locale   []string `json:"locale" validate:"required"`
	Keymap   *string  `json:"keymap" validate:"required"`
	Timezone *string  `json:"timezone" validate:"required"`
}

type networkingDoc struct {
	Hostname *string `json:"hostname" validate:"required"`
	IPv6     *bool   `json:"ipv6" validate:"required"`
}

type userDoc struct {
	Name     *string `json:"name" validate:"required"`
	Password *string `json:"password" validate:"required"`
	HasRoot  *bool   `json:"hasroot" validate:"required"`
}

// toConfig must only be called on a validated document.
func (d *document) toConfig() *Config {
	users := make([]User, 0, len(d.Users))
	for _, u := range d.Users {
		users = append(users, User{
			Name:     *u.Name,
			Password: *u.Password,
			HasRoot:  *u.HasRoot,
		})
	}

	var desktop *desktops.Desktop
	if d.Desktop != nil {
		dt := desktops.Desktop(*d.Desktop)
		desktop = &dt
	}

	return &Config{
		Partition: Partition{
			Device:     *d.Partition.Device,
			Mode:       *d.Partition.Mode,
			EFI:        *d.Partition.EFI,
			Partitions: append([]string{}, d.Partition.Partitions...),
		},
		Bootloader: Bootloader{
			Type:     bootloader.Type(*d.Bootloader.Type),
			Location: *d.Bootloader.Location,
		},
		Locale: Locale{
			Locale:   append([]string{}, d.Locale.Locale...),
			Keymap:   *d.Locale.Keymap,
			Timezone: *d.Locale.Timezone,
		},
		Networking: Networking{
			Hostname: *d.Networking.Hostname,
			IPv6:     *d.Networking.IPv6,
		},
		Users:         users,
		RootPass:      *d.RootPass,
		Desktop:       desktop,
		Timeshift:     *d.Timeshift,
		Flatpak:       *d.Flatpak,
		ExtraPackages: append([]string{}, d.ExtraPackages...),
	}
}
