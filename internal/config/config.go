// Package config loads the installation configuration document: a JSON
// file (comments and trailing commas allowed) describing the desired state
// of the installed system.
//
// Only one schema is accepted. It is identified by an optional top level
// "version": 1 and requires partition.mode and partition.partitions; the
// older shape without them is rejected. desktop is the only optional field.
package config

import (
	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
)

// SchemaVersion is the only accepted value of the document's "version".
const SchemaVersion = 1

// Config is the desired end state of the target system. It is created once
// by Load and only read afterwards.
type Config struct {
	Partition     Partition         `json:"partition"`
	Bootloader    Bootloader        `json:"bootloader"`
	Locale        Locale            `json:"locale"`
	Networking    Networking        `json:"networking"`
	Users         []User            `json:"users"`
	RootPass      string            `json:"rootpass"`
	Desktop       *desktops.Desktop `json:"desktop"`
	Timeshift     bool              `json:"timeshift"`
	Flatpak       bool              `json:"flatpak"`
	ExtraPackages []string          `json:"extra_packages"`
}

type Partition struct {
	// Device is a name under /dev ("sda") or a path
	Device string             `json:"device"`
	Mode   disk.PartitionMode `json:"mode"`
	EFI    bool               `json:"efi"`
	// Partitions are partition specs, only used in manual mode
	Partitions []string `json:"partitions"`
}

type Bootloader struct {
	Type bootloader.Type `json:"type"`
	// Location is the EFI directory for grub-efi and the device for
	// grub-legacy
	Location string `json:"location"`
}

type Locale struct {
	Locale   []string `json:"locale"`
	Keymap   string   `json:"keymap"`
	Timezone string   `json:"timezone"`
}

type Networking struct {
	Hostname string `json:"hostname"`
	IPv6     bool   `json:"ipv6"`
}

type User struct {
	Name string `json:"name"`
	// Password in plain text, hashed when the user is created
	Password string `json:"password"`
	HasRoot  bool   `json:"hasroot"`
}
