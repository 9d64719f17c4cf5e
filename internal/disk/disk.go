// Package disk describes the disk layout of an installation and prepares
// it: the partition spec mini-language ("device:mountpoint:fstype") used by
// manual partitioning, the partitioning modes and the Partitioner that
// formats and mounts the target.
package disk

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

type PartitionMode uint64

const (
	// PartitionModeAuto erases the whole device and lays out the default
	// partitions.
	PartitionModeAuto PartitionMode = iota
	// PartitionModeManual formats and mounts the partitions given as
	// partition specs, which must already exist.
	PartitionModeManual
)

func (m PartitionMode) String() string {
	switch m {
	case PartitionModeAuto:
		return "auto"
	case PartitionModeManual:
		return "manual"
	default:
		panic("invalid partition mode")
	}
}

func ParsePartitionMode(s string) (PartitionMode, error) {
	switch strings.ToLower(s) {
	case "auto":
		return PartitionModeAuto, nil
	case "manual":
		return PartitionModeManual, nil
	default:
		return 0, fmt.Errorf("unknown partition mode %q, expected \"auto\" or \"manual\"", s)
	}
}

func (m PartitionMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PartitionMode) UnmarshalJSON(data []byte) (err error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m, err = ParsePartitionMode(s)
	return err
}

// DevicePath returns the path of a block device given either as a name
// under /dev ("sda") or as a path ("/dev/disk/by-id/...").
func DevicePath(device string) string {
	if filepath.IsAbs(device) {
		return filepath.Clean(device)
	}
	return filepath.Join("/dev", device)
}

// PartitionPath returns the path of the n-th partition on device. Devices
// whose name ends with a digit (nvme0n1, mmcblk0, loop0) separate the
// partition number with a "p".
func PartitionPath(device string, n int) string {
	if device != "" {
		last := device[len(device)-1]
		if last >= '0' && last <= '9' {
			return fmt.Sprintf("%sp%d", device, n)
		}
	}
	return fmt.Sprintf("%s%d", device, n)
}
