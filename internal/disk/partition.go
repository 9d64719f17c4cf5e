package disk

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// ErrMalformedSpec is wrapped by every MalformedSpecError.
var ErrMalformedSpec = errors.New("malformed partition spec")

type MalformedSpecError struct {
	Spec   string
	Reason string
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedSpec, e.Spec, e.Reason)
}

func (e *MalformedSpecError) Unwrap() error {
	return ErrMalformedSpec
}

// PartitionSpec is a single manually specified partition.
type PartitionSpec struct {
	// Device is the partition block device, e.g. /dev/sda1.
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	// Filesystem the partition is formatted with, see Filesystems.
	Filesystem string `json:"filesystem"`
}

func (p PartitionSpec) String() string {
	return strings.Join([]string{p.Device, p.Mountpoint, p.Filesystem}, ":")
}

// ParsePartitionSpec parses "<partDevice>:<mountpoint>:<fstype>". All three
// fields are required and must not be empty.
func ParsePartitionSpec(s string) (PartitionSpec, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return PartitionSpec{}, &MalformedSpecError{
			Spec:   s,
			Reason: fmt.Sprintf("expected 3 colon separated fields, got %d", len(fields)),
		}
	}

	names := [...]string{"device", "mountpoint", "filesystem"}
	for i, field := range fields {
		if field == "" {
			return PartitionSpec{}, &MalformedSpecError{
				Spec:   s,
				Reason: fmt.Sprintf("%s is empty", names[i]),
			}
		}
	}

	return PartitionSpec{
		Device:     fields[0],
		Mountpoint: fields[1],
		Filesystem: fields[2],
	}, nil
}

// ParsePartitionSpecs parses every entry of specs, in order.
func ParsePartitionSpecs(specs []string) ([]PartitionSpec, error) {
	partitions := make([]PartitionSpec, 0, len(specs))
	for i, s := range specs {
		p, err := ParsePartitionSpec(s)
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", i, err)
		}
		partitions = append(partitions, p)
	}
	return partitions, nil
}

// mountDepth is the number of path components of a mountpoint, "/" is 0.
func mountDepth(mountpoint string) int {
	clean := path.Clean(mountpoint)
	if clean == "/" {
		return 0
	}
	return strings.Count(clean, "/")
}

// SortByMountOrder returns a copy of partitions ordered so that every
// mountpoint comes after its parents. Swap partitions go last. The order of
// partitions at the same depth is kept.
func SortByMountOrder(partitions []PartitionSpec) []PartitionSpec {
	sorted := make([]PartitionSpec, len(partitions))
	copy(sorted, partitions)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Filesystem == "swap", sorted[j].Filesystem == "swap"
		if si != sj {
			return sj
		}
		return mountDepth(sorted[i].Mountpoint) < mountDepth(sorted[j].Mountpoint)
	})
	return sorted
}
