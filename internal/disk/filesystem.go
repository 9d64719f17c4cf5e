package disk

import (
	"fmt"
	"sort"

	"github.com/osbuild/images/pkg/pathpolicy"
)

// FilesystemKeep leaves an existing filesystem untouched and only mounts it.
const FilesystemKeep = "keep"

// mkfs command lines per filesystem type accepted in partition specs. The
// device is appended as last argument.
var Filesystems = map[string][]string{
	"ext2":  {"mkfs.ext2", "-F"},
	"ext3":  {"mkfs.ext3", "-F"},
	"ext4":  {"mkfs.ext4", "-F"},
	"btrfs": {"mkfs.btrfs", "-f"},
	"xfs":   {"mkfs.xfs", "-f"},
	"f2fs":  {"mkfs.f2fs", "-f"},
	"vfat":  {"mkfs.vfat", "-F32"},
	"fat32": {"mkfs.vfat", "-F32"},
	"fat":   {"mkfs.fat"},
	"minix": {"mkfs.minix"},
	"swap":  {"mkswap"},
}

// MountpointPolicies lists the mountpoints a partition spec may use. The ESP
// is mounted at /boot/efi, everything the installed system needs on its root
// filesystem or provides as an API filesystem is denied.
var MountpointPolicies = pathpolicy.NewPathPolicies(map[string]pathpolicy.PathPolicy{
	"/":         {},
	"/boot":     {},
	"/boot/efi": {Exact: true},
	"/etc":      {Deny: true},
	"/usr":      {Exact: true},

	// API filesystems
	"/sys":  {Deny: true},
	"/proc": {Deny: true},
	"/dev":  {Deny: true},
	"/run":  {Deny: true},

	// merged /usr symlinks
	"/bin":   {Deny: true},
	"/sbin":  {Deny: true},
	"/lib":   {Deny: true},
	"/lib64": {Deny: true},

	"/lost+found": {Deny: true},
	"/var/run":    {Deny: true},
	"/var/lock":   {Deny: true},
})

// FilesystemTypes returns the sorted list of accepted filesystem types.
func FilesystemTypes() []string {
	types := []string{FilesystemKeep}
	for t := range Filesystems {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Validate checks that the filesystem type is known and the mountpoint is
// allowed. Swap partitions are not mounted, their mountpoint is ignored.
func (p PartitionSpec) Validate() error {
	if _, ok := Filesystems[p.Filesystem]; !ok && p.Filesystem != FilesystemKeep {
		return fmt.Errorf("partition %s: unknown filesystem %q, expected one of %v", p.Device, p.Filesystem, FilesystemTypes())
	}
	if p.Filesystem == "swap" {
		return nil
	}
	if err := MountpointPolicies.Check(p.Mountpoint); err != nil {
		return fmt.Errorf("partition %s: %w", p.Device, err)
	}
	return nil
}
