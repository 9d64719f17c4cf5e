// Package fstab generates the filesystem table of the target from what is
// currently mounted under its root.
package fstab

import (
	"github.com/crystal-linux/jade/internal/executor"
)

// Op names the fstab generation step in errors.
const Op = "Generate fstab"

// Generate appends the output of "genfstab -U <root>" to <root>/etc/fstab.
func Generate(ex executor.Executor) error {
	out, err := ex.Output(Op, "genfstab", "-U", ex.Root())
	if err != nil {
		return err
	}
	return ex.AppendFile(Op, "etc/fstab", out, 0644)
}
