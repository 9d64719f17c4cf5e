package common_test

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crystal-linux/jade/internal/common"
	"github.com/crystal-linux/jade/internal/config"
	"github.com/crystal-linux/jade/internal/disk"
	"github.com/crystal-linux/jade/internal/installer"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, 0},
		{
			"config not found",
			&config.IOError{Path: "/x.json", Err: &fs.PathError{Op: "open", Path: "/x.json", Err: syscall.ENOENT}},
			2,
		},
		{
			"config permission denied",
			&config.IOError{Path: "/x.json", Err: &fs.PathError{Op: "open", Path: "/x.json", Err: syscall.EACCES}},
			13,
		},
		{
			"config operation not permitted",
			&config.IOError{Path: "/x.json", Err: &fs.PathError{Op: "open", Path: "/x.json", Err: syscall.EPERM}},
			1,
		},
		{
			"config read without errno",
			&config.IOError{Path: "/x.json", Err: os.ErrClosed},
			74,
		},
		{
			"schema",
			&config.SchemaError{Path: "/x.json", Err: errors.New("rootpass: missing required field")},
			200,
		},
		{
			"malformed partition spec",
			&installer.PlanError{Err: &disk.MalformedSpecError{Spec: "/dev/sda1", Reason: "expected 3 colon separated fields, got 1"}},
			200,
		},
		{
			"unknown bootloader",
			fmt.Errorf("plan: %w", &installer.PlanError{Err: installer.ErrUnknownBootloader}),
			200,
		},
		{
			"stage",
			&installer.StageError{Stage: "fstab", Op: "Generate fstab", Err: errors.New("exit status 1")},
			201,
		},
		{"other", errors.New("accepts 1 arg(s), received 0"), 64},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.code, common.ExitCode(c.err))
		})
	}
}
