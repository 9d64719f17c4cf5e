package common

import (
	"errors"

	"github.com/crystal-linux/jade/internal/config"
	"github.com/crystal-linux/jade/internal/installer"
)

const (
	ExitOK = 0
	// ExitUsage is used for bad arguments and any other error that is not
	// tied to the configuration or a stage (EX_USAGE from sysexits.h). It
	// stays clear of the errno values reading the configuration fails with.
	ExitUsage = 64
	// ExitIOError is used when reading the configuration failed without
	// an errno (EX_IOERR from sysexits.h)
	ExitIOError = 74
	// ExitConfigError means the configuration is not valid
	ExitConfigError = 200
	// ExitStageError means an installation stage failed
	ExitStageError = 201
)

// ExitCode maps an error returned by a jade command to the process exit
// code. Reading the configuration fails with the errno of the failed
// system call where there is one.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ioErr *config.IOError
	if errors.As(err, &ioErr) {
		if errno, ok := ioErr.Errno(); ok && errno != 0 {
			return int(errno)
		}
		return ExitIOError
	}

	var schemaErr *config.SchemaError
	var planErr *installer.PlanError
	if errors.As(err, &schemaErr) || errors.As(err, &planErr) {
		return ExitConfigError
	}

	var stageErr *installer.StageError
	if errors.As(err, &stageErr) {
		return ExitStageError
	}

	return ExitUsage
}
