// Package executor runs the external tools that mutate the installation
// target. Every collaborator of the installer goes through an Executor, so
// a single implementation decides whether commands really run, where their
// output ends up and how failures are reported.
package executor

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/osbuild/images/pkg/shutil"
)

type Executor interface {
	// Run executes name with args on the host.
	Run(op string, name string, args ...string) error

	// RunChroot executes name with args inside the target root.
	RunChroot(op string, name string, args ...string) error

	// Output executes name with args on the host and returns what it
	// wrote to stdout.
	Output(op string, name string, args ...string) ([]byte, error)

	// WriteFile replaces the file at name, a path relative to the target
	// root, creating missing parent directories.
	WriteFile(op string, name string, data []byte, perm fs.FileMode) error

	// AppendFile appends data to the file at name, a path relative to
	// the target root, creating it when missing.
	AppendFile(op string, name string, data []byte, perm fs.FileMode) error

	// CopyFile copies the host file src to name, a path relative to the
	// target root.
	CopyFile(op string, src string, name string, perm fs.FileMode) error

	// Root is the path the target filesystem is mounted at.
	Root() string
}

// CommandError is returned when an external command could not be started
// or exited unsuccessfully.
type CommandError struct {
	// Op is a human readable description of what the command does,
	// e.g. "install grub as efi".
	Op      string
	Command []string
	// ExitCode of the command, -1 when it did not exit normally.
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Op, QuoteCommand(e.Command), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// QuoteCommand renders argv as a string that can be pasted into a shell.
func QuoteCommand(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$`;&|<>*?()[]{}#~!") {
			quoted = append(quoted, arg)
			continue
		}
		quoted = append(quoted, shutil.Quote(arg))
	}
	return strings.Join(quoted, " ")
}
