// executor_mock provides a recording executor.Executor for testing the
// installer collaborators without running anything.
package executor_mock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crystal-linux/jade/internal/executor"
)

type Call struct {
	Op     string
	Chroot bool
	// Argv as the host executor would run it, including the chroot prefix
	Argv []string
}

type Executor struct {
	RootDir string
	Calls   []Call
	// Files written through WriteFile and AppendFile, keyed by their
	// cleaned path inside the target
	Files map[string]string
	// FileOps is the op of every file write in order
	FileOps []string

	failures map[string]error
	outputs  map[string][]byte
}

func New(root string) *Executor {
	return &Executor{
		RootDir:  root,
		Files:    map[string]string{},
		failures: map[string]error{},
		outputs:  map[string][]byte{},
	}
}

// FailCommand makes every call of the named command fail with err.
func (e *Executor) FailCommand(name string, err error) {
	if err == nil {
		err = errors.New("exit status 1")
	}
	e.failures[name] = err
}

// SetOutput sets what Output returns for the named command.
func (e *Executor) SetOutput(name string, out []byte) {
	e.outputs[name] = out
}

func (e *Executor) Root() string {
	return e.RootDir
}

func (e *Executor) Run(op string, name string, args ...string) error {
	return e.record(op, false, name, append([]string{name}, args...))
}

func (e *Executor) RunChroot(op string, name string, args ...string) error {
	argv := append([]string{executor.DefaultChroot, e.RootDir, name}, args...)
	return e.record(op, true, name, argv)
}

func (e *Executor) Output(op string, name string, args ...string) ([]byte, error) {
	if err := e.record(op, false, name, append([]string{name}, args...)); err != nil {
		return nil, err
	}
	return e.outputs[name], nil
}

func (e *Executor) WriteFile(op string, name string, data []byte, perm fs.FileMode) error {
	e.FileOps = append(e.FileOps, op)
	e.Files[filepath.Clean("/"+name)] = string(data)
	return nil
}

func (e *Executor) AppendFile(op string, name string, data []byte, perm fs.FileMode) error {
	e.FileOps = append(e.FileOps, op)
	e.Files[filepath.Clean("/"+name)] += string(data)
	return nil
}

// CopyFile reads src from the host filesystem like the host executor does.
func (e *Executor) CopyFile(op string, src string, name string, perm fs.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return e.WriteFile(op, name, data, perm)
}

// Commands returns the argv of every recorded call in order.
func (e *Executor) Commands() [][]string {
	commands := make([][]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		commands = append(commands, c.Argv)
	}
	return commands
}

// Ops returns the op of every recorded call in order.
func (e *Executor) Ops() []string {
	ops := make([]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		ops = append(ops, c.Op)
	}
	return ops
}

func (e *Executor) record(op string, chroot bool, name string, argv []string) error {
	e.Calls = append(e.Calls, Call{Op: op, Chroot: chroot, Argv: argv})
	if err, ok := e.failures[name]; ok {
		return &executor.CommandError{
			Op:       op,
			Command:  argv,
			ExitCode: 1,
			Err:      err,
		}
	}
	return nil
}
