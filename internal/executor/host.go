package executor

import (
	"bytes"
	"errors"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// var alias for exec.Command() that can be mocked for testing
var execCommand = exec.Command

const DefaultChroot = "arch-chroot"

type hostExecutor struct {
	root   string
	chroot string
	logger *logrus.Logger
}

// NewHostExecutor returns an Executor running commands on this machine.
// Commands run through RunChroot are prefixed with the chroot helper and
// the target root, e.g. "arch-chroot /mnt grub-mkconfig ...".
func NewHostExecutor(root, chroot string, logger *logrus.Logger) Executor {
	if chroot == "" {
		chroot = DefaultChroot
	}
	return &hostExecutor{
		root:   root,
		chroot: chroot,
		logger: logger,
	}
}

func (he *hostExecutor) Root() string {
	return he.root
}

func (he *hostExecutor) Run(op string, name string, args ...string) error {
	return he.run(op, append([]string{name}, args...), nil)
}

func (he *hostExecutor) RunChroot(op string, name string, args ...string) error {
	argv := append([]string{he.chroot, he.root, name}, args...)
	return he.run(op, argv, nil)
}

func (he *hostExecutor) Output(op string, name string, args ...string) ([]byte, error) {
	var stdoutBuffer bytes.Buffer
	if err := he.run(op, append([]string{name}, args...), &stdoutBuffer); err != nil {
		return nil, err
	}
	return stdoutBuffer.Bytes(), nil
}

func (he *hostExecutor) run(op string, argv []string, stdout io.Writer) error {
	entry := he.logger.WithField("op", op)
	entry.Debugf("running %s", QuoteCommand(argv))

	cmd := execCommand(argv[0], argv[1:]...)

	// captured stdout is the result of the command and is not logged
	if stdout != nil {
		cmd.Stdout = stdout
	} else {
		outWriter := entry.WriterLevel(logrus.DebugLevel)
		defer outWriter.Close()
		cmd.Stdout = outWriter
	}
	errWriter := entry.WriterLevel(logrus.WarnLevel)
	defer errWriter.Close()
	cmd.Stderr = errWriter

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &CommandError{
			Op:       op,
			Command:  argv,
			ExitCode: exitCode,
			Err:      err,
		}
	}

	entry.Debug("command succeeded")
	return nil
}
