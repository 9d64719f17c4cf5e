package executor

import (
	"github.com/sirupsen/logrus"
)

type dryRunExecutor struct {
	root   string
	chroot string
	logger *logrus.Logger
}

// NewDryRunExecutor returns an Executor that only logs the commands it
// would run. Output returns no data.
func NewDryRunExecutor(root, chroot string, logger *logrus.Logger) Executor {
	if chroot == "" {
		chroot = DefaultChroot
	}
	return &dryRunExecutor{
		root:   root,
		chroot: chroot,
		logger: logger,
	}
}

func (de *dryRunExecutor) Root() string {
	return de.root
}

func (de *dryRunExecutor) Run(op string, name string, args ...string) error {
	de.log(op, append([]string{name}, args...))
	return nil
}

func (de *dryRunExecutor) RunChroot(op string, name string, args ...string) error {
	de.log(op, append([]string{de.chroot, de.root, name}, args...))
	return nil
}

func (de *dryRunExecutor) Output(op string, name string, args ...string) ([]byte, error) {
	de.log(op, append([]string{name}, args...))
	return nil, nil
}

func (de *dryRunExecutor) log(op string, argv []string) {
	de.logger.WithField("op", op).Infof("dry run, not executing %s", QuoteCommand(argv))
}
