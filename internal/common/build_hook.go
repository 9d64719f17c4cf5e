package common

import (
	"github.com/sirupsen/logrus"
)

// BuildHook adds the commit and time jade was built from to every entry.
type BuildHook struct {
}

func (h *BuildHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *BuildHook) Fire(e *logrus.Entry) error {
	e.Data["build_commit"] = BuildCommit
	e.Data["build_time"] = BuildTime

	return nil
}

// RunHook tags every entry with the id of the installation run, so that
// the entries of one run can be told apart in the journal.
type RunHook struct {
	RunID string
}

func (h *RunHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RunHook) Fire(e *logrus.Entry) error {
	e.Data["run_id"] = h.RunID

	return nil
}
