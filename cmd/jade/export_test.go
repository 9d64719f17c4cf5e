package main

import (
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
)

var (
	Run           = run
	ParseSettings = parseSettings
)

func MockLogger() (hook *logrusTest.Hook, restore func()) {
	saved := logrusNew
	logger, hook := logrusTest.NewNullLogger()
	logrusNew = func() *logrus.Logger {
		return logger
	}

	return hook, func() {
		logrusNew = saved
	}
}

func MockGeteuid(uid int) (restore func()) {
	saved := geteuid
	geteuid = func() int {
		return uid
	}
	return func() {
		geteuid = saved
	}
}
