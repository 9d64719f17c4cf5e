// Package installer turns a loaded configuration into an installed system.
//
// The installation is a fixed sequence of stages (see Plan.Stages). Each
// stage calls into the System and the first failure ends the run: nothing
// is retried and nothing already applied to the target is rolled back.
package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/fstab"
	"github.com/crystal-linux/jade/internal/prometheus"
)

// StageError is returned by Run when a stage fails.
type StageError struct {
	Stage string
	// Op is the failing operation, e.g. "Generate fstab"
	Op  string
	Err error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Option func(*Installer)

// WithMetrics records the duration and failures of every stage.
func WithMetrics() Option {
	return func(i *Installer) {
		i.metrics = true
	}
}

type Installer struct {
	sys     System
	logger  logrus.FieldLogger
	metrics bool
}

func New(sys System, logger logrus.FieldLogger, opts ...Option) *Installer {
	i := &Installer{
		sys:    sys,
		logger: logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type step struct {
	op  string
	run func() error
}

// Run executes the stages of plan in order and stops at the first
// failure, which is returned as a *StageError.
func (i *Installer) Run(plan *Plan) error {
	for _, stage := range stageOrder {
		logger := i.logger.WithField("stage", stage).WithFields(i.fields(plan, stage))

		if !plan.Enabled(stage) {
			logger.Info("Skipping stage")
			continue
		}

		logger.Info("Starting stage")
		if err := i.runStage(logger, stage, i.steps(plan, stage)); err != nil {
			return err
		}
		logger.Info("Stage finished")
	}

	i.logger.Info("Installation finished! You may reboot now!")
	return nil
}

func (i *Installer) runStage(logger logrus.FieldLogger, stage string, steps []step) error {
	if i.metrics {
		observe := prometheus.StageObserver(stage)
		defer observe()
	}

	for _, s := range steps {
		if err := s.run(); err != nil {
			if i.metrics {
				prometheus.StageFailed(stage)
			}
			op := s.op
			var cmdErr *executor.CommandError
			if errors.As(err, &cmdErr) {
				op = cmdErr.Op
			}
			logger.WithError(err).Errorf("[ FAILED ] %s", op)
			return &StageError{Stage: stage, Op: op, Err: err}
		}
		logger.Infof("[ OK ] %s", s.op)
	}
	return nil
}

// fields are the configuration values stage acts on. Passwords are left
// out.
func (i *Installer) fields(plan *Plan, stage string) logrus.Fields {
	cfg := plan.Config
	switch stage {
	case StagePartition:
		fields := logrus.Fields{
			"device": plan.Device,
			"mode":   cfg.Partition.Mode.String(),
			"efi":    cfg.Partition.EFI,
		}
		if len(plan.Partitions) > 0 {
			specs := make([]string, 0, len(plan.Partitions))
			for _, part := range plan.Partitions {
				specs = append(specs, part.String())
			}
			fields["partitions"] = specs
		}
		return fields
	case StageBootloader:
		return logrus.Fields{
			"bootloader": cfg.Bootloader.Type,
			"location":   cfg.Bootloader.Location,
		}
	case StageLocale:
		return logrus.Fields{
			"locales":  cfg.Locale.Locale,
			"keymap":   cfg.Locale.Keymap,
			"timezone": cfg.Locale.Timezone,
		}
	case StageNetworking:
		return logrus.Fields{
			"hostname": cfg.Networking.Hostname,
			"ipv6":     cfg.Networking.IPv6,
		}
	case StageUsers:
		names := make([]string, 0, len(cfg.Users))
		for _, u := range cfg.Users {
			names = append(names, u.Name)
		}
		return logrus.Fields{"users": names}
	case StageDesktop:
		desktop := "none"
		if cfg.Desktop != nil {
			desktop = string(*cfg.Desktop)
		}
		return logrus.Fields{"desktop": desktop}
	case StageTimeshift:
		return logrus.Fields{"timeshift": cfg.Timeshift}
	case StageFlatpak:
		return logrus.Fields{"flatpak": cfg.Flatpak}
	case StageExtraPackages:
		return logrus.Fields{"extra_packages": cfg.ExtraPackages}
	}
	return logrus.Fields{}
}

func (i *Installer) steps(plan *Plan, stage string) []step {
	cfg := plan.Config
	sys := i.sys

	switch stage {
	case StagePartition:
		return []step{{"Partition " + plan.Device, func() error {
			return sys.Partition(plan.Device, cfg.Partition.Mode, cfg.Partition.EFI, plan.Partitions)
		}}}
	case StageBase:
		return []step{{"Install base packages", sys.InstallBase}}
	case StageFstab:
		return []step{{fstab.Op, sys.GenFstab}}
	case StageBootloader:
		location := cfg.Bootloader.Location
		if cfg.Bootloader.Type == bootloader.TypeGrubEFI {
			return []step{{"Install bootloader as efi", func() error { return sys.InstallBootloaderEFI(location) }}}
		}
		return []step{{"Install bootloader as legacy", func() error { return sys.InstallBootloaderLegacy(location) }}}
	case StageLocale:
		return []step{
			{"Set locale", func() error { return sys.SetLocale(strings.Join(cfg.Locale.Locale, " ")) }},
			{"Set keyboard", func() error { return sys.SetKeyboard(cfg.Locale.Keymap) }},
			{"Set timezone", func() error { return sys.SetTimezone(cfg.Locale.Timezone) }},
		}
	case StageNetworking:
		steps := []step{
			{"Set hostname", func() error { return sys.SetHostname(cfg.Networking.Hostname) }},
			{"Create hosts file", sys.CreateHosts},
		}
		if cfg.Networking.IPv6 {
			steps = append(steps, step{"Enable ipv6", sys.EnableIPv6})
		}
		return steps
	case StageUsers:
		steps := make([]step, 0, len(cfg.Users))
		for _, u := range cfg.Users {
			steps = append(steps, step{
				fmt.Sprintf("Create user %s (root: %t)", u.Name, u.HasRoot),
				func() error { return sys.NewUser(u.Name, u.HasRoot, u.Password) },
			})
		}
		return steps
	case StageRootPass:
		return []step{{"Set root password", func() error { return sys.SetRootPassword(cfg.RootPass) }}}
	case StageDesktop:
		desktop := *cfg.Desktop
		return []step{{"Install desktop " + string(desktop), func() error { return sys.InstallDesktop(desktop) }}}
	case StageTimeshift:
		return []step{{"Setup timeshift", sys.SetupTimeshift}}
	case StageFlatpak:
		return []step{{"Install flatpak", sys.InstallFlatpak}}
	case StageExtraPackages:
		return []step{{"Install extra packages", func() error { return sys.Install(cfg.ExtraPackages) }}}
	}
	return nil
}
