package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/osbuild/images/pkg/arch"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/crystal-linux/jade/internal/common"
	"github.com/crystal-linux/jade/internal/config"
	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/installer"
	"github.com/crystal-linux/jade/internal/prometheus"
	"github.com/crystal-linux/jade/internal/target"
)

var (
	logrusNew = logrus.New
	geteuid   = unix.Geteuid
)

type jade struct {
	settingsPath string
	verbose      bool
	dryRun       bool
	root         string

	stdout   io.Writer
	stderr   io.Writer
	logger   *logrus.Logger
	settings *settings
	sentry   bool
}

func newRootCmd(j *jade) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jade",
		Short:         "Install Crystal Linux from a configuration file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return j.setup()
		},
	}
	rootCmd.PersistentFlags().StringVar(&j.settingsPath, "settings", defaultSettingsPath, "path to the jade settings file")
	rootCmd.PersistentFlags().BoolVarP(&j.verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVar(&j.dryRun, "dry-run", false, "log commands and file writes instead of running them")
	rootCmd.PersistentFlags().StringVar(&j.root, "root", "", "mountpoint of the installation target (default from settings, /mnt)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "config <file>",
		Short: "Install the system described by a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return j.install(args[0])
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file without installing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return j.validate(args[0])
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "plan <file>",
		Short: "Print the stages a configuration file would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return j.plan(args[0])
		},
	})

	return rootCmd
}

// setup loads the settings and configures logging and crash reporting.
func (j *jade) setup() error {
	j.logger = logrusNew()
	j.logger.SetOutput(j.stderr)
	j.logger.AddHook(&common.BuildHook{})
	j.logger.AddHook(&common.RunHook{RunID: uuid.NewString()})
	if j.verbose {
		j.logger.SetLevel(logrus.DebugLevel)
	}

	s, err := parseSettings(j.settingsPath, j.logger)
	if err != nil {
		return err
	}
	if j.root != "" {
		s.Root = j.root
	}
	if !filepath.IsAbs(s.Root) {
		return fmt.Errorf("root must be an absolute path, got %q", s.Root)
	}
	if j.dryRun {
		s.DryRun = true
	}
	j.settings = s

	if !j.verbose {
		level, _ := logrus.ParseLevel(s.LogLevel)
		j.logger.SetLevel(level)
	}

	if s.Journal {
		hook, err := common.NewJournalHook("jade")
		if err != nil {
			j.logger.Warnf("Not logging to the journal: %v", err)
		} else {
			j.logger.AddHook(hook)
		}
	}

	if s.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     s.Sentry.DSN,
			Release: "jade@" + common.Version,
		})
		if err != nil {
			j.logger.Warnf("Sentry initialization failed: %v", err)
		} else {
			j.sentry = true
		}
	}

	return nil
}

func (j *jade) loadPlan(path string) (*installer.Plan, error) {
	cfg, err := config.Load(path, j.logger)
	if err != nil {
		return nil, err
	}
	return installer.NewPlan(cfg)
}

func (j *jade) install(path string) error {
	plan, err := j.loadPlan(path)
	if err != nil {
		return err
	}

	var ex executor.Executor
	if j.settings.DryRun {
		ex = executor.NewDryRunExecutor(j.settings.Root, j.settings.Chroot, j.logger)
	} else {
		if geteuid() != 0 {
			return errors.New("jade must be run as root, or with --dry-run")
		}
		ex = executor.NewHostExecutor(j.settings.Root, j.settings.Chroot, j.logger)
	}

	targetArch, err := arch.FromString(j.settings.Arch)
	if err != nil {
		return err
	}
	sys := target.New(ex, target.Options{PacmanConf: j.settings.PacmanConf, Arch: targetArch}, j.logger)
	err = installer.New(sys, j.logger, installer.WithMetrics()).Run(plan)

	if textfile := j.settings.Metrics.Textfile; textfile != "" {
		if merr := prometheus.WriteTextfile(textfile); merr != nil {
			j.logger.Warnf("Could not write metrics to %s: %v", textfile, merr)
		}
	}

	return err
}

func (j *jade) validate(path string) error {
	if _, err := j.loadPlan(path); err != nil {
		return err
	}
	fmt.Fprintf(j.stdout, "%s is valid\n", path)
	return nil
}

func (j *jade) plan(path string) error {
	plan, err := j.loadPlan(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(j.stdout, "device: %s (%s, efi: %t)\n", plan.Device, plan.Config.Partition.Mode, plan.Config.Partition.EFI)
	for _, part := range plan.Partitions {
		fmt.Fprintf(j.stdout, "partition: %s\n", part)
	}
	for i, stage := range plan.Stages() {
		fmt.Fprintf(j.stdout, "%2d. %s\n", i+1, stage)
	}
	return nil
}

// report logs a failed command once and sends it to sentry when enabled.
func (j *jade) report(err error) {
	if j.logger == nil {
		fmt.Fprintf(j.stderr, "Error: %v\n", err)
		return
	}
	j.logger.WithError(err).Error("Command failed")

	if j.sentry {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	j := &jade{stdout: stdout, stderr: stderr}

	cmd := newRootCmd(j)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		j.report(err)
		return common.ExitCode(err)
	}
	return common.ExitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
