package installer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/config"
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/installer"
	"github.com/crystal-linux/jade/internal/prometheus"
)

// recordingSystem records every call as "Method(args)" and fails the
// method named in failOn.
type recordingSystem struct {
	calls  []string
	failOn string
	err    error
}

func (s *recordingSystem) record(method string, args ...interface{}) error {
	strs := make([]string, 0, len(args))
	for _, a := range args {
		strs = append(strs, fmt.Sprint(a))
	}
	s.calls = append(s.calls, fmt.Sprintf("%s(%s)", method, strings.Join(strs, ", ")))
	if method == s.failOn {
		if s.err != nil {
			return s.err
		}
		return errors.New("failed")
	}
	return nil
}

func (s *recordingSystem) Partition(device string, mode disk.PartitionMode, efi bool, partitions []disk.PartitionSpec) error {
	return s.record("Partition", device, mode, efi, partitions)
}
func (s *recordingSystem) InstallBase() error { return s.record("InstallBase") }
func (s *recordingSystem) GenFstab() error    { return s.record("GenFstab") }
func (s *recordingSystem) InstallBootloaderEFI(efiDir string) error {
	return s.record("InstallBootloaderEFI", efiDir)
}
func (s *recordingSystem) InstallBootloaderLegacy(device string) error {
	return s.record("InstallBootloaderLegacy", device)
}
func (s *recordingSystem) SetLocale(locales string) error { return s.record("SetLocale", locales) }
func (s *recordingSystem) SetKeyboard(keymap string) error {
	return s.record("SetKeyboard", keymap)
}
func (s *recordingSystem) SetTimezone(timezone string) error {
	return s.record("SetTimezone", timezone)
}
func (s *recordingSystem) SetHostname(hostname string) error {
	return s.record("SetHostname", hostname)
}
func (s *recordingSystem) CreateHosts() error { return s.record("CreateHosts") }
func (s *recordingSystem) EnableIPv6() error  { return s.record("EnableIPv6") }
func (s *recordingSystem) NewUser(name string, hasRoot bool, password string) error {
	return s.record("NewUser", name, hasRoot, password)
}
func (s *recordingSystem) SetRootPassword(password string) error {
	return s.record("SetRootPassword", password)
}
func (s *recordingSystem) InstallDesktop(desktop desktops.Desktop) error {
	return s.record("InstallDesktop", desktop)
}
func (s *recordingSystem) SetupTimeshift() error { return s.record("SetupTimeshift") }
func (s *recordingSystem) InstallFlatpak() error { return s.record("InstallFlatpak") }
func (s *recordingSystem) Install(pkgs []string) error {
	return s.record("Install", pkgs)
}

func baseConfig() *config.Config {
	kde := desktops.Kde
	return &config.Config{
		Partition: config.Partition{
			Device:     "sda",
			Mode:       disk.PartitionModeAuto,
			EFI:        true,
			Partitions: []string{},
		},
		Bootloader: config.Bootloader{
			Type:     bootloader.TypeGrubEFI,
			Location: "/boot/efi",
		},
		Locale: config.Locale{
			Locale:   []string{"en_US.UTF-8 UTF-8", "de_DE.UTF-8 UTF-8"},
			Keymap:   "us",
			Timezone: "Europe/Berlin",
		},
		Networking: config.Networking{
			Hostname: "crystal",
			IPv6:     true,
		},
		Users: []config.User{
			{Name: "alice", Password: "alicepw", HasRoot: true},
			{Name: "bob", Password: "bobpw", HasRoot: false},
		},
		RootPass:      "rootpw",
		Desktop:       &kde,
		Timeshift:     true,
		Flatpak:       true,
		ExtraPackages: []string{"firefox", "vim"},
	}
}

func run(t *testing.T, cfg *config.Config, sys *recordingSystem, opts ...installer.Option) (*logrusTest.Hook, error) {
	t.Helper()
	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	plan, err := installer.NewPlan(cfg)
	require.NoError(t, err)

	return hook, installer.New(sys, logger, opts...).Run(plan)
}

func TestRunFullEFI(t *testing.T) {
	sys := &recordingSystem{}
	_, err := run(t, baseConfig(), sys)
	require.NoError(t, err)

	expected := []string{
		"Partition(/dev/sda, auto, true, [])",
		"InstallBase()",
		"GenFstab()",
		"InstallBootloaderEFI(/boot/efi)",
		"SetLocale(en_US.UTF-8 UTF-8 de_DE.UTF-8 UTF-8)",
		"SetKeyboard(us)",
		"SetTimezone(Europe/Berlin)",
		"SetHostname(crystal)",
		"CreateHosts()",
		"EnableIPv6()",
		"NewUser(alice, true, alicepw)",
		"NewUser(bob, false, bobpw)",
		"SetRootPassword(rootpw)",
		"InstallDesktop(kde)",
		"SetupTimeshift()",
		"InstallFlatpak()",
		"Install([firefox vim])",
	}
	if diff := cmp.Diff(expected, sys.calls); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestRunLegacyMinimal(t *testing.T) {
	cfg := baseConfig()
	cfg.Partition = config.Partition{
		Device:     "/dev/vda",
		Mode:       disk.PartitionModeManual,
		EFI:        false,
		Partitions: []string{"/dev/vda1:/:btrfs", "/dev/vda2:none:swap"},
	}
	cfg.Bootloader = config.Bootloader{Type: bootloader.TypeGrubLegacy, Location: "/dev/vda"}
	cfg.Networking.IPv6 = false
	cfg.Users = []config.User{}
	cfg.Desktop = nil
	cfg.Timeshift = false
	cfg.Flatpak = false
	cfg.ExtraPackages = []string{}

	sys := &recordingSystem{}
	_, err := run(t, cfg, sys)
	require.NoError(t, err)

	expected := []string{
		"Partition(/dev/vda, manual, false, [/dev/vda1:/:btrfs /dev/vda2:none:swap])",
		"InstallBase()",
		"GenFstab()",
		"InstallBootloaderLegacy(/dev/vda)",
		"SetLocale(en_US.UTF-8 UTF-8 de_DE.UTF-8 UTF-8)",
		"SetKeyboard(us)",
		"SetTimezone(Europe/Berlin)",
		"SetHostname(crystal)",
		"CreateHosts()",
		"SetRootPassword(rootpw)",
	}
	if diff := cmp.Diff(expected, sys.calls); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func indexOf(calls []string, prefix string) []int {
	var idx []int
	for i, c := range calls {
		if strings.HasPrefix(c, prefix) {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestOptionalFeatures(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Timeshift = false
		cfg.Flatpak = false

		sys := &recordingSystem{}
		_, err := run(t, cfg, sys)
		require.NoError(t, err)
		assert.Empty(t, indexOf(sys.calls, "SetupTimeshift"))
		assert.Empty(t, indexOf(sys.calls, "InstallFlatpak"))
	})

	t.Run("enabled", func(t *testing.T) {
		sys := &recordingSystem{}
		_, err := run(t, baseConfig(), sys)
		require.NoError(t, err)

		timeshift := indexOf(sys.calls, "SetupTimeshift")
		flatpak := indexOf(sys.calls, "InstallFlatpak")
		rootpass := indexOf(sys.calls, "SetRootPassword")
		extra := indexOf(sys.calls, "Install(")
		require.Len(t, timeshift, 1)
		require.Len(t, flatpak, 1)
		require.Len(t, rootpass, 1)
		require.Len(t, extra, 1)

		for _, feature := range []int{timeshift[0], flatpak[0]} {
			assert.Greater(t, feature, rootpass[0])
			assert.Less(t, feature, extra[0])
		}
	})
}

func TestUsersThenRootPassword(t *testing.T) {
	sys := &recordingSystem{}
	_, err := run(t, baseConfig(), sys)
	require.NoError(t, err)

	users := indexOf(sys.calls, "NewUser")
	rootpass := indexOf(sys.calls, "SetRootPassword")
	require.Equal(t, 2, len(users))
	require.Equal(t, 1, len(rootpass))

	assert.Equal(t, "NewUser(alice, true, alicepw)", sys.calls[users[0]])
	assert.Equal(t, "NewUser(bob, false, bobpw)", sys.calls[users[1]])
	assert.Greater(t, rootpass[0], users[1])
}

func TestDesktopNoneIsSkipped(t *testing.T) {
	cfg := baseConfig()
	none := desktops.None
	cfg.Desktop = &none

	sys := &recordingSystem{}
	_, err := run(t, cfg, sys)
	require.NoError(t, err)
	assert.Empty(t, indexOf(sys.calls, "InstallDesktop"))
}

func TestRunFailFast(t *testing.T) {
	tests := []struct {
		failOn string
		stage  string
		op     string
	}{
		{"Partition", installer.StagePartition, "Partition /dev/sda"},
		{"GenFstab", installer.StageFstab, "Generate fstab"},
		{"InstallBootloaderEFI", installer.StageBootloader, "Install bootloader as efi"},
		{"SetKeyboard", installer.StageLocale, "Set keyboard"},
		{"NewUser", installer.StageUsers, "Create user alice (root: true)"},
		{"InstallFlatpak", installer.StageFlatpak, "Install flatpak"},
		{"Install", installer.StageExtraPackages, "Install extra packages"},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			sys := &recordingSystem{failOn: tt.failOn}
			hook, err := run(t, baseConfig(), sys)
			require.Error(t, err)

			var stageErr *installer.StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Equal(t, tt.op, stageErr.Op)

			// the failing call is the last one
			last := sys.calls[len(sys.calls)-1]
			assert.True(t, strings.HasPrefix(last, tt.failOn+"("), last)
			assert.Len(t, indexOf(sys.calls, tt.failOn+"("), 1)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.ErrorLevel, entry.Level)
			assert.Equal(t, tt.stage, entry.Data["stage"])
		})
	}
}

func TestStageErrorUsesCommandOp(t *testing.T) {
	sys := &recordingSystem{
		failOn: "InstallBase",
		err: &executor.CommandError{
			Op:       "install packages [base]",
			Command:  []string{"pacstrap", "/mnt", "base"},
			ExitCode: 1,
			Err:      errors.New("exit status 1"),
		},
	}
	_, err := run(t, baseConfig(), sys)

	var stageErr *installer.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "install packages [base]", stageErr.Op)
	assert.EqualError(t, err, "stage base failed: install packages [base]: pacstrap /mnt base failed: exit status 1")

	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
}

func TestRunLogging(t *testing.T) {
	sys := &recordingSystem{}
	hook, err := run(t, baseConfig(), sys)
	require.NoError(t, err)

	fields := logrus.Fields{}
	for _, e := range hook.AllEntries() {
		for k, v := range e.Data {
			fields[k] = v
		}
		for _, secret := range []string{"alicepw", "bobpw", "rootpw"} {
			assert.NotContains(t, e.Message, secret)
			for k, v := range e.Data {
				assert.NotContains(t, fmt.Sprint(v), secret, k)
			}
		}
	}

	assert.Equal(t, "/dev/sda", fields["device"])
	assert.Equal(t, "auto", fields["mode"])
	assert.Equal(t, true, fields["efi"])
	assert.Equal(t, bootloader.TypeGrubEFI, fields["bootloader"])
	assert.Equal(t, "/boot/efi", fields["location"])
	assert.Equal(t, "us", fields["keymap"])
	assert.Equal(t, "Europe/Berlin", fields["timezone"])
	assert.Equal(t, "crystal", fields["hostname"])
	assert.Equal(t, true, fields["ipv6"])
	assert.Equal(t, []string{"alice", "bob"}, fields["users"])
	assert.Equal(t, "kde", fields["desktop"])
	assert.Equal(t, true, fields["timeshift"])
	assert.Equal(t, true, fields["flatpak"])

	assert.Equal(t, "Installation finished! You may reboot now!", hook.LastEntry().Message)
}

func TestRunLogsSkippedStages(t *testing.T) {
	cfg := baseConfig()
	cfg.Timeshift = false

	sys := &recordingSystem{}
	hook, err := run(t, cfg, sys)
	require.NoError(t, err)

	var skipped []interface{}
	for _, e := range hook.AllEntries() {
		if e.Message == "Skipping stage" {
			skipped = append(skipped, e.Data["stage"])
			assert.Equal(t, false, e.Data["timeshift"])
		}
	}
	assert.Equal(t, []interface{}{installer.StageTimeshift}, skipped)
}

func TestRunMetrics(t *testing.T) {
	before := promtest.ToFloat64(prometheus.StageFailures.WithLabelValues(installer.StageFstab))

	sys := &recordingSystem{failOn: "GenFstab"}
	_, err := run(t, baseConfig(), sys, installer.WithMetrics())
	require.Error(t, err)

	assert.Equal(t, before+1, promtest.ToFloat64(prometheus.StageFailures.WithLabelValues(installer.StageFstab)))
}
