package features_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystal-linux/jade/internal/features"
	executor_mock "github.com/crystal-linux/jade/internal/mocks/executor"
)

type fakePackages struct {
	installed [][]string
	err       error
}

func (f *fakePackages) Install(pkgs []string) error {
	f.installed = append(f.installed, pkgs)
	return f.err
}

func TestSetupTimeshift(t *testing.T) {
	ex := executor_mock.New("/mnt")
	pkgs := &fakePackages{}

	require.NoError(t, features.SetupTimeshift(ex, pkgs))
	assert.Equal(t, [][]string{{"timeshift", "timeshift-autosnap", "grub-btrfs"}}, pkgs.installed)
	assert.Equal(t, [][]string{{"arch-chroot", "/mnt", "timeshift", "--btrfs"}}, ex.Commands())
}

func TestInstallFlatpak(t *testing.T) {
	ex := executor_mock.New("/mnt")
	pkgs := &fakePackages{}

	require.NoError(t, features.InstallFlatpak(ex, pkgs))
	assert.Equal(t, [][]string{{"flatpak"}}, pkgs.installed)
	assert.Equal(t, [][]string{
		{"arch-chroot", "/mnt", "flatpak", "remote-add", "--if-not-exists", "flathub", "https://flathub.org/repo/flathub.flatpakrepo"},
	}, ex.Commands())
}

func TestPackageFailureStops(t *testing.T) {
	ex := executor_mock.New("/mnt")
	pkgs := &fakePackages{err: errors.New("pacstrap failed")}

	assert.EqualError(t, features.SetupTimeshift(ex, pkgs), "pacstrap failed")
	assert.EqualError(t, features.InstallFlatpak(ex, pkgs), "pacstrap failed")
	assert.Empty(t, ex.Calls)
}
