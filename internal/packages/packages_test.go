package packages_test

import (
	"os"
	"path/filepath"
	"testing"

	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	executor_mock "github.com/crystal-linux/jade/internal/mocks/executor"
	"github.com/crystal-linux/jade/internal/packages"
)

func TestInstallBase(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "pacman.conf")
	require.NoError(t, os.WriteFile(conf, []byte("[options]\nParallelDownloads = 5\n"), 0600))

	ex := executor_mock.New("/mnt")
	logger, _ := logrusTest.NewNullLogger()

	require.NoError(t, packages.NewInstaller(ex, conf, logger).InstallBase())

	assert.Equal(t, map[string]string{
		"/etc/pacman.conf": "[options]\nParallelDownloads = 5\n",
	}, ex.Files)
	assert.Equal(t, []string{"copy pacman.conf"}, ex.FileOps)

	require.Len(t, ex.Calls, 1)
	assert.Equal(t, append([]string{"pacstrap", "/mnt"}, packages.BasePackages...), ex.Calls[0].Argv)
	assert.False(t, ex.Calls[0].Chroot)
}

func TestInstallBaseMissingPacmanConf(t *testing.T) {
	ex := executor_mock.New("/mnt")
	logger, _ := logrusTest.NewNullLogger()

	err := packages.NewInstaller(ex, filepath.Join(t.TempDir(), "nope"), logger).InstallBase()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, ex.Calls)
}

func TestInstall(t *testing.T) {
	tests := []struct {
		name string
		pkgs []string
		want [][]string
	}{
		{
			name: "batched",
			pkgs: []string{"firefox", "vim"},
			want: [][]string{{"pacstrap", "/mnt", "firefox", "vim"}},
		},
		{
			name: "empty",
			pkgs: nil,
			want: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := executor_mock.New("/mnt")
			logger, _ := logrusTest.NewNullLogger()

			require.NoError(t, packages.NewInstaller(ex, "", logger).Install(tt.pkgs))
			assert.Equal(t, tt.want, ex.Commands())
		})
	}
}

func TestInstallFailure(t *testing.T) {
	ex := executor_mock.New("/mnt")
	ex.FailCommand("pacstrap", nil)
	logger, _ := logrusTest.NewNullLogger()

	err := packages.NewInstaller(ex, "", logger).Install([]string{"grub"})
	require.EqualError(t, err, "install packages [grub]: pacstrap /mnt grub failed: exit status 1")
}
