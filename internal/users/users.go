// Package users creates the accounts of the target system.
package users

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/osbuild/images/pkg/crypt"

	"github.com/crystal-linux/jade/internal/executor"
)

const (
	DefaultShell = "/bin/bash"
	// AdminGroup members may use sudo
	AdminGroup = "wheel"

	sudoersFile = "etc/sudoers.d/wheel"
	sudoersRule = "%wheel ALL=(ALL:ALL) ALL\n"
)

var cryptPassword = crypt.CryptSHA512

var nameRegexp = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

type User struct {
	Name string
	// Password in plain text or already crypted
	Password string
	Shell    string
	Groups   []string
}

// NewUser describes an account that is an administrator when hasRoot is
// set.
func NewUser(name string, hasRoot bool, password string) User {
	u := User{
		Name:     name,
		Password: password,
		Shell:    DefaultShell,
	}
	if hasRoot {
		u.Groups = []string{AdminGroup}
	}
	return u
}

func (u User) IsAdmin() bool {
	return slices.Contains(u.Groups, AdminGroup)
}

// Create adds u to the target. Members of AdminGroup are granted sudo.
func Create(ex executor.Executor, u User) error {
	if !nameRegexp.MatchString(u.Name) {
		return fmt.Errorf("invalid user name %q", u.Name)
	}

	hash, err := hashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password of %s: %w", u.Name, err)
	}

	shell := u.Shell
	if shell == "" {
		shell = DefaultShell
	}
	args := []string{"-m", "-s", shell}
	if len(u.Groups) > 0 {
		args = append(args, "-G", strings.Join(u.Groups, ","))
	}
	args = append(args, "-p", hash, u.Name)

	if err := ex.RunChroot("create user "+u.Name, "useradd", args...); err != nil {
		return err
	}

	if u.IsAdmin() {
		return ex.WriteFile("allow wheel to use sudo", sudoersFile, []byte(sudoersRule), 0440)
	}
	return nil
}

// SetRootPassword sets the password of root.
func SetRootPassword(ex executor.Executor, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}
	return ex.RunChroot("set root password", "usermod", "--password", hash, "root")
}

func hashPassword(password string) (string, error) {
	if crypt.PasswordIsCrypted(password) {
		return password, nil
	}
	return cryptPassword(password)
}
