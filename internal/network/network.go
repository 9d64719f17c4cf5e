// Package network sets the host identity of the target.
package network

import (
	"errors"

	"github.com/crystal-linux/jade/internal/executor"
)

// SetHostname writes hostname to /etc/hostname.
func SetHostname(ex executor.Executor, hostname string) error {
	if hostname == "" {
		return errors.New("empty hostname")
	}
	return ex.WriteFile("set hostname", "etc/hostname", []byte(hostname+"\n"), 0644)
}

// CreateHosts writes an /etc/hosts resolving localhost over IPv4.
func CreateHosts(ex executor.Executor) error {
	return ex.WriteFile("create hosts file", "etc/hosts", []byte("127.0.0.1     localhost\n"), 0644)
}

// EnableIPv6 adds the IPv6 localhost entry to /etc/hosts.
func EnableIPv6(ex executor.Executor) error {
	return ex.AppendFile("add ipv6 localhost", "etc/hosts", []byte("::1     localhost\n"), 0644)
}
