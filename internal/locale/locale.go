// Package locale configures the language, console keymap and timezone of
// the target.
package locale

import (
	"fmt"
	"path"
	"strings"

	"github.com/crystal-linux/jade/internal/executor"
	"github.com/crystal-linux/jade/internal/shell"
)

const (
	// DefaultLocale is always generated, whatever else is requested
	DefaultLocale = "en_US.UTF-8 UTF-8"

	zoneinfoDir = "/usr/share/zoneinfo"
)

// SetLocale enables the given locales in locale.gen, generates them and
// makes the first one other than C.UTF-8 the system language. locales is a
// space separated list of "<name> <charset>" pairs, e.g.
// "en_US.UTF-8 UTF-8 de_DE.UTF-8 UTF-8".
func SetLocale(ex executor.Executor, locales string) error {
	fields := strings.Fields(locales)
	if len(fields)%2 != 0 {
		return fmt.Errorf("locale list %q is not made of <name> <charset> pairs", locales)
	}

	gen := []string{DefaultLocale}
	lang := ""
	for i := 0; i < len(fields); i += 2 {
		entry := fields[i] + " " + fields[i+1]
		if entry != DefaultLocale {
			gen = append(gen, entry)
		}
		if lang == "" && fields[i] != "C.UTF-8" {
			lang = fields[i]
		}
	}
	if lang == "" {
		lang = strings.Fields(DefaultLocale)[0]
	}

	if err := ex.AppendFile("add locales to locale.gen", "etc/locale.gen", []byte(strings.Join(gen, "\n")+"\n"), 0644); err != nil {
		return err
	}
	if err := writeInitFile(ex, "set LANG in locale.conf", "etc/locale.conf", "LANG", lang); err != nil {
		return err
	}
	return ex.RunChroot("generate locales", "locale-gen")
}

// SetKeyboard sets the console keymap.
func SetKeyboard(ex executor.Executor, keymap string) error {
	return writeInitFile(ex, "set keymap", "etc/vconsole.conf", "KEYMAP", keymap)
}

func writeInitFile(ex executor.Executor, op, filename, key, value string) error {
	f := shell.InitFile{
		Filename:  filename,
		Variables: []shell.EnvironmentVariable{{Key: key, Value: value}},
	}
	data, err := f.Render()
	if err != nil {
		return err
	}
	return ex.WriteFile(op, f.Filename, data, 0644)
}

// SetTimezone links /etc/localtime to the zoneinfo file of timezone, e.g.
// "Europe/Berlin", and syncs the hardware clock.
func SetTimezone(ex executor.Executor, timezone string) error {
	zone := path.Join(zoneinfoDir, timezone)
	if timezone == "" || path.IsAbs(timezone) || !strings.HasPrefix(zone, zoneinfoDir+"/") {
		return fmt.Errorf("invalid timezone %q", timezone)
	}

	if err := ex.RunChroot("set timezone", "ln", "-sf", zone, "/etc/localtime"); err != nil {
		return err
	}
	return ex.RunChroot("set system clock", "hwclock", "--systohc")
}
