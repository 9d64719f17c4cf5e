// Package shell renders files of shell variable assignments, like
// /etc/locale.conf or /etc/vconsole.conf.
package shell

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/osbuild/images/pkg/shutil"
)

var keyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type EnvironmentVariable struct {
	Key   string
	Value string
}

type InitFile struct {
	// Filename relative to the target root
	Filename  string
	Variables []EnvironmentVariable
}

// Render returns the file content, one KEY=value line per variable.
// Values that a shell would split or expand are quoted.
func (f InitFile) Render() ([]byte, error) {
	var b strings.Builder
	for _, v := range f.Variables {
		if !keyRegexp.MatchString(v.Key) {
			return nil, fmt.Errorf("%s: invalid variable name %q", f.Filename, v.Key)
		}
		value := v.Value
		if value == "" || strings.ContainsAny(value, " \t\n'\"\\$`;&|<>*?()[]{}#~!") {
			value = shutil.Quote(value)
		}
		fmt.Fprintf(&b, "%s=%s\n", v.Key, value)
	}
	return []byte(b.String()), nil
}
