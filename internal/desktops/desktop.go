// Package desktops lists the desktop environments that can be installed and
// installs them.
package desktops

import (
	"fmt"
	"sort"
)

// Desktop names one of the desktop setups that can be installed.
type Desktop string

const (
	Onyx          Desktop = "onyx"
	Gnome         Desktop = "gnome"
	Kde           Desktop = "kde"
	Budgie        Desktop = "budgie"
	Cinnamon      Desktop = "cinnamon"
	Mate          Desktop = "mate"
	Xfce          Desktop = "xfce"
	Enlightenment Desktop = "enlightenment"
	Lxqt          Desktop = "lxqt"
	Sway          Desktop = "sway"
	I3            Desktop = "i3"
	Herbstluftwm  Desktop = "herbstluftwm"
	Awesome       Desktop = "awesome"
	Bspwm         Desktop = "bspwm"
	// None selects no desktop, the system boots to a console.
	None Desktop = "none"
)

func (d Desktop) Valid() bool {
	if d == None {
		return true
	}
	_, ok := desktopSetups[d]
	return ok
}

func ParseDesktop(s string) (Desktop, error) {
	d := Desktop(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown desktop %q, expected one of %v", s, Names())
	}
	return d, nil
}

// Names returns every valid desktop name, sorted.
func Names() []string {
	names := []string{string(None)}
	for d := range desktopSetups {
		names = append(names, string(d))
	}
	sort.Strings(names)
	return names
}
