package desktops

import (
	"fmt"

	"github.com/crystal-linux/jade/internal/executor"
)

const (
	lightdm = "lightdm"
	gdm     = "gdm"
	sddm    = "sddm"
)

type setup struct {
	packages []string
	// displayManager is the systemd unit enabled after installation
	displayManager string
}

var pipewire = []string{"pipewire", "pipewire-pulse", "pipewire-alsa", "pipewire-jack", "wireplumber"}

var lightdmGreeter = []string{lightdm, "lightdm-gtk-greeter", "lightdm-gtk-greeter-settings"}

func withCommon(dm string, pkgs ...string) setup {
	all := append([]string{"xorg"}, pkgs...)
	all = append(all, pipewire...)
	if dm == lightdm {
		all = append(all, lightdmGreeter...)
	} else {
		all = append(all, dm)
	}
	return setup{packages: all, displayManager: dm}
}

var desktopSetups = map[Desktop]setup{
	Onyx:          withCommon(lightdm, "onyx", "sushi", "gnome-keyring"),
	Gnome:         withCommon(gdm, "gnome", "gnome-tweaks", "gnome-browser-connector"),
	Kde:           withCommon(sddm, "plasma", "plasma-wayland-session", "kde-applications"),
	Budgie:        withCommon(lightdm, "budgie-desktop", "gnome", "arc-gtk-theme", "papirus-icon-theme"),
	Cinnamon:      withCommon(lightdm, "cinnamon", "metacity", "gnome-shell", "gnome-terminal"),
	Mate:          withCommon(lightdm, "mate", "mate-extra"),
	Xfce:          withCommon(lightdm, "xfce4", "xfce4-goodies"),
	Enlightenment: withCommon(lightdm, "enlightenment", "terminology"),
	Lxqt:          withCommon(sddm, "lxqt", "breeze-icons", "nm-tray", "xscreensaver"),
	Sway:          withCommon(lightdm, "sway", "bemenu", "foot", "mako", "polkit", "swaybg", "grim", "slurp", "xorg-xwayland"),
	I3:            withCommon(lightdm, "i3-wm", "dmenu", "i3lock", "i3status", "rxvt-unicode"),
	Herbstluftwm:  withCommon(lightdm, "herbstluftwm", "dmenu", "dzen2", "xorg-xsetroot"),
	Awesome:       withCommon(lightdm, "awesome", "dex", "rlwrap", "vicious"),
	Bspwm:         withCommon(lightdm, "bspwm", "sxhkd", "xdo", "dmenu", "rxvt-unicode"),
}

// Packages returns the packages installed for d. None has no packages.
func (d Desktop) Packages() []string {
	return append([]string{}, desktopSetups[d].packages...)
}

// DisplayManager returns the display manager unit enabled for d, or an
// empty string for None.
func (d Desktop) DisplayManager() string {
	return desktopSetups[d].displayManager
}

// PackageInstaller installs packages into the target.
type PackageInstaller interface {
	Install(pkgs []string) error
}

// Install installs the packages of d and enables its display manager.
// Installing None does nothing.
func Install(ex executor.Executor, packages PackageInstaller, d Desktop) error {
	if d == None {
		return nil
	}
	s, ok := desktopSetups[d]
	if !ok {
		return fmt.Errorf("unknown desktop %q", d)
	}

	if err := packages.Install(s.packages); err != nil {
		return err
	}
	return ex.RunChroot("enable "+s.displayManager, "systemctl", "enable", s.displayManager)
}
