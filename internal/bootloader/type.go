package bootloader

import "fmt"

// Type selects how GRUB is installed.
type Type string

const (
	TypeGrubEFI    Type = "grub-efi"
	TypeGrubLegacy Type = "grub-legacy"
)

func (t Type) Valid() bool {
	switch t {
	case TypeGrubEFI, TypeGrubLegacy:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown bootloader type %q, expected %q or %q", s, TypeGrubEFI, TypeGrubLegacy)
	}
	return t, nil
}
