package installer

import (
	"errors"
	"fmt"

	"github.com/crystal-linux/jade/internal/bootloader"
	"github.com/crystal-linux/jade/internal/config"
	"github.com/crystal-linux/jade/internal/desktops"
	"github.com/crystal-linux/jade/internal/disk"
)

const (
	StagePartition     = "partition"
	StageBase          = "base"
	StageFstab         = "fstab"
	StageBootloader    = "bootloader"
	StageLocale        = "locale"
	StageNetworking    = "networking"
	StageUsers         = "users"
	StageRootPass      = "rootpass"
	StageDesktop       = "desktop"
	StageTimeshift     = "timeshift"
	StageFlatpak       = "flatpak"
	StageExtraPackages = "extra_packages"
)

// stageOrder is the fixed order of all stages. Which of them run depends on
// the configuration.
var stageOrder = []string{
	StagePartition,
	StageBase,
	StageFstab,
	StageBootloader,
	StageLocale,
	StageNetworking,
	StageUsers,
	StageRootPass,
	StageDesktop,
	StageTimeshift,
	StageFlatpak,
	StageExtraPackages,
}

var (
	ErrUnknownBootloader    = errors.New("unknown bootloader type")
	ErrUnknownDesktop       = errors.New("unknown desktop")
	ErrUnknownPartitionMode = errors.New("unknown partition mode")
	ErrMissingDevice        = errors.New("no target device")
)

// PlanError is returned when a configuration cannot be turned into a plan.
type PlanError struct {
	Err error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("invalid installation plan: %v", e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// Plan is a configuration checked and resolved for installation.
type Plan struct {
	Config *config.Config
	// Device is the resolved path of the target block device
	Device string
	// Partitions are the parsed partition specs, empty in auto mode
	Partitions []disk.PartitionSpec

	enabled map[string]bool
}

// NewPlan checks cfg and derives the plan from it. Everything that can be
// rejected without touching the system is rejected here, so that a bad
// configuration fails before the first stage runs.
func NewPlan(cfg *config.Config) (*Plan, error) {
	p := &Plan{
		Config: cfg,
		Device: disk.DevicePath(cfg.Partition.Device),
	}

	switch cfg.Partition.Mode {
	case disk.PartitionModeAuto:
		if cfg.Partition.Device == "" {
			return nil, &PlanError{Err: ErrMissingDevice}
		}
	case disk.PartitionModeManual:
		partitions, err := disk.ParsePartitionSpecs(cfg.Partition.Partitions)
		if err != nil {
			return nil, &PlanError{Err: err}
		}
		for _, part := range partitions {
			if err := part.Validate(); err != nil {
				return nil, &PlanError{Err: err}
			}
		}
		p.Partitions = partitions
	default:
		return nil, &PlanError{Err: fmt.Errorf("%w %d", ErrUnknownPartitionMode, cfg.Partition.Mode)}
	}

	if !cfg.Bootloader.Type.Valid() {
		return nil, &PlanError{Err: fmt.Errorf("%w %q, expected %q or %q", ErrUnknownBootloader, cfg.Bootloader.Type, bootloader.TypeGrubEFI, bootloader.TypeGrubLegacy)}
	}

	if cfg.Desktop != nil && !cfg.Desktop.Valid() {
		return nil, &PlanError{Err: fmt.Errorf("%w %q", ErrUnknownDesktop, *cfg.Desktop)}
	}

	p.enabled = map[string]bool{
		StageDesktop:       cfg.Desktop != nil && *cfg.Desktop != desktops.None,
		StageTimeshift:     cfg.Timeshift,
		StageFlatpak:       cfg.Flatpak,
		StageExtraPackages: len(cfg.ExtraPackages) > 0,
	}

	return p, nil
}

// Enabled reports whether stage runs for this plan.
func (p *Plan) Enabled(stage string) bool {
	enabled, conditional := p.enabled[stage]
	return !conditional || enabled
}

// Stages returns the names of the stages that run, in order.
func (p *Plan) Stages() []string {
	var stages []string
	for _, stage := range stageOrder {
		if p.Enabled(stage) {
			stages = append(stages, stage)
		}
	}
	return stages
}
