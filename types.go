package rigtune

import (
	"fmt"
	"time"
)

type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

func (i Impact) Valid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

func (i *Impact) UnmarshalText(b []byte) error {
	v := Impact(b)
	if !v.Valid() {
		return fmt.Errorf("unknown impact %q", string(b))
	}
	*i = v
	return nil
}

// ProgramCategory classifies a startup program. Essential programs are
// protected from being disabled; bloatware is the target of bulk disable.
type ProgramCategory string

const (
	CategoryEssential ProgramCategory = "essential"
	CategoryBloatware ProgramCategory = "bloatware"
	CategoryGaming    ProgramCategory = "gaming"
	CategoryUtility   ProgramCategory = "utility"
	CategoryUnknown   ProgramCategory = "unknown"
)

func (c ProgramCategory) Valid() bool {
	switch c {
	case CategoryEssential, CategoryBloatware, CategoryGaming, CategoryUtility, CategoryUnknown:
		return true
	}
	return false
}

func (c *ProgramCategory) UnmarshalText(b []byte) error {
	v := ProgramCategory(b)
	if !v.Valid() {
		return fmt.Errorf("unknown program category %q", string(b))
	}
	*c = v
	return nil
}

type SettingCategory string

const (
	SettingPerformance SettingCategory = "performance"
	SettingVisual      SettingCategory = "visual"
	SettingNetwork     SettingCategory = "network"
	SettingPower       SettingCategory = "power"
	SettingStorage     SettingCategory = "storage"
)

func (c SettingCategory) Valid() bool {
	switch c {
	case SettingPerformance, SettingVisual, SettingNetwork, SettingPower, SettingStorage:
		return true
	}
	return false
}

func (c *SettingCategory) UnmarshalText(b []byte) error {
	v := SettingCategory(b)
	if !v.Valid() {
		return fmt.Errorf("unknown setting category %q", string(b))
	}
	*c = v
	return nil
}

// StartupProgram is a simulated startup entry. Enabled is the only field
// that changes after seeding.
type StartupProgram struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Publisher   string          `json:"publisher" yaml:"publisher"`
	Path        string          `json:"path" yaml:"path"`
	Enabled     bool            `json:"enabled" yaml:"enabled"`
	Impact      Impact          `json:"impact" yaml:"impact"`
	Category    ProgramCategory `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
}

// OptimizationSetting is a simulated tweak. Impact here is free text
// describing the expected effect.
type OptimizationSetting struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Category    SettingCategory `json:"category" yaml:"category"`
	Enabled     bool            `json:"enabled" yaml:"enabled"`
	Recommended bool            `json:"recommended" yaml:"recommended"`
	Impact      string          `json:"impact" yaml:"impact"`
}

type SystemInfo struct {
	OS      string `json:"os" yaml:"os"`
	CPU     string `json:"cpu" yaml:"cpu"`
	RAM     string `json:"ram" yaml:"ram"`
	GPU     string `json:"gpu" yaml:"gpu"`
	Storage string `json:"storage" yaml:"storage"`
}

// OptimizationResult reports the outcome of a setting change. A failed
// lookup is a result with Success=false, not an error.
type OptimizationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SettingID string `json:"settingId"`
}

// Summary holds the dashboard counters shown next to the score.
type Summary struct {
	Score              int `json:"score"`
	EnabledBloatware   int `json:"enabledBloatware"`
	EnabledHighImpact  int `json:"enabledHighImpact"`
	PendingRecommended int `json:"pendingRecommended"`
	TotalPrograms      int `json:"totalPrograms"`
	TotalSettings      int `json:"totalSettings"`
}

type EventKind string

const (
	EventProgramToggled     EventKind = "program.toggled"
	EventBloatwareDisabled  EventKind = "bloatware.disabled"
	EventSettingToggled     EventKind = "setting.toggled"
	EventRecommendedApplied EventKind = "recommended.applied"
)

// Event announces a catalog mutation so clients can refetch.
type Event struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	EntityIDs  []string  `json:"entityIds,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Score      int       `json:"score"`
}

type EventSubscription interface {
	C() <-chan Event
	Close() error
}
