// Package policy resolves named export modes into concrete export policies.
//
// A mode is a named bundle of policy field values (a preset). Callers pick a
// mode, optionally override individual fields, and receive an ExportPolicy
// that the artifact layer consumes. Resolution is pure data except for one
// field: a preset may leave Prompt unset, which defers to whether the
// current session is interactive.
package policy

import (
	"fmt"
	"sort"
	"strings"
)

// ExportPolicy is the fully resolved configuration the artifact writer
// consumes. On a conflict exactly one outcome fires, evaluated in fixed
// order: compare, overwrite, backup, skip.
type ExportPolicy struct {
	// Outputs is the master switch; when false nothing is written
	// regardless of the other fields.
	Outputs bool

	// Prompt resolves conflicts by interactive choice instead of the
	// automatic fields below.
	Prompt bool

	// Overwrite replaces the existing file in place.
	Overwrite bool

	// Backup renames the existing file aside before writing.
	Backup bool

	// Compare first checks content equality and treats an identical file
	// as a no-op.
	Compare bool
}

// Preset is a mode definition. It mirrors ExportPolicy except that Prompt
// may be nil, meaning "unset: defer to session interactivity". All other
// fields are plain data.
type Preset struct {
	Outputs   bool  `yaml:"outputs"`
	Prompt    *bool `yaml:"prompt"`
	Overwrite bool  `yaml:"overwrite"`
	Backup    bool  `yaml:"backup"`
	Compare   bool  `yaml:"compare"`
}

// Table maps mode names to presets.
type Table map[string]Preset

// Overrides is a sparse set of policy field replacements. A nil field
// inherits the preset's value; a non-nil field replaces it.
type Overrides struct {
	Outputs   *bool `json:"outputs" mapstructure:"outputs" yaml:"outputs"`
	Prompt    *bool `json:"prompt" mapstructure:"prompt" yaml:"prompt"`
	Overwrite *bool `json:"overwrite" mapstructure:"overwrite" yaml:"overwrite"`
	Backup    *bool `json:"backup" mapstructure:"backup" yaml:"backup"`
	Compare   *bool `json:"compare" mapstructure:"compare" yaml:"compare"`
}

// Built-in mode names.
const (
	ModeAnalysis        = "analysis"
	ModeExportOverwrite = "export_overwrite"
	ModeExportBackup    = "export_backup"
	ModeExportNewOnly   = "export_new_only"
	ModeInteractive     = "interactive"
)

func boolPtr(v bool) *bool { return &v }

// Builtin returns the built-in preset table.
func Builtin() Table {
	return Table{
		ModeAnalysis:        {Outputs: false, Prompt: nil, Overwrite: false, Backup: true, Compare: true},
		ModeExportOverwrite: {Outputs: true, Prompt: boolPtr(false), Overwrite: true, Backup: false, Compare: false},
		ModeExportBackup:    {Outputs: true, Prompt: boolPtr(false), Overwrite: false, Backup: true, Compare: true},
		ModeExportNewOnly:   {Outputs: true, Prompt: boolPtr(false), Overwrite: false, Backup: false, Compare: true},
		ModeInteractive:     {Outputs: true, Prompt: boolPtr(true), Overwrite: false, Backup: true, Compare: true},
	}
}

// UnknownModeError is returned when a mode name is not present in the
// preset table. The message lists the valid alternatives.
type UnknownModeError struct {
	Mode       string
	ValidModes []string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown export mode %q (valid modes: %s)",
		e.Mode, strings.Join(e.ValidModes, ", "))
}

// Resolve computes the effective ExportPolicy for a mode.
//
// The preset provides every field's base value; any non-nil override field
// replaces it. If the effective prompt value is still unset after overrides,
// it resolves to the caller-supplied interactive signal. An unknown mode is
// a fatal configuration error.
func Resolve(mode string, table Table, ov Overrides, interactive bool) (ExportPolicy, error) {
	preset, ok := table[mode]
	if !ok {
		valid := make([]string, 0, len(table))
		for name := range table {
			valid = append(valid, name)
		}
		sort.Strings(valid)
		return ExportPolicy{}, &UnknownModeError{Mode: mode, ValidModes: valid}
	}

	pol := ExportPolicy{
		Outputs:   preset.Outputs,
		Overwrite: preset.Overwrite,
		Backup:    preset.Backup,
		Compare:   preset.Compare,
	}

	prompt := preset.Prompt
	if ov.Prompt != nil {
		prompt = ov.Prompt
	}
	if prompt != nil {
		pol.Prompt = *prompt
	} else {
		pol.Prompt = interactive
	}

	if ov.Outputs != nil {
		pol.Outputs = *ov.Outputs
	}
	if ov.Overwrite != nil {
		pol.Overwrite = *ov.Overwrite
	}
	if ov.Backup != nil {
		pol.Backup = *ov.Backup
	}
	if ov.Compare != nil {
		pol.Compare = *ov.Compare
	}

	return pol, nil
}
