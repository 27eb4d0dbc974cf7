// Package imposition computes how many trimmed items fit on a press sheet and
// how many sheets a job needs.
package imposition

import (
	"fmt"
	"math"
	"strings"
)

// Dimension is a width/height pair in millimetres.
type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rotated returns the dimension turned by 90 degrees.
func (d Dimension) Rotated() Dimension {
	return Dimension{Width: d.Height, Height: d.Width}
}

// SheetPreset is a named press sheet size.
type SheetPreset string

const (
	SheetSRA3 SheetPreset = "SRA3"
	SheetA3   SheetPreset = "A3"
	SheetA4   SheetPreset = "A4"
)

var presetSizes = map[SheetPreset]Dimension{
	SheetSRA3: {Width: 320, Height: 450},
	SheetA3:   {Width: 297, Height: 420},
	SheetA4:   {Width: 210, Height: 297},
}

// Presets lists the known sheet presets, largest first.
func Presets() []SheetPreset {
	return []SheetPreset{SheetSRA3, SheetA3, SheetA4}
}

// PresetSize returns the fixed size of a preset.
func PresetSize(p SheetPreset) (Dimension, bool) {
	d, ok := presetSizes[p]
	return d, ok
}

// SheetSpec selects a sheet either by preset or by a custom size.
// A non-empty Preset takes precedence over Width and Height.
type SheetSpec struct {
	Preset SheetPreset `json:"preset,omitempty"`
	Width  float64     `json:"width,omitempty"`
	Height float64     `json:"height,omitempty"`
}

// ResolveSheet returns the concrete size of the sheet spec.
func ResolveSheet(spec SheetSpec) (Dimension, error) {
	if spec.Preset != "" {
		d, ok := presetSizes[SheetPreset(strings.ToUpper(string(spec.Preset)))]
		if !ok {
			return Dimension{}, fmt.Errorf("%w: %q", ErrUnknownSheetPreset, spec.Preset)
		}
		return d, nil
	}

	d, err := ResolveItem(spec.Width, spec.Height)
	if err != nil {
		return Dimension{}, fmt.Errorf("resolve custom sheet: %w", err)
	}
	return d, nil
}

// ResolveItem validates an item trim size.
func ResolveItem(width, height float64) (Dimension, error) {
	if !validLength(width) {
		return Dimension{}, fmt.Errorf("%w: width %v", ErrInvalidDimension, width)
	}
	if !validLength(height) {
		return Dimension{}, fmt.Errorf("%w: height %v", ErrInvalidDimension, height)
	}
	return Dimension{Width: width, Height: height}, nil
}

func validLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
