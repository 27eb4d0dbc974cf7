package imposition

import "errors"

var (
	// ErrInvalidDimension is returned for a width or height that is not a finite positive number.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrUnknownSheetPreset is returned when a sheet spec names a preset outside the table.
	ErrUnknownSheetPreset = errors.New("unknown sheet preset")
	// ErrLayoutInfeasible is returned when neither orientation fits on the sheet.
	ErrLayoutInfeasible = errors.New("item does not fit sheet")
	// ErrImpositionUnconfigured is returned when pages per sheet works out to zero.
	ErrImpositionUnconfigured = errors.New("imposition not configured")
	// ErrInvalidSides is returned for a sides value other than 1 or 2.
	ErrInvalidSides = errors.New("sides must be 1 or 2")
)
