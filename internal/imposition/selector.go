package imposition

// SelectionPolicy holds the thresholds used when a larger layout is traded
// for one with more clearance.
type SelectionPolicy struct {
	// MaxYieldGap is the largest yield advantage of the unrotated layout that
	// can still be given up.
	MaxYieldGap uint32 `json:"max_yield_gap"`
	// MinHeadroom is the clearance in millimetres below which the unrotated
	// layout counts as edge-hugging.
	MinHeadroom float64 `json:"min_headroom"`
}

// DefaultPolicy returns the shop's accepted risk tolerance.
func DefaultPolicy() SelectionPolicy {
	return SelectionPolicy{MaxYieldGap: 4, MinHeadroom: 15}
}

// YieldDecision is the layout chosen for an item on a sheet.
type YieldDecision struct {
	Layout  LayoutResult `json:"layout"`
	Rotated bool         `json:"rotated"`
	// HeadroomOverride is set when the rotated layout was chosen despite a
	// smaller yield because the unrotated one left too little clearance.
	HeadroomOverride bool `json:"headroom_override"`

	Unrotated      LayoutResult `json:"unrotated"`
	RotatedVariant LayoutResult `json:"rotated_variant"`
}

// ItemsPerSheet returns the yield of the chosen layout.
func (d YieldDecision) ItemsPerSheet() uint32 {
	return d.Layout.ItemsPerSheet
}

// SelectOrientation packs item both as given and turned by 90 degrees and
// picks the layout to produce. Equal yields keep the item unrotated.
// ErrLayoutInfeasible is returned, together with the zero decision, when
// neither orientation fits.
func SelectOrientation(item, sheet Dimension, m MarginProfile, policy SelectionPolicy) (YieldDecision, error) {
	v1 := PackOrientation(item, sheet, m)
	v2 := PackOrientation(item.Rotated(), sheet, m)

	d := YieldDecision{Unrotated: v1, RotatedVariant: v2}

	if !v1.Fits() && !v2.Fits() {
		return d, ErrLayoutInfeasible
	}

	if v1.ItemsPerSheet > v2.ItemsPerSheet &&
		v1.ItemsPerSheet-v2.ItemsPerSheet <= policy.MaxYieldGap &&
		v2.Fits() {
		p := planGrid(item, sheet, m)
		if p.widthHeadroom() < policy.MinHeadroom || p.heightHeadroom() < policy.MinHeadroom {
			d.Layout = v2
			d.Rotated = true
			d.HeadroomOverride = true
			return d, nil
		}
	}

	if v2.ItemsPerSheet > v1.ItemsPerSheet {
		d.Layout = v2
		d.Rotated = true
		return d, nil
	}

	d.Layout = v1
	return d, nil
}
