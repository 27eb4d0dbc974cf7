package imposition

import (
	"fmt"
	"math"
)

// MarginProfile holds the press allowances in millimetres.
type MarginProfile struct {
	// Bleed is assumed to be part of the item trim size already; it is only
	// re-added when checking that a candidate grid clears the sheet edges.
	Bleed float64 `json:"bleed"`
	// Gap separates adjacent items in the grid.
	Gap float64 `json:"gap"`
	// Gripper is reserved along one width edge of the sheet.
	Gripper float64 `json:"gripper"`
	// SafetyMargin is the extra slack a grid must leave before it is accepted.
	SafetyMargin float64 `json:"safety_margin"`
}

// DefaultMargins returns the allowances of the shop's presses.
func DefaultMargins() MarginProfile {
	return MarginProfile{
		Bleed:        2,
		Gap:          2,
		Gripper:      5,
		SafetyMargin: 3,
	}
}

// Validate rejects negative or non-finite allowances.
func (m MarginProfile) Validate() error {
	for _, v := range []float64{m.Bleed, m.Gap, m.Gripper, m.SafetyMargin} {
		if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: margin %v", ErrInvalidDimension, v)
		}
	}
	return nil
}

// LayoutResult is the grid found for one orientation. The zero value means
// the orientation does not fit.
type LayoutResult struct {
	ItemsPerSheet uint32 `json:"items_per_sheet"`
	Columns       uint32 `json:"columns"`
	Rows          uint32 `json:"rows"`
}

// Fits reports whether the layout places at least one item.
func (l LayoutResult) Fits() bool {
	return l.ItemsPerSheet > 0
}

// gridPlan is the unreduced candidate grid for one orientation.
type gridPlan struct {
	usableWidth, usableHeight float64
	stepWidth, stepHeight     float64
	cols, rows                float64
	totalWidth, totalHeight   float64
}

func planGrid(item, sheet Dimension, m MarginProfile) gridPlan {
	p := gridPlan{
		usableWidth:  sheet.Width - m.Gripper,
		usableHeight: sheet.Height,
		stepWidth:    item.Width + m.Gap,
		stepHeight:   item.Height + m.Gap,
	}
	p.cols = math.Floor(p.usableWidth / p.stepWidth)
	p.rows = math.Floor(p.usableHeight / p.stepHeight)
	p.totalWidth = p.cols*p.stepWidth - m.Gap + 2*m.Bleed + m.SafetyMargin
	p.totalHeight = p.rows*p.stepHeight - m.Gap + 2*m.Bleed + m.SafetyMargin
	return p
}

// widthHeadroom and heightHeadroom are the clearances left by the unreduced grid.
func (p gridPlan) widthHeadroom() float64  { return p.usableWidth - p.totalWidth }
func (p gridPlan) heightHeadroom() float64 { return p.usableHeight - p.totalHeight }

// PackOrientation computes the largest rows x columns grid of item that fits
// on sheet without rotating the item.
//
// When the candidate grid overflows the width once bleed and safety margin are
// added back, one attempt is made with fewer columns; otherwise the same is
// done for rows. The width check wins: rows are not re-checked after a column
// reduction.
func PackOrientation(item, sheet Dimension, m MarginProfile) LayoutResult {
	p := planGrid(item, sheet, m)
	if p.usableWidth <= 0 || p.usableHeight <= 0 || p.stepWidth <= 0 || p.stepHeight <= 0 {
		return LayoutResult{}
	}

	cols, rows := p.cols, p.rows
	switch {
	case p.totalWidth > p.usableWidth:
		reduced := math.Floor((p.usableWidth - 2*m.Bleed - m.SafetyMargin) / p.stepWidth)
		if reduced <= 0 || reduced >= cols {
			return LayoutResult{}
		}
		cols = reduced
	case p.totalHeight > p.usableHeight:
		reduced := math.Floor((p.usableHeight - 2*m.Bleed - m.SafetyMargin) / p.stepHeight)
		if reduced <= 0 || reduced >= rows {
			return LayoutResult{}
		}
		rows = reduced
	}

	return newLayout(cols, rows)
}

// newLayout converts the grid to counts. A grid whose item count does not fit
// in uint32 is reported as not fitting rather than wrapped.
func newLayout(cols, rows float64) LayoutResult {
	if cols <= 0 || rows <= 0 || cols > math.MaxUint32 || rows > math.MaxUint32 {
		return LayoutResult{}
	}
	c, r := uint64(cols), uint64(rows)
	if c*r > math.MaxUint32 {
		return LayoutResult{}
	}
	return LayoutResult{ItemsPerSheet: uint32(c * r), Columns: uint32(c), Rows: uint32(r)}
}
