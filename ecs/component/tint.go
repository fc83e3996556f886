package component

import "image/color"

// Tint is the debug draw colour of an entity.
type Tint struct {
	Color color.Color
}

var TintComponent = NewComponent[Tint]()
