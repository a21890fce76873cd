package layout

import "gioui.org/layout"

type Context = layout.Context
type Dimensions = layout.Dimensions
type Axis = layout.Axis

const (
	Horizontal Axis = layout.Horizontal
	Vertical   Axis = layout.Vertical
)

var NewContext = layout.NewContext
