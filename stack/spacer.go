package stack

import (
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/view"
)

// newSpacer returns an invisible view that takes up space in an arrangement. Spacers have no content of their
// own: no intrinsic size, no margins, and they are never hidden.
func newSpacer(name string) *view.View {
	sp := view.New(name)
	sp.SetTranslatesFrame(false)
	sp.SetLayoutMargins(geom.Insets{})
	return sp
}
