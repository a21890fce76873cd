package stack

import (
	"honnef.co/go/stackview/container"
	"honnef.co/go/stackview/view"

	"go.uber.org/zap"
)

// transition is one hide or show of an arranged view that is waiting for its animation to end.
type transition struct {
	hidden bool
	done   bool
}

// visibility tracks which arranged views count as hidden. A view that is animating towards hidden counts as
// hidden even though its layer is still drawn.
type visibility struct {
	owner *View

	observed          container.Set[*view.View]
	animatingToHidden container.Set[*view.View]

	// commits counts finalized transitions.
	commits int
}

func newVisibility(owner *View) visibility {
	return visibility{
		owner:             owner,
		observed:          container.Set[*view.View]{},
		animatingToHidden: container.Set[*view.View]{},
	}
}

func (vis *visibility) isHidden(v *view.View) bool {
	return v.IsHidden() || vis.animatingToHidden.Has(v)
}

func (vis *visibility) observe(v *view.View) {
	if vis.observed.Add(v) {
		v.ObserveHidden(vis, vis.hiddenChanged)
	}
}

func (vis *visibility) unobserve(v *view.View) {
	if vis.observed.Delete(v) {
		v.UnobserveHidden(vis)
	}
}

// forget drops all state about v. A transition still in flight finalizes without resuming observation.
func (vis *visibility) forget(v *view.View) {
	vis.unobserve(v)
	vis.animatingToHidden.Delete(v)
}

func (vis *visibility) hiddenChanged(v *view.View, old, hidden bool) {
	if old == hidden {
		return
	}
	log := vis.owner.log()
	log.Debug("arranged view visibility changed",
		zap.Stringer("stack", vis.owner),
		zap.Stringer("view", v),
		zap.Bool("hidden", hidden))

	if hidden {
		vis.animatingToHidden.Add(v)
	}
	sv := vis.owner
	sv.SetNeedsUpdateConstraints()
	sv.SetNeedsLayout()
	sv.LayoutIfNeeded()

	vis.unobserve(v)
	// The view stays drawn while its neighbours make room.
	v.Layer().SetHidden(false)

	tr := &transition{hidden: hidden}
	finalize := func(bool) { vis.finalize(v, tr) }
	if !v.Layer().OnAnimationDone(view.KeyBoundsSize, finalize) {
		finalize(true)
	}
}

func (vis *visibility) finalize(v *view.View, tr *transition) {
	if tr.done {
		return
	}
	tr.done = true

	hidden := v.IsHidden()
	v.Layer().SetHidden(hidden)
	vis.animatingToHidden.Delete(v)
	vis.commits++

	log := vis.owner.log()
	superseded := hidden != tr.hidden
	log.Debug("arranged view transition finished",
		zap.Stringer("stack", vis.owner),
		zap.Stringer("view", v),
		zap.Bool("hidden", hidden),
		zap.Bool("superseded", superseded))

	if !vis.owner.isArranged(v) {
		return
	}
	vis.observe(v)
	if superseded {
		vis.owner.SetNeedsUpdateConstraints()
	}
}
