package stack

import (
	"fmt"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
)

// Priorities used by the synthesized constraints.
const (
	// compressionHint lets views shrink across the axis when alignment doesn't stretch them.
	compressionHint constraint.Priority = 25
	// minimizeContainer pulls the stack towards its smallest size along the axis when the distribution
	// doesn't fix it.
	minimizeContainer constraint.Priority = 49
	// collapseSpacer keeps the alignment spacer as small as possible across the axis.
	collapseSpacer constraint.Priority = 51
	// equalCentering is where the priorities of the equal-gap constraints of EqualCentering start.
	equalCentering constraint.Priority = 150
	// proportional is where the priorities of FillProportionally start.
	proportional constraint.Priority = 999
	// spacerEdge pins the alignment spacer to the leading or trailing edge of views.
	spacerEdge constraint.Priority = 999.5
)

// Arranged is the engine's view of one arranged view.
type Arranged struct {
	Item      constraint.Item
	Intrinsic geom.Size
	Hidden    bool
}

// Set is the outcome of one synthesis.
type Set struct {
	// Container holds the constraints to install on the stack.
	Container []*constraint.Constraint
	// Arranged holds the constraints to install on the arranged view that is their first item.
	Arranged []*constraint.Constraint
	// Spacers are the items created during synthesis, in creation order.
	Spacers []constraint.Item
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Container) + len(s.Arranged)
}

// Describe renders every constraint in s, arranged-view constraints first. Equal inputs produce equal
// descriptions.
func (s *Set) Describe() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, s.Len())
	for _, cs := range [...][]*constraint.Constraint{s.Arranged, s.Container} {
		for _, c := range cs {
			out = append(out, fmt.Sprintf("%s: %s", c.Identifier, c))
		}
	}
	return out
}

type engine struct {
	cfg       Config
	arena     *constraint.Arena
	container constraint.Item
	children  []Arranged
	visible   []Arranged
	newSpacer func() constraint.Item

	along, across attrs
	// guide is the spacer that stands in for the container's content area.
	guide constraint.Item
	// gaps are the spacers between neighbouring visible views.
	gaps []constraint.Item

	set *Set
}

// Synthesize derives the constraints that arrange children inside container according to cfg. Constraints
// are allocated from arena, which may be nil. newSpacer is called for every spacer the arrangement needs; the
// caller must make the spacer a layout participant before the constraints are installed.
func Synthesize(cfg Config, arena *constraint.Arena, container constraint.Item, children []Arranged, newSpacer func() constraint.Item) *Set {
	e := &engine{
		cfg:       cfg,
		arena:     arena,
		container: container,
		children:  children,
		newSpacer: newSpacer,
		along:     attrsAlong(cfg.Axis),
		across:    attrsAcross(cfg.Axis),
		set:       &Set{},
	}
	e.run()
	return e.set
}

func (e *engine) constrain(
	dst *[]*constraint.Constraint,
	id string,
	first constraint.Item, attr constraint.Attribute,
	rel constraint.Relation,
	second constraint.Item, attr2 constraint.Attribute,
	multiplier, constant float64,
	prio constraint.Priority,
) *constraint.Constraint {
	c := e.arena.New(first, attr, rel, second, attr2, multiplier, constant)
	c.Priority = prio
	c.Identifier = id
	*dst = append(*dst, c)
	return c
}

// pin adds a container-owned constraint of the form first.attr rel second.attr2 + constant.
func (e *engine) pin(id string, first constraint.Item, attr constraint.Attribute, rel constraint.Relation, second constraint.Item, attr2 constraint.Attribute, constant float64, prio constraint.Priority) {
	e.constrain(&e.set.Container, id, first, attr, rel, second, attr2, 1, constant, prio)
}

func (e *engine) spacer() constraint.Item {
	sp := e.newSpacer()
	e.set.Spacers = append(e.set.Spacers, sp)
	return sp
}

func (e *engine) run() {
	for _, child := range e.children {
		if e.cfg.Alignment != AlignFill {
			e.constrain(&e.set.Arranged, "stack-compression-hint",
				child.Item, e.across.dim, constraint.Equal, nil, constraint.NotAnAttribute, 1, 0, compressionHint)
		}
		if child.Hidden {
			e.constrain(&e.set.Arranged, "stack-hiding",
				child.Item, e.along.dim, constraint.Equal, nil, constraint.NotAnAttribute, 1, 0, constraint.Required)
		} else {
			e.visible = append(e.visible, child)
		}
	}
	if len(e.children) == 0 {
		return
	}

	switch e.cfg.Distribution {
	case Fill, FillEqually, FillProportionally:
		if e.cfg.Alignment != AlignFill || e.cfg.MarginsRelative {
			e.guide = e.spacer()
		}
		e.matchEdges()
		e.matchFirstLast()
		if e.cfg.Alignment == AlignFirstBaseline && e.cfg.Axis == layout.Horizontal {
			e.minimize(constraint.Height)
		}
		switch e.cfg.Distribution {
		case FillEqually:
			e.equal(e.items(e.visible), e.along.dim, constraint.Required, "stack-fill-equally")
		case FillProportionally:
			e.fillProportionally()
		}
		e.chain(e.children, constraint.Equal, e.cfg.Spacing, "stack-spacing")

	case EqualSpacing:
		if e.cfg.MarginsRelative {
			e.guide = e.spacer()
		}
		seq := e.interleave()
		if e.guide == nil && len(e.gaps) == 0 {
			e.guide = e.spacer()
		}
		e.matchEdges()
		e.matchFirstLast()
		e.minimizeAlong()
		e.chain(seq, constraint.Equal, 0, "stack-spacing-guide")
		e.equal(e.gaps, e.along.dim, constraint.Required, "stack-equal-spacing")
		e.chain(e.children, constraint.GreaterOrEqual, e.cfg.Spacing, "stack-spacing")

	case EqualCentering:
		if e.cfg.MarginsRelative {
			e.guide = e.spacer()
		}
		for range max(len(e.visible)-1, 0) {
			e.gaps = append(e.gaps, e.spacer())
		}
		if e.guide == nil && len(e.gaps) == 0 {
			e.guide = e.spacer()
		}
		e.matchEdges()
		e.matchFirstLast()
		e.minimizeAlong()
		for i := 1; i < len(e.visible); i++ {
			gap := e.gaps[i-1]
			e.pin("stack-centering", e.visible[i-1].Item, e.along.center, constraint.Equal, gap, e.along.leading, 0, constraint.Required)
			e.pin("stack-centering", e.visible[i].Item, e.along.center, constraint.Equal, gap, e.along.trailing, 0, constraint.Required)
		}
		e.equal(e.gaps, e.along.dim, equalCentering, "stack-equal-centering")
		e.chain(e.children, constraint.GreaterOrEqual, e.cfg.Spacing, "stack-spacing")
	}

	if anchor := e.anchor(); anchor != nil && e.cfg.Alignment != AlignFill {
		e.surround(anchor)
	}
	if e.cfg.MarginsRelative && e.guide != nil {
		e.matchMargins()
	}
}

// anchor returns the spacer that carries alignment duty, if there is one.
func (e *engine) anchor() constraint.Item {
	if e.guide != nil {
		return e.guide
	}
	if len(e.gaps) > 0 {
		return e.gaps[0]
	}
	return nil
}

func (e *engine) items(views []Arranged) []constraint.Item {
	out := make([]constraint.Item, len(views))
	for i, v := range views {
		out[i] = v.Item
	}
	return out
}

// interleave returns the visible views with a fresh gap spacer between each pair of neighbours.
func (e *engine) interleave() []Arranged {
	var out []Arranged
	for i, v := range e.visible {
		if i > 0 {
			gap := e.spacer()
			e.gaps = append(e.gaps, gap)
			out = append(out, Arranged{Item: gap})
		}
		out = append(out, v)
	}
	return out
}

// matchEdges lines up all arranged views, hidden or not, on the alignment's cross-axis edges.
func (e *engine) matchEdges() {
	if len(e.children) == 0 {
		return
	}
	first := e.children[0].Item
	for _, attr := range e.cfg.Alignment.edges(e.cfg.Axis) {
		for _, child := range e.children[1:] {
			e.pin("stack-alignment", first, attr, constraint.Equal, child.Item, attr, 0, constraint.Required)
		}
	}
}

// matchFirstLast connects the container, or the guide spacer if arranging relative to margins, to the outer
// edges of the arrangement.
func (e *engine) matchFirstLast() {
	views := e.visible
	if len(views) == 0 {
		views = e.children
	}
	first, last := views[0].Item, views[len(views)-1].Item

	// Along the cross axis the first arranged view stands in for all of them, unless a spacer measures their
	// extent on that side.
	top, bottom := e.children[0].Item, e.children[0].Item
	if anchor := e.anchor(); anchor != nil {
		switch e.cfg.Alignment {
		case AlignFirstBaseline:
			if e.cfg.Axis == layout.Horizontal {
				bottom = anchor
			} else {
				// Nothing lines the views up across a vertical axis, so the spacer bounds both sides.
				top, bottom = anchor, anchor
			}
		case AlignLeading:
			bottom = anchor
		case AlignCenter:
			top, bottom = anchor, anchor
		case AlignTrailing:
			top = anchor
		}
	}

	outer := e.container
	if e.cfg.MarginsRelative {
		outer = e.guide
	}
	connect := func(attr constraint.Attribute, item constraint.Item) {
		// The guide spacer can be its own anchor.
		if item != outer {
			e.pin("stack-canvas-connection", outer, attr, constraint.Equal, item, attr, 0, constraint.Required)
		}
	}
	connect(e.along.leading, first)
	connect(e.along.trailing, last)
	connect(e.across.leading, top)
	connect(e.across.trailing, bottom)
	if e.cfg.Alignment == AlignCenter {
		connect(e.across.center, e.children[0].Item)
	}
}

// minimize pulls the container's dim towards zero.
func (e *engine) minimize(dim constraint.Attribute) {
	e.pin("stack-minimize", e.container, dim, constraint.Equal, nil, constraint.NotAnAttribute, 0, minimizeContainer)
}

func (e *engine) minimizeAlong() {
	e.minimize(e.along.dim)
	if e.cfg.Alignment == AlignFirstBaseline && e.cfg.Axis == layout.Horizontal {
		e.minimize(constraint.Height)
	}
}

// equal makes attr the same for all items. Priorities count down per item from prio, unless prio is Required.
func (e *engine) equal(items []constraint.Item, attr constraint.Attribute, prio constraint.Priority, id string) {
	if len(items) == 0 {
		return
	}
	first := items[0]
	countDown := prio < constraint.Required
	if countDown {
		prio--
	}
	for _, item := range items[1:] {
		e.pin(id, first, attr, constraint.Equal, item, attr, 0, prio)
		if countDown {
			prio--
		}
	}
}

func (e *engine) fillProportionally() {
	total := 0.0
	for _, v := range e.visible {
		total += max(layout.Main(e.cfg.Axis, v.Intrinsic), 0)
	}
	total += float64(len(e.visible)-1) * e.cfg.Spacing
	if len(e.visible) == 0 || total <= 0 {
		return
	}

	prio := constraint.Required
	countDown := len(e.visible) > 1
	if countDown {
		prio = proportional + 1
	}
	for _, child := range e.children {
		if countDown {
			prio--
		}
		if child.Hidden {
			continue
		}
		n := max(layout.Main(e.cfg.Axis, child.Intrinsic), 0)
		e.constrain(&e.set.Container, "stack-fill-proportionally",
			child.Item, e.along.dim, constraint.Equal, e.container, e.along.dim, n/total, 0, prio)
	}
}

// chain connects each view's leading edge to its predecessor's trailing edge. A gap next to a hidden view
// shrinks to half the spacing so that the two halves around it add up to one spacing; gaps at either end of
// the sequence next to a hidden view vanish.
func (e *engine) chain(seq []Arranged, rel constraint.Relation, spacing float64, id string) {
	for i := 1; i < len(seq); i++ {
		prev, cur := seq[i-1], seq[i]
		var gap float64
		switch {
		case !prev.Hidden && !cur.Hidden:
			gap = spacing
		case prev.Hidden && !cur.Hidden && i-1 != 0:
			gap = spacing / 2
		case !prev.Hidden && cur.Hidden && i != len(seq)-1:
			gap = spacing / 2
		}
		e.pin(id, cur.Item, e.along.leading, rel, prev.Item, e.along.trailing, gap, constraint.Required)
	}
}

// surround makes the anchor spacer span all visible views across the axis, as tightly as possible.
func (e *engine) surround(anchor constraint.Item) {
	leadRel, leadPrio := constraint.LessOrEqual, constraint.Required
	trailRel, trailPrio := constraint.GreaterOrEqual, constraint.Required
	switch e.cfg.Alignment {
	case AlignLeading:
		leadRel, leadPrio = constraint.Equal, spacerEdge
	case AlignTrailing:
		trailRel, trailPrio = constraint.Equal, spacerEdge
	}
	const id = "stack-spanning-boundary"
	for _, v := range e.visible {
		e.pin(id, anchor, e.across.leading, leadRel, v.Item, e.across.leading, 0, leadPrio)
		e.pin(id, anchor, e.across.trailing, trailRel, v.Item, e.across.trailing, 0, trailPrio)
	}
	e.pin("stack-spanning-fit", anchor, e.across.dim, constraint.Equal, nil, constraint.NotAnAttribute, 0, collapseSpacer)
}

// matchMargins pins the container's margin edges to the guide spacer.
func (e *engine) matchMargins() {
	const id = "stack-margins"
	pairs := [...][2]constraint.Attribute{
		{constraint.TopMargin, constraint.Top},
		{constraint.LeadingMargin, constraint.Leading},
		{constraint.BottomMargin, constraint.Bottom},
		{constraint.TrailingMargin, constraint.Trailing},
	}
	for _, p := range pairs {
		e.pin(id, e.container, p[0], constraint.Equal, e.guide, p[1], 0, constraint.Required)
	}
}
