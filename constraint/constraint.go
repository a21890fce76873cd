// Package constraint describes linear layout constraints between the edges and dimensions of items.
//
// A constraint reads
//
//	First.FirstAttr Relation Second.SecondAttr*Multiplier + Constant
//
// or, when Second is nil,
//
//	First.FirstAttr Relation Constant
//
// Priorities range over (0, 1000]. Constraints at Required must hold; the solver satisfies the others as
// well as it can, preferring higher priorities.
package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/mem"
)

type Attribute uint8

const (
	NotAnAttribute Attribute = iota
	Left
	Right
	Top
	Bottom
	Leading
	Trailing
	Width
	Height
	CenterX
	CenterY
	FirstBaseline
	LeftMargin
	RightMargin
	TopMargin
	BottomMargin
	LeadingMargin
	TrailingMargin
)

var attributeNames = [...]string{
	NotAnAttribute: "none",
	Left:           "left",
	Right:          "right",
	Top:            "top",
	Bottom:         "bottom",
	Leading:        "leading",
	Trailing:       "trailing",
	Width:          "width",
	Height:         "height",
	CenterX:        "centerX",
	CenterY:        "centerY",
	FirstBaseline:  "firstBaseline",
	LeftMargin:     "leftMargin",
	RightMargin:    "rightMargin",
	TopMargin:      "topMargin",
	BottomMargin:   "bottomMargin",
	LeadingMargin:  "leadingMargin",
	TrailingMargin: "trailingMargin",
}

func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return fmt.Sprintf("Attribute(%d)", a)
}

type Relation int8

const (
	LessOrEqual    Relation = -1
	Equal          Relation = 0
	GreaterOrEqual Relation = 1
)

func (r Relation) String() string {
	switch r {
	case LessOrEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterOrEqual:
		return ">="
	default:
		panic("unreachable")
	}
}

type Priority float32

const (
	Required    Priority = 1000
	DefaultHigh Priority = 750
	DefaultLow  Priority = 250
)

func (p Priority) String() string {
	return strconv.FormatFloat(float64(p), 'g', -1, 32)
}

// Item is anything constraints can refer to. Items are compared by identity, so implementations should be
// pointers.
type Item interface {
	// LayoutMargins are used to resolve the margin attributes.
	LayoutMargins() geom.Insets
	// FirstBaseline returns the distance of the first baseline from the item's top edge. Items without a
	// baseline report false and are treated as having their baseline at the bottom edge.
	FirstBaseline() (float64, bool)
}

type Constraint struct {
	First      Item
	FirstAttr  Attribute
	Relation   Relation
	Second     Item
	SecondAttr Attribute
	Multiplier float64
	Constant   float64
	Priority   Priority
	// Identifier is free-form and only used for debugging.
	Identifier string
}

// New returns a required constraint. Pass a nil second item and NotAnAttribute to constrain first against
// a constant.
func New(first Item, attr Attribute, rel Relation, second Item, attr2 Attribute, multiplier, constant float64) *Constraint {
	c := new(Constraint)
	c.init(first, attr, rel, second, attr2, multiplier, constant)
	return c
}

func (c *Constraint) init(first Item, attr Attribute, rel Relation, second Item, attr2 Attribute, multiplier, constant float64) {
	if second == nil {
		attr2 = NotAnAttribute
	}
	*c = Constraint{
		First:      first,
		FirstAttr:  attr,
		Relation:   rel,
		Second:     second,
		SecondAttr: attr2,
		Multiplier: multiplier,
		Constant:   constant,
		Priority:   Required,
	}
}

func (c *Constraint) Required() bool { return c.Priority >= Required }

// Involves reports whether it refers to item.
func (c *Constraint) Involves(item Item) bool {
	return c.First == item || (c.Second != nil && c.Second == item)
}

func (c *Constraint) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v.%s %s ", c.First, c.FirstAttr, c.Relation)
	if c.Second != nil {
		fmt.Fprintf(&sb, "%v.%s", c.Second, c.SecondAttr)
		if c.Multiplier != 1 {
			fmt.Fprintf(&sb, "*%.4g", c.Multiplier)
		}
		if c.Constant != 0 {
			fmt.Fprintf(&sb, " %+g", c.Constant)
		}
	} else {
		fmt.Fprintf(&sb, "%g", c.Constant)
	}
	if !c.Required() {
		fmt.Fprintf(&sb, " @%s", c.Priority)
	}
	return sb.String()
}

// Arena allocates constraints in bulk. Everything allocated from an arena is invalidated by Reset, which makes
// it a good fit for constraint sets that are thrown away wholesale every layout pass.
type Arena struct {
	buf mem.BucketSlice[Constraint]
}

// New is like the package-level New, but allocates from the arena. A nil arena falls back to the heap.
func (a *Arena) New(first Item, attr Attribute, rel Relation, second Item, attr2 Attribute, multiplier, constant float64) *Constraint {
	if a == nil {
		return New(first, attr, rel, second, attr2, multiplier, constant)
	}
	c := a.buf.Grow()
	c.init(first, attr, rel, second, attr2, multiplier, constant)
	return c
}

func (a *Arena) Len() int { return a.buf.Len() }

func (a *Arena) Reset() { a.buf.Reset() }
