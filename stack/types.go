package stack

import (
	"fmt"
	"strings"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/layout"
)

// Alignment positions arranged views across the stacking axis.
type Alignment uint8

const (
	// AlignFill stretches views to the full cross-axis extent of the stack.
	AlignFill Alignment = iota
	AlignLeading
	// AlignFirstBaseline lines up first baselines. It only applies to horizontal stacks.
	AlignFirstBaseline
	AlignCenter
	AlignTrailing
)

// AlignTop and AlignBottom are the names AlignLeading and AlignTrailing go by in horizontal stacks.
const (
	AlignTop    = AlignLeading
	AlignBottom = AlignTrailing
)

var alignmentNames = [...]string{
	AlignFill:          "fill",
	AlignLeading:       "leading",
	AlignFirstBaseline: "firstBaseline",
	AlignCenter:        "center",
	AlignTrailing:      "trailing",
}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

func (a Alignment) MarshalText() ([]byte, error) {
	if int(a) >= len(alignmentNames) {
		return nil, fmt.Errorf("invalid alignment %d", a)
	}
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	switch s {
	case "top":
		*a = AlignTop
		return nil
	case "bottom":
		*a = AlignBottom
		return nil
	}
	for i, name := range alignmentNames {
		if strings.ToLower(name) == s {
			*a = Alignment(i)
			return nil
		}
	}
	return fmt.Errorf("unknown alignment %q", b)
}

// edges returns the cross-axis attributes along which all arranged views are lined up.
func (a Alignment) edges(axis layout.Axis) []constraint.Attribute {
	cross := attrsAcross(axis)
	switch a {
	case AlignFill:
		return []constraint.Attribute{cross.leading, cross.trailing}
	case AlignLeading:
		return []constraint.Attribute{cross.leading}
	case AlignCenter:
		return []constraint.Attribute{cross.center}
	case AlignTrailing:
		return []constraint.Attribute{cross.trailing}
	case AlignFirstBaseline:
		if axis == layout.Horizontal {
			return []constraint.Attribute{constraint.FirstBaseline}
		}
		return nil
	default:
		return nil
	}
}

// Distribution sizes and positions arranged views along the stacking axis.
type Distribution uint8

const (
	// Fill lets the views' intrinsic sizes and priorities decide how the available space is split.
	Fill Distribution = iota
	// FillEqually gives all visible views the same size.
	FillEqually
	// FillProportionally sizes views in proportion to their intrinsic sizes.
	FillProportionally
	// EqualSpacing puts the same amount of space between neighbouring views.
	EqualSpacing
	// EqualCentering spaces the centers of neighbouring views equally.
	EqualCentering
)

var distributionNames = [...]string{
	Fill:               "fill",
	FillEqually:        "fillEqually",
	FillProportionally: "fillProportionally",
	EqualSpacing:       "equalSpacing",
	EqualCentering:     "equalCentering",
}

func (d Distribution) String() string {
	if int(d) < len(distributionNames) {
		return distributionNames[d]
	}
	return fmt.Sprintf("Distribution(%d)", d)
}

func (d Distribution) MarshalText() ([]byte, error) {
	if int(d) >= len(distributionNames) {
		return nil, fmt.Errorf("invalid distribution %d", d)
	}
	return []byte(d.String()), nil
}

func (d *Distribution) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range distributionNames {
		if strings.ToLower(name) == s {
			*d = Distribution(i)
			return nil
		}
	}
	return fmt.Errorf("unknown distribution %q", b)
}

// Config is the arrangement of a stack.
type Config struct {
	Axis         layout.Axis
	Alignment    Alignment
	Distribution Distribution
	Spacing      float64
	// MarginsRelative lays out arranged views relative to the stack's layout margins instead of its edges.
	MarginsRelative bool
}

// attrs are the attributes of one axis.
type attrs struct {
	leading, trailing, dim, center constraint.Attribute
}

func attrsAlong(axis layout.Axis) attrs {
	if axis == layout.Horizontal {
		return attrs{constraint.Leading, constraint.Trailing, constraint.Width, constraint.CenterX}
	}
	return attrs{constraint.Top, constraint.Bottom, constraint.Height, constraint.CenterY}
}

func attrsAcross(axis layout.Axis) attrs {
	return attrsAlong(layout.Other(axis))
}
