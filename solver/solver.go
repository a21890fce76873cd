// Package solver implements an incremental Cassowary linear constraint solver for constraint.Constraint.
//
// Required constraints are hard: adding one that contradicts the already installed required constraints
// fails with ErrUnsatisfiable and leaves the solver unchanged. All other constraints are soft; the solver
// minimises the sum of their violations, each weighted by a factor that grows exponentially with the
// constraint's priority, so that higher priorities win trade-offs against lower ones. Among equally good
// solutions, ties are resolved by the order in which constraints were added.
//
// Every item gets four variables: its left and top edges, its width and its height. All attributes are
// affine expressions over those. Variables that no constraint determines resolve to zero.
package solver

import (
	"errors"
	"fmt"
	"math"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/geom"
)

var (
	ErrDuplicate     = errors.New("duplicate constraint")
	ErrUnknown       = errors.New("unknown constraint")
	ErrUnsatisfiable = errors.New("unsatisfiable constraint")
	// errUnbounded signals a bug in the solver, not a problem with the constraints.
	errUnbounded = errors.New("objective function is unbounded")
)

type dimension uint8

const (
	dimLeft dimension = iota
	dimTop
	dimWidth
	dimHeight
)

type variable struct {
	item constraint.Item
	dim  dimension
}

type term struct {
	v    variable
	coef float64
}

type expression struct {
	terms    []term
	constant float64
}

func (e *expression) add(other expression, factor float64) {
	for _, t := range other.terms {
		e.terms = append(e.terms, term{t.v, t.coef * factor})
	}
	e.constant += other.constant * factor
}

type tag struct {
	marker symbol
	other  symbol
}

type Solver struct {
	rows      map[symbol]*row
	cns       map[*constraint.Constraint]tag
	vars      map[variable]symbol
	objective *row
	// artificial is the objective of the phase one problem while a required row is added through an
	// artificial variable.
	artificial *row
	nextID     uint32
}

func New() *Solver {
	return &Solver{
		rows:      map[symbol]*row{},
		cns:       map[*constraint.Constraint]tag{},
		vars:      map[variable]symbol{},
		objective: newRow(0),
	}
}

// Weight returns the objective weight of a priority below constraint.Required.
func Weight(p constraint.Priority) float64 {
	return math.Pow(10, float64(p)/250)
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.nextID++
	return symbol{id: s.nextID, kind: kind}
}

func (s *Solver) HasConstraint(c *constraint.Constraint) bool {
	_, ok := s.cns[c]
	return ok
}

// NumConstraints returns the number of installed constraints.
func (s *Solver) NumConstraints() int { return len(s.cns) }

func (s *Solver) AddConstraint(c *constraint.Constraint) error {
	if _, ok := s.cns[c]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, c)
	}

	var t tag
	r := s.createRow(c, &t)
	subject := s.chooseSubject(r, t)

	if !subject.valid() && r.allDummies() {
		if !nearZero(r.constant) {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
		subject = t.marker
	}

	if !subject.valid() {
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cns[c] = t
	return s.optimize(s.objective)
}

func (s *Solver) RemoveConstraint(c *constraint.Constraint) error {
	t, ok := s.cns[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, c)
	}
	delete(s.cns, c)

	// Remove the error weights from the objective before pivoting the marker out.
	if !c.Required() {
		w := Weight(c.Priority)
		s.removeMarkerEffects(t.marker, w)
		s.removeMarkerEffects(t.other, w)
	}

	if _, ok := s.rows[t.marker]; ok {
		delete(s.rows, t.marker)
	} else {
		leaving, r, ok := s.markerLeavingRow(t.marker)
		if !ok {
			return fmt.Errorf("internal solver error: failed to find leaving row for %s", c)
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, t.marker)
		s.substitute(t.marker, r)
	}
	return s.optimize(s.objective)
}

func (s *Solver) removeMarkerEffects(marker symbol, weight float64) {
	if marker.kind != errorSym {
		return
	}
	if r, ok := s.rows[marker]; ok {
		s.objective.insertRow(r, -weight)
	} else {
		s.objective.insertSymbol(marker, -weight)
	}
}

// Forget drops the variables of an item that no installed constraint refers to anymore.
func (s *Solver) Forget(item constraint.Item) {
	for dim := dimLeft; dim <= dimHeight; dim++ {
		v := variable{item, dim}
		sym, ok := s.vars[v]
		if !ok {
			continue
		}
		if r, ok := s.rows[sym]; ok && len(r.cells) != 0 {
			// Still basic and tied to other symbols; keep it.
			continue
		}
		delete(s.rows, sym)
		delete(s.vars, v)
	}
}

func (s *Solver) value(v variable) float64 {
	sym, ok := s.vars[v]
	if !ok {
		return 0
	}
	if r, ok := s.rows[sym]; ok {
		return r.constant
	}
	return 0
}

// Value returns the current value of an attribute of item.
func (s *Solver) Value(item constraint.Item, attr constraint.Attribute) float64 {
	e := attrExpression(item, attr)
	v := e.constant
	for _, t := range e.terms {
		v += t.coef * s.value(t.v)
	}
	return v
}

// Frame returns the current frame of item.
func (s *Solver) Frame(item constraint.Item) geom.Rect {
	return geom.Rect{
		X:      s.value(variable{item, dimLeft}),
		Y:      s.value(variable{item, dimTop}),
		Width:  s.value(variable{item, dimWidth}),
		Height: s.value(variable{item, dimHeight}),
	}
}

func attrExpression(item constraint.Item, attr constraint.Attribute) expression {
	left := term{variable{item, dimLeft}, 1}
	top := term{variable{item, dimTop}, 1}
	width := term{variable{item, dimWidth}, 1}
	height := term{variable{item, dimHeight}, 1}
	half := func(t term) term { t.coef = 0.5; return t }

	switch attr {
	case constraint.Left, constraint.Leading:
		return expression{terms: []term{left}}
	case constraint.Right, constraint.Trailing:
		return expression{terms: []term{left, width}}
	case constraint.Top:
		return expression{terms: []term{top}}
	case constraint.Bottom:
		return expression{terms: []term{top, height}}
	case constraint.Width:
		return expression{terms: []term{width}}
	case constraint.Height:
		return expression{terms: []term{height}}
	case constraint.CenterX:
		return expression{terms: []term{left, half(width)}}
	case constraint.CenterY:
		return expression{terms: []term{top, half(height)}}
	case constraint.FirstBaseline:
		if off, ok := item.FirstBaseline(); ok {
			return expression{terms: []term{top}, constant: off}
		}
		return expression{terms: []term{top, height}}
	case constraint.LeftMargin, constraint.LeadingMargin:
		return expression{terms: []term{left}, constant: item.LayoutMargins().Left}
	case constraint.RightMargin, constraint.TrailingMargin:
		return expression{terms: []term{left, width}, constant: -item.LayoutMargins().Right}
	case constraint.TopMargin:
		return expression{terms: []term{top}, constant: item.LayoutMargins().Top}
	case constraint.BottomMargin:
		return expression{terms: []term{top, height}, constant: -item.LayoutMargins().Bottom}
	default:
		panic(fmt.Sprintf("unsupported attribute %s", attr))
	}
}

// expressionOf turns c into an expression that relates to zero with c.Relation.
func expressionOf(c *constraint.Constraint) expression {
	e := attrExpression(c.First, c.FirstAttr)
	if c.Second != nil && c.SecondAttr != constraint.NotAnAttribute {
		e.add(attrExpression(c.Second, c.SecondAttr), -c.Multiplier)
	}
	e.constant -= c.Constant
	return e
}

func (s *Solver) varSymbol(v variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(external)
	s.vars[v] = sym
	return sym
}

func (s *Solver) createRow(c *constraint.Constraint, t *tag) *row {
	e := expressionOf(c)
	r := newRow(e.constant)
	for _, tm := range e.terms {
		if nearZero(tm.coef) {
			continue
		}
		sym := s.varSymbol(tm.v)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, tm.coef)
		} else {
			r.insertSymbol(sym, tm.coef)
		}
	}

	switch c.Relation {
	case constraint.LessOrEqual, constraint.GreaterOrEqual:
		coeff := 1.0
		if c.Relation == constraint.GreaterOrEqual {
			coeff = -1.0
		}
		sl := s.newSymbol(slack)
		t.marker = sl
		r.insertSymbol(sl, coeff)
		if !c.Required() {
			errSym := s.newSymbol(errorSym)
			t.other = errSym
			r.insertSymbol(errSym, -coeff)
			s.objective.insertSymbol(errSym, Weight(c.Priority))
		}
	case constraint.Equal:
		if !c.Required() {
			plus := s.newSymbol(errorSym)
			minus := s.newSymbol(errorSym)
			t.marker = plus
			t.other = minus
			r.insertSymbol(plus, -1.0)
			r.insertSymbol(minus, 1.0)
			w := Weight(c.Priority)
			s.objective.insertSymbol(plus, w)
			s.objective.insertSymbol(minus, w)
		} else {
			d := s.newSymbol(dummy)
			t.marker = d
			r.insertSymbol(d, 1.0)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r
}

// chooseSubject picks the symbol a new row gets solved for: any external symbol, else a slack or error
// marker with a negative coefficient.
func (s *Solver) chooseSubject(r *row, t tag) symbol {
	for _, sym := range r.symbols() {
		if sym.kind == external {
			return sym
		}
	}
	if t.marker.pivotable() && r.coefficientFor(t.marker) < 0 {
		return t.marker
	}
	if t.other.pivotable() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return symbol{}
}

// snapshot deep-copies the tableau.
func (s *Solver) snapshot() (map[symbol]*row, *row) {
	rows := make(map[symbol]*row, len(s.rows))
	for sym, r := range s.rows {
		rows[sym] = r.clone()
	}
	return rows, s.objective.clone()
}

// addWithArtificialVariable adds a required row that has no obvious subject by solving a phase one problem.
// When the row turns out to be infeasible, the tableau is restored to its previous state.
func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	savedRows, savedObjective := s.snapshot()
	restore := func() {
		s.rows = savedRows
		s.objective = savedObjective
		s.artificial = nil
	}

	art := s.newSymbol(slack)
	s.rows[art] = r.clone()
	s.artificial = r.clone()

	if err := s.optimize(s.artificial); err != nil {
		restore()
		return false, err
	}
	if !nearZero(s.artificial.constant) {
		restore()
		return false, nil
	}
	s.artificial = nil

	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(basic.cells) == 0 {
			return true, nil
		}
		entering := anyPivotableSymbol(basic)
		if !entering.valid() {
			restore()
			return false, nil
		}
		basic.solveForPair(art, entering)
		s.substitute(entering, basic)
		s.rows[entering] = basic
	}

	for _, basic := range s.rows {
		basic.remove(art)
	}
	s.objective.remove(art)
	return true, nil
}

func anyPivotableSymbol(r *row) symbol {
	for _, sym := range r.symbols() {
		if sym.pivotable() {
			return sym
		}
	}
	return symbol{}
}

func (s *Solver) substitute(sym symbol, r *row) {
	for _, basic := range s.rows {
		basic.substitute(sym, r)
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// sortedRows returns the basic symbols in creation order.
func (s *Solver) sortedRows() []symbol {
	syms := make([]symbol, 0, len(s.rows))
	for sym := range s.rows {
		syms = append(syms, sym)
	}
	sortSymbols(syms)
	return syms
}

// optimize runs the primal simplex method on objective until no entering symbol improves it.
func (s *Solver) optimize(objective *row) error {
	for {
		entering := enteringSymbol(objective)
		if !entering.valid() {
			return nil
		}
		leaving, r, ok := s.leavingRow(entering)
		if !ok {
			return errUnbounded
		}
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
}

func enteringSymbol(objective *row) symbol {
	for _, sym := range objective.symbols() {
		if sym.kind != dummy && objective.cells[sym] < 0 {
			return sym
		}
	}
	return symbol{}
}

func (s *Solver) leavingRow(entering symbol) (symbol, *row, bool) {
	ratio := math.MaxFloat64
	var found symbol
	for _, sym := range s.sortedRows() {
		if sym.kind == external {
			continue
		}
		r := s.rows[sym]
		c := r.coefficientFor(entering)
		if c < 0 {
			if rr := -r.constant / c; rr < ratio {
				ratio = rr
				found = sym
			}
		}
	}
	if !found.valid() {
		return symbol{}, nil, false
	}
	return found, s.rows[found], true
}

// markerLeavingRow finds the row to pivot on when removing a constraint whose marker isn't basic.
func (s *Solver) markerLeavingRow(marker symbol) (symbol, *row, bool) {
	r1, r2 := math.MaxFloat64, math.MaxFloat64
	var first, second, third symbol
	for _, sym := range s.sortedRows() {
		r := s.rows[sym]
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		if sym.kind == external {
			third = sym
		} else if c < 0 {
			if rr := -r.constant / c; rr < r1 {
				r1 = rr
				first = sym
			}
		} else {
			if rr := r.constant / c; rr < r2 {
				r2 = rr
				second = sym
			}
		}
	}
	for _, sym := range []symbol{first, second, third} {
		if sym.valid() {
			return sym, s.rows[sym], true
		}
	}
	return symbol{}, nil, false
}
