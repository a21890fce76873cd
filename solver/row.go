package solver

import (
	"cmp"

	"golang.org/x/exp/slices"
)

type symbolKind uint8

const (
	invalid symbolKind = iota
	external
	slack
	errorSym
	dummy
)

type symbol struct {
	id   uint32
	kind symbolKind
}

func (s symbol) valid() bool { return s.kind != invalid }

// pivotable symbols may enter the basis when a row has no external symbol.
func (s symbol) pivotable() bool { return s.kind == slack || s.kind == errorSym }

const epsilon = 1e-8

func nearZero(v float64) bool {
	return v < epsilon && v > -epsilon
}

// row is a linear expression: constant + Σ coefficient*symbol.
type row struct {
	cells    map[symbol]float64
	constant float64
}

func newRow(constant float64) *row {
	return &row{cells: map[symbol]float64{}, constant: constant}
}

func (r *row) clone() *row {
	out := newRow(r.constant)
	for sym, c := range r.cells {
		out.cells[sym] = c
	}
	return out
}

// symbols returns the row's symbols in creation order. Iterating in a fixed order keeps pivoting, and thus
// the chosen solution among equally good ones, deterministic.
func (r *row) symbols() []symbol {
	syms := make([]symbol, 0, len(r.cells))
	for sym := range r.cells {
		syms = append(syms, sym)
	}
	sortSymbols(syms)
	return syms
}

func sortSymbols(syms []symbol) {
	slices.SortFunc(syms, func(a, b symbol) int { return cmp.Compare(a.id, b.id) })
}

func (r *row) coefficientFor(sym symbol) float64 { return r.cells[sym] }

func (r *row) insertSymbol(sym symbol, coefficient float64) {
	v := r.cells[sym] + coefficient
	if nearZero(v) {
		delete(r.cells, sym)
	} else {
		r.cells[sym] = v
	}
}

func (r *row) insertRow(other *row, coefficient float64) {
	r.constant += other.constant * coefficient
	for sym, c := range other.cells {
		r.insertSymbol(sym, c*coefficient)
	}
}

func (r *row) remove(sym symbol) { delete(r.cells, sym) }

func (r *row) reverseSign() {
	r.constant = -r.constant
	for sym, c := range r.cells {
		r.cells[sym] = -c
	}
}

// solveFor rewrites the row, which is implicitly equal to zero, so that it expresses sym. sym is removed
// from the row.
func (r *row) solveFor(sym symbol) {
	coeff := -1.0 / r.cells[sym]
	delete(r.cells, sym)
	r.constant *= coeff
	for s, c := range r.cells {
		r.cells[s] = c * coeff
	}
}

// solveForPair turns a row expressing lhs into one expressing rhs.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1.0)
	r.solveFor(rhs)
}

// substitute replaces sym by the expression in other.
func (r *row) substitute(sym symbol, other *row) {
	if c, ok := r.cells[sym]; ok {
		delete(r.cells, sym)
		r.insertRow(other, c)
	}
}

func (r *row) allDummies() bool {
	for sym := range r.cells {
		if sym.kind != dummy {
			return false
		}
	}
	return true
}
