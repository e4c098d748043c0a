package optmatcher

import (
	"fmt"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/mirawen/course-staff-tools/pkg/core/model"
)

// varKey identifies the binary indicator for one (category, user, slot)
// pair. Pairs with preference zero get no variable at all; their absence
// is the constraint.
type varKey struct {
	category model.Category
	userID   string
	slotID   string
}

// program wraps a GLPK problem under construction. GLPK columns and rows
// are 1-indexed; counters track the next free index.
type program struct {
	lp      *glpk.Prob
	numCols int
	numRows int

	// objective coefficients are accumulated here and flushed once,
	// since several terms can touch the same column
	objCoef map[int]float64

	vars map[varKey]int
}

func newProgram(name string) *program {
	lp := glpk.New()
	lp.SetProbName(name)
	lp.SetObjDir(glpk.ObjDir(glpk.MAX))

	return &program{
		lp:      lp,
		objCoef: make(map[int]float64),
		vars:    make(map[varKey]int),
	}
}

func (p *program) delete() {
	p.lp.Delete()
}

// addBinary creates a new binary column and returns its index.
func (p *program) addBinary(name string) int {
	p.numCols++
	p.lp.AddCols(1)
	p.lp.SetColName(p.numCols, name)
	p.lp.SetColKind(p.numCols, glpk.VarType(glpk.BV))
	return p.numCols
}

// addRow creates a constraint row over the given columns.
func (p *program) addRow(name string, boundsType glpk.BndsType, lower, upper float64, cols []int, coefs []float64) {
	p.numRows++
	p.lp.AddRows(1)
	p.lp.SetRowName(p.numRows, name)
	p.lp.SetRowBnds(p.numRows, boundsType, lower, upper)

	indices := make([]int32, len(cols))
	for i, col := range cols {
		indices[i] = int32(col)
	}
	p.lp.SetMatRow(p.numRows, indices, coefs)
}

// addObj accumulates an objective coefficient for a column.
func (p *program) addObj(col int, delta float64) {
	p.objCoef[col] += delta
}

// flushObjective writes the accumulated coefficients into GLPK.
func (p *program) flushObjective() {
	for col, coef := range p.objCoef {
		p.lp.SetObjCoef(col, coef)
	}
}

// linearAnd linearizes y = x1 AND x2 over binary columns with an
// auxiliary binary: y <= x1, y <= x2, y >= x1 + x2 - 1.
func (p *program) linearAnd(name string, x1, x2 int) int {
	y := p.addBinary(name)
	p.addRow(name+"/le1", glpk.BndsType(glpk.UP), 0, 0, []int{y, x1}, []float64{1, -1})
	p.addRow(name+"/le2", glpk.BndsType(glpk.UP), 0, 0, []int{y, x2}, []float64{1, -1})
	p.addRow(name+"/ge", glpk.BndsType(glpk.LO), -1, 0, []int{y, x1, x2}, []float64{1, -1, -1})
	return y
}

// linearOr linearizes z = OR(xs) over binary columns with an auxiliary
// binary: z >= each xi, z <= sum(xi).
func (p *program) linearOr(name string, xs []int) int {
	z := p.addBinary(name)
	for i, x := range xs {
		p.addRow(fmt.Sprintf("%s/ge%d", name, i), glpk.BndsType(glpk.LO), 0, 0,
			[]int{z, x}, []float64{1, -1})
	}

	cols := make([]int, 0, len(xs)+1)
	coefs := make([]float64, 0, len(xs)+1)
	cols = append(cols, z)
	coefs = append(coefs, 1)
	for _, x := range xs {
		cols = append(cols, x)
		coefs = append(coefs, -1)
	}
	p.addRow(name+"/le", glpk.BndsType(glpk.UP), 0, 0, cols, coefs)

	return z
}
