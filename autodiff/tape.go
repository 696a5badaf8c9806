// Package autodiff records scalar arithmetic on an append-only tape and
// differentiates it in reverse. Go has no thread-local storage, so the tape
// is an explicit handle: each goroutine builds its own Tape and keeps its
// Vars on it.
package autodiff

type op uint8

const (
	opInput op = iota
	opAdd
	opSub
	opMul
	opDiv
	opNeg
	opExp
	opLog
)

// node references its operands by dense tape index.
type node struct {
	value float64
	op    op
	lhs   int
	rhs   int
}

const defaultTapeSize = 1024

// Tape is an append-only record of operations. Not safe for concurrent use.
type Tape struct {
	nodes []node
}

func NewTape() *Tape {
	return &Tape{nodes: make([]node, 0, defaultTapeSize)}
}

// Var records an input value and returns its handle.
func (t *Tape) Var(value float64) Var {
	return t.push(node{value: value, op: opInput, lhs: -1, rhs: -1})
}

// Reset clears the tape. Existing Var handles become invalid.
func (t *Tape) Reset() { t.nodes = t.nodes[:0] }

// Len reports the number of recorded nodes.
func (t *Tape) Len() int { return len(t.nodes) }

func (t *Tape) push(n node) Var {
	t.nodes = append(t.nodes, n)
	return Var{tape: t, id: len(t.nodes) - 1}
}

// Backward sweeps the tape in reverse from result and returns the adjoint of
// every node up to and including it, indexed by node id.
func (t *Tape) Backward(result Var) []float64 {
	result.mustBeOn(t)
	grad := make([]float64, result.id+1)
	grad[result.id] = 1.0
	for i := result.id; i >= 0; i-- {
		n := t.nodes[i]
		g := grad[i]
		if g == 0 && n.op != opInput {
			continue
		}
		switch n.op {
		case opInput:
		case opAdd:
			grad[n.lhs] += g
			grad[n.rhs] += g
		case opSub:
			grad[n.lhs] += g
			grad[n.rhs] -= g
		case opMul:
			grad[n.lhs] += g * t.nodes[n.rhs].value
			grad[n.rhs] += g * t.nodes[n.lhs].value
		case opDiv:
			rv := t.nodes[n.rhs].value
			grad[n.lhs] += g / rv
			grad[n.rhs] -= g * t.nodes[n.lhs].value / (rv * rv)
		case opNeg:
			grad[n.lhs] -= g
		case opExp:
			grad[n.lhs] += g * n.value
		case opLog:
			grad[n.lhs] += g / t.nodes[n.lhs].value
		}
	}
	return grad
}

// Gradient returns the partial derivatives of result with respect to the
// given inputs.
func (t *Tape) Gradient(result Var, inputs ...Var) []float64 {
	grad := t.Backward(result)
	out := make([]float64, len(inputs))
	for i, in := range inputs {
		in.mustBeOn(t)
		out[i] = grad[in.id]
	}
	return out
}

// backwardVars runs the reverse sweep in Var arithmetic, so the adjoints are
// themselves differentiable. The tape grows while sweeping; the new nodes sit
// past result and are never revisited.
func (t *Tape) backwardVars(result Var) []Var {
	result.mustBeOn(t)
	zero := t.Var(0.0)
	grad := make([]Var, result.id+1)
	for i := range grad {
		grad[i] = zero
	}
	grad[result.id] = t.Var(1.0)
	for i := result.id; i >= 0; i-- {
		n := t.nodes[i]
		g := grad[i]
		switch n.op {
		case opInput:
		case opAdd:
			grad[n.lhs] = grad[n.lhs].Add(g)
			grad[n.rhs] = grad[n.rhs].Add(g)
		case opSub:
			grad[n.lhs] = grad[n.lhs].Add(g)
			grad[n.rhs] = grad[n.rhs].Sub(g)
		case opMul:
			grad[n.lhs] = grad[n.lhs].Add(g.Mul(Var{tape: t, id: n.rhs}))
			grad[n.rhs] = grad[n.rhs].Add(g.Mul(Var{tape: t, id: n.lhs}))
		case opDiv:
			r := Var{tape: t, id: n.rhs}
			grad[n.lhs] = grad[n.lhs].Add(g.Div(r))
			grad[n.rhs] = grad[n.rhs].Sub(g.Mul(Var{tape: t, id: n.lhs}).Div(r.Mul(r)))
		case opNeg:
			grad[n.lhs] = grad[n.lhs].Sub(g)
		case opExp:
			grad[n.lhs] = grad[n.lhs].Add(g.Mul(Var{tape: t, id: i}))
		case opLog:
			grad[n.lhs] = grad[n.lhs].Add(g.Div(Var{tape: t, id: n.lhs}))
		}
	}
	return grad
}

// Hessian returns the matrix of second derivatives of result with respect to
// the given inputs, by differentiating the recorded reverse sweep once more.
func (t *Tape) Hessian(result Var, inputs ...Var) [][]float64 {
	firstOrder := t.backwardVars(result)
	out := make([][]float64, len(inputs))
	for i, in := range inputs {
		in.mustBeOn(t)
		row := t.Backward(firstOrder[in.id])
		out[i] = make([]float64, len(inputs))
		for j, jn := range inputs {
			out[i][j] = row[jn.id]
		}
	}
	return out
}
