package autodiff

import "math"

// Var is a handle to a tape node. Copies are cheap; all arithmetic records a
// new node on the owning tape.
type Var struct {
	tape *Tape
	id   int
}

// Value reads the recorded value.
func (v Var) Value() float64 { return v.tape.nodes[v.id].value }

// ID is the dense tape index of the node.
func (v Var) ID() int { return v.id }

func (v Var) mustBeOn(t *Tape) {
	if v.tape != t {
		panic("autodiff: Var recorded on a different tape")
	}
}

func (v Var) binary(o Var, kind op, value float64) Var {
	o.mustBeOn(v.tape)
	return v.tape.push(node{value: value, op: kind, lhs: v.id, rhs: o.id})
}

func (v Var) unary(kind op, value float64) Var {
	return v.tape.push(node{value: value, op: kind, lhs: v.id, rhs: -1})
}

func (v Var) Add(o Var) Var { return v.binary(o, opAdd, v.Value()+o.Value()) }
func (v Var) Sub(o Var) Var { return v.binary(o, opSub, v.Value()-o.Value()) }
func (v Var) Mul(o Var) Var { return v.binary(o, opMul, v.Value()*o.Value()) }
func (v Var) Div(o Var) Var { return v.binary(o, opDiv, v.Value()/o.Value()) }
func (v Var) Neg() Var      { return v.unary(opNeg, -v.Value()) }
func (v Var) Exp() Var      { return v.unary(opExp, math.Exp(v.Value())) }

// Log is the natural logarithm; the argument must be positive.
func (v Var) Log() Var { return v.unary(opLog, math.Log(v.Value())) }

// Pow raises a positive base to a constant exponent via exp(n·log v).
func (v Var) Pow(n float64) Var {
	return v.Log().Mul(v.tape.Var(n)).Exp()
}
