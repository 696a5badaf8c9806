package autodiff_test

import (
	"math"
	"testing"

	"github.com/meenmo/almlib/autodiff"
)

func TestGradientPolynomial(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(2.0)
	y := x.Mul(x).Add(x)

	grad := tape.Gradient(y, x)
	if math.Abs(grad[0]-5.0) > 1e-12 {
		t.Fatalf("d(x^2+x)/dx at 2: got %v want 5", grad[0])
	}
}

func TestGradientMultivariate(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(3.0)
	y := tape.Var(4.0)
	z := x.Mul(y).Add(y.Mul(y))

	grad := tape.Gradient(z, x, y)
	if math.Abs(grad[0]-4.0) > 1e-12 {
		t.Fatalf("dz/dx: got %v want 4", grad[0])
	}
	if math.Abs(grad[1]-11.0) > 1e-12 {
		t.Fatalf("dz/dy: got %v want 11", grad[1])
	}
}

func TestGradientQuotient(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(5.0)
	y := tape.Var(2.0)
	z := x.Div(y).Sub(x)

	grad := tape.Gradient(z, x, y)
	if math.Abs(grad[0]+0.5) > 1e-12 {
		t.Fatalf("dz/dx: got %v want -0.5", grad[0])
	}
	if math.Abs(grad[1]+1.25) > 1e-12 {
		t.Fatalf("dz/dy: got %v want -1.25", grad[1])
	}
}

func TestGradientExpLogPow(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(2.0)
	y := x.Log().Exp().Add(x.Pow(2.0))

	// exp(log x) differentiates to 1 and x^2 to 2x.
	grad := tape.Gradient(y, x)
	if math.Abs(grad[0]-5.0) > 1e-12 {
		t.Fatalf("dy/dx: got %v want 5", grad[0])
	}
}

func TestDiscountFactorSensitivities(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(0.05)
	tau := tape.Var(2.0)
	df := x.Mul(tau).Neg().Exp()

	v := df.Value()
	if math.Abs(v-math.Exp(-0.1)) > 1e-15 {
		t.Fatalf("value: got %v want exp(-0.1)", v)
	}

	grad := tape.Gradient(df, x, tau)
	if math.Abs(grad[0]-(-2.0*v)) > 1e-12 {
		t.Fatalf("ddf/dx: got %v want %v", grad[0], -2.0*v)
	}
	if math.Abs(grad[1]-(-0.05*v)) > 1e-12 {
		t.Fatalf("ddf/dt: got %v want %v", grad[1], -0.05*v)
	}

	hess := tape.Hessian(df, x, tau)
	if math.Abs(hess[0][0]-4.0*v) > 1e-12 {
		t.Fatalf("d2df/dx2: got %v want %v", hess[0][0], 4.0*v)
	}
	if math.Abs(hess[1][1]-0.0025*v) > 1e-12 {
		t.Fatalf("d2df/dt2: got %v want %v", hess[1][1], 0.0025*v)
	}
	cross := (0.05*2.0 - 1.0) * v
	if math.Abs(hess[0][1]-cross) > 1e-12 {
		t.Fatalf("d2df/dxdt: got %v want %v", hess[0][1], cross)
	}
	if math.Abs(hess[1][0]-hess[0][1]) > 1e-12 {
		t.Fatal("hessian not symmetric")
	}
}

func TestResetInvalidatesTape(t *testing.T) {
	t.Parallel()

	tape := autodiff.NewTape()
	x := tape.Var(1.0)
	_ = x.Add(x)
	if tape.Len() != 2 {
		t.Fatalf("tape length: got %d want 2", tape.Len())
	}

	tape.Reset()
	if tape.Len() != 0 {
		t.Fatalf("tape length after reset: got %d want 0", tape.Len())
	}

	y := tape.Var(3.0)
	grad := tape.Gradient(y.Mul(y), y)
	if math.Abs(grad[0]-6.0) > 1e-12 {
		t.Fatalf("gradient after reset: got %v want 6", grad[0])
	}
}
