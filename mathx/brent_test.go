package mathx_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/mathx"
)

func TestBrentFindsRoot(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x*x - 2.0, nil }
	root, err := mathx.Brent(f, 0.0, 2.0, 1e-12)
	if err != nil {
		t.Fatalf("Brent: %v", err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-10 {
		t.Fatalf("root: got %.12f want %.12f", root, math.Sqrt2)
	}
}

func TestBrentRequiresBracket(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return x*x + 1.0, nil }
	if _, err := mathx.Brent(f, -1.0, 1.0, 1e-12); !errors.Is(err, errs.ErrSolver) {
		t.Fatalf("unbracketed: got %v want ErrSolver", err)
	}
}

func TestSolveWithExpansionGrowsBracket(t *testing.T) {
	t.Parallel()

	// Root at 0.55, outside the initial [-0.1, 0.1] bracket.
	f := func(x float64) (float64, error) { return x - 0.55, nil }
	root, err := mathx.SolveWithExpansion(f, -0.1, 0.1, 1e-10, 1.0)
	if err != nil {
		t.Fatalf("SolveWithExpansion: %v", err)
	}
	if math.Abs(root-0.55) > 1e-9 {
		t.Fatalf("root: got %.12f want 0.55", root)
	}
}

func TestSolveWithExpansionGivesUpPastLimit(t *testing.T) {
	t.Parallel()

	f := func(x float64) (float64, error) { return math.Exp(x) + 1.0, nil }
	if _, err := mathx.SolveWithExpansion(f, -0.1, 0.1, 1e-10, 1.0); !errors.Is(err, errs.ErrEvaluation) {
		t.Fatalf("no root anywhere: got %v want ErrEvaluation", err)
	}
}
