package optim

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// Errors returned by the solvers.
var (
	ErrEmptyStart = errors.New("optim: empty starting point")
	ErrLipschitz  = errors.New("optim: invalid Lipschitz constant")
)

// Options configures FISTA and ISTA.
type Options struct {
	MaxIter int
	// MinIter is the first iteration at which early stopping may trigger.
	MinIter int
	// Tol bounds the relative cost variation over the last Window
	// iterations for early stopping.
	Tol    float64
	Window int
	// EarlyStopping enables the Tol criterion. Without it the solver always
	// runs MaxIter iterations.
	EarlyStopping bool
	// Logger receives per-iteration costs at debug level.
	Logger logrus.FieldLogger
}

// DefaultOptions returns 999 iterations with early stopping.
func DefaultOptions() Options {
	return Options{
		MaxIter:       999,
		MinIter:       5,
		Tol:           1e-6,
		Window:        5,
		EarlyStopping: true,
	}
}

// Result holds the solver output.
type Result struct {
	X []float64
	// Cost is the objective value after each iteration.
	Cost       []float64
	Iterations int
	Converged  bool
}

// FISTA minimises f(x) + g(x) with Nesterov-accelerated proximal gradient
// steps of size 1/L.
func FISTA(f Smooth, g Proximal, x0 []float64, opts Options) (Result, error) {
	return solve(f, g, x0, opts, true)
}

// ISTA is FISTA without momentum.
func ISTA(f Smooth, g Proximal, x0 []float64, opts Options) (Result, error) {
	return solve(f, g, x0, opts, false)
}

func solve(f Smooth, g Proximal, x0 []float64, opts Options, momentum bool) (Result, error) {
	if len(x0) == 0 {
		return Result{}, ErrEmptyStart
	}
	opts = withDefaults(opts)
	log := opts.Logger

	lip := f.Lipschitz()
	if math.IsNaN(lip) || math.IsInf(lip, 0) || lip < 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrLipschitz, lip)
	}
	if lip == 0 {
		// f is constant: one proximal step from x0 is optimal.
		x := g.Prox(x0, 1)
		return Result{X: x, Cost: []float64{f.Cost(x) + g.Cost(x)}, Iterations: 1, Converged: true}, nil
	}
	step := 1 / lip

	x := append([]float64(nil), x0...)
	z := append([]float64(nil), x0...)
	tmp := make([]float64, len(x0))
	tk := 1.0

	res := Result{Cost: make([]float64, 0, min(opts.MaxIter, 1024))}
	for k := range opts.MaxIter {
		grad := f.Grad(z)
		vecmath.ScaleBlock(tmp, grad, -step)
		vecmath.AddBlockInPlace(tmp, z)
		next := g.Prox(tmp, step)

		if momentum {
			tNext := (1 + math.Sqrt(1+4*tk*tk)) / 2
			beta := (tk - 1) / tNext
			for i := range z {
				z[i] = next[i] + beta*(next[i]-x[i])
			}
			tk = tNext
		} else {
			copy(z, next)
		}
		x = next

		cost := f.Cost(x) + g.Cost(x)
		res.Cost = append(res.Cost, cost)
		res.Iterations = k + 1
		log.WithFields(logrus.Fields{"iter": k + 1, "cost": cost}).Debug("proximal gradient step")

		if opts.EarlyStopping && k+1 >= opts.MinIter && stalled(res.Cost, opts.Window, opts.Tol) {
			res.Converged = true
			break
		}
	}

	res.X = x
	return res, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MaxIter <= 0 {
		opts.MaxIter = def.MaxIter
	}
	if opts.MinIter <= 0 {
		opts.MinIter = def.MinIter
	}
	if opts.Tol <= 0 {
		opts.Tol = def.Tol
	}
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.Logger == nil {
		opts.Logger = DiscardLogger()
	}
	return opts
}

// stalled reports whether the cost moved by less than tol relative to its
// current value over the last window iterations.
func stalled(cost []float64, window int, tol float64) bool {
	n := len(cost)
	if n <= window {
		return false
	}
	last := cost[n-1]
	prev := cost[n-1-window]
	return math.Abs(prev-last) <= tol*math.Max(math.Abs(last), math.SmallestNonzeroFloat64)
}

// DiscardLogger returns a logger that drops every entry.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
