// Package linop provides the linear operators of the BOLD forward model:
// discrete integration, causal convolution with an HRF, dense dictionaries
// and their compositions, each paired with its exact adjoint.
//
// Operators panic when handed a vector of the wrong length, in the manner
// of gonum/mat. Constructors validate their arguments and return errors.
package linop
