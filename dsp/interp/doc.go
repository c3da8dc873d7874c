// Package interp provides the interpolation primitives used to measure HRF
// shapes between samples.
//
//   - [Fit]:       not-a-knot cubic spline through a sampled curve
//   - [Crossings]: sub-sample level crossings of a sampled curve, refined on
//     the spline by bisection
package interp
