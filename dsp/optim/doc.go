// Package optim implements the proximal gradient solvers used for sparse
// deconvolution: FISTA and ISTA on a smooth data term plus a proximable
// penalty, with cost tracking and early stopping.
package optim
