// Package archive stores deconvolution runs in a local SQLite database:
// run parameters, cost histories and the estimated signals, so results can
// be listed and compared after the fact.
//
// The schema is versioned by embedded migrations named
// NNNN_name.up.sql / NNNN_name.down.sql.
package archive
