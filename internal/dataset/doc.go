// Package dataset ingests the tabular data that drives batch generation and
// validates it against the session's bound variable names.
//
// A dataset is an ordered sequence of rows read from a CSV or TSV file. The
// first record is the header row and defines the column names; every later
// record becomes one certificate. Cell values are carried verbatim — no
// trimming, no type coercion — and empty strings flow through to rendering,
// where they are a no-op.
//
// Validation checks two things, in order, and reports both together when
// both fail: the header column count must equal the number of bound variable
// names, and every bound name must appear verbatim (case-sensitive) among
// the header columns.
package dataset
