// Package normalisers provides implementations of the Normaliser interface
// for the supported upload formats. Each normaliser knows how to extract
// page-numbered text from one kind of file.
//
// Normalisers are registered with a Registry at startup; files with any
// other extension are rejected before upload work begins.
package normalisers
