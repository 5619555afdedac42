// Package fault defines the error taxonomy shared by the store, schema and
// factory packages.
//
// Every failure in this module is a programmer or configuration error found
// while writing tests, so nothing is retried. Errors carry enough context to
// fix the offending definition and expose a Hint with a suggested fix.
//
// Use errors.Is against the sentinels (ErrConfiguration, ErrAssociation, ...)
// or errors.As against the concrete types to inspect a failure.
package fault
