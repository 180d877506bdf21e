// Package handlers wires every command and query feature onto one ledger store and wraps each
// handler with the observable command or query wrapper. The binaries under cmd/ use it so that
// they share one composition of the features.
package handlers
