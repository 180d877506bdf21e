// Package shell contains the imperative shell shared by all features of the movie rental ledger:
// retry with exponential backoff, handler results, journaling of domain events, and the
// observability helpers used by command and query handlers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be called the
// 'infrastructure' or 'adapters' layer.
package shell
