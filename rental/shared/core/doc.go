// Package core contains the domain of the movie rental ledger:
// movie copies moving between the shelf and borrowers.
//
// It holds the domain events (ItemBorrowed, ItemReturned, LossReported, ...), the failure
// events that are journaled when a business rule rejects a command, the business error
// sentinels, and the DecisionResult returned by every pure Decide function.
//
// Nothing in here performs IO. In Domain-Driven Design or Hexagonal Architecture terminology,
// this would be called the 'domain' layer.
package core
