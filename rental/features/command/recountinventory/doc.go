// Package recountinventory implements the Recount Inventory use case.
//
// Recount is the repair tool for drifted counters. For every item it sets
// quantity = available + copies held, where copies held are the unreturned records of the item
// that are not confirmed losses. available is never touched. Items whose counters already match
// are left alone, so running it twice changes nothing the second time.
//
// Each item is recounted in its own transaction with its own retry, so one busy item does not
// hold back the others.
package recountinventory
