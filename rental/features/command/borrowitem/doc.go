// Package borrowitem implements the Borrow Item use case.
//
// A borrower takes one copy of a movie off the shelf. The business logic enforces, in this order:
// the caller is an authenticated borrower, the item has a copy available, the borrower is below
// their borrow limit (active plus pending-loss records), and the borrower does not already hold
// this item. The first failing rule wins and is journaled as a BorrowingItemFailed event.
//
// On success a new active borrow record is written, the item's available counter is decreased by
// one, and the borrower's version is bumped so that two concurrent borrows of the same borrower
// cannot both pass the limit check. All writes happen in one transaction and are retried on
// concurrency conflicts.
package borrowitem
