// Package pendinglosses implements the Pending Losses query use case: the admin review list of
// loss reports waiting for confirmation, oldest borrow first, with the item titles resolved.
package pendinglosses
