// Package itemsincirculation implements the Items In Circulation query use case.
//
// It lists every catalog item with its counters, ordered by title, plus the totals over the
// whole inventory. Borrowed is quantity - available; after a recount that equals the copies
// currently held by borrowers.
package itemsincirculation
