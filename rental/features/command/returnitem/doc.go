// Package returnitem implements the Return Item use case.
//
// The borrower brings back a copy they hold. The oldest unreturned record of the borrower for
// the item gets its return timestamp, and the item's available counter goes up by one but never
// above quantity. A return that hits the cap is still recorded and reported as a warning, since
// it means the counters had drifted and a recount is due.
package returnitem
