// Package remainingborrowslots implements the Remaining Borrow Slots query use case.
//
// It answers how many more records the acting borrower may hold right now:
// max(0, borrow limit - records held), where held records are the unreturned ones without a
// loss report or with a pending one. The limit and the records are loaded fresh on every call.
// Anonymous actors and unknown borrowers get 0.
package remainingborrowslots
