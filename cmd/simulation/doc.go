// Package main implements a load simulation for the movie rental ledger.
//
// The simulation registers items and borrowers, then drives concurrent borrow, return, loss
// report, loss confirmation and remaining slots traffic through the observable handlers.
// Many workers compete for few copies, so the counter and borrower version checks keep
// conflicting, and the retry path is exercised continuously.
//
// After the traffic it runs a recount and verifies that every item satisfies
// 0 <= available <= quantity and quantity == available + copies held, and that no borrower
// holds more slots than allowed. It exits with status 2 when an invariant is violated.
//
// Usage:
//
//	simulation [-config ledger.yaml] [-workers 16] [-requests 5000] [-rate 0] [-truncate]
package main
