// Package registerborrower implements the Register Borrower use case.
//
// A member becomes a borrower with a role and a borrow limit. Without an explicit limit, users
// may hold 5 records at once and admins 3.
package registerborrower
