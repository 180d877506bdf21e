// Package borrowinghistory implements the Borrowing History query use case.
//
// A borrower sees their own records, newest first, with the number they currently hold.
// Admins may look at any borrower's history.
package borrowinghistory
