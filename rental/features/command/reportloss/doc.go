// Package reportloss implements the Report Loss use case.
//
// A borrower who lost a copy reports it together with card details for the replacement fee.
// The card details are validated (16 digit number, 3 digit CVC, month 1-12, 4 digit year, not
// expired at the time of the report) before the record moves to PENDING_LOSS. The counters do
// not change: the copy stays counted as held until an admin confirms the loss.
//
// Reporting the same loss twice is a no-op.
package reportloss
