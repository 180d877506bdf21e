// Package ledgerjournal implements the Ledger Journal query use case.
//
// The journal is the audit trail of every decision, failures included. Entries can be filtered
// by item and borrower and come back newest first with their JSON payload decoded. Admins may
// read everything; a borrower may read the entries about themselves.
package ledgerjournal
