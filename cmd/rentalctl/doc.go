// Package main implements rentalctl, the maintenance tool for the movie rental ledger.
//
// Usage:
//
//	rentalctl [-config ledger.yaml] [-env .env] <command> [command flags]
//
// Commands:
//
//	migrate          create the ledger tables if they do not exist
//	seed             add catalog items and register borrowers, printing their ids and tokens
//	issue-token      issue a bearer token for a registered borrower
//	recount          repair item quantities from the borrow records
//	items            list all items with their counters
//	pending-losses   list loss reports waiting for confirmation (admin token)
//	confirm-loss     confirm a reported loss (admin token)
//	add-copies       add copies of an item (admin token)
//	write-off        remove copies the company lost from an item (admin token)
//	restock          put one copy of an item back on the shelf (admin token)
//	history          show a borrower's borrowing history
//	journal          show the newest ledger journal entries
//
// The database, JWT and observability settings come from the YAML file and the RENTAL_* environment
// variables; see package config.
package main
