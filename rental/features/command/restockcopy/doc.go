// Package restockcopy implements the Restock Copy use case.
//
// An admin puts one copy of an item back on the shelf without a borrow record, for example
// after it came back through the counter. available grows by one while it is below quantity.
// When every copy is already on the shelf, available stays unchanged and the result carries an
// AvailabilityClamped warning.
package restockcopy
