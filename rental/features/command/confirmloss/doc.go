// Package confirmloss implements the Confirm Loss use case.
//
// An admin confirms a pending loss report by record id. The record is closed as CONFIRMED_LOSS
// with the confirmation date (midnight UTC) as its return timestamp, and the item loses one copy of its
// quantity while available stays as it is. If the counters have drifted so far that quantity
// cannot go down without dropping below available, the record is still closed and the result
// carries a QuantityNotReduced warning. A recount repairs the item afterward.
package confirmloss
