// Package addcopies implements the Add Copies use case: an admin buys more copies of a movie
// that is already in the catalog. quantity and available both grow by the number of copies.
package addcopies
