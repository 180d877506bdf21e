// Package additem implements the Add Item use case: a movie enters the catalog with its
// initial number of copies, all of them on the shelf.
package additem
