// Package writeoffcopies implements the Write Off Copies use case: an admin removes copies the
// company lost, for example damaged or missing stock. quantity and available both shrink by the
// number of copies. Only copies on the shelf can be written off; copies on loan stay counted.
package writeoffcopies
