package postgresengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/ledger/postgresengine/internal/adapters"
)

func scanBorrower(rows adapters.DBRows) (ledger.Borrower, error) {
	var borrower ledger.Borrower
	var role string

	err := rows.Scan(
		&borrower.ID,
		&borrower.Name,
		&role,
		&borrower.BorrowLimit,
		&borrower.Version,
		&borrower.RegisteredAt,
	)
	borrower.Role = ledger.Role(role)

	return borrower, err
}

// BorrowerByID loads one borrower. It returns ledger.ErrBorrowerNotFound if no such borrower exists.
func (s Store) BorrowerByID(ctx context.Context, id uuid.UUID) (ledger.Borrower, error) {
	var borrower ledger.Borrower

	err := s.observe(ctx, operationBorrowerByID, func(ctx context.Context) error {
		sqlQuery, err := s.buildSelectBorrowerQuery(id)
		if err != nil {
			return err
		}

		borrowers, err := collect(ctx, s, operationBorrowerByID, sqlQuery, scanBorrower)
		if err != nil {
			return err
		}

		if len(borrowers) == 0 {
			return ledger.ErrBorrowerNotFound
		}

		borrower = borrowers[0]

		return nil
	})

	return borrower, err
}

// InsertBorrower stores a new borrower. It reports false, without error, if the id already exists.
func (s Store) InsertBorrower(ctx context.Context, borrower ledger.Borrower) (bool, error) {
	var inserted bool

	err := s.observe(ctx, operationInsertBorrower, func(ctx context.Context) error {
		sqlQuery, err := s.buildInsertBorrowerQuery(borrower)
		if err != nil {
			return err
		}

		rowsAffected, err := s.exec(ctx, operationInsertBorrower, sqlQuery)
		inserted = rowsAffected == 1

		return err
	})

	return inserted, err
}

// BumpBorrowerVersion increments the borrower's version if it still equals expectedVersion.
// Borrows call it so that two concurrent borrows of the same borrower cannot both pass the limit check.
func (s Store) BumpBorrowerVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	return s.observe(ctx, operationBumpBorrowerVersion, func(ctx context.Context) error {
		sqlQuery, err := s.buildBumpBorrowerVersionQuery(id, expectedVersion)
		if err != nil {
			return err
		}

		return s.execExpectingOneRow(ctx, operationBumpBorrowerVersion, sqlQuery)
	})
}
