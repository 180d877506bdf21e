package registerborrower

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/movie-rental-ledger/ledger"
	"github.com/AntonStoeckl/movie-rental-ledger/rental/shared/core"
)

const (
	commandType = "RegisterBorrower"

	// DefaultUserBorrowLimit applies to users registered without an explicit limit.
	DefaultUserBorrowLimit = 5

	// DefaultAdminBorrowLimit applies to admins registered without an explicit limit.
	DefaultAdminBorrowLimit = 3
)

// Command represents the intent to register a borrower.
type Command struct {
	BorrowerID  uuid.UUID
	Name        string
	Role        ledger.Role
	BorrowLimit int
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. A borrowLimit of 0 picks the default for the role.
func BuildCommand(borrowerID uuid.UUID, name string, role ledger.Role, borrowLimit int, occurredAt time.Time) Command {
	if borrowLimit == 0 {
		borrowLimit = DefaultBorrowLimit(role)
	}

	return Command{
		BorrowerID:  borrowerID,
		Name:        strings.TrimSpace(name),
		Role:        role,
		BorrowLimit: borrowLimit,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// DefaultBorrowLimit returns the limit a role gets when none is given.
func DefaultBorrowLimit(role ledger.Role) int {
	if role == ledger.RoleAdmin {
		return DefaultAdminBorrowLimit
	}

	return DefaultUserBorrowLimit
}
