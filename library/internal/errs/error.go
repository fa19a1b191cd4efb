package errs

import (
	"errors"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrLoanNotFound    = errors.New("borrow record not found")
	ErrNotAvailable    = errors.New("book is not available")
	ErrDuplicateLoan   = errors.New("book is already borrowed by this user")
	ErrAlreadyReturned = errors.New("book already returned")
	ErrUnauthorized    = errors.New("user is not recognized")

	// ErrConflict marks a transient write-write conflict. Safe to retry
	// the whole operation.
	ErrConflict = errors.New("concurrent update conflict")
)
