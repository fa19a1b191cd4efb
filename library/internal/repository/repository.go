package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/pkg/kafka"
)

type Repository interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	ListBooks(ctx context.Context, q model.ListBooksQuery) (model.ListBooks, error)

	BorrowBook(ctx context.Context, bookID, userID string, borrowedAt, dueAt time.Time) (model.Loan, error)
	ReturnBook(ctx context.Context, loanID string, returnedAt time.Time) (model.Loan, error)
	ListLoans(ctx context.Context, userID string, activeOnly bool) ([]model.UserLoan, error)

	SaveLoanEvent(ctx context.Context, event kafka.LoanEvent) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName      = `books`
	loansTableName      = `loans`
	loanEventsTableName = `loan_events`

	activeLoanIndexName = `uq_loans_active`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// classify maps low-level postgres errors onto the ledger error taxonomy.
// Serialization failures and deadlocks are retry-safe; a violation of the
// active-loan index means a concurrent borrow for the same (book, user) won.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errs.ErrConflict
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == activeLoanIndexName {
			return errs.ErrDuplicateLoan
		}
	}
	return err
}
