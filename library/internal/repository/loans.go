package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/pkg/kafka"
)

const loanColumns = `id, book_id, user_id, borrow_date, due_date, return_date, status`

// BorrowBook runs the whole borrow transition in one transaction: the book
// row is locked, availability is checked, the loan is inserted and the
// counter decremented. Any failure rolls everything back, so a failed
// borrow never leaks a decrement.
func (r *repository) BorrowBook(ctx context.Context, bookID, userID string, borrowedAt, dueAt time.Time) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var available int
	q := fmt.Sprintf(`select available_copies from %s where id = $1 for update`, booksTableName)
	if err := tx.QueryRowxContext(ctx, q, bookID).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrBookNotFound
		}
		return model.Loan{}, classify(err)
	}
	if available <= 0 {
		return model.Loan{}, errs.ErrNotAvailable
	}

	// the partial unique index on (book_id, user_id) rejects a second
	// active loan atomically with the insert
	q = fmt.Sprintf(`insert into %s (book_id, user_id, borrow_date, due_date, status)
		values ($1, $2, $3, $4, $5)
		returning %s`, loansTableName, loanColumns)
	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, q, bookID, userID, borrowedAt, dueAt, model.StatusBorrowed); err != nil {
		return model.Loan{}, classify(err)
	}

	q = fmt.Sprintf(`update %s set available_copies = available_copies - 1 where id = $1`, booksTableName)
	if _, err := tx.ExecContext(ctx, q, bookID); err != nil {
		return model.Loan{}, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Loan{}, classify(err)
	}
	r.log.Debug("BorrowBook", zap.String("loan", loan.ID), zap.String("book", bookID), zap.String("user", userID))
	return loan, nil
}

// ReturnBook completes a loan. The conditional update makes the second
// return of the same loan a no-op that is reported as ErrAlreadyReturned,
// and the guarded increment keeps available_copies within total_copies.
func (r *repository) ReturnBook(ctx context.Context, loanID string, returnedAt time.Time) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := fmt.Sprintf(`update %s set status = $2, return_date = $3
		where id = $1 and status <> $2
		returning %s`, loansTableName, loanColumns)
	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, q, loanID, model.StatusReturned, returnedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, r.missingLoanError(ctx, tx, loanID)
		}
		return model.Loan{}, classify(err)
	}

	q = fmt.Sprintf(`update %s set available_copies = available_copies + 1
		where id = $1 and available_copies < total_copies`, booksTableName)
	if _, err := tx.ExecContext(ctx, q, loan.BookID); err != nil {
		return model.Loan{}, classify(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Loan{}, classify(err)
	}
	r.log.Debug("ReturnBook", zap.String("loan", loan.ID), zap.String("book", loan.BookID))
	return loan, nil
}

// missingLoanError tells a loan that never existed apart from one that was
// already returned.
func (r *repository) missingLoanError(ctx context.Context, q *sqlx.Tx, loanID string) error {
	var exists bool
	query := fmt.Sprintf(`select exists(select 1 from %s where id = $1)`, loansTableName)
	if err := q.QueryRowxContext(ctx, query, loanID).Scan(&exists); err != nil {
		return classify(err)
	}
	if exists {
		return errs.ErrAlreadyReturned
	}
	return errs.ErrLoanNotFound
}

func (r *repository) ListLoans(ctx context.Context, userID string, activeOnly bool) ([]model.UserLoan, error) {
	q := fmt.Sprintf(`
	select l.id, l.book_id, l.user_id, l.borrow_date, l.due_date, l.return_date,
	       case when l.status = '%s' and now() > l.due_date then '%s' else l.status end as status,
	       b.title as book_title, b.author as book_author
	from %s l
	join %s b on b.id = l.book_id
	where l.user_id = $1`, model.StatusBorrowed, model.StatusOverdue, loansTableName, booksTableName)
	if activeOnly {
		q += fmt.Sprintf(` and l.status = '%s'`, model.StatusBorrowed)
	}
	q += ` order by l.borrow_date desc`

	var loans []model.UserLoan
	if err := r.db.SelectContext(ctx, &loans, q, userID); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) SaveLoanEvent(ctx context.Context, event kafka.LoanEvent) error {
	q, args, err := qb.Insert(loanEventsTableName).
		Columns("loan_id", "book_id", "user_id", "action", "occurred_at").
		Values(event.LoanID, event.BookID, event.UserID, event.Action, event.OccurredAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("SaveLoanEvent", zap.String("q", q), zap.Any("args", args))
		return err
	}
	return nil
}
