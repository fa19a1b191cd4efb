package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/library/internal/repository"
	"github.com/adelbaev/lending-service/pkg/kafka"
)

const (
	// loanPeriod is the fixed lending window.
	loanPeriod = 14 * 24 * time.Hour

	// maxAttempts bounds internal retries of transient write conflicts.
	maxAttempts = 3
)

// IdentityGateway resolves opaque borrower ids. Implemented by the HTTP
// client for the identity service.
type IdentityGateway interface {
	UserExists(ctx context.Context, userID string) error
}

// Enqueuer publishes loan lifecycle events. Best effort only.
type Enqueuer interface {
	Enqueue(topic string, v any) error
}

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	identity IdentityGateway
	enqueuer Enqueuer
}

func NewService(repo repository.Repository, identity IdentityGateway, enqueuer Enqueuer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		identity: identity,
		enqueuer: enqueuer,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, q model.ListBooksQuery) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, q)
}

// BorrowBook checks the borrower against the identity service and runs the
// borrow transition, retrying transient conflicts with the whole operation.
func (s *Service) BorrowBook(ctx context.Context, bookID, userID string) (model.Loan, error) {
	if err := s.identity.UserExists(ctx, userID); err != nil {
		return model.Loan{}, err
	}

	var (
		loan model.Loan
		err  error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		now := time.Now().UTC()
		loan, err = s.repo.BorrowBook(ctx, bookID, userID, now, now.Add(loanPeriod))
		if !errors.Is(err, errs.ErrConflict) {
			break
		}
		s.log.Warn("BorrowBook conflict, retrying",
			zap.String("book", bookID), zap.String("user", userID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(loan, "BORROWED")
	return loan, nil
}

// ReturnBook completes a loan, retrying transient conflicts. The second
// return of the same loan surfaces ErrAlreadyReturned, never a double
// increment.
func (s *Service) ReturnBook(ctx context.Context, loanID string) (model.Loan, error) {
	var (
		loan model.Loan
		err  error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		loan, err = s.repo.ReturnBook(ctx, loanID, time.Now().UTC())
		if !errors.Is(err, errs.ErrConflict) {
			break
		}
		s.log.Warn("ReturnBook conflict, retrying",
			zap.String("loan", loanID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(loan, "RETURNED")
	return loan, nil
}

func (s *Service) ListLoans(ctx context.Context, userID string, activeOnly bool) ([]model.UserLoan, error) {
	return s.repo.ListLoans(ctx, userID, activeOnly)
}

func (s *Service) SaveLoanEvent(ctx context.Context, event kafka.LoanEvent) error {
	return s.repo.SaveLoanEvent(ctx, event)
}

// publish emits the audit event after the transaction has committed. A
// publish failure is logged, never surfaced to the caller.
func (s *Service) publish(loan model.Loan, action string) {
	if s.enqueuer == nil {
		return
	}
	event := kafka.LoanEvent{
		LoanID:     loan.ID,
		BookID:     loan.BookID,
		UserID:     loan.UserID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.enqueuer.Enqueue(kafka.LoanEventsTopic, event); err != nil {
		s.log.Warn("loan event enqueue", zap.String("loan", loan.ID), zap.Error(err))
	}
}
