package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/library/internal/service"
	"github.com/adelbaev/lending-service/pkg/kafka"
)

// fakeRepo is an in-memory ledger that enforces the same transition rules
// as the postgres repository: no borrow without a free copy, one active
// loan per (book, user), idempotent return detection.
type fakeRepo struct {
	mu        sync.Mutex
	books     map[string]*model.Book
	loans     map[string]*model.Loan
	conflicts int // forced ErrConflict responses before the next write succeeds
	events    []kafka.LoanEvent
}

func newFakeRepo(books ...model.Book) *fakeRepo {
	r := &fakeRepo{
		books: make(map[string]*model.Book),
		loans: make(map[string]*model.Loan),
	}
	for i := range books {
		b := books[i]
		r.books[b.ID] = &b
	}
	return r
}

func (r *fakeRepo) CreateBook(_ context.Context, req model.CreateBookRequest) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book := model.Book{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		Rating:          req.Rating,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	}
	r.books[book.ID] = &book
	return book, nil
}

func (r *fakeRepo) GetBook(_ context.Context, bookID string) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[bookID]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	return *book, nil
}

func (r *fakeRepo) ListBooks(_ context.Context, _ model.ListBooksQuery) (model.ListBooks, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := model.ListBooks{Items: []model.Book{}}
	for _, b := range r.books {
		out.Items = append(out.Items, *b)
	}
	out.TotalElements = len(out.Items)
	return out, nil
}

func (r *fakeRepo) BorrowBook(_ context.Context, bookID, userID string, borrowedAt, dueAt time.Time) (model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return model.Loan{}, errs.ErrConflict
	}
	book, ok := r.books[bookID]
	if !ok {
		return model.Loan{}, errs.ErrBookNotFound
	}
	if book.AvailableCopies <= 0 {
		return model.Loan{}, errs.ErrNotAvailable
	}
	for _, l := range r.loans {
		if l.BookID == bookID && l.UserID == userID && l.Status == model.StatusBorrowed {
			return model.Loan{}, errs.ErrDuplicateLoan
		}
	}
	loan := model.Loan{
		ID:         uuid.NewString(),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: borrowedAt,
		DueDate:    dueAt,
		Status:     model.StatusBorrowed,
	}
	r.loans[loan.ID] = &loan
	book.AvailableCopies--
	return loan, nil
}

func (r *fakeRepo) ReturnBook(_ context.Context, loanID string, returnedAt time.Time) (model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return model.Loan{}, errs.ErrConflict
	}
	loan, ok := r.loans[loanID]
	if !ok {
		return model.Loan{}, errs.ErrLoanNotFound
	}
	if loan.Status == model.StatusReturned {
		return model.Loan{}, errs.ErrAlreadyReturned
	}
	loan.Status = model.StatusReturned
	loan.ReturnDate = &returnedAt
	if book, ok := r.books[loan.BookID]; ok && book.AvailableCopies < book.TotalCopies {
		book.AvailableCopies++
	}
	return *loan, nil
}

func (r *fakeRepo) ListLoans(_ context.Context, userID string, activeOnly bool) ([]model.UserLoan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserLoan
	for _, l := range r.loans {
		if l.UserID != userID {
			continue
		}
		if activeOnly && l.Status != model.StatusBorrowed {
			continue
		}
		out = append(out, model.UserLoan{Loan: *l})
	}
	return out, nil
}

func (r *fakeRepo) SaveLoanEvent(_ context.Context, event kafka.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeRepo) available(bookID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[bookID].AvailableCopies
}

func (r *fakeRepo) activeLoans(bookID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.loans {
		if l.BookID == bookID && l.Status == model.StatusBorrowed {
			n++
		}
	}
	return n
}

type fakeIdentity struct {
	unknown map[string]bool
}

func (f *fakeIdentity) UserExists(_ context.Context, userID string) error {
	if f.unknown[userID] {
		return errs.ErrUnauthorized
	}
	return nil
}

type fakeEnqueuer struct {
	mu     sync.Mutex
	events []kafka.LoanEvent
}

func (f *fakeEnqueuer) Enqueue(_ string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v.(kafka.LoanEvent))
	return nil
}

func (f *fakeEnqueuer) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

func testBook(copies int) model.Book {
	return model.Book{
		ID:              uuid.NewString(),
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Genre:           "Classic",
		Rating:          5,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
}

func newService(repo *fakeRepo, identity service.IdentityGateway, enq service.Enqueuer) *service.Service {
	return service.NewService(repo, identity, enq, zap.NewNop())
}

func TestService_BorrowBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("success decrements availability and publishes event", func(t *testing.T) {
		t.Parallel()
		book := testBook(3)
		repo := newFakeRepo(book)
		enq := &fakeEnqueuer{}
		svc := newService(repo, &fakeIdentity{}, enq)

		loan, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)
		require.Equal(t, book.ID, loan.BookID)
		require.Equal(t, userID, loan.UserID)
		require.Equal(t, model.StatusBorrowed, loan.Status)
		require.Equal(t, loan.BorrowDate.Add(14*24*time.Hour), loan.DueDate)
		require.Equal(t, 2, repo.available(book.ID))
		require.Equal(t, []string{"BORROWED"}, enq.actions())
	})

	t.Run("unknown book", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo(testBook(1))
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		_, err := svc.BorrowBook(ctx, uuid.NewString(), userID)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})

	t.Run("no copies available", func(t *testing.T) {
		t.Parallel()
		book := testBook(1)
		book.AvailableCopies = 0
		repo := newFakeRepo(book)
		enq := &fakeEnqueuer{}
		svc := newService(repo, &fakeIdentity{}, enq)

		_, err := svc.BorrowBook(ctx, book.ID, userID)
		require.ErrorIs(t, err, errs.ErrNotAvailable)
		require.Empty(t, enq.actions())
	})

	t.Run("second active loan for same book and user is rejected", func(t *testing.T) {
		t.Parallel()
		book := testBook(5)
		repo := newFakeRepo(book)
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		_, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)
		_, err = svc.BorrowBook(ctx, book.ID, userID)
		require.ErrorIs(t, err, errs.ErrDuplicateLoan)
		require.Equal(t, 4, repo.available(book.ID))
	})

	t.Run("unknown borrower", func(t *testing.T) {
		t.Parallel()
		book := testBook(1)
		repo := newFakeRepo(book)
		svc := newService(repo, &fakeIdentity{unknown: map[string]bool{userID: true}}, &fakeEnqueuer{})

		_, err := svc.BorrowBook(ctx, book.ID, userID)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
		require.Equal(t, 1, repo.available(book.ID))
	})

	t.Run("transient conflicts are retried", func(t *testing.T) {
		t.Parallel()
		book := testBook(1)
		repo := newFakeRepo(book)
		repo.conflicts = 2
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		loan, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)
		require.Equal(t, model.StatusBorrowed, loan.Status)
		require.Equal(t, 0, repo.available(book.ID))
	})

	t.Run("persistent conflict is surfaced after bounded retries", func(t *testing.T) {
		t.Parallel()
		book := testBook(1)
		repo := newFakeRepo(book)
		repo.conflicts = 100
		enq := &fakeEnqueuer{}
		svc := newService(repo, &fakeIdentity{}, enq)

		_, err := svc.BorrowBook(ctx, book.ID, userID)
		require.ErrorIs(t, err, errs.ErrConflict)
		require.Equal(t, 1, repo.available(book.ID))
		require.Empty(t, enq.actions())
	})
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("success restores availability and publishes event", func(t *testing.T) {
		t.Parallel()
		book := testBook(2)
		repo := newFakeRepo(book)
		enq := &fakeEnqueuer{}
		svc := newService(repo, &fakeIdentity{}, enq)

		loan, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)
		require.Equal(t, 1, repo.available(book.ID))

		returned, err := svc.ReturnBook(ctx, loan.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)
		require.Equal(t, 2, repo.available(book.ID))
		require.Equal(t, []string{"BORROWED", "RETURNED"}, enq.actions())
	})

	t.Run("second return of the same loan is rejected once", func(t *testing.T) {
		t.Parallel()
		book := testBook(2)
		repo := newFakeRepo(book)
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		loan, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)
		_, err = svc.ReturnBook(ctx, loan.ID)
		require.NoError(t, err)

		_, err = svc.ReturnBook(ctx, loan.ID)
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
		// availability must not be incremented twice
		require.Equal(t, 2, repo.available(book.ID))
	})

	t.Run("unknown loan", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepo(testBook(1))
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		_, err := svc.ReturnBook(ctx, uuid.NewString())
		require.ErrorIs(t, err, errs.ErrLoanNotFound)
	})

	t.Run("transient conflicts are retried", func(t *testing.T) {
		t.Parallel()
		book := testBook(1)
		repo := newFakeRepo(book)
		svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

		loan, err := svc.BorrowBook(ctx, book.ID, userID)
		require.NoError(t, err)

		repo.conflicts = 2
		returned, err := svc.ReturnBook(ctx, loan.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, returned.Status)
		require.Equal(t, 1, repo.available(book.ID))
	})
}

func TestService_ConcurrentBorrow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	book := testBook(1)
	repo := newFakeRepo(book)
	svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

	const borrowers = 8
	var wg sync.WaitGroup
	results := make([]error, borrowers)
	for i := 0; i < borrowers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.BorrowBook(ctx, book.ID, uuid.NewString())
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, errs.ErrNotAvailable)
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 0, repo.available(book.ID))
	require.Equal(t, 1, repo.activeLoans(book.ID))
}

func TestService_LedgerInvariants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	book := testBook(3)
	repo := newFakeRepo(book)
	svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

	users := make([]string, 5)
	for i := range users {
		users[i] = uuid.NewString()
	}

	check := func() {
		avail := repo.available(book.ID)
		require.GreaterOrEqual(t, avail, 0)
		require.LessOrEqual(t, avail, book.TotalCopies)
		require.Equal(t, book.TotalCopies-avail, repo.activeLoans(book.ID))
	}

	loans := make(map[string]string) // user -> loan id
	borrow := func(user string) {
		loan, err := svc.BorrowBook(ctx, book.ID, user)
		if err == nil {
			loans[user] = loan.ID
		} else {
			require.Truef(t,
				err == errs.ErrNotAvailable || err == errs.ErrDuplicateLoan,
				"unexpected borrow error: %v", err)
		}
		check()
	}
	giveBack := func(user string) {
		id, ok := loans[user]
		if !ok {
			return
		}
		_, err := svc.ReturnBook(ctx, id)
		require.NoError(t, err)
		delete(loans, user)
		check()
	}

	borrow(users[0])
	borrow(users[1])
	borrow(users[2])
	borrow(users[3]) // out of copies
	giveBack(users[1])
	borrow(users[3])
	borrow(users[0]) // duplicate, rejected
	giveBack(users[0])
	giveBack(users[2])
	giveBack(users[3])
	borrow(users[4])

	require.Equal(t, 2, repo.available(book.ID))
	require.Equal(t, 1, repo.activeLoans(book.ID))
}

func TestService_ListLoans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.NewString()

	book1 := testBook(1)
	book2 := testBook(1)
	repo := newFakeRepo(book1, book2)
	svc := newService(repo, &fakeIdentity{}, &fakeEnqueuer{})

	loan1, err := svc.BorrowBook(ctx, book1.ID, userID)
	require.NoError(t, err)
	_, err = svc.BorrowBook(ctx, book2.ID, userID)
	require.NoError(t, err)
	_, err = svc.ReturnBook(ctx, loan1.ID)
	require.NoError(t, err)

	active, err := svc.ListLoans(ctx, userID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, book2.ID, active[0].BookID)

	all, err := svc.ListLoans(ctx, userID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
