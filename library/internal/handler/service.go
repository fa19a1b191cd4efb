package handler

import (
	"context"

	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	ListBooks(ctx context.Context, q model.ListBooksQuery) (model.ListBooks, error)
}

type LedgerService interface {
	BorrowBook(ctx context.Context, bookID, userID string) (model.Loan, error)
	ReturnBook(ctx context.Context, loanID string) (model.Loan, error)
	ListLoans(ctx context.Context, userID string, activeOnly bool) ([]model.UserLoan, error)
}

var (
	_ CatalogService = (*service.Service)(nil)
	_ LedgerService  = (*service.Service)(nil)
)
