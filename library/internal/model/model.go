package model

import (
	"time"
)

type Book struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	Genre           string    `json:"genre" db:"genre"`
	Rating          int       `json:"rating" db:"rating"`
	CoverURL        string    `json:"coverUrl" db:"cover_url"`
	CoverColor      string    `json:"coverColor" db:"cover_color"`
	Description     string    `json:"description" db:"description"`
	TotalCopies     int       `json:"totalCopies" db:"total_copies"`
	AvailableCopies int       `json:"availableCopies" db:"available_copies"`
	VideoURL        string    `json:"videoUrl" db:"video_url"`
	Summary         string    `json:"summary" db:"summary"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
}

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Genre       string `json:"genre" validate:"required"`
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	CoverURL    string `json:"coverUrl" validate:"required,url"`
	CoverColor  string `json:"coverColor" validate:"required,max=7"`
	Description string `json:"description" validate:"required"`
	TotalCopies int    `json:"totalCopies" validate:"min=1,max=1000"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
	Summary     string `json:"summary"`
}

type ListBooksQuery struct {
	Title  string
	Genre  string
	SortBy string
	Desc   bool
	Page   int
	Size   int
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging
	Items []Book `json:"items"`
}

type LoanStatus string

const (
	StatusBorrowed LoanStatus = "BORROWED"
	StatusReturned LoanStatus = "RETURNED"
	// StatusOverdue is derived at read time, never stored.
	StatusOverdue LoanStatus = "OVERDUE"
)

type Loan struct {
	ID         string     `json:"id" db:"id"`
	BookID     string     `json:"bookId" db:"book_id"`
	UserID     string     `json:"userId" db:"user_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Status     LoanStatus `json:"status" db:"status"`
}

// UserLoan is the loan list projection, joined with book metadata.
type UserLoan struct {
	Loan
	BookTitle  string `json:"bookTitle" db:"book_title"`
	BookAuthor string `json:"bookAuthor" db:"book_author"`
}

type BorrowBookRequest struct {
	BookID string `json:"bookId" validate:"required,uuid4"`
}
