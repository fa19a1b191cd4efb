package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
)

var bookColumns = []string{
	"id", "title", "author", "genre", "rating", "cover_url", "cover_color",
	"description", "total_copies", "available_copies", "video_url", "summary", "created_at",
}

// sortColumns whitelists what ListBooks may order by.
var sortColumns = map[string]string{
	"title":  "title",
	"author": "author",
	"genre":  "genre",
	"rating": "rating",
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "rating", "cover_url", "cover_color",
			"description", "total_copies", "available_copies", "video_url", "summary").
		Values(req.Title, req.Author, req.Genre, req.Rating, req.CoverURL, req.CoverColor,
			req.Description, req.TotalCopies, req.TotalCopies, req.VideoURL, req.Summary).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, query model.ListBooksQuery) (model.ListBooks, error) {
	q := qb.Select(bookColumns...).From(booksTableName)

	if query.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + query.Title + "%"})
	}
	if query.Genre != "" {
		q = q.Where(sq.Eq{"genre": query.Genre})
	}

	order := "created_at desc"
	if col, ok := sortColumns[query.SortBy]; ok {
		order = col + " asc"
		if query.Desc {
			order = col + " desc"
		}
	}
	q = q.OrderBy(order)

	if query.Page != 0 && query.Size != 0 {
		q = q.Limit(uint64(query.Size)).Offset(uint64((query.Page - 1) * query.Size))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", sqlStr), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, sqlStr, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          query.Page,
			PageSize:      query.Size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}
