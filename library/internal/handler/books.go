package handler

import (
	"net/http"
	"strconv"

	md "github.com/adelbaev/lending-service/pkg/middleware"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	"github.com/adelbaev/lending-service/pkg/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GetBooks godoc
//
//	@Summary	list catalog books
//	@Tags		books
//	@Produce	json
//	@Param		title	query		string	false	"title substring filter"
//	@Param		genre	query		string	false	"genre filter"
//	@Param		sortBy	query		string	false	"title|author|genre|rating"
//	@Param		desc	query		bool	false	"descending sort"
//	@Param		page	query		int		false	"page"
//	@Param		size	query		int		false	"page size"
//	@Success	200		{object}	model.ListBooks
//	@Router		/api/v1/books [get]
func (h *Handler) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()

	query := model.ListBooksQuery{
		Title:  c.QueryParam("title"),
		Genre:  c.QueryParam("genre"),
		SortBy: c.QueryParam("sortBy"),
	}
	var err error
	if descParam := c.QueryParam("desc"); descParam != "" {
		if query.Desc, err = strconv.ParseBool(descParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "desc is invalid")
		}
	}
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if query.Page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if query.Size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}

	books, err := h.catalogSvc.ListBooks(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
//
//	@Summary	get one book
//	@Tags		books
//	@Produce	json
//	@Param		bookId	path		string	true	"book id"
//	@Success	200		{object}	model.Book
//	@Router		/api/v1/books/{bookId} [get]
func (h *Handler) GetBook(c echo.Context) error {
	bookID := c.Param("bookId")
	if _, err := uuid.Parse(bookID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "bookId is invalid")
	}
	book, err := h.catalogSvc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
//
//	@Summary	add a book to the catalog (admin only)
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		book	body		model.CreateBookRequest	true	"book"
//	@Success	201		{object}	model.Book
//	@Security	BearerAuth
//	@Router		/api/v1/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	if md.UserRole(c) != auth.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.catalogSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, book)
}
