package handler

import (
	"net/http"
	"strconv"

	md "github.com/adelbaev/lending-service/pkg/middleware"

	"github.com/adelbaev/lending-service/library/internal/errs"
	"github.com/adelbaev/lending-service/library/internal/model"
	cb "github.com/adelbaev/lending-service/pkg/circuit_breaker"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BorrowBook godoc
//
//	@Summary	borrow one copy of a book
//	@Tags		loans
//	@Accept		json
//	@Produce	json
//	@Param		loan	body		model.BorrowBookRequest	true	"loan"
//	@Success	200		{object}	model.Loan
//	@Security	BearerAuth
//	@Router		/api/v1/loans [post]
func (h *Handler) BorrowBook(c echo.Context) error {
	userID, err := md.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	var req model.BorrowBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.ledgerSvc.BorrowBook(c.Request().Context(), req.BookID, userID)
	if err != nil {
		return loanError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

// ReturnBook godoc
//
//	@Summary	return a borrowed book
//	@Tags		loans
//	@Produce	json
//	@Param		loanId	path		string	true	"loan id"
//	@Success	200		{object}	model.Loan
//	@Security	BearerAuth
//	@Router		/api/v1/loans/{loanId}/return [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	if _, err := md.UserID(c); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loanID := c.Param("loanId")
	if _, err := uuid.Parse(loanID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "loanId is invalid")
	}

	loan, err := h.ledgerSvc.ReturnBook(c.Request().Context(), loanID)
	if err != nil {
		return loanError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

// GetLoans godoc
//
//	@Summary	list loans of the authenticated user, newest first
//	@Tags		loans
//	@Produce	json
//	@Param		active	query		bool	false	"active loans only (default true)"
//	@Success	200		{array}		model.UserLoan
//	@Security	BearerAuth
//	@Router		/api/v1/loans [get]
func (h *Handler) GetLoans(c echo.Context) error {
	userID, err := md.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	activeOnly := true
	if activeParam := c.QueryParam("active"); activeParam != "" {
		if activeOnly, err = strconv.ParseBool(activeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active is invalid")
		}
	}

	loans, err := h.ledgerSvc.ListLoans(c.Request().Context(), userID, activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if loans == nil {
		loans = []model.UserLoan{}
	}
	return c.JSON(http.StatusOK, loans)
}

// loanError maps ledger errors onto stable HTTP statuses.
func loanError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrBookNotFound), errors.Is(err, errs.ErrLoanNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrNotAvailable), errors.Is(err, errs.ErrAlreadyReturned):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrDuplicateLoan):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrConflict), errors.Is(err, cb.ErrOpenCB):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
