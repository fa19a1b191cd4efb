package handler

import (
	"net/http"

	md "github.com/adelbaev/lending-service/pkg/middleware"

	"github.com/adelbaev/lending-service/pkg/validate"
	_ "github.com/adelbaev/lending-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Service interface {
	CatalogService
	LedgerService
}

type Handler struct {
	catalogSvc CatalogService
	ledgerSvc  LedgerService
	log        *zap.Logger
}

func New(svc Service, log *zap.Logger) *Handler {
	h := &Handler{
		catalogSvc: svc,
		ledgerSvc:  svc,
		log:        log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.GetBooks)
	api.GET("/books/:bookId", h.GetBook)

	authed := api.Group("", md.JwtAuthentication)
	authed.POST("/books", h.CreateBook)

	authed.POST("/loans", h.BorrowBook)
	authed.POST("/loans/:loanId/return", h.ReturnBook)
	authed.GET("/loans", h.GetLoans)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
