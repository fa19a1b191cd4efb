package handler

import (
	"context"
	"net/http"

	md "github.com/adelbaev/lending-service/pkg/middleware"

	"github.com/adelbaev/lending-service/identity/internal/model"
	"github.com/adelbaev/lending-service/identity/internal/service"
	"github.com/adelbaev/lending-service/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=handler.go -destination=mocks/mock.go

type IdentityService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.UserInfo, error)
	Authorize(ctx context.Context, req model.AuthorizeRequest) (model.TokenPair, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (model.TokenPair, error)
	GetUser(ctx context.Context, userID string) (model.UserInfo, error)
}

var _ IdentityService = (*service.Service)(nil)

type Handler struct {
	svc IdentityService
	log *zap.Logger
}

func New(svc IdentityService, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
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
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/authorize", h.Authorize)
	api.POST("/refresh", h.Refresh)
	api.GET("/users/:userId", h.GetUser)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
