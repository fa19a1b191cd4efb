package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/identity/internal/errs"
	"github.com/adelbaev/lending-service/identity/internal/handler"
	"github.com/adelbaev/lending-service/identity/internal/model"
	"github.com/adelbaev/lending-service/pkg/validate"

	service_mocks "github.com/adelbaev/lending-service/identity/internal/handler/mocks"
)

const testUserID = "7e4b2d6a-1b5f-4a8e-9c3d-2f6a8b4c1d0e"

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockIdentityService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"email":"reader@example.com","fullName":"Avid Reader","password":"correct horse"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					Register(context.Background(), model.RegisterRequest{
						Email:    "reader@example.com",
						FullName: "Avid Reader",
						Password: "correct horse",
					}).
					Return(model.UserInfo{
						ID:       testUserID,
						Email:    "reader@example.com",
						FullName: "Avid Reader",
						Role:     "USER",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: fmt.Sprintf(`{"id":%q,"email":"reader@example.com","fullName":"Avid Reader","role":"USER"}`, testUserID),
			},
		},
		{
			name: "err. email taken",
			body: `{"email":"reader@example.com","fullName":"Impostor","password":"whatever12"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					Register(context.Background(), gomock.Any()).
					Return(model.UserInfo{}, errs.ErrEmailTaken)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"email is already registered"}`,
			},
		},
		{
			name:         "err. short password",
			body:         `{"email":"reader@example.com","fullName":"Avid Reader","password":"short"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name:         "err. not an email",
			body:         `{"email":"not-an-email","fullName":"Avid Reader","password":"correct horse"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockIdentityService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/register", h.Register)

			r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_Authorize(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockIdentityService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"email":"reader@example.com","password":"correct horse"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					Authorize(context.Background(), model.AuthorizeRequest{
						Email:    "reader@example.com",
						Password: "correct horse",
					}).
					Return(model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"accessToken":"access","refreshToken":"refresh"}`,
			},
		},
		{
			name: "err. bad credentials",
			body: `{"email":"reader@example.com","password":"wrong horse"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					Authorize(context.Background(), gomock.Any()).
					Return(model.TokenPair{}, errs.ErrInvalidCredentials)
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"invalid email or password"}`,
			},
		},
		{
			name:         "err. missing password",
			body:         `{"email":"reader@example.com"}`,
			mockBehavior: func(r *service_mocks.MockIdentityService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockIdentityService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/authorize", h.Authorize)

			r := httptest.NewRequest(http.MethodPost, "/authorize", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_GetUser(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockIdentityService)

	var tests = []struct {
		name         string
		userID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			userID: testUserID,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					GetUser(context.Background(), testUserID).
					Return(model.UserInfo{
						ID:       testUserID,
						Email:    "reader@example.com",
						FullName: "Avid Reader",
						Role:     "USER",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: fmt.Sprintf(`{"id":%q,"email":"reader@example.com","fullName":"Avid Reader","role":"USER"}`, testUserID),
			},
		},
		{
			name:   "err. unknown user",
			userID: testUserID,
			mockBehavior: func(r *service_mocks.MockIdentityService) {
				r.EXPECT().
					GetUser(context.Background(), testUserID).
					Return(model.UserInfo{}, errs.ErrUserNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"user not found"}`,
			},
		},
		{
			name:         "err. userId is not a uuid",
			userID:       "42",
			mockBehavior: func(r *service_mocks.MockIdentityService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"userId is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockIdentityService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/users/:userId", h.GetUser)

			r := httptest.NewRequest(http.MethodGet, "/users/"+tt.userID, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Refresh(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockIdentityService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/refresh", h.Refresh)

	svc.EXPECT().
		Refresh(context.Background(), model.RefreshRequest{RefreshToken: "stale"}).
		Return(model.TokenPair{}, errs.ErrInvalidRefresh)

	r := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refreshToken":"stale"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, `{"message":"refresh token is invalid or expired"}`, strings.Trim(w.Body.String(), "\n"))
}
